package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/MLFlowClient/internal/config"
	"github.infra.cloudera.com/CAI/MLFlowClient/internal/example"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/app"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/mlflow"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/mlflow/mlflowtest"
	ltest "github.infra.cloudera.com/CAI/MLFlowClient/pkg/test"
)

type dependencies struct {
	cfg         *config.Config
	mlflowCfg   *mlflow.Config
	app         *app.Instance
	connections *clientbase.Connections
	runner      *example.Runner
}

func newDependencies(app *app.Instance, cfg *config.Config, mlflowCfg *mlflow.Config,
	connections *clientbase.Connections, runner *example.Runner) *dependencies {
	return &dependencies{
		cfg:         cfg,
		mlflowCfg:   mlflowCfg,
		app:         app,
		connections: connections,
		runner:      runner,
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetReportCaller(true)
	deps, err := InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	level, err := log.ParseLevel(deps.cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level %s: %v", deps.cfg.LogLevel, err)
	}
	log.SetLevel(level)

	if err := run(deps); err != nil {
		log.Fatalf("example failed: %v", err)
	}
}

func run(deps *dependencies) error {
	if deps.cfg.FakeServer {
		mainT := ltest.NewMainT()
		defer mainT.RunCleanup()
		server := mlflowtest.NewServer(mainT)
		server.AddExperiment(deps.cfg.ExperimentName)
		deps.mlflowCfg.TrackingURI = server.URL
		log.Infof("using in-memory tracking server at %s", server.URL)
	}

	// Registered first so it is closed after every client
	deps.app.AddCloser(deps.connections)

	return deps.app.Run(func(ctx context.Context) error {
		runIds, err := deps.runner.Run(ctx)
		if err != nil {
			return err
		}
		for _, runId := range runIds {
			log.Infof("tracked run %s", runId)
		}
		return nil
	})
}
