// Package example replays a typical tracking session: look up an experiment, start a run,
// log a param, a tag and a batch, then finish the run.
package example

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/MLFlowClient/internal/config"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/app"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/mlflow"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	cfg       *config.Config
	batch     *config.Batch
	newClient mlflow.ClientFactory
	app       *app.Instance
}

func NewRunner(cfg *config.Config, batch *config.Batch, newClient mlflow.ClientFactory, app *app.Instance) *Runner {
	return &Runner{
		cfg:       cfg,
		batch:     batch,
		newClient: newClient,
		app:       app,
	}
}

// Run tracks cfg.Runs sessions concurrently, one client each. Clients are registered with the
// app instance so runs left open are finished on shutdown.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	runs := r.cfg.Runs
	if runs < 1 {
		runs = 1
	}

	runIds := make([]string, runs)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < runs; i++ {
		client := r.newClient()
		r.app.AddCloser(client)
		index := i
		g.Go(func() error {
			runId, err := r.track(ctx, client, index)
			runIds[index] = runId
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runIds, nil
}

func (r *Runner) track(ctx context.Context, client *mlflow.Client, index int) (string, error) {
	experiment, err := client.GetExperimentByName(ctx, r.cfg.ExperimentName)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get experiment %s", r.cfg.ExperimentName)
	}

	run, err := client.StartRun(ctx, mlflow.StartRunOptions{
		ExperimentId: experiment.ExperimentId,
		RunName:      fmt.Sprintf("example-%d", index),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to start run")
	}
	runId := run.Info.RunId
	log.Infof("started run %s in experiment %s", runId, experiment.ExperimentId)

	if err := r.log(ctx, client.Active()); err != nil {
		r.fail(client, runId)
		return runId, errors.Wrapf(err, "failed to log to run %s", runId)
	}

	if _, err := client.EndRun(ctx); err != nil {
		return runId, errors.Wrapf(err, "failed to finish run %s", runId)
	}
	log.Infof("finished run %s", runId)
	return runId, nil
}

func (r *Runner) log(ctx context.Context, active *mlflow.ActiveRun) error {
	if err := active.LogParam(ctx, mlflow.Param{Key: "KEY", Value: "KEY_VALUE"}); err != nil {
		return err
	}
	if err := active.SetTag(ctx, mlflow.RunTag{Key: "TAG", Value: "TAG_VALUE"}); err != nil {
		return err
	}
	if err := active.SetUserName(ctx, ""); err != nil {
		return err
	}
	if err := active.SetSourceName(ctx, ""); err != nil {
		return err
	}

	var metrics []mlflow.Metric
	for _, key := range config.SortedKeys(r.batch.Metrics) {
		metrics = append(metrics, mlflow.NewMetric(key, mlflow.FormatMetricValue(r.batch.Metrics[key]), 0))
	}
	var params []mlflow.Param
	for _, key := range config.SortedKeys(r.batch.Params) {
		params = append(params, mlflow.Param{Key: key, Value: r.batch.Params[key]})
	}
	var tags []mlflow.RunTag
	for _, key := range config.SortedKeys(r.batch.Tags) {
		tags = append(tags, mlflow.RunTag{Key: key, Value: r.batch.Tags[key]})
	}
	return active.LogBatch(ctx, metrics, params, tags)
}

// fail marks the run FAILED so the close hook does not report it as FINISHED.
func (r *Runner) fail(client *mlflow.Client, runId string) {
	ctx, cancel := app.BackgroundTimeoutContext()
	defer cancel()
	if _, err := client.Active().UpdateRun(ctx, mlflow.RunStatusFailed); err != nil {
		log.Warnf("failed to mark run %s as failed: %s", runId, err)
	}
}
