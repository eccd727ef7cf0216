//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.infra.cloudera.com/CAI/MLFlowClient/internal/config"
	"github.infra.cloudera.com/CAI/MLFlowClient/internal/example"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/app"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/mlflow"
)

// wire up the dependencies.
func InitializeDependencies() (*dependencies, error) {
	wire.Build(config.NewConfigFromEnv, config.NewBatchFromConfig, app.NewInstance,
		clientbase.WireSet,
		mlflow.WireSet,
		example.NewRunner,
		newDependencies)
	return &dependencies{}, nil
}
