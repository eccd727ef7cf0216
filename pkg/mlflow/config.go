package mlflow

import (
	lconfig "github.infra.cloudera.com/CAI/MLFlowClient/pkg/config"
)

type Config struct {
	TrackingURI      string `env:"MLFLOW_TRACKING_URI" envDefault:"http://localhost:5000"`
	ExperimentId     string `env:"MLFLOW_EXPERIMENT_ID" envDefault:"0"`
	EndRunOnClose    bool   `env:"MLFLOW_END_RUN_ON_CLOSE" envDefault:"true"`
	CompressRequests bool   `env:"MLFLOW_COMPRESS_REQUESTS" envDefault:"false"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
