package clientbase

import (
	lconfig "github.infra.cloudera.com/CAI/MLFlowClient/pkg/config"
	interceptors_inflight "github.infra.cloudera.com/CAI/MLFlowClient/pkg/interceptors/in-flight"
)

type Config struct {
	UserAgent string `env:"CLIENT_USER_AGENT" envDefault:"mlflow-go-client"`
	InFlight  interceptors_inflight.Config
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
