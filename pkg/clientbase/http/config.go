package cbhttp

import (
	"time"

	lconfig "github.infra.cloudera.com/CAI/MLFlowClient/pkg/config"
)

type Config struct {
	Timeout        time.Duration `env:"CLIENT_HTTP_TIMEOUT" envDefault:"30s"`
	AvoidRedirects bool          `env:"CLIENT_HTTP_AVOID_REDIRECTS"`
	ProxyHost      string        `env:"CLIENT_HTTP_PROXY_HOST"`
	ProxyPort      int           `env:"CLIENT_HTTP_PROXY_PORT" envDefault:"3128"`
	// RetryAttempts is the total number of attempts for requests that fail before any response
	// is received. Values below 2 disable retries.
	RetryAttempts uint          `env:"CLIENT_HTTP_RETRY_ATTEMPTS" envDefault:"0"`
	RetryDelay    time.Duration `env:"CLIENT_HTTP_RETRY_DELAY" envDefault:"200ms"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
