package clientbase

import (
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
	interceptors_inflight "github.infra.cloudera.com/CAI/MLFlowClient/pkg/interceptors/in-flight"
)

type Connections struct {
	Cfg        *Config
	HttpClient *cbhttp.Instance
}

func NewConnections(cfg *Config, httpClient *cbhttp.Instance) (*Connections, error) {
	c := &Connections{
		Cfg: cfg,
	}

	c.HttpClient = httpClient
	if cfg.InFlight.Size > 0 {
		c.HttpClient = c.HttpClient.With(interceptors_inflight.NewInterceptor(cfg.InFlight).ToClient())
	}
	if cfg.UserAgent != "" {
		c.HttpClient = c.HttpClient.With(userAgent(cfg.UserAgent))
	}

	return c, nil
}

func userAgent(agent string) cbhttp.MiddlewareFunc {
	return func(next cbhttp.RunnerFunc) cbhttp.RunnerFunc {
		return func(r *cbhttp.Request) (*cbhttp.Response, *lhttp.HttpError) {
			if r.Header.Get("User-Agent") == "" {
				r = r.Options(cbhttp.SetHeader("User-Agent", agent))
			}
			return next(r)
		}
	}
}

func (c *Connections) Close() error {
	if c.HttpClient == nil {
		return nil
	}
	return c.HttpClient.Close()
}
