package cbhttp

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

type Instance struct {
	Client    *http.Client
	runner    RunnerFunc
	doNoRetry RunnerFunc
}

func NewInstance(cfg *Config) (*Instance, error) {
	var checkRedirect func(req *http.Request, via []*http.Request) error

	if cfg.AvoidRedirects {
		checkRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyHost != "" {
		transport.Proxy = http.ProxyURL(ProxyURL(cfg.ProxyHost, cfg.ProxyPort))
	}

	client := &http.Client{
		Timeout:       cfg.Timeout,
		CheckRedirect: checkRedirect,
		Transport:     transport,
	}

	instance := &Instance{
		Client: client,
		doNoRetry: func(r *Request) (*Response, *lhttp.HttpError) {
			return httpDoNoRetry(client, r)
		},
	}
	if cfg.RetryAttempts > 1 {
		instance.runner = instance.composeMiddleware([]MiddlewareFunc{retryTransportFailures(cfg)}, nil)
	}
	return instance, nil
}

// ProxyURL builds the http proxy address for host and port.
func ProxyURL(host string, port int) *url.URL {
	return &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
}
