package cbhttp

import (
	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// retryTransportFailures resends requests that got no response at all. A request that reached
// the server, whatever its status, is never sent twice: tracking calls such as runs/create are
// not idempotent.
func retryTransportFailures(cfg *Config) MiddlewareFunc {
	return func(next RunnerFunc) RunnerFunc {
		return func(r *Request) (*Response, *lhttp.HttpError) {
			r.retryOptions = append(r.retryOptions,
				retry.Attempts(cfg.RetryAttempts),
				retry.Delay(cfg.RetryDelay),
				retry.DelayType(retry.FixedDelay),
				retry.RetryIf(func(err error) bool {
					herr, ok := err.(*lhttp.HttpError)
					return ok && herr.IsTransport()
				}),
				retry.OnRetry(func(n uint, err error) {
					log.WithField("attempt", n+1).Warnf("%s %s failed, retrying: %s", r.Method, r.URI, err)
				}),
			)
			return next(r)
		}
	}
}
