package interceptors_inflight

import (
	"context"

	"github.com/pkg/errors"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	lconfig "github.infra.cloudera.com/CAI/MLFlowClient/pkg/config"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
	"golang.org/x/sync/semaphore"
)

var ErrTooManyInFlight = errors.New("too many requests in flight")

type Config struct {
	// Zero size means disabled and let everything through
	Size     uint64 `env:"CLIENT_MAX_IN_FLIGHT" envDefault:"0"`
	Blocking bool   `env:"CLIENT_MAX_IN_FLIGHT_BLOCKING" envDefault:"true"`
}

func NewConfigFromEnv() (Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Interceptor caps the number of requests in flight across every client sharing it.
type Interceptor struct {
	cfg Config
	sem *semaphore.Weighted
}

func NewInterceptor(cfg Config) *Interceptor {
	return &Interceptor{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.Size)),
	}
}

type checkResult struct {
	allowed bool
	err     error
	done    func()
}

func (interceptor *Interceptor) check(ctx context.Context) checkResult {
	result := checkResult{
		done: func() {},
	}
	if interceptor.cfg.Size > 0 {
		if !interceptor.cfg.Blocking {
			if !interceptor.sem.TryAcquire(1) {
				return result
			}
		} else {
			if err := interceptor.sem.Acquire(ctx, 1); err != nil {
				result.err = err
				return result
			}
		}
		result.done = func() {
			interceptor.sem.Release(1)
		}
	}
	result.allowed = true
	return result
}

// ToClient returns a middleware that holds a slot until the response headers are received.
// Blocking waits are bounded by the request context. Rejections are reported as transport
// failures since no request was sent.
func (interceptor *Interceptor) ToClient() cbhttp.MiddlewareFunc {
	return func(next cbhttp.RunnerFunc) cbhttp.RunnerFunc {
		return func(r *cbhttp.Request) (*cbhttp.Response, *lhttp.HttpError) {
			ctx := r.Context
			if ctx == nil {
				ctx = context.Background()
			}
			result := interceptor.check(ctx)
			defer result.done()
			if result.err != nil {
				return nil, &lhttp.HttpError{Err: errors.Wrap(result.err, "failed to wait for an in-flight slot")}
			}
			if !result.allowed {
				return nil, &lhttp.HttpError{Err: ErrTooManyInFlight}
			}
			return next(r)
		}
	}
}
