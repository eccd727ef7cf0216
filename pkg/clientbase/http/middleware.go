package cbhttp

import (
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// RunnerFunc executes a request. The innermost runner performs the exchange.
type RunnerFunc func(r *Request) (*Response, *lhttp.HttpError)

// MiddlewareFunc wraps a runner, typically to add headers, limits, spans or log lines.
type MiddlewareFunc func(next RunnerFunc) RunnerFunc

func (c *Instance) composeMiddleware(funcs []MiddlewareFunc, runner RunnerFunc) RunnerFunc {
	if runner == nil {
		runner = c.do
	}

	if len(funcs) == 0 {
		return runner
	}
	if funcs[0] == nil {
		return c.composeMiddleware(funcs[1:], runner)
	}
	return funcs[0](c.composeMiddleware(funcs[1:], runner))
}

// With returns an Instance sharing the same http.Client whose requests go through the given
// middlewares first, then through the middlewares already installed on c.
func (c *Instance) With(newMiddlewares ...MiddlewareFunc) *Instance {
	return &Instance{
		Client:    c.Client,
		runner:    c.composeMiddleware(newMiddlewares, c.runner),
		doNoRetry: c.doNoRetry,
	}
}
