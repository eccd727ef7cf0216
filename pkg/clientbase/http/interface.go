package cbhttp

import lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"

// Client sends a request through optional per-call middlewares. Non-2xx statuses come back as
// an HttpError with Code set, failures before any response with Err set.
type Client interface {
	Do(r *Request, m ...MiddlewareFunc) (*Response, *lhttp.HttpError)
}

var _ Client = &Instance{}
