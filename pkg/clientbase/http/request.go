package cbhttp

import (
	"context"
	"io"
	"net/http"
	"net/url"

	retry "github.com/avast/retry-go"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// Request describes one call before it is turned into an http.Request. Options that fail
// record the failure in HErr and Do returns it without sending anything.
type Request struct {
	Method        string
	URI           string
	Header        http.Header
	Query         url.Values
	Body          io.ReadCloser
	ContentLength int64
	HErr          *lhttp.HttpError
	Context       context.Context
	retryOptions  []retry.Option
}

// RequestOption mutates a Request and returns it.
type RequestOption func(*Request) *Request

func NewRequest(ctx context.Context, method, uri string, options ...RequestOption) *Request {
	r := &Request{
		Method:  method,
		URI:     uri,
		Context: ctx,
	}

	return r.Options(options...)
}

func (r *Request) Options(options ...RequestOption) *Request {
	return ComposeOptions(options...)(r)
}

func ComposeOptions(options ...RequestOption) RequestOption {
	return func(r *Request) *Request {
		for _, opt := range options {
			r = opt(r)
		}
		return r
	}
}
