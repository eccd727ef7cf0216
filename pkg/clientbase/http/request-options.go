package cbhttp

import (
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// SetHeader replaces any values of key on the request.
func SetHeader(key, value string) RequestOption {
	return func(r *Request) *Request {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
		return r
	}
}

// Header replaces the request headers with a copy of h.
func Header(h http.Header) RequestOption {
	return func(r *Request) *Request {
		if h != nil {
			r.Header = h.Clone()
		}
		return r
	}
}

// ContentLength sets the declared body length, -1 for chunked.
func ContentLength(length int64) RequestOption {
	return func(r *Request) *Request {
		r.ContentLength = length
		return r
	}
}

var schemaEncoder = schema.NewEncoder()

func init() {
	schemaEncoder.SetAliasTag("json")
}

// QueryObj encodes the exported fields of obj as query parameters, named after their json tags.
func QueryObj(obj interface{}) RequestOption {
	return func(r *Request) *Request {
		query := url.Values{}
		if err := schemaEncoder.Encode(obj, query); err != nil {
			r.HErr = &lhttp.HttpError{Err: errors.Wrap(err, "encoding query")}
		} else {
			r.Query = query
		}
		return r
	}
}

// Query sets the query parameters verbatim.
func Query(values url.Values) RequestOption {
	return func(r *Request) *Request {
		r.Query = values
		return r
	}
}
