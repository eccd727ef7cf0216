package cbhttp

import (
	"bytes"
	"encoding/json"
	"io"

	lgzip "github.infra.cloudera.com/CAI/MLFlowClient/pkg/gzip"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// BodyObj encodes obj as the JSON request body.
func BodyObj(obj interface{}) RequestOption {
	return func(r *Request) *Request {
		content, err := json.Marshal(obj)
		if err != nil {
			r.HErr = &lhttp.HttpError{Err: err}
			return r
		}
		return r.Options(
			Body(bytes.NewReader(content)),
			ContentLength(int64(len(content))),
			SetHeader("Content-Type", "application/json"),
		)
	}
}

func Body(reader io.Reader) RequestOption {
	if readcloser, ok := reader.(io.ReadCloser); ok {
		return func(r *Request) *Request {
			r.Body = readcloser
			return r
		}
	} else {
		return func(r *Request) *Request {
			r.Body = io.NopCloser(reader)
			return r
		}
	}
}

// GzipBody compresses whatever body is already set on the request. The compressed length is
// not known up front so the request is sent chunked.
func GzipBody() RequestOption {
	return func(r *Request) *Request {
		if r.Body == nil {
			return r
		}
		return r.Options(Body(lgzip.NewCompressReader(r.Body)), ContentLength(-1), SetHeader("Content-Encoding", "gzip"))
	}
}
