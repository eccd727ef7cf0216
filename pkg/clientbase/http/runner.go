package cbhttp

import (
	"io"
	"net/http"

	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

func httpDoNoRetry(client *http.Client, r *Request) (*Response, *lhttp.HttpError) {
	var request *http.Request
	var err error
	if r.Context != nil {
		request, err = http.NewRequestWithContext(r.Context, r.Method, r.URI, r.Body)
	} else {
		request, err = http.NewRequest(r.Method, r.URI, r.Body)
	}
	if err != nil {
		return nil, &lhttp.HttpError{Err: err}
	}

	// Add headers
	if r.Header != nil {
		request.Header = r.Header.Clone()
	}

	// Add query elements
	if r.Query != nil {
		request.URL.RawQuery = lhttp.EncodeQuery(r.Query)
	}

	if r.ContentLength != 0 {
		request.ContentLength = r.ContentLength
	}

	// Make the request
	resp, err := client.Do(request)
	if err != nil {
		return nil, &lhttp.HttpError{Err: err}
	}

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		defer resp.Body.Close()
		responseBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &lhttp.HttpError{Err: err}
		}
		return nil, &lhttp.HttpError{Code: resp.StatusCode, Message: string(responseBody)}
	}

	response := &Response{*resp}
	return response, nil
}
