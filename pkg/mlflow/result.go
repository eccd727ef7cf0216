package mlflow

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	cbhttpmiddleware "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http/middleware"
)

// roundTrip sends the request and returns the body of a 200 response. Anything else is a
// TransportError or an HTTPError.
func (c *Client) roundTrip(op string, req *cbhttp.Request) ([]byte, error) {
	resp, herr := c.http.Do(req, cbhttpmiddleware.Tracing(c.tracer, op))
	if herr != nil {
		if herr.IsTransport() {
			log.Debugf("%s: failed to reach %s: %s", op, req.URI, herr.Err)
			return nil, &TransportError{Op: op, Err: herr.Err}
		}
		log.Debugf("%s: server returned %d", op, herr.Code)
		return nil, &HTTPError{Op: op, StatusCode: herr.Code, Body: herr.Message}
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		log.Debugf("%s: failed to read body: %s", op, err)
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		log.Debugf("%s: server returned %d", op, resp.StatusCode)
		return nil, &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// expectKey returns the raw value under key in a JSON object body. A null value counts as
// missing.
func expectKey(op, key string, body []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		log.Debugf("%s: failed to unmarshal body: %s", op, err)
		return nil, &BodyError{Op: op, Key: key, Body: string(body), Err: err}
	}
	value, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		log.Debugf("%s: body has no %q", op, key)
		return nil, &BodyError{Op: op, Key: key, Body: string(body), Err: &MissingFieldError{Key: key}}
	}
	return value, nil
}

// decodeKey extracts key from body and decodes it. Decode failures are reported as a BodyError
// wrapping the codec error.
func decodeKey[T any](op, key string, body []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	value, err := expectKey(op, key, body)
	if err != nil {
		return zero, err
	}
	decoded, err := decode(value)
	if err != nil {
		log.Debugf("%s: failed to decode %q: %s", op, key, err)
		return zero, &BodyError{Op: op, Key: key, Body: string(body), Err: err}
	}
	return decoded, nil
}

func decodeString(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
