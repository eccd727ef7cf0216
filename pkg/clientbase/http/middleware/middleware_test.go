package cbhttpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.Error(w, `{"error_code": "RESOURCE_DOES_NOT_EXIST"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newInstance(t *testing.T) *cbhttp.Instance {
	instance, err := cbhttp.NewInstance(&cbhttp.Config{Timeout: 5 * time.Second})
	require.NoError(t, err)
	return instance
}

func attributeValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing(t *testing.T) {
	server := newServer(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	instance := newInstance(t)

	herr := instance.DoNoResponse(
		cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/ok"),
		Tracing(provider.Tracer("test"), "experiments/get"))
	require.Nil(t, herr)

	herr = instance.DoNoResponse(
		cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/missing"),
		Tracing(provider.Tracer("test"), "experiments/get-by-name"))
	require.NotNil(t, herr)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "experiments/get", ok.Name())
	assert.Equal(t, trace.SpanKindClient, ok.SpanKind())
	status, found := attributeValue(ok.Attributes(), "http.status_code")
	require.True(t, found)
	assert.Equal(t, int64(200), status.AsInt64())
	method, _ := attributeValue(ok.Attributes(), "http.method")
	assert.Equal(t, http.MethodGet, method.AsString())
	assert.Equal(t, codes.Unset, ok.Status().Code)

	missing := spans[1]
	assert.Equal(t, "experiments/get-by-name", missing.Name())
	status, _ = attributeValue(missing.Attributes(), "http.status_code")
	assert.Equal(t, int64(404), status.AsInt64())
	assert.Equal(t, codes.Error, missing.Status().Code)
}

func TestTracingTransportError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	instance := newInstance(t)

	herr := instance.DoNoResponse(
		cbhttp.NewRequest(context.Background(), http.MethodGet, "http://127.0.0.1:1/unreachable"),
		Tracing(provider.Tracer("test"), "runs/create"))
	require.True(t, herr.IsTransport())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	_, found := attributeValue(spans[0].Attributes(), "http.status_code")
	assert.False(t, found)
	assert.NotEmpty(t, spans[0].Events())
}

func TestLogging(t *testing.T) {
	server := newServer(t)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	instance := newInstance(t).With(Logging(logger))

	require.Nil(t, instance.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodPost, server.URL+"/ok")))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, http.MethodPost, entry.Data["method"])

	require.NotNil(t, instance.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/missing")))
	entry = hook.LastEntry()
	assert.Equal(t, "request returned an error status", entry.Message)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])

	require.NotNil(t, instance.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodGet, "http://127.0.0.1:1")))
	entry = hook.LastEntry()
	assert.Equal(t, "request failed", entry.Message)
	assert.NotNil(t, entry.Data[log.ErrorKey])
	assert.Len(t, hook.AllEntries(), 3)
}
