package cbhttp

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
	lhttptest "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http/test"
	_ "github.infra.cloudera.com/CAI/MLFlowClient/pkg/test/gomega"
	"pgregory.net/rapid"
)

type recorded struct {
	mu      sync.Mutex
	header  http.Header
	query   string
	body    []byte
	calls   int32
	lastLen int64
}

func (rec *recorded) handler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&rec.calls, 1)
	body := r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body = zr
	}
	content, _ := io.ReadAll(body)

	rec.mu.Lock()
	rec.header = r.Header.Clone()
	rec.query = r.URL.RawQuery
	rec.body = content
	rec.lastLen = r.ContentLength
	rec.mu.Unlock()

	if code := r.URL.Query().Get("code"); code != "" {
		status, _ := strconv.Atoi(code)
		w.WriteHeader(status)
		_, _ = w.Write([]byte("status " + code))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok": true}`))
}

func newTestInstance(cfg *Config) *Instance {
	if cfg == nil {
		cfg = &Config{Timeout: 5 * time.Second}
	}
	instance, err := NewInstance(cfg)
	Expect(err).NotTo(HaveOccurred())
	return instance
}

func TestDoJsonBody(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	instance := newTestInstance(nil)
	payload := map[string]string{"name": "Default"}
	resp, herr := instance.Do(NewRequest(context.Background(), http.MethodPost, server.URL+"/create", BodyObj(payload)))
	Expect(herr).To(BeNil())
	defer resp.Close()

	Expect(resp.StatusCode).To(Equal(http.StatusOK))
	Expect(rec.header.Get("Content-Type")).To(Equal("application/json"))
	Expect(rec.lastLen).To(Equal(int64(len(rec.body))))

	var decoded map[string]string
	Expect(json.Unmarshal(rec.body, &decoded)).To(Succeed())
	Expect(decoded).To(Equal(payload))
}

func TestDoErrorStatus(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()
	instance := newTestInstance(nil)

	rapid.Check(t, func(t *rapid.T) {
		code := lhttptest.ErrorCodeGenerator().Draw(t, "code")
		request := NewRequest(context.Background(), http.MethodGet, server.URL, Query(map[string][]string{"code": {strconv.Itoa(code)}}))

		resp, herr := instance.Do(request)
		// Property: non-2xx statuses are reported as errors carrying the status and the body
		Expect(resp).To(BeNil())
		Expect(herr).NotTo(BeNil())
		Expect(herr.IsTransport()).To(BeFalse())
		Expect(herr.Code).To(Equal(code))
		Expect(herr.Message).To(Equal("status " + strconv.Itoa(code)))
	})
}

func TestDoTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	instance := newTestInstance(nil)
	resp, herr := instance.Do(NewRequest(context.Background(), http.MethodGet, url))
	Expect(resp).To(BeNil())
	Expect(herr.IsTransport()).To(BeTrue())
	Expect(herr.Code).To(Equal(0))
}

func TestDoRequestError(t *testing.T) {
	instance := newTestInstance(nil)
	request := NewRequest(context.Background(), http.MethodPost, "http://localhost", BodyObj(func() {}))

	_, herr := instance.Do(request)
	Expect(herr).NotTo(BeNil())
	Expect(herr.IsTransport()).To(BeTrue())
}

func TestQueryObjEscaping(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	query := struct {
		ExperimentName string `json:"experiment_name"`
	}{ExperimentName: "my experiment/1+1"}

	instance := newTestInstance(nil)
	Expect(instance.DoNoResponse(NewRequest(context.Background(), http.MethodGet, server.URL, QueryObj(query)))).To(BeNil())
	Expect(rec.query).To(Equal("experiment_name=my%20experiment%2F1%2B1"))
}

func TestHeaders(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()
	instance := newTestInstance(nil)

	rapid.Check(t, func(t *rapid.T) {
		headers := lhttptest.HeadersGenerator().Draw(t, "headers")
		request := NewRequest(context.Background(), http.MethodGet, server.URL, Header(headers))

		Expect(instance.DoNoResponse(request)).To(BeNil())
		rec.mu.Lock()
		defer rec.mu.Unlock()
		lhttptest.CheckHeaders(t, headers, rec.header)
	})
}

func TestGzipBody(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	instance := newTestInstance(nil)
	request := NewRequest(context.Background(), http.MethodPost, server.URL, BodyObj(map[string]int{"a": 1}), GzipBody())
	Expect(instance.DoNoResponse(request)).To(BeNil())

	Expect(rec.header.Get("Content-Encoding")).To(Equal("gzip"))
	Expect(rec.body).To(MatchJSON(`{"a": 1}`))
}

func TestWithMiddlewareOrder(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	var order []string
	tag := func(name string) MiddlewareFunc {
		return func(next RunnerFunc) RunnerFunc {
			return func(r *Request) (*Response, *lhttp.HttpError) {
				order = append(order, name)
				return next(r)
			}
		}
	}

	instance := newTestInstance(nil).With(tag("outer"))
	Expect(instance.DoNoResponse(NewRequest(context.Background(), http.MethodGet, server.URL), tag("inner"))).To(BeNil())
	Expect(order).To(Equal([]string{"inner", "outer"}))
}

type flakyTransport struct {
	failures int32
	calls    int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if atomic.AddInt32(&f.calls, 1) <= f.failures {
		return nil, errors.New("connection reset")
	}
	return f.next.RoundTrip(r)
}

func TestRetryTransportFailures(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	instance := newTestInstance(&Config{Timeout: 5 * time.Second, RetryAttempts: 3, RetryDelay: time.Millisecond})
	flaky := &flakyTransport{failures: 2, next: http.DefaultTransport}
	instance.Client.Transport = flaky

	request := NewRequest(context.Background(), http.MethodPost, server.URL, BodyObj(map[string]string{"k": "v"}))
	Expect(instance.DoNoResponse(request)).To(BeNil())
	Expect(atomic.LoadInt32(&flaky.calls)).To(Equal(int32(3)))
	// The body is replayed on every attempt
	Expect(rec.body).To(MatchJSON(`{"k": "v"}`))
}

func TestRetryIgnoresErrorStatus(t *testing.T) {
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	instance := newTestInstance(&Config{Timeout: 5 * time.Second, RetryAttempts: 3, RetryDelay: time.Millisecond})
	request := NewRequest(context.Background(), http.MethodGet, server.URL, Query(map[string][]string{"code": {"500"}}))

	herr := instance.DoNoResponse(request)
	Expect(herr).NotTo(BeNil())
	Expect(herr.Code).To(Equal(http.StatusInternalServerError))
	Expect(atomic.LoadInt32(&rec.calls)).To(Equal(int32(1)))
}

func TestRetryDisabledByDefault(t *testing.T) {
	instance := newTestInstance(nil)
	flaky := &flakyTransport{failures: 1, next: http.DefaultTransport}
	instance.Client.Transport = flaky

	herr := instance.DoNoResponse(NewRequest(context.Background(), http.MethodGet, "http://127.0.0.1:1"))
	Expect(herr.IsTransport()).To(BeTrue())
	Expect(atomic.LoadInt32(&flaky.calls)).To(Equal(int32(1)))
}

func TestProxyURL(t *testing.T) {
	Expect(ProxyURL("proxy.local", 8080).String()).To(Equal("http://proxy.local:8080"))

	instance := newTestInstance(&Config{ProxyHost: "proxy.local", ProxyPort: 8080})
	transport := instance.Client.Transport.(*http.Transport)
	request, err := http.NewRequest(http.MethodGet, "http://mlflow:5000/api", nil)
	Expect(err).NotTo(HaveOccurred())
	proxy, err := transport.Proxy(request)
	Expect(err).NotTo(HaveOccurred())
	Expect(proxy.String()).To(Equal("http://proxy.local:8080"))
}
