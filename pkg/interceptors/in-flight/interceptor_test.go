package interceptors_inflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	"pgregory.net/rapid"
)

func TestNonBlocking(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := Config{
			Size:     rapid.Uint64Range(0, 10).Draw(t, "size"),
			Blocking: false,
		}

		interceptor := NewInterceptor(cfg)
		nRequests := rapid.IntRange(0, 20).Draw(t, "n_requests")
		results := make([]checkResult, nRequests)
		for i := 0; i < nRequests; i++ {
			results[i] = interceptor.check(context.Background())
		}

		defer func() {
			for i := 0; i < nRequests; i++ {
				results[i].done()
			}
		}()

		minAllowed := uint64(nRequests)
		if minAllowed > cfg.Size && cfg.Size != 0 {
			minAllowed = cfg.Size
		}

		countAllowed := uint64(0)
		for i := 0; i < nRequests; i++ {
			if results[i].allowed {
				countAllowed++
			}
			assert.NoError(t, results[i].err)
		}
		assert.Equal(t, minAllowed, countAllowed)
	})
}

func TestBlockingWaitsForASlot(t *testing.T) {
	interceptor := NewInterceptor(Config{Size: 1, Blocking: true})

	first := interceptor.check(context.Background())
	require.True(t, first.allowed)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	blocked := interceptor.check(ctx)
	assert.False(t, blocked.allowed)
	assert.ErrorIs(t, blocked.err, context.DeadlineExceeded)

	first.done()
	second := interceptor.check(context.Background())
	assert.True(t, second.allowed)
	second.done()
}

func TestToClient(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			started <- struct{}{}
			<-release
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	instance, err := cbhttp.NewInstance(&cbhttp.Config{Timeout: 5 * time.Second})
	require.NoError(t, err)
	limited := instance.With(NewInterceptor(Config{Size: 1, Blocking: false}).ToClient())

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Nil(t, limited.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/slow")))
	}()
	<-started

	herr := limited.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/fast"))
	require.NotNil(t, herr)
	assert.True(t, herr.IsTransport())
	assert.True(t, errors.Is(herr.Err, ErrTooManyInFlight))

	close(release)
	<-done
	assert.Nil(t, limited.DoNoResponse(cbhttp.NewRequest(context.Background(), http.MethodGet, server.URL+"/fast")))
}
