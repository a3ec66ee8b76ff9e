package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/resilience"
)

func newTestFetcher(attempts int) *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent:     "test-agent",
		Timeout:       5 * time.Second,
		RatePerSecond: 1000,
		Retry:         resilience.Policy{Attempts: attempts, Base: time.Millisecond, Max: 5 * time.Millisecond},
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	body, err := newTestFetcher(3).Get(context.Background(), srv.URL+"/flights")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
}

func TestGet_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable} {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(status)
				return
			}
			_, _ = w.Write([]byte("[]"))
		}))

		body, err := newTestFetcher(3).Get(context.Background(), srv.URL)
		require.NoError(t, err, status)
		assert.Equal(t, "[]", string(body))
		assert.Equal(t, int32(3), attempts.Load(), status)
		srv.Close()
	}
}

func TestGet_RetriesExhausted(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestFetcher(2).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
	assert.True(t, resilience.IsTransient(err))
	assert.Equal(t, int32(2), attempts.Load())
}

func TestGet_PermanentStatusNotRetried(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestFetcher(3).Get(context.Background(), srv.URL+"/missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_BodyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxBodyBytes: 4, RatePerSecond: 1000})
	body, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
}

func TestGet_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFetcher(3).Get(ctx, srv.URL)
	require.Error(t, err)
}

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{RatePerSecond: 4, Burst: 1})
	start := time.Now()
	for range 3 {
		_, err := f.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// Burst 1 and a rate that never exceeds 8/s: two waits of at least 125ms.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestAdaptiveLimiter(t *testing.T) {
	t.Parallel()

	l := NewAdaptiveLimiter(10, 10)
	l.OnSuccess()
	assert.InDelta(t, 12.0, float64(l.Limit()), 1e-9)
	for range 10 {
		l.OnSuccess()
	}
	assert.Equal(t, rate.Limit(20), l.Limit(), "capped at 2x")

	for range 10 {
		l.OnRateLimit()
	}
	assert.Equal(t, rate.Limit(2.5), l.Limit(), "floored at a quarter")
}

func TestOptionsFor(t *testing.T) {
	t.Parallel()

	opts := OptionsFor(config.ProviderConfig{
		Kind:          "http",
		UserAgent:     "ua",
		TimeoutSecs:   7,
		RatePerSecond: 2.5,
		MaxRetries:    4,
	})
	assert.Equal(t, "ua", opts.UserAgent)
	assert.Equal(t, 7*time.Second, opts.Timeout)
	assert.InDelta(t, 2.5, opts.RatePerSecond, 1e-9)
	assert.Equal(t, 4, opts.Retry.Attempts)
}
