package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fittrack-backend/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRateLimited(t *testing.T, limit int, window time.Duration) (*miniredis.Miniredis, http.Handler) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	handler := RateLimitMiddleware(cache.New(rdb), limit, window)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
	return mr, handler
}

func doRequest(handler http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	_, handler := newRateLimited(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	_, handler := newRateLimited(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		doRequest(handler, "10.0.0.1:1234")
	}
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1234"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	_, handler := newRateLimited(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:5678"))
	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2:1234"))
}

func TestRateLimitWindowExpires(t *testing.T) {
	mr, handler := newRateLimited(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1234"))

	mr.FastForward(time.Minute + time.Second)

	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, handler := newRateLimited(t, 1, time.Minute)
	mr.Close()

	// With the counter store down requests pass through unthrottled.
	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234"))
}
