package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes(testContext(t))

	rr := send(t, h, http.MethodGet, "/healthcheck", "")
	_, err := uuid.Parse(rr.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestAccessLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApplication(t)
	app.logger = zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/books/missing", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	app.routes(testContext(t)).ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "abc-123", line["request_id"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "warn", line["level"])
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)

	h := hlog.NewHandler(zerolog.Nop())(app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.Equal(t, "Internal Server Error", decode(t, rr)["message"])
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.Limiter.Enabled = true
	app.config.Limiter.RPS = 1
	app.config.Limiter.Burst = 2
	h := app.routes(testContext(t))

	assert.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/healthcheck", "").Code)
	assert.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/healthcheck", "").Code)

	rr := send(t, h, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, rr)["message"])
}

func TestRateLimitOffByDefault(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes(testContext(t))

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/healthcheck", "").Code)
	}
}

func TestClientLimits_Sweep(t *testing.T) {
	limits := newClientLimits(1, 1)
	now := time.Now()

	limits.allow("10.0.0.1", now.Add(-5*time.Minute))
	limits.allow("10.0.0.2", now)

	limits.sweep(now, 3*time.Minute)

	assert.NotContains(t, limits.clients, "10.0.0.1")
	assert.Contains(t, limits.clients, "10.0.0.2")
}

func TestClientLimits_JanitorStopsWithContext(t *testing.T) {
	limits := newClientLimits(1, 1)
	limits.allow("10.0.0.1", time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limits.janitor(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		limits.mu.Lock()
		defer limits.mu.Unlock()
		return len(limits.clients) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor still running after cancel")
	}
}
