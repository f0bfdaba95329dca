// cmd/api/middleware.go
// This file contains HTTP middleware used to wrap the router.
// Middleware functions intercept every request before it reaches a handler.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

// requestIDHeader carries the correlation id in both directions.
const requestIDHeader = "X-Request-ID"

// recoverPanic catches any runtime panic that occurs in a downstream handler.
// Without this, a panic would cause the goroutine to terminate and the client's
// connection to be dropped silently. With this middleware the client receives a
// clean 500 Internal Server Error instead.
func (app *applicationDependencies) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				// Tell the HTTP server to close the connection after this response.
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID reuses the caller's X-Request-ID or generates a UUID, echoes it
// on the response and tags the request logger with it.
func (app *applicationDependencies) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})

		next.ServeHTTP(w, r)
	})
}

// accessLog writes one line per request once the response is complete.
// Server errors log at error level, client errors at warn.
func (app *applicationDependencies) accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		logger := hlog.FromRequest(r)

		var e *zerolog.Event
		switch {
		case status >= 500:
			e = logger.Error()
		case status >= 400:
			e = logger.Warn()
		default:
			e = logger.Info()
		}

		e.Str("method", r.Method).
			Str("uri", r.URL.RequestURI()).
			Int("status", status).
			Int("size", size).
			Dur("latency", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
}

// client holds a per-IP rate limiter and the time it was last seen.
// lastSeen lets us evict old entries so the map does not grow forever.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimits is the per-IP token bucket table behind rateLimit.
type clientLimits struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
}

func newClientLimits(rps float64, burst int) *clientLimits {
	return &clientLimits{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// allow consumes one token from ip's bucket, creating the bucket on first use.
func (c *clientLimits) allow(ip string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, found := c.clients[ip]
	if !found {
		cl = &client{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.clients[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

// sweep drops clients not seen for longer than idle.
func (c *clientLimits) sweep(now time.Time, idle time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ip, cl := range c.clients {
		if now.Sub(cl.lastSeen) > idle {
			delete(c.clients, ip)
		}
	}
}

// janitor sweeps every interval until ctx is done.
func (c *clientLimits) janitor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.sweep(now, idle)
		}
	}
}

// rateLimit implements per-IP token-bucket rate limiting using the
// golang.org/x/time/rate package, with the rate and burst taken from the
// limiter config. Clients unseen for 3 minutes are forgotten; the sweeping
// goroutine stops with ctx.
func (app *applicationDependencies) rateLimit(ctx context.Context) func(http.Handler) http.Handler {
	limits := newClientLimits(app.config.Limiter.RPS, app.config.Limiter.Burst)
	go limits.janitor(ctx, time.Minute, 3*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract just the IP from the RemoteAddr (strips the port).
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}

			if !limits.allow(ip, time.Now()) {
				app.rateLimitExceededResponse(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
