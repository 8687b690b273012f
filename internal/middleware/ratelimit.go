// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitKeyPrefix = "ratelimit:"

	// DefaultRateWindow replaces a non-positive window.
	DefaultRateWindow = time.Minute
)

// RateLimiter limits requests per client IP with a fixed window counter
// kept in Valkey, so the limit holds across all server instances.
// When Valkey is unreachable requests are let through.
type RateLimiter struct {
	client *redis.Client
	limit  int           // max requests per window
	window time.Duration // window length
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// windowKey returns the counter key for key in the window containing t.
func (rl *RateLimiter) windowKey(key string, t time.Time) string {
	slot := t.UnixNano() / int64(rl.window)
	return rateLimitKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)
}

// allow increments the counter for key and reports whether the request
// is within the limit.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, error) {
	k := rl.windowKey(key, rl.now())

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, rl.window)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= int64(rl.limit), nil
}

// retryAfter is the window length in whole seconds, rounded up. Valkey
// expiries have one-second granularity, so it is never below 1.
func (rl *RateLimiter) retryAfter() int {
	secs := int(math.Ceil(rl.window.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := rl.allow(r.Context(), clientIP(r))
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
		}
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the leftmost entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
