package ghclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitState tracks the most recent rate limit headers seen by a Client.
// It is informational only: requests are never blocked because of it.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
	seen      bool
}

// RateLimitStatus is a point-in-time copy of RateLimitState.
type RateLimitStatus struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
	Known     bool
}

// Update records the values of a response's rate limit headers.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.seen = true
}

// Status returns the last recorded rate limit values.
func (s *RateLimitState) Status() RateLimitStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RateLimitStatus{
		Remaining: s.remaining,
		Limit:     s.limit,
		ResetAt:   s.resetAt,
		Known:     s.seen,
	}
}

// Exhausted reports whether the last response said no requests remain and
// the window has not reset yet.
func (s RateLimitStatus) Exhausted(now time.Time) bool {
	return s.Known && s.Remaining == 0 && now.Before(s.ResetAt)
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// remaining and limit are -1 when the header is absent or malformed.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}

	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	resetAt, _ = parseReset(resp.Header.Get("X-RateLimit-Reset"))

	return remaining, limit, resetAt
}
