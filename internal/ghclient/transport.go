package ghclient

import (
	"net/http"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/log"
	"golang.org/x/time/rate"
)

// rateLimitTransport records GitHub rate limit headers and, when a limiter
// is configured, paces outgoing requests. Responses pass through untouched.
type rateLimitTransport struct {
	base    http.RoundTripper
	state   *RateLimitState
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.Debug("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return resp, err
	}

	log.Debug("request",
		"method", req.Method,
		"path", req.URL.Path,
		"query", req.URL.RawQuery,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond))

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.Update(remaining, limit, resetAt)
	}

	if remaining >= 0 && remaining <= constants.RateLimitLowWatermark {
		log.Info("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	return resp, nil
}

// newLimiter converts a requests-per-minute budget into a token bucket.
// A non-positive budget disables pacing.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
