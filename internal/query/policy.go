package query

import (
	"time"

	"github.com/spiffcs/explore/internal/constants"
)

// Policy controls freshness and retry behavior for one resource kind.
type Policy struct {
	// StaleTime is how long fetched data is served without a network call.
	StaleTime time.Duration
	// MaxRetries bounds automatic retries after the first failed attempt.
	MaxRetries int
	// Retry decides whether a failure is worth retrying. failureCount is
	// the number of failed attempts so far, starting at 1. Nil retries
	// every error.
	Retry func(failureCount int, err error) bool
	// RetryDelay returns the wait before retry number attempt (0-based).
	// Nil uses ExponentialBackoff.
	RetryDelay func(attempt int) time.Duration
}

// DefaultPolicy returns a policy with the package defaults and no stale time.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: constants.MaxRetries,
		RetryDelay: ExponentialBackoff,
	}
}

// ExponentialBackoff doubles the delay from one second per attempt, capped
// at thirty seconds.
func ExponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := constants.RetryBaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= constants.RetryMaxDelay {
			return constants.RetryMaxDelay
		}
	}
	return d
}

func (p Policy) shouldRetry(failureCount int, err error) bool {
	if failureCount > p.MaxRetries {
		return false
	}
	if p.Retry == nil {
		return true
	}
	return p.Retry(failureCount, err)
}

func (p Policy) delay(attempt int) time.Duration {
	if p.RetryDelay == nil {
		return ExponentialBackoff(attempt)
	}
	return p.RetryDelay(attempt)
}

func (p Policy) fresh(updatedAt, now time.Time) bool {
	if updatedAt.IsZero() {
		return false
	}
	return now.Sub(updatedAt) < p.StaleTime
}
