package query

import (
	"context"
	"time"

	"github.com/spiffcs/explore/internal/log"
)

// attempt calls fetch until it succeeds or policy gives up, reporting every
// failure to onFailure. It returns the last result.
func attempt[P any](ctx context.Context, key Key, param int, policy Policy, fetch func(context.Context, int) (P, error), onFailure func() int) (P, error) {
	for {
		page, err := fetch(ctx, param)
		if err == nil {
			return page, nil
		}

		failures := onFailure()
		if !policy.shouldRetry(failures, err) {
			return page, err
		}

		d := policy.delay(failures - 1)
		log.Debug("retrying query",
			"key", key.String(),
			"page", param,
			"failures", failures,
			"delay", d,
			"error", err)
		if !sleep(ctx, d) {
			return page, err
		}
	}
}

// sleep waits for d or until ctx is done, reporting whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
