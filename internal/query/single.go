package query

import (
	"context"
	"time"
)

// SingleOptions configures a query for a resource that is exactly one page.
type SingleOptions[T any] struct {
	Fetch    func(ctx context.Context) (T, error)
	Policy   Policy
	Disabled bool
}

// Single is a handle to a one-page query. It shares the cache, freshness
// and retry rules of Infinite.
type Single[T any] struct {
	inf *Infinite[T]
}

// SingleSnapshot is the state of a Single query.
type SingleSnapshot[T any] struct {
	Key Key
	// Data is the fetched value, or the zero value before the first
	// successful fetch.
	Data         T
	HasData      bool
	Status       Status
	IsLoading    bool
	IsFetching   bool
	IsRefetching bool
	IsError      bool
	Err          error
	FailureCount int
	UpdatedAt    time.Time
}

// NewSingle returns a handle for the single-resource query identified by key.
func NewSingle[T any](c *Client, key Key, opts SingleOptions[T]) *Single[T] {
	fetch := opts.Fetch
	return &Single[T]{inf: NewInfinite(c, key, InfiniteOptions[T]{
		Fetch: func(ctx context.Context, _ int) (T, error) {
			return fetch(ctx)
		},
		Policy:   opts.Policy,
		Disabled: opts.Disabled,
	})}
}

// Key returns the key the handle reads and writes.
func (q *Single[T]) Key() Key {
	return q.inf.Key()
}

// Snapshot returns the current state without fetching.
func (q *Single[T]) Snapshot() SingleSnapshot[T] {
	return single(q.inf.Snapshot())
}

// Fetch loads the resource unless fresh data is cached.
func (q *Single[T]) Fetch(ctx context.Context) (SingleSnapshot[T], error) {
	s, err := q.inf.Fetch(ctx)
	return single(s), err
}

// Refetch loads the resource regardless of freshness.
func (q *Single[T]) Refetch(ctx context.Context) (SingleSnapshot[T], error) {
	s, err := q.inf.Refetch(ctx)
	return single(s), err
}

// Retry reissues a failed fetch. It is a no-op unless the query is errored.
func (q *Single[T]) Retry(ctx context.Context) (SingleSnapshot[T], error) {
	s, err := q.inf.Retry(ctx)
	return single(s), err
}

func single[T any](s Snapshot[T]) SingleSnapshot[T] {
	out := SingleSnapshot[T]{
		Key:          s.Key,
		Status:       s.Status,
		IsLoading:    s.IsLoading,
		IsFetching:   s.IsFetching,
		IsRefetching: s.IsRefetching,
		IsError:      s.IsError,
		Err:          s.Err,
		FailureCount: s.FailureCount,
		UpdatedAt:    s.UpdatedAt,
	}
	if len(s.Pages) > 0 {
		out.Data = s.Pages[0]
		out.HasData = true
	}
	return out
}
