package query

import (
	"context"

	"github.com/spiffcs/explore/internal/log"
)

// InfiniteOptions configures a paginated query.
type InfiniteOptions[P any] struct {
	// Fetch retrieves the page with the given 1-based param.
	Fetch func(ctx context.Context, page int) (P, error)
	// NextPage decides whether another page follows. Nil means the first
	// page is the only one.
	NextPage NextPageFunc[P]
	Policy   Policy
	// Disabled queries never fetch and always report an empty snapshot.
	Disabled bool
}

// Infinite is a handle to a paginated query. Handles are cheap; any number
// of handles for the same key share one cache entry and one in-flight fetch.
type Infinite[P any] struct {
	client *Client
	key    Key
	opts   InfiniteOptions[P]
}

// plan runs under the entry lock when a fetch starts. It returns the page
// param to fetch and the fetch mode, or false to skip the fetch.
type plan[P any] func(e *Entry[P], q *Infinite[P]) (int, fetchMode, bool)

// NewInfinite returns a handle for the paginated query identified by key.
func NewInfinite[P any](c *Client, key Key, opts InfiniteOptions[P]) *Infinite[P] {
	if opts.NextPage == nil {
		opts.NextPage = func(P, []P) (int, bool) { return 0, false }
	}
	return &Infinite[P]{client: c, key: key, opts: opts}
}

// Key returns the key the handle reads and writes.
func (q *Infinite[P]) Key() Key {
	return q.key
}

// Enabled reports whether the query may fetch.
func (q *Infinite[P]) Enabled() bool {
	return !q.opts.Disabled
}

// Snapshot returns the current state without fetching.
func (q *Infinite[P]) Snapshot() Snapshot[P] {
	if q.opts.Disabled {
		return Snapshot[P]{Key: q.key}
	}
	return q.entry().snapshot()
}

// Fetch loads the first page unless fresh data is cached. Stale or errored
// entries are refetched from page 1. It waits for an in-flight fetch of the
// same key instead of starting another. The returned error is only ever
// ctx.Err(): fetch failures are reported through the snapshot.
func (q *Infinite[P]) Fetch(ctx context.Context) (Snapshot[P], error) {
	if q.opts.Disabled {
		return q.Snapshot(), nil
	}
	e := q.entry()
	if q.fresh(e) {
		log.Trace("query cache hit", "key", q.key.String())
		return e.snapshot(), nil
	}
	return q.run(ctx, e, planInitial[P])
}

// FetchNextPage loads the page after the last one. It is a no-op unless the
// entry is loaded with more pages expected and no fetch is in flight.
func (q *Infinite[P]) FetchNextPage(ctx context.Context) (Snapshot[P], error) {
	if q.opts.Disabled {
		return q.Snapshot(), nil
	}
	e := q.entry()
	e.mu.Lock()
	ready := e.mode == modeIdle && e.status == StatusLoadedWithMore
	e.mu.Unlock()
	if !ready {
		return e.snapshot(), nil
	}
	return q.run(ctx, e, planNextPage[P])
}

// Refetch restarts pagination from page 1 regardless of freshness. Pages
// already cached stay visible until the new first page settles, and are
// kept if it fails.
func (q *Infinite[P]) Refetch(ctx context.Context) (Snapshot[P], error) {
	if q.opts.Disabled {
		return q.Snapshot(), nil
	}
	return q.run(ctx, q.entry(), planRefetch[P])
}

// Retry reissues the request that failed: the same page param for a failed
// next page, page 1 for a failed first page. It is a no-op unless the entry
// is errored.
func (q *Infinite[P]) Retry(ctx context.Context) (Snapshot[P], error) {
	if q.opts.Disabled {
		return q.Snapshot(), nil
	}
	return q.run(ctx, q.entry(), planRetry[P])
}

func (q *Infinite[P]) entry() *Entry[P] {
	return entryFor[P](q.client, q.key)
}

func (q *Infinite[P]) fresh(e *Entry[P]) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return q.freshLocked(e)
}

func (q *Infinite[P]) freshLocked(e *Entry[P]) bool {
	return e.mode == modeIdle && e.status.Loaded() && q.opts.Policy.fresh(e.updatedAt, q.client.now())
}

// run executes p inside the key's single flight and waits for it to settle
// or for ctx to end. The fetch itself is detached from ctx and always
// completes.
func (q *Infinite[P]) run(ctx context.Context, e *Entry[P], p plan[P]) (Snapshot[P], error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := q.client.flights.DoChan(e.flightKey(), func() (any, error) {
		q.execute(fetchCtx, e, p)
		return nil, nil
	})

	select {
	case <-ch:
		return e.snapshot(), nil
	case <-ctx.Done():
		return e.snapshot(), ctx.Err()
	}
}

func (q *Infinite[P]) execute(ctx context.Context, e *Entry[P], p plan[P]) {
	e.mu.Lock()
	param, mode, ok := p(e, q)
	if !ok {
		e.mu.Unlock()
		return
	}
	e.mode = mode
	e.status = StatusLoading
	e.failureCount = 0
	e.mu.Unlock()

	log.Debug("fetching query", "key", q.key.String(), "page", param)

	page, err := attempt(ctx, q.key, param, q.opts.Policy, q.opts.Fetch, func() int {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.failureCount++
		return e.failureCount
	})

	q.settle(e, param, page, err)
}

// settle records the outcome of a fetch and persists successful results.
func (q *Infinite[P]) settle(e *Entry[P], param int, page P, err error) {
	e.mu.Lock()
	e.mode = modeIdle

	if err != nil {
		e.status = StatusErrored
		e.err = err
		e.failedParam = param
		e.mu.Unlock()
		log.Debug("query failed", "key", q.key.String(), "page", param, "error", err)
		return
	}

	if param == 1 {
		e.pages = []P{page}
		e.params = []int{1}
	} else {
		e.pages = append(e.pages, page)
		e.params = append(e.params, param)
	}
	e.nextParam, e.hasNext = q.opts.NextPage(page, e.pages)
	e.status = StatusLoadedComplete
	if e.hasNext {
		e.status = StatusLoadedWithMore
	}
	e.err = nil
	e.failureCount = 0
	e.failedParam = 0
	e.updatedAt = q.client.now()

	saved := persisted[P]{
		Pages:     append([]P(nil), e.pages...),
		Params:    append([]int(nil), e.params...),
		HasNext:   e.hasNext,
		NextParam: e.nextParam,
	}
	savedAt := e.updatedAt
	e.mu.Unlock()

	q.client.save(q.key, saved, savedAt)
}

// planInitial fetches page 1 unless the entry became fresh while waiting
// for the flight slot.
func planInitial[P any](e *Entry[P], q *Infinite[P]) (int, fetchMode, bool) {
	if q.freshLocked(e) {
		return 0, modeIdle, false
	}
	return 1, firstPageMode(e), true
}

func planNextPage[P any](e *Entry[P], _ *Infinite[P]) (int, fetchMode, bool) {
	if e.status != StatusLoadedWithMore {
		return 0, modeIdle, false
	}
	return e.nextParam, modeNextPage, true
}

func planRefetch[P any](e *Entry[P], _ *Infinite[P]) (int, fetchMode, bool) {
	return 1, firstPageMode(e), true
}

func planRetry[P any](e *Entry[P], _ *Infinite[P]) (int, fetchMode, bool) {
	if e.status != StatusErrored {
		return 0, modeIdle, false
	}
	if e.failedParam > 1 {
		return e.failedParam, modeNextPage, true
	}
	return 1, firstPageMode(e), true
}

// firstPageMode distinguishes a first load from a refetch over cached pages.
func firstPageMode[P any](e *Entry[P]) fetchMode {
	if len(e.pages) > 0 {
		return modeRefetch
	}
	return modeInitial
}
