package query

import (
	"fmt"
	"sync"
	"time"
)

// Entry is the cached state of one key. All fields are guarded by mu.
type Entry[P any] struct {
	mu sync.Mutex

	key    Key
	gen    uint64
	pages  []P
	params []int
	status Status
	mode   fetchMode

	err          error
	failureCount int
	// failedParam is the page param of the last failed fetch, reissued
	// by Retry.
	failedParam int

	hasNext   bool
	nextParam int
	updatedAt time.Time
}

func newEntry[P any](key Key, gen uint64) *Entry[P] {
	return &Entry[P]{key: key, gen: gen}
}

// flightKey identifies this entry's fetches. A replacement entry for the
// same key never joins a flight started for the one it replaced.
func (e *Entry[P]) flightKey() string {
	return fmt.Sprintf("%s#%d", e.key.String(), e.gen)
}

// busy reports whether a fetch is in flight. Busy entries are never evicted.
func (e *Entry[P]) busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode != modeIdle
}

// persisted is the on-disk form of an entry's settled pages.
type persisted[P any] struct {
	Pages     []P   `json:"pages"`
	Params    []int `json:"params"`
	HasNext   bool  `json:"has_next"`
	NextParam int   `json:"next_param,omitempty"`
}

// hydrate restores settled pages loaded from a Store.
func (e *Entry[P]) hydrate(p persisted[P], savedAt time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusEmpty || e.mode != modeIdle {
		return
	}
	if len(p.Pages) == 0 || len(p.Pages) != len(p.Params) {
		return
	}
	e.pages = p.Pages
	e.params = p.Params
	e.hasNext = p.HasNext
	e.nextParam = p.NextParam
	e.updatedAt = savedAt
	e.status = StatusLoadedComplete
	if p.HasNext {
		e.status = StatusLoadedWithMore
	}
}

// Snapshot is a point-in-time copy of an entry, safe to read without locks.
type Snapshot[P any] struct {
	Key Key
	// Pages holds every fetched page in ascending fetch order.
	Pages []P
	// PageParams holds the 1-based page param of each page in Pages.
	PageParams []int
	Status     Status

	// IsLoading is true while the first page is in flight and nothing is
	// cached yet.
	IsLoading bool
	// IsFetching is true while any fetch for the key is in flight.
	IsFetching         bool
	IsFetchingNextPage bool
	IsRefetching       bool

	IsError bool
	// Err is the classified error of the last failed fetch.
	Err          error
	FailureCount int

	HasNextPage bool
	UpdatedAt   time.Time
}

func (e *Entry[P]) snapshot() Snapshot[P] {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot[P]{
		Key:                e.key,
		Pages:              append([]P(nil), e.pages...),
		PageParams:         append([]int(nil), e.params...),
		Status:             e.status,
		IsFetching:         e.mode != modeIdle,
		IsFetchingNextPage: e.mode == modeNextPage,
		IsRefetching:       e.mode == modeRefetch,
		IsError:            e.status == StatusErrored,
		Err:                e.err,
		FailureCount:       e.failureCount,
		HasNextPage:        e.hasNext,
		UpdatedAt:          e.updatedAt,
	}
	s.IsLoading = s.IsFetching && len(e.pages) == 0
	return s
}
