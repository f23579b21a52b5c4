package query

import (
	"container/list"
	"sync"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/log"
	"golang.org/x/sync/singleflight"
)

// Store persists settled pages across processes. Load decodes the value
// saved for key into v and returns when it was saved.
type Store interface {
	Load(key Key, v any) (time.Time, bool)
	Save(key Key, v any, savedAt time.Time) error
}

// Options configures a Client.
type Options struct {
	// MaxEntries bounds the number of cached keys. Zero uses
	// constants.MaxCacheEntries; a negative value disables eviction.
	MaxEntries int
	// Store, when set, hydrates new entries and receives settled pages.
	Store Store
	// Now overrides the clock used for staleness.
	Now func() time.Time
}

// Client is the cache shared by all queries created from it. Entries are
// evicted least recently used first, skipping entries with a fetch in
// flight.
type Client struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	lru        *list.List
	maxEntries int

	// gen numbers entries so a flight never outlives the entry it serves.
	gen     uint64
	flights singleflight.Group
	store   Store
	now     func() time.Time
}

// slot is the value held by each LRU element.
type slot struct {
	key   string
	entry evictable
}

type evictable interface {
	busy() bool
	flightKey() string
}

// NewClient creates an empty cache.
func NewClient(opts Options) *Client {
	maxEntries := opts.MaxEntries
	if maxEntries == 0 {
		maxEntries = constants.MaxCacheEntries
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		maxEntries: maxEntries,
		store:      opts.Store,
		now:        now,
	}
}

// Len returns the number of cached keys.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Remove drops the entry for key. An in-flight fetch for it still
// completes but its result is not cached.
func (c *Client) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key.String()]; ok {
		c.removeLocked(el)
	}
}

// Clear drops every cached entry.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.lru.Front(); el != nil; el = el.Next() {
		c.flights.Forget(el.Value.(*slot).entry.flightKey())
	}
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// removeLocked drops el from the cache. c.mu must be held.
func (c *Client) removeLocked(el *list.Element) {
	s := el.Value.(*slot)
	c.flights.Forget(s.entry.flightKey())
	c.lru.Remove(el)
	delete(c.entries, s.key)
}

// entryFor returns the entry for key, creating and hydrating it on first
// use. A cached entry of a different page type is replaced.
func entryFor[P any](c *Client, key Key) *Entry[P] {
	id := key.String()

	c.mu.Lock()
	if el, ok := c.entries[id]; ok {
		if e, ok := el.Value.(*slot).entry.(*Entry[P]); ok {
			c.lru.MoveToFront(el)
			c.mu.Unlock()
			return e
		}
		c.removeLocked(el)
	}

	c.gen++
	e := newEntry[P](key, c.gen)
	c.entries[id] = c.lru.PushFront(&slot{key: id, entry: e})
	c.evictLocked()
	store := c.store
	c.mu.Unlock()

	if store != nil {
		var p persisted[P]
		if savedAt, ok := store.Load(key, &p); ok {
			e.hydrate(p, savedAt)
			log.Trace("hydrated query from store", "key", id, "pages", len(p.Pages))
		}
	}
	return e
}

// evictLocked removes idle entries from the back of the LRU list until the
// cache is within bounds. The most recently used entry is always kept.
// c.mu must be held.
func (c *Client) evictLocked() {
	if c.maxEntries < 0 {
		return
	}
	el := c.lru.Back()
	for c.lru.Len() > c.maxEntries && el != nil && el != c.lru.Front() {
		prev := el.Prev()
		s := el.Value.(*slot)
		if !s.entry.busy() {
			c.removeLocked(el)
			log.Trace("evicted query", "key", s.key)
		}
		el = prev
	}
}

func (c *Client) save(key Key, v any, savedAt time.Time) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(key, v, savedAt); err != nil {
		log.Debug("failed to persist query", "key", key.String(), "error", err)
	}
}
