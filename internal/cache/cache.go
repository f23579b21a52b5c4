// Package cache persists settled query pages on disk so that freshness
// windows hold across separate invocations of the CLI.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/log"
	"github.com/spiffcs/explore/internal/query"
)

// Version should be incremented when the persisted format changes so that
// old entries are ignored.
const Version = 1

// Entry is the on-disk envelope around one query's pages.
type Entry struct {
	Key     string          `json:"key"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
	SavedAt time.Time       `json:"savedAt"`
	Version int             `json:"version"`
}

// Ensure Cache implements query.Store.
var _ query.Store = (*Cache)(nil)

// Cache stores query pages as one JSON file per key.
type Cache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewCache creates a cache under the user cache directory.
func NewCache() (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewCacheAt(filepath.Join(cacheDir, constants.CacheDirName, "queries"))
}

// NewCacheAt creates a cache rooted at dir, creating it if needed.
func NewCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, maxAge: constants.CacheMaxAge, now: time.Now}, nil
}

// Dir returns the directory holding the cache files.
func (c *Cache) Dir() string {
	return c.dir
}

// fileName maps a key to a file name. The kind prefix keeps files of one
// resource kind together; the hash keeps arbitrary search text out of the
// file system.
func fileName(key query.Key) string {
	sum := sha256.Sum256([]byte(key.String()))
	return fmt.Sprintf("%s_%s.json", kindSlug(key.Kind), hex.EncodeToString(sum[:12]))
}

func kindSlug(kind string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, kind)
}

// Load decodes the pages saved for key into v. Missing, outdated and
// unreadable entries are all reported as a miss.
func (c *Cache) Load(key query.Key, v any) (time.Time, bool) {
	entry, err := c.read(filepath.Join(c.dir, fileName(key)))
	if err != nil {
		return time.Time{}, false
	}

	if entry.Version != Version {
		log.Debug("cache version mismatch", "cached", entry.Version, "current", Version, "key", key.String())
		return time.Time{}, false
	}
	if entry.Key != key.String() {
		return time.Time{}, false
	}
	if c.now().Sub(entry.SavedAt) > c.maxAge {
		return time.Time{}, false
	}

	if err := json.Unmarshal(entry.Data, v); err != nil {
		log.Debug("cache entry undecodable", "key", key.String(), "error", err)
		return time.Time{}, false
	}
	return entry.SavedAt, true
}

// Save writes the pages of key.
func (c *Cache) Save(key query.Key, v any, savedAt time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key.String(), err)
	}

	entry := Entry{
		Key:     key.String(),
		Kind:    key.Kind,
		Data:    data,
		SavedAt: savedAt,
		Version: Version,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := filepath.Join(c.dir, fileName(key))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Prune removes entries that can no longer be loaded: unreadable files,
// older versions and entries past the maximum age. It returns the number
// of files removed.
func (c *Cache) Prune() (int, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	now := c.now()
	for _, f := range files {
		path := filepath.Join(c.dir, f.Name())
		entry, err := c.read(path)
		if err == nil && entry.Version == Version && now.Sub(entry.SavedAt) <= c.maxAge {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// KindStat counts the entries of one resource kind.
type KindStat struct {
	Kind string
	// Total is the number of readable entries.
	Total int
	// Fresh is the number of entries younger than the kind's stale time.
	Fresh int
	Bytes int64
}

// Stats contains cache statistics broken down by kind.
type Stats struct {
	Kinds []KindStat
	// Invalid counts unreadable or outdated files.
	Invalid int
}

// Total returns the number of readable entries across all kinds.
func (s *Stats) Total() int {
	n := 0
	for _, k := range s.Kinds {
		n += k.Total
	}
	return n
}

// DetailedStats returns cache statistics by kind. staleTimes maps a kind
// to the age under which its entries count as fresh.
func (c *Cache) DetailedStats(staleTimes map[string]time.Duration) (*Stats, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	byKind := make(map[string]*KindStat)
	stats := &Stats{}
	now := c.now()

	for _, f := range files {
		path := filepath.Join(c.dir, f.Name())
		entry, err := c.read(path)
		if err != nil || entry.Version != Version {
			stats.Invalid++
			continue
		}

		ks, ok := byKind[entry.Kind]
		if !ok {
			ks = &KindStat{Kind: entry.Kind}
			byKind[entry.Kind] = ks
		}
		ks.Total++
		if info, err := f.Info(); err == nil {
			ks.Bytes += info.Size()
		}
		if now.Sub(entry.SavedAt) < staleTimes[entry.Kind] {
			ks.Fresh++
		}
	}

	for _, ks := range byKind {
		stats.Kinds = append(stats.Kinds, *ks)
	}
	sort.Slice(stats.Kinds, func(i, j int) bool {
		return stats.Kinds[i].Kind < stats.Kinds[j].Kind
	})
	return stats, nil
}

func (c *Cache) read(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
