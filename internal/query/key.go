// Package query caches paginated and single-resource fetches per key. It
// merges pages, tracks loading and error state, retries failed fetches and
// guarantees at most one fetch in flight per key.
package query

import (
	"net/url"
	"strings"
)

// Key identifies one cached query: a resource kind plus the discriminators
// that select a concrete resource (search text, owner and repo, ...).
type Key struct {
	Kind  string
	Parts []string
}

// NewKey builds a Key from a kind and its discriminators.
func NewKey(kind string, parts ...string) Key {
	return Key{Kind: kind, Parts: parts}
}

// String returns a canonical encoding of the key. Two keys with equal kind
// and parts always encode identically, and parts containing the separator
// cannot collide with other part lists.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(url.QueryEscape(k.Kind))
	for _, p := range k.Parts {
		b.WriteByte('|')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}
