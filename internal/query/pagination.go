package query

// NextPageFunc computes the page param of the page after last, given every
// page fetched so far in fetch order. It returns false when no further page
// should be requested.
type NextPageFunc[P any] func(last P, all []P) (int, bool)

// FullPages returns a NextPageFunc for APIs that expose no total: a page
// holding exactly size items means another page probably exists, anything
// shorter ends pagination. count reports the item count of a page and must
// accept a nil page.
func FullPages[P any](size int, count func(P) int) NextPageFunc[P] {
	return func(last P, all []P) (int, bool) {
		if count(last) != size {
			return 0, false
		}
		return len(all) + 1, true
	}
}

// Flatten concatenates pages in fetch order, keeping in-page order. Nil
// pages contribute nothing. Items repeated across pages are kept.
func Flatten[T any](pages [][]T) []T {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	out := make([]T, 0, n)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}

// FlatMap extracts the items of each page with items and concatenates them
// like Flatten. items must return nil for a nil page.
func FlatMap[P, T any](pages []P, items func(P) []T) []T {
	var out []T
	for _, p := range pages {
		out = append(out, items(p)...)
	}
	if out == nil {
		out = []T{}
	}
	return out
}
