package query

// Status is the pagination state of a cache entry.
type Status int

const (
	// StatusEmpty means nothing has been fetched for the key yet.
	StatusEmpty Status = iota
	// StatusLoading means a fetch is in flight.
	StatusLoading
	// StatusLoadedWithMore means the last page was full and another page
	// probably exists.
	StatusLoadedWithMore
	// StatusLoadedComplete means the last page was short. Only an explicit
	// refetch leaves this state.
	StatusLoadedComplete
	// StatusErrored means the last fetch failed after all retries.
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusLoadedWithMore:
		return "loaded-with-more"
	case StatusLoadedComplete:
		return "loaded-complete"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Loaded reports whether the status carries successfully fetched data.
func (s Status) Loaded() bool {
	return s == StatusLoadedWithMore || s == StatusLoadedComplete
}

// fetchMode is the kind of fetch in flight for an entry.
type fetchMode int

const (
	modeIdle fetchMode = iota
	modeInitial
	modeNextPage
	modeRefetch
)
