// Package constants provides a centralized location for all configuration
// values and magic numbers used throughout the explore application.
package constants

import "time"

// GitHub API constants
const (
	// DefaultAPIBaseURL is used when neither GITHUB_API_BASE nor the config
	// file names an API endpoint.
	DefaultAPIBaseURL = "https://api.github.com"

	// UserAgent identifies the client on every request.
	UserAgent = "GitHub-Explorer-App"

	// PageSize is the number of items requested per page. A page holding
	// exactly PageSize items is taken as a sign that more pages exist.
	PageSize = 20

	// SearchSort and SearchOrder are fixed for repository search.
	SearchSort  = "stars"
	SearchOrder = "desc"

	// IssueState is the only issue state ever requested.
	IssueState = "open"
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 10

	// RateLimitResetLayout formats the reset time shown in rate limit messages.
	RateLimitResetLayout = "15:04:05"
)

// Query cache constants
const (
	// SearchStaleTime is how long search results are served without refetching.
	SearchStaleTime = 5 * time.Minute

	// RepositoryStaleTime is how long repository details are served without refetching.
	RepositoryStaleTime = 5 * time.Minute

	// IssuesStaleTime is shorter because issue lists change more often.
	IssuesStaleTime = 2 * time.Minute

	// MaxRetries is the number of automatic retries after a failed fetch.
	MaxRetries = 2

	// RetryBaseDelay and RetryMaxDelay bound the exponential retry backoff.
	RetryBaseDelay = time.Second
	RetryMaxDelay  = 30 * time.Second

	// MaxCacheEntries bounds the number of query keys kept in memory.
	MaxCacheEntries = 256
)

// HTTP constants
const (
	// HTTPTimeout bounds a single request, including reading the body.
	HTTPTimeout = 30 * time.Second
)

// TUI constants
const (
	// LoadMoreThreshold is how close (in rows) the cursor must get to the end
	// of a list before the next page is requested.
	LoadMoreThreshold = 3

	// HeaderLines is the number of lines above a browser list: title, search
	// input, a blank line, column header and separator.
	HeaderLines = 5

	// FooterLines is the number of lines used for the browser footer.
	FooterLines = 3

	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3
)

// Persistent cache constants
const (
	// CacheDirName is the directory under the user cache dir holding
	// persisted query pages.
	CacheDirName = "explore"

	// CacheMaxAge is how long persisted pages are kept before they are
	// ignored and pruned, independent of any stale time.
	CacheMaxAge = 24 * time.Hour
)
