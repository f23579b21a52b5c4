// Package service exposes the explorer's queries: repository search,
// repository detail and open issues, each backed by the shared query cache.
package service

import (
	"context"
	"strings"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/ghclient"
	"github.com/spiffcs/explore/internal/model"
	"github.com/spiffcs/explore/internal/query"
)

// Query key kinds. Each kind has its own cache namespace and policy.
const (
	KindRepositoriesSearch = "Github:RepositoriesSearch"
	KindRepository         = "Github:Repository"
	KindRepositoryIssues   = "Github:RepositoryIssuesKey"
)

// Policies holds the freshness and retry policy of each resource kind.
type Policies struct {
	Search     query.Policy
	Repository query.Policy
	Issues     query.Policy
}

// DefaultPolicies returns the stock policies: five minutes of freshness for
// search and repository detail, two for issues, two retries with
// exponential backoff, and no retry of rate limit errors.
func DefaultPolicies() Policies {
	base := query.DefaultPolicy()
	base.Retry = ShouldRetry

	search, repo, issues := base, base, base
	search.StaleTime = constants.SearchStaleTime
	repo.StaleTime = constants.RepositoryStaleTime
	issues.StaleTime = constants.IssuesStaleTime

	return Policies{Search: search, Repository: repo, Issues: issues}
}

// ShouldRetry allows a retry for every error except rate limit errors.
func ShouldRetry(_ int, err error) bool {
	return !ghclient.IsRateLimit(err)
}

// Explorer creates query handles for the three GitHub resources.
type Explorer struct {
	fetcher  ghclient.Fetcher
	queries  *query.Client
	policies Policies
}

// New creates an Explorer. A nil queries client gets a private cache.
func New(fetcher ghclient.Fetcher, queries *query.Client, policies Policies) *Explorer {
	if queries == nil {
		queries = query.NewClient(query.Options{})
	}
	return &Explorer{
		fetcher:  fetcher,
		queries:  queries,
		policies: policies,
	}
}

// Queries returns the cache the Explorer's handles share.
func (e *Explorer) Queries() *query.Client {
	return e.queries
}

// SearchKey returns the cache key of a repository search.
func SearchKey(text string) query.Key {
	return query.NewKey(KindRepositoriesSearch, text)
}

// RepositoryKey returns the cache key of a repository's details.
func RepositoryKey(owner, repo string) query.Key {
	return query.NewKey(KindRepository, owner, repo)
}

// IssuesKey returns the cache key of a repository's open issues.
func IssuesKey(owner, repo string) query.Key {
	return query.NewKey(KindRepositoryIssues, owner, repo)
}

// SearchRepositories returns the paginated search for text, most starred
// first. The query is disabled while text is blank.
func (e *Explorer) SearchRepositories(text string) *query.Infinite[*model.SearchPage] {
	return query.NewInfinite(e.queries, SearchKey(text), query.InfiniteOptions[*model.SearchPage]{
		Fetch: func(ctx context.Context, page int) (*model.SearchPage, error) {
			return e.fetcher.SearchRepositories(ctx, text, page, constants.PageSize)
		},
		NextPage: nextSearchPage,
		Policy:   e.policies.Search,
		Disabled: strings.TrimSpace(text) == "",
	})
}

// Repository returns the detail query for owner/repo.
func (e *Explorer) Repository(owner, repo string) *query.Single[*model.Repository] {
	return query.NewSingle(e.queries, RepositoryKey(owner, repo), query.SingleOptions[*model.Repository]{
		Fetch: func(ctx context.Context) (*model.Repository, error) {
			return e.fetcher.GetRepository(ctx, owner, repo)
		},
		Policy:   e.policies.Repository,
		Disabled: owner == "" || repo == "",
	})
}

// Issues returns the paginated open issues of owner/repo.
func (e *Explorer) Issues(owner, repo string) *query.Infinite[[]model.Issue] {
	return query.NewInfinite(e.queries, IssuesKey(owner, repo), query.InfiniteOptions[[]model.Issue]{
		Fetch: func(ctx context.Context, page int) ([]model.Issue, error) {
			return e.fetcher.ListRepositoryIssues(ctx, owner, repo, page, constants.PageSize)
		},
		NextPage: nextIssuesPage,
		Policy:   e.policies.Issues,
		Disabled: owner == "" || repo == "",
	})
}
