package ghclient

import (
	"context"

	"github.com/spiffcs/explore/internal/model"
)

// Fetcher defines the raw GitHub API operations the explorer needs.
// It has no caching or retry logic; the query layer adds both.
type Fetcher interface {
	SearchRepositories(ctx context.Context, text string, page, perPage int) (*model.SearchPage, error)
	GetRepository(ctx context.Context, owner, repo string) (*model.Repository, error)
	ListRepositoryIssues(ctx context.Context, owner, repo string, page, perPage int) ([]model.Issue, error)
}

// Ensure Client implements Fetcher interface.
var _ Fetcher = (*Client)(nil)
