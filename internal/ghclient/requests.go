package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/spiffcs/explore/internal/constants"
)

// searchOptions are the query parameters of GET /search/repositories.
type searchOptions struct {
	Query   string `url:"q"`
	Page    int    `url:"page"`
	PerPage int    `url:"per_page"`
	Sort    string `url:"sort"`
	Order   string `url:"order"`
}

// issueOptions are the query parameters of GET /repos/{owner}/{repo}/issues.
type issueOptions struct {
	State   string `url:"state"`
	Page    int    `url:"page"`
	PerPage int    `url:"per_page"`
}

// NewSearchRepositoriesRequest builds a repository search request sorted by
// stars, most starred first.
func (c *Client) NewSearchRepositoriesRequest(ctx context.Context, text string, page, perPage int) (*http.Request, error) {
	opts := searchOptions{
		Query:   text,
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage),
		Sort:    constants.SearchSort,
		Order:   constants.SearchOrder,
	}
	return c.newGetRequest(ctx, "search/repositories", opts)
}

// NewRepositoryRequest builds a request for a single repository.
func (c *Client) NewRepositoryRequest(ctx context.Context, owner, repo string) (*http.Request, error) {
	if err := validateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	return c.newGetRequest(ctx, repoPath(owner, repo), nil)
}

// NewRepositoryIssuesRequest builds a request for one page of a repository's
// open issues. Closed issues are never requested.
func (c *Client) NewRepositoryIssuesRequest(ctx context.Context, owner, repo string, page, perPage int) (*http.Request, error) {
	if err := validateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	opts := issueOptions{
		State:   constants.IssueState,
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage),
	}
	return c.newGetRequest(ctx, repoPath(owner, repo)+"/issues", opts)
}

// newGetRequest resolves path against the base URL and encodes opts (a
// struct with url tags, or nil) as the query string. go-github sets the
// Accept and User-Agent headers.
func (c *Client) newGetRequest(ctx context.Context, path string, opts any) (*http.Request, error) {
	if opts != nil {
		values, err := query.Values(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query for %s: %w", path, err)
		}
		path += "?" + values.Encode()
	}

	req, err := c.gh.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	return req.WithContext(ctx), nil
}

func repoPath(owner, repo string) string {
	return fmt.Sprintf("repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

func validateRepoRef(owner, repo string) error {
	if owner == "" || repo == "" {
		return fmt.Errorf("owner and repository name are required (got %q/%q)", owner, repo)
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage int) int {
	if perPage < 1 {
		return constants.PageSize
	}
	return perPage
}
