package ghclient

import (
	"context"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/explore/internal/model"
)

// SearchRepositories fetches one page of repository search results.
func (c *Client) SearchRepositories(ctx context.Context, text string, page, perPage int) (*model.SearchPage, error) {
	req, err := c.NewSearchRepositoriesRequest(ctx, text, page, perPage)
	if err != nil {
		return nil, err
	}

	var result gh.RepositoriesSearchResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	items := make([]model.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		items = append(items, repositoryFromGitHub(r))
	}

	return &model.SearchPage{
		Items:      items,
		TotalCount: result.GetTotal(),
		Incomplete: result.GetIncompleteResults(),
	}, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*model.Repository, error) {
	req, err := c.NewRepositoryRequest(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	var result gh.Repository
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	r := repositoryFromGitHub(&result)
	return &r, nil
}

// ListRepositoryIssues fetches one page of a repository's open issues.
func (c *Client) ListRepositoryIssues(ctx context.Context, owner, repo string, page, perPage int) ([]model.Issue, error) {
	req, err := c.NewRepositoryIssuesRequest(ctx, owner, repo, page, perPage)
	if err != nil {
		return nil, err
	}

	var result []*gh.Issue
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	issues := make([]model.Issue, 0, len(result))
	for _, i := range result {
		issues = append(issues, issueFromGitHub(i))
	}
	return issues, nil
}

// do sends req and hands the response to the classifier. A failure to get
// any response at all becomes a *TransportError.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Message: c.messages.Network, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp, v, c.messages)
}

func userFromGitHub(u *gh.User) model.User {
	return model.User{
		ID:        u.GetID(),
		Login:     u.GetLogin(),
		AvatarURL: u.GetAvatarURL(),
	}
}

// repositoryFromGitHub converts a go-github repository to a model.Repository.
func repositoryFromGitHub(r *gh.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Owner:       userFromGitHub(r.GetOwner()),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Language:    r.GetLanguage(),
		HTMLURL:     r.GetHTMLURL(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}

// issueFromGitHub converts a go-github issue to a model.Issue.
func issueFromGitHub(i *gh.Issue) model.Issue {
	labels := make([]model.Label, 0, len(i.Labels))
	for _, l := range i.Labels {
		labels = append(labels, model.Label{
			ID:          l.GetID(),
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}

	return model.Issue{
		ID:            i.GetID(),
		Number:        i.GetNumber(),
		Title:         i.GetTitle(),
		User:          userFromGitHub(i.GetUser()),
		Labels:        labels,
		State:         i.GetState(),
		Comments:      i.GetComments(),
		Body:          i.GetBody(),
		HTMLURL:       i.GetHTMLURL(),
		IsPullRequest: i.IsPullRequest(),
		CreatedAt:     i.GetCreatedAt().Time,
		UpdatedAt:     i.GetUpdatedAt().Time,
	}
}
