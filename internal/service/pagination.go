package service

import (
	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/model"
	"github.com/spiffcs/explore/internal/query"
)

// GitHub does not say whether another page exists, so a full page is
// taken to mean one does. total_count is not consulted.
var (
	nextSearchPage = query.FullPages(constants.PageSize, func(p *model.SearchPage) int {
		return len(searchItems(p))
	})
	nextIssuesPage = query.FullPages(constants.PageSize, func(p []model.Issue) int {
		return len(p)
	})
)

func searchItems(p *model.SearchPage) []model.Repository {
	if p == nil {
		return nil
	}
	return p.Items
}

// Repositories flattens the pages of a search snapshot into one list.
func Repositories(s query.Snapshot[*model.SearchPage]) []model.Repository {
	return query.FlatMap(s.Pages, searchItems)
}

// IssueList flattens the pages of an issues snapshot into one list.
func IssueList(s query.Snapshot[[]model.Issue]) []model.Issue {
	return query.Flatten(s.Pages)
}

// TotalCount returns the result count GitHub reported with the most recent
// search page, or 0 before the first page.
func TotalCount(s query.Snapshot[*model.SearchPage]) int {
	for i := len(s.Pages) - 1; i >= 0; i-- {
		if s.Pages[i] != nil {
			return s.Pages[i].TotalCount
		}
	}
	return 0
}
