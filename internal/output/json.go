package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/explore/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatRepositories outputs search results with their paging metadata.
func (f *JSONFormatter) FormatRepositories(list RepositoryList, w io.Writer) error {
	if list.Repositories == nil {
		list.Repositories = []model.Repository{}
	}
	return f.encode(w, list)
}

// FormatRepository outputs a single repository.
func (f *JSONFormatter) FormatRepository(repo *model.Repository, w io.Writer) error {
	return f.encode(w, repo)
}

// FormatIssues outputs an issue list with its paging metadata.
func (f *JSONFormatter) FormatIssues(list IssueList, w io.Writer) error {
	if list.Issues == nil {
		list.Issues = []model.Issue{}
	}
	return f.encode(w, list)
}

// FormatOverview outputs a repository and its issues as one document.
func (f *JSONFormatter) FormatOverview(ov Overview, w io.Writer) error {
	if ov.Issues.Issues == nil {
		ov.Issues.Issues = []model.Issue{}
	}
	return f.encode(w, ov)
}
