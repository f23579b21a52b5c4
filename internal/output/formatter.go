package output

import (
	"fmt"
	"io"

	"github.com/spiffcs/explore/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// RepositoryList is the result of a repository search, flattened across the
// pages fetched so far.
type RepositoryList struct {
	Query        string             `json:"query"`
	TotalCount   int                `json:"total_count"`
	Pages        int                `json:"pages"`
	HasMore      bool               `json:"has_more"`
	Repositories []model.Repository `json:"repositories"`
}

// IssueList is the open issues of one repository, flattened across pages.
type IssueList struct {
	Repository string        `json:"repository"`
	Pages      int           `json:"pages"`
	HasMore    bool          `json:"has_more"`
	Issues     []model.Issue `json:"issues"`
}

// Overview is a repository shown together with its first open issues.
type Overview struct {
	Repository *model.Repository `json:"repository"`
	Issues     IssueList         `json:"issues"`
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatRepositories(list RepositoryList, w io.Writer) error
	FormatRepository(repo *model.Repository, w io.Writer) error
	FormatIssues(list IssueList, w io.Writer) error
	FormatOverview(ov Overview, w io.Writer) error
}

// writeOverview renders the repository followed by its issues, separated by
// a blank line.
func writeOverview(f Formatter, ov Overview, w io.Writer) error {
	if err := f.FormatRepository(ov.Repository, w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return f.FormatIssues(ov.Issues, w)
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or markdown)", s)
	}
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return NewTableFormatter()
	}
}
