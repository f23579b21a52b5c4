package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spiffcs/explore/internal/format"
	"github.com/spiffcs/explore/internal/model"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	// Now stamps the report header. Defaults to time.Now.
	Now func() time.Time
}

func (f *MarkdownFormatter) generated() string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return now().Format("2006-01-02 15:04")
}

// FormatRepositories outputs search results as a Markdown report
func (f *MarkdownFormatter) FormatRepositories(list RepositoryList, w io.Writer) error {
	fmt.Fprintf(w, "# Repositories matching %q\n", list.Query)
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", f.generated())

	if len(list.Repositories) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	fmt.Fprintln(w, "| # | Repository | Stars | Forks | Language | Description |")
	fmt.Fprintln(w, "|---|------------|------:|------:|----------|-------------|")
	for i, r := range list.Repositories {
		fmt.Fprintf(w, "| %d | [%s](%s) | %d | %d | %s | %s |\n",
			i+1, r.FullName, r.HTMLURL, r.Stars, r.Forks,
			escapeCell(r.Language), escapeCell(r.Description))
	}

	fmt.Fprintf(w, "\n%d of %d repositories shown.\n", len(list.Repositories), list.TotalCount)
	return nil
}

// FormatRepository outputs repository details as Markdown
func (f *MarkdownFormatter) FormatRepository(repo *model.Repository, w io.Writer) error {
	if repo == nil {
		fmt.Fprintln(w, "Repository not available.")
		return nil
	}

	fmt.Fprintf(w, "# [%s](%s)\n\n", repo.FullName, repo.HTMLURL)
	if desc := format.SingleLine(repo.Description); desc != "" {
		fmt.Fprintf(w, "%s\n\n", desc)
	}
	fmt.Fprintf(w, "- **Owner:** %s\n", repo.Owner.Login)
	if repo.Language != "" {
		fmt.Fprintf(w, "- **Language:** %s\n", repo.Language)
	}
	fmt.Fprintf(w, "- **Stars:** %d\n", repo.Stars)
	fmt.Fprintf(w, "- **Forks:** %d\n", repo.Forks)
	fmt.Fprintf(w, "- **Watchers:** %d\n", repo.Watchers)
	fmt.Fprintf(w, "- **Open issues:** %d\n", repo.OpenIssues)
	fmt.Fprintf(w, "- **Created:** %s\n", format.Date(repo.CreatedAt))
	fmt.Fprintf(w, "- **Updated:** %s\n", format.Date(repo.UpdatedAt))
	return nil
}

// FormatIssues outputs open issues as a Markdown task list
func (f *MarkdownFormatter) FormatIssues(list IssueList, w io.Writer) error {
	fmt.Fprintf(w, "# Open issues in %s\n", list.Repository)
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", f.generated())

	if len(list.Issues) == 0 {
		fmt.Fprintln(w, "No open issues.")
		return nil
	}

	for _, issue := range list.Issues {
		kind := "issue"
		if issue.IsPullRequest {
			kind = "pull request"
		}
		fmt.Fprintf(w, "- [ ] [#%d %s](%s) (%s by @%s",
			issue.Number, format.SingleLine(issue.Title), issue.HTMLURL, kind, issue.User.Login)
		if labels := issue.LabelNames(); len(labels) > 0 {
			fmt.Fprintf(w, ", labels: %s", strings.Join(labels, ", "))
		}
		fmt.Fprintln(w, ")")
	}
	return nil
}

// escapeCell keeps free text from breaking a table row.
func escapeCell(s string) string {
	s = format.SingleLine(s)
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// FormatOverview outputs the repository details followed by its issues.
func (f *MarkdownFormatter) FormatOverview(ov Overview, w io.Writer) error {
	return writeOverview(f, ov, w)
}
