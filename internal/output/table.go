package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/explore/internal/format"
	"github.com/spiffcs/explore/internal/model"
	"golang.org/x/term"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps names in OSC 8 links. NewTableFormatter enables it
	// when stdout is a terminal.
	Hyperlinks bool
	// Now is used for relative ages. Defaults to time.Now.
	Now func() time.Time
}

// NewTableFormatter returns a TableFormatter configured for stdout.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{Hyperlinks: term.IsTerminal(int(os.Stdout.Fd()))}
}

// Column widths
const (
	colRank     = 4
	colRepo     = 32
	colStars    = 7
	colForks    = 6
	colLanguage = 12
	colUpdated  = 10
	colDesc     = 48

	colNumber   = 7
	colTitle    = 50
	colAuthor   = 16
	colLabels   = 24
	colComments = 5
	colAge      = 10
)

func (f *TableFormatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func (f *TableFormatter) hyperlink(text, url string) string {
	if !f.Hyperlinks || url == "" {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// FormatRepositories outputs search results as a table
func (f *TableFormatter) FormatRepositories(list RepositoryList, w io.Writer) error {
	if len(list.Repositories) == 0 {
		fmt.Fprintf(w, "No repositories found for %q.\n", list.Query)
		return nil
	}

	header := fmt.Sprintf("%s  %s  %s  %s  %s  %s  %s",
		format.PadRight("#", colRank),
		format.PadRight("Repository", colRepo),
		format.PadRight("Stars", colStars),
		format.PadRight("Forks", colForks),
		format.PadRight("Language", colLanguage),
		format.PadRight("Updated", colUpdated),
		"Description")
	fmt.Fprintln(w, color.New(color.Bold).Sprint(header))
	fmt.Fprintln(w, strings.Repeat("-", colRank+colRepo+colStars+colForks+colLanguage+colUpdated+colDesc+12))

	now := f.now()
	for i, r := range list.Repositories {
		// Pad before linking: escape sequences have no width.
		name := f.hyperlink(format.Fit(r.FullName, colRepo), r.HTMLURL)
		language := r.Language
		if language == "" {
			language = "-"
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
			format.PadRight(fmt.Sprintf("%d", i+1), colRank),
			name,
			color.YellowString(format.PadRight(format.Count(r.Stars), colStars)),
			format.PadRight(format.Count(r.Forks), colForks),
			color.CyanString(format.Fit(language, colLanguage)),
			format.PadRight(format.Age(r.UpdatedAt, now), colUpdated),
			format.Truncate(format.SingleLine(r.Description), colDesc),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Showing %d of %s repositories (%d %s)\n",
		len(list.Repositories), format.Count(list.TotalCount), list.Pages, plural(list.Pages, "page", "pages"))
	if list.HasMore {
		fmt.Fprintln(w, color.HiBlackString("More results available: use --pages to load more."))
	}
	return nil
}

// FormatRepository outputs the details of one repository
func (f *TableFormatter) FormatRepository(repo *model.Repository, w io.Writer) error {
	if repo == nil {
		fmt.Fprintln(w, "Repository not available.")
		return nil
	}

	fmt.Fprintln(w, color.New(color.Bold).Sprint(f.hyperlink(repo.FullName, repo.HTMLURL)))
	if desc := format.SingleLine(repo.Description); desc != "" {
		fmt.Fprintln(w, desc)
	}
	fmt.Fprintln(w)

	language := repo.Language
	if language == "" {
		language = "-"
	}
	rows := []struct{ label, value string }{
		{"Owner", repo.Owner.Login},
		{"Language", language},
		{"Stars", fmt.Sprintf("%s %d", format.MarkerStar, repo.Stars)},
		{"Forks", fmt.Sprintf("%s %d", format.MarkerFork, repo.Forks)},
		{"Watchers", fmt.Sprintf("%d", repo.Watchers)},
		{"Open issues", fmt.Sprintf("%d", repo.OpenIssues)},
		{"Created", format.Date(repo.CreatedAt)},
		{"Updated", fmt.Sprintf("%s (%s)", format.Date(repo.UpdatedAt), format.Age(repo.UpdatedAt, f.now()))},
		{"URL", repo.HTMLURL},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s %s\n", color.HiBlackString(format.PadRight(row.label+":", 13)), row.value)
	}
	return nil
}

// FormatIssues outputs open issues as a table
func (f *TableFormatter) FormatIssues(list IssueList, w io.Writer) error {
	if len(list.Issues) == 0 {
		fmt.Fprintf(w, "No open issues in %s.\n", list.Repository)
		return nil
	}

	header := fmt.Sprintf("   %s  %s  %s  %s  %s  %s",
		format.PadRight("#", colNumber),
		format.PadRight("Title", colTitle),
		format.PadRight("Author", colAuthor),
		format.PadRight("Labels", colLabels),
		format.PadRight("Cmts", colComments),
		"Updated")
	fmt.Fprintln(w, color.New(color.Bold).Sprint(header))
	fmt.Fprintln(w, strings.Repeat("-", colNumber+colTitle+colAuthor+colLabels+colComments+colAge+13))

	now := f.now()
	var pulls int
	for _, issue := range list.Issues {
		marker := color.GreenString(format.IssueMarker(issue))
		if issue.IsPullRequest {
			marker = color.MagentaString(format.IssueMarker(issue))
			pulls++
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s  %s\n",
			marker,
			format.PadRight(fmt.Sprintf("#%d", issue.Number), colNumber),
			f.hyperlink(format.Fit(format.SingleLine(issue.Title), colTitle), issue.HTMLURL),
			format.Fit(issue.User.Login, colAuthor),
			color.CyanString(format.Fit(format.Labels(issue.LabelNames(), 2), colLabels)),
			format.PadRight(fmt.Sprintf("%d", issue.Comments), colComments),
			format.Age(issue.UpdatedAt, now),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d open in %s", len(list.Issues), list.Repository)
	if pulls > 0 {
		fmt.Fprintf(w, " (%d %s)", pulls, plural(pulls, "pull request", "pull requests"))
	}
	fmt.Fprintln(w)
	if list.HasMore {
		fmt.Fprintln(w, color.HiBlackString("More issues available: use --pages to load more."))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatOverview outputs the repository details followed by its issues.
func (f *TableFormatter) FormatOverview(ov Overview, w io.Writer) error {
	return writeOverview(f, ov, w)
}
