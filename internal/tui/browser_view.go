package tui

import (
	"fmt"
	"strings"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/format"
	"github.com/spiffcs/explore/internal/ghclient"
	"github.com/spiffcs/explore/internal/model"
	"github.com/spiffcs/explore/internal/service"
)

// Column widths
const (
	colRepo     = 32
	colStars    = 8
	colLanguage = 12
	colNumber   = 7
	colAuthor   = 14
	colLabels   = 20
	colAge      = 10
	minFlexCol  = 10
)

// detailInfoLines is the number of lines the detail screen adds above its
// issue list: description and repository stats.
const detailInfoLines = 2

// listHeight is the number of list rows that fit on the current screen.
func (b Browser) listHeight() int {
	h := b.height - constants.HeaderLines - constants.FooterLines
	if b.screen == screenDetail {
		h -= detailInfoLines
	}
	return max(h, 1)
}

func renderSearchView(b Browser) string {
	var s strings.Builder

	s.WriteString(titleBarStyle.Render("explore"))
	s.WriteString(dimStyle.Render("  GitHub repositories"))
	s.WriteString("\n")
	s.WriteString(b.input.View())
	s.WriteString("\n\n")

	switch {
	case b.search == nil || !b.search.Enabled():
		s.WriteString(emptyStyle.Render("Type to search GitHub repositories."))
		s.WriteString("\n\n")
		s.WriteString(renderSearchHelp(b))
		return s.String()

	case len(b.repos) == 0 && b.searchPending > 0:
		s.WriteString(fmt.Sprintf("%s %s...", b.spinner.View(), b.searchOp))
		s.WriteString("\n\n")
		s.WriteString(renderSearchHelp(b))
		return s.String()

	case len(b.repos) == 0 && b.searchSnap.IsError:
		s.WriteString(errorBoxStyle.Render(ghclient.UserMessage(b.searchSnap.Err)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("r: try again"))
		s.WriteString("\n\n")
		s.WriteString(renderSearchHelp(b))
		return s.String()

	case len(b.repos) == 0:
		s.WriteString(emptyStyle.Render(fmt.Sprintf("No repositories found for %q.", b.input.Value())))
		s.WriteString("\n\n")
		s.WriteString(renderSearchHelp(b))
		return s.String()
	}

	descWidth := max(b.width-2-colRepo-colStars-colLanguage-6, minFlexCol)
	s.WriteString(headerStyle.Render(fmt.Sprintf("  %s  %s  %s  %s",
		format.PadRight("Repository", colRepo),
		format.PadRight("Stars", colStars),
		format.PadRight("Language", colLanguage),
		"Description")))
	s.WriteString("\n")
	s.WriteString(separatorStyle.Render(strings.Repeat("─", min(b.width, 2+colRepo+colStars+colLanguage+6+descWidth))))
	s.WriteString("\n")

	height := b.listHeight()
	start, end := calculateScrollWindow(b.repoCursor.pos, len(b.repos), height)
	for i := start; i < end; i++ {
		s.WriteString(renderRepositoryRow(b.repos[i], i == b.repoCursor.pos && b.focus == focusList, descWidth))
		s.WriteString("\n")
	}
	for i := end - start; i < height; i++ {
		s.WriteString("\n")
	}

	s.WriteString(renderSearchStatus(b))
	s.WriteString("\n")
	s.WriteString(renderSearchHelp(b))
	return s.String()
}

func renderRepositoryRow(r model.Repository, selected bool, descWidth int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	language := r.Language
	if language == "" {
		language = "-"
	}

	name := applyStyle(repoNameStyle, format.Fit(r.FullName, colRepo), selected)
	stars := applyStyle(starStyle, format.PadRight(format.MarkerStar+" "+format.Count(r.Stars), colStars), selected)
	lang := applyStyle(languageStyle, format.Fit(language, colLanguage), selected)
	desc := applyStyle(dimStyle, format.Truncate(format.SingleLine(r.Description), descWidth), selected)

	row := fmt.Sprintf("%s%s  %s  %s  %s", cursor, name, stars, lang, desc)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func renderSearchStatus(b Browser) string {
	if b.statusMsg != "" {
		return statusStyle.Render(b.statusMsg)
	}
	snap := b.searchSnap
	switch {
	case b.searchPending > 0:
		return fmt.Sprintf("%s %s...", b.spinner.View(), b.searchOp)
	case snap.IsError:
		return errorBoxStyle.Render(ghclient.UserMessage(snap.Err)) + helpStyle.Render("  R: retry")
	}

	counts := fmt.Sprintf("%d of %s repositories", len(b.repos), format.Count(service.TotalCount(snap)))
	if snap.HasNextPage {
		counts += " · scroll for more"
	}
	return dimStyle.Render(counts)
}

func renderSearchHelp(b Browser) string {
	if b.focus == focusInput {
		return helpStyle.Render("enter: search   tab/↓: results   esc: quit")
	}
	return helpStyle.Render("j/k: nav   enter: details   o: open   /: search   r: refresh   R: retry   q: quit")
}

func renderDetailView(b Browser) string {
	var s strings.Builder
	repo := b.detailRepository()

	s.WriteString(titleBarStyle.Render(repo.FullName))
	if repo.Language != "" {
		s.WriteString(languageStyle.Render("  " + repo.Language))
	}
	s.WriteString("\n")

	switch {
	case b.repoSnap.IsError && !b.repoSnap.HasData:
		s.WriteString(errorBoxStyle.Render(ghclient.UserMessage(b.repoSnap.Err)))
		s.WriteString("\n\n")
	default:
		desc := format.SingleLine(repo.Description)
		if desc == "" {
			desc = "No description"
		}
		s.WriteString(dimStyle.Render(format.Truncate(desc, max(b.width, minFlexCol))))
		s.WriteString("\n")
		stats := fmt.Sprintf("%s %s   %s %s   %s %d open   updated %s",
			format.MarkerStar, format.Count(repo.Stars),
			format.MarkerFork, format.Count(repo.Forks),
			format.MarkerIssue, repo.OpenIssues,
			format.Age(repo.UpdatedAt, b.now()))
		if b.repoPending > 0 {
			stats += "  " + b.spinner.View()
		}
		s.WriteString(stats)
		s.WriteString("\n")
	}
	s.WriteString("\n")

	switch {
	case len(b.issueList) == 0 && b.issuesPending > 0:
		s.WriteString(fmt.Sprintf("%s %s...", b.spinner.View(), b.issuesOp))
		s.WriteString("\n\n")
		s.WriteString(renderDetailHelp())
		return s.String()

	case len(b.issueList) == 0 && b.issuesSnap.IsError:
		s.WriteString(errorBoxStyle.Render(ghclient.UserMessage(b.issuesSnap.Err)))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("r: try again"))
		s.WriteString("\n\n")
		s.WriteString(renderDetailHelp())
		return s.String()

	case len(b.issueList) == 0:
		s.WriteString(emptyStyle.Render("No open issues."))
		s.WriteString("\n\n")
		s.WriteString(renderDetailHelp())
		return s.String()
	}

	titleWidth := max(b.width-2-2-colNumber-colAuthor-colLabels-colAge-10, minFlexCol)
	s.WriteString(headerStyle.Render(fmt.Sprintf("    %s  %s  %s  %s  %s",
		format.PadRight("#", colNumber),
		format.PadRight("Title", titleWidth),
		format.PadRight("Author", colAuthor),
		format.PadRight("Labels", colLabels),
		"Updated")))
	s.WriteString("\n")
	s.WriteString(separatorStyle.Render(strings.Repeat("─", min(b.width, 4+colNumber+titleWidth+colAuthor+colLabels+colAge+8))))
	s.WriteString("\n")

	height := b.listHeight()
	start, end := calculateScrollWindow(b.issueCursor.pos, len(b.issueList), height)
	now := b.now()
	for i := start; i < end; i++ {
		issue := b.issueList[i]
		selected := i == b.issueCursor.pos
		s.WriteString(renderIssueRow(issue, selected, titleWidth, format.Age(issue.UpdatedAt, now)))
		s.WriteString("\n")
	}
	for i := end - start; i < height; i++ {
		s.WriteString("\n")
	}

	s.WriteString(renderIssuesStatus(b))
	s.WriteString("\n")
	s.WriteString(renderDetailHelp())
	return s.String()
}

func renderIssueRow(issue model.Issue, selected bool, titleWidth int, age string) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	marker := applyStyle(issueStyle, format.IssueMarker(issue), selected)
	if issue.IsPullRequest {
		marker = applyStyle(pullStyle, format.IssueMarker(issue), selected)
	}

	row := fmt.Sprintf("%s%s %s  %s  %s  %s  %s",
		cursor,
		marker,
		format.PadRight(fmt.Sprintf("#%d", issue.Number), colNumber),
		format.Fit(format.SingleLine(issue.Title), titleWidth),
		applyStyle(dimStyle, format.Fit(issue.User.Login, colAuthor), selected),
		applyStyle(labelStyle, format.Fit(format.Labels(issue.LabelNames(), 2), colLabels), selected),
		age)
	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func renderIssuesStatus(b Browser) string {
	if b.statusMsg != "" {
		return statusStyle.Render(b.statusMsg)
	}
	snap := b.issuesSnap
	switch {
	case b.issuesPending > 0:
		return fmt.Sprintf("%s %s...", b.spinner.View(), b.issuesOp)
	case snap.IsError:
		return errorBoxStyle.Render(ghclient.UserMessage(snap.Err)) + helpStyle.Render("  R: retry")
	}

	counts := fmt.Sprintf("%d open issues loaded", len(b.issueList))
	if snap.HasNextPage {
		counts += " · scroll for more"
	}
	return dimStyle.Render(counts)
}

func renderDetailHelp() string {
	return helpStyle.Render("j/k: nav   enter: open issue   O: open repository   esc: back   r: refresh   R: retry   q: quit")
}
