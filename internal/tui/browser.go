package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spiffcs/explore/internal/model"
	"github.com/spiffcs/explore/internal/query"
	"github.com/spiffcs/explore/internal/service"
)

type screen int

const (
	screenSearch screen = iota
	screenDetail
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// searchDebounce is how long typing must pause before a search starts.
const searchDebounce = 400 * time.Millisecond

type (
	searchMsg struct {
		key  string
		snap query.Snapshot[*model.SearchPage]
	}
	repositoryMsg struct {
		key  string
		snap query.SingleSnapshot[*model.Repository]
	}
	issuesMsg struct {
		key  string
		snap query.Snapshot[[]model.Issue]
	}
	debounceMsg struct {
		seq  int
		text string
	}
	// clearStatusMsg is a message to clear the status
	clearStatusMsg struct{}
)

// Browser is the Bubble Tea model of the interactive explorer. The search
// screen lists repositories for the text typed in the input; the detail
// screen shows one repository and its open issues. Lists load their next
// page when the cursor nears the end.
type Browser struct {
	ctx      context.Context
	explorer *service.Explorer

	input    textinput.Model
	spinner  spinner.Model
	screen   screen
	focus    focus
	inputSeq int

	search        *query.Infinite[*model.SearchPage]
	searchSnap    query.Snapshot[*model.SearchPage]
	searchPending int
	searchOp      string
	repos         []model.Repository
	repoCursor    listCursor

	selected      model.Repository
	repository    *query.Single[*model.Repository]
	repoSnap      query.SingleSnapshot[*model.Repository]
	repoPending   int
	issues        *query.Infinite[[]model.Issue]
	issuesSnap    query.Snapshot[[]model.Issue]
	issuesPending int
	issuesOp      string
	issueList     []model.Issue
	issueCursor   listCursor

	width     int
	height    int
	statusMsg string
	quitting  bool

	now     func() time.Time
	openURL func(url string) tea.Cmd
}

// NewBrowser creates the browser. A non-blank text starts a search as soon
// as the program runs.
func NewBrowser(ctx context.Context, explorer *service.Explorer, text string) Browser {
	input := textinput.New()
	input.Placeholder = "Search GitHub repositories"
	input.Prompt = "> "
	input.CharLimit = 256
	input.SetValue(text)
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	b := Browser{
		ctx:      ctx,
		explorer: explorer,
		input:    input,
		spinner:  s,
		width:    100,
		height:   30,
		now:      time.Now,
		openURL:  openURL,
	}
	if strings.TrimSpace(text) != "" {
		b.focus = focusList
		b.input.Blur()
		b.setSearch(explorer.SearchRepositories(text))
		b.searchPending = 1
		b.searchOp = "Searching"
	}
	return b
}

// Init implements tea.Model
func (b Browser) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, b.spinner.Tick}
	if b.searchPending > 0 {
		cmds = append(cmds, b.searchCmd(b.search.Fetch))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.input.Width = max(msg.Width-4, 10)
		return b, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd

	case searchMsg:
		if b.search == nil || msg.key != b.search.Key().String() {
			return b, nil
		}
		b.searchPending = max(b.searchPending-1, 0)
		b.applySearch(msg.snap)
		return b, nil

	case repositoryMsg:
		if b.repository == nil || msg.key != b.repository.Key().String() {
			return b, nil
		}
		b.repoPending = max(b.repoPending-1, 0)
		b.repoSnap = msg.snap
		return b, nil

	case issuesMsg:
		if b.issues == nil || msg.key != b.issues.Key().String() {
			return b, nil
		}
		b.issuesPending = max(b.issuesPending-1, 0)
		b.applyIssues(msg.snap)
		return b, nil

	case debounceMsg:
		if msg.seq != b.inputSeq {
			return b, nil
		}
		return b.startSearch(msg.text)

	case clearStatusMsg:
		b.statusMsg = ""
		return b, nil
	}

	if b.focus == focusInput && b.screen == screenSearch {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View implements tea.Model
func (b Browser) View() string {
	if b.quitting {
		return ""
	}
	if b.screen == screenDetail {
		return renderDetailView(b)
	}
	return renderSearchView(b)
}

func (b Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		b.quitting = true
		return b, tea.Quit
	}
	if b.screen == screenDetail {
		return b.handleDetailKey(msg)
	}
	if b.focus == focusInput {
		return b.handleInputKey(msg)
	}
	return b.handleListKey(msg)
}

func (b Browser) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.focus = focusList
		b.input.Blur()
		b.inputSeq++
		return b.startSearch(b.input.Value())

	case "esc":
		if len(b.repos) == 0 {
			b.quitting = true
			return b, tea.Quit
		}
		b.focus = focusList
		b.input.Blur()
		return b, nil

	case "down", "tab":
		if len(b.repos) > 0 {
			b.focus = focusList
			b.input.Blur()
		}
		return b, nil
	}

	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	text := b.input.Value()
	if text == before {
		return b, cmd
	}

	b.inputSeq++
	seq := b.inputSeq
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, text: text}
	})
	return b, tea.Batch(cmd, debounce)
}

func (b Browser) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(b.repos)

	switch msg.String() {
	case "q", "esc":
		b.quitting = true
		return b, tea.Quit

	case "/", "i", "tab":
		b.focus = focusInput
		cmd := b.input.Focus()
		return b, cmd

	case "j", "down":
		b.repoCursor.move(1, total)
		cmd := b.loadMoreRepositories()
		return b, cmd

	case "k", "up":
		b.repoCursor.move(-1, total)
		return b, nil

	case "pgdown", "ctrl+d":
		b.repoCursor.move(b.listHeight(), total)
		cmd := b.loadMoreRepositories()
		return b, cmd

	case "pgup", "ctrl+u":
		b.repoCursor.move(-b.listHeight(), total)
		return b, nil

	case "g", "home":
		b.repoCursor.home()
		return b, nil

	case "G", "end":
		b.repoCursor.end(total)
		cmd := b.loadMoreRepositories()
		return b, cmd

	case "enter", "l", "right":
		if total == 0 {
			return b, nil
		}
		return b.openDetail(b.repos[b.repoCursor.pos])

	case "o":
		if total == 0 {
			return b, nil
		}
		return b.open(b.repos[b.repoCursor.pos].HTMLURL)

	case "r":
		if b.search == nil || !b.search.Enabled() {
			return b, nil
		}
		b.searchPending++
		b.searchOp = "Refreshing"
		return b, b.searchCmd(b.search.Refetch)

	case "R":
		if b.search == nil || !b.searchSnap.IsError {
			return b, nil
		}
		b.searchPending++
		b.searchOp = "Retrying"
		return b, b.searchCmd(b.search.Retry)
	}

	return b, nil
}

func (b Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(b.issueList)

	switch msg.String() {
	case "q":
		b.quitting = true
		return b, tea.Quit

	case "esc", "backspace", "h", "left":
		b.screen = screenSearch
		return b, nil

	case "j", "down":
		b.issueCursor.move(1, total)
		cmd := b.loadMoreIssues()
		return b, cmd

	case "k", "up":
		b.issueCursor.move(-1, total)
		return b, nil

	case "pgdown", "ctrl+d":
		b.issueCursor.move(b.listHeight(), total)
		cmd := b.loadMoreIssues()
		return b, cmd

	case "pgup", "ctrl+u":
		b.issueCursor.move(-b.listHeight(), total)
		return b, nil

	case "g", "home":
		b.issueCursor.home()
		return b, nil

	case "G", "end":
		b.issueCursor.end(total)
		cmd := b.loadMoreIssues()
		return b, cmd

	case "enter", "o":
		if total == 0 {
			return b.open(b.repositoryURL())
		}
		return b.open(b.issueList[b.issueCursor.pos].HTMLURL)

	case "O":
		return b.open(b.repositoryURL())

	case "r":
		b.repoPending++
		b.issuesPending++
		b.issuesOp = "Refreshing"
		return b, tea.Batch(b.repositoryCmd(b.repository.Refetch), b.issuesCmd(b.issues.Refetch))

	case "R":
		var cmds []tea.Cmd
		if b.repoSnap.IsError {
			b.repoPending++
			cmds = append(cmds, b.repositoryCmd(b.repository.Retry))
		}
		if b.issuesSnap.IsError {
			b.issuesPending++
			b.issuesOp = "Retrying"
			cmds = append(cmds, b.issuesCmd(b.issues.Retry))
		}
		return b, tea.Batch(cmds...)
	}

	return b, nil
}

// startSearch switches the result list to text. Typing the same text again
// while its search is running changes nothing.
func (b Browser) startSearch(text string) (Browser, tea.Cmd) {
	q := b.explorer.SearchRepositories(text)
	if b.search != nil && q.Key().String() == b.search.Key().String() && b.searchPending > 0 {
		return b, nil
	}

	b.setSearch(q)
	if !q.Enabled() {
		return b, nil
	}
	b.searchPending = 1
	b.searchOp = "Searching"
	return b, b.searchCmd(q.Fetch)
}

func (b *Browser) setSearch(q *query.Infinite[*model.SearchPage]) {
	b.search = q
	b.searchPending = 0
	b.repoCursor.home()
	b.applySearch(q.Snapshot())
}

func (b *Browser) applySearch(snap query.Snapshot[*model.SearchPage]) {
	b.searchSnap = snap
	b.repos = service.Repositories(snap)
	b.repoCursor.clamp(len(b.repos))
}

func (b *Browser) applyIssues(snap query.Snapshot[[]model.Issue]) {
	b.issuesSnap = snap
	b.issueList = service.IssueList(snap)
	b.issueCursor.clamp(len(b.issueList))
}

// loadMoreRepositories requests the next search page when the cursor is
// near the end of the loaded results.
func (b *Browser) loadMoreRepositories() tea.Cmd {
	if b.search == nil || b.searchPending > 0 {
		return nil
	}
	if !b.repoCursor.nearEnd(len(b.repos)) || !b.searchSnap.HasNextPage || b.searchSnap.IsError {
		return nil
	}
	b.searchPending++
	b.searchOp = "Loading more"
	return b.searchCmd(b.search.FetchNextPage)
}

func (b *Browser) loadMoreIssues() tea.Cmd {
	if b.issues == nil || b.issuesPending > 0 {
		return nil
	}
	if !b.issueCursor.nearEnd(len(b.issueList)) || !b.issuesSnap.HasNextPage || b.issuesSnap.IsError {
		return nil
	}
	b.issuesPending++
	b.issuesOp = "Loading more"
	return b.issuesCmd(b.issues.FetchNextPage)
}

func (b Browser) openDetail(r model.Repository) (Browser, tea.Cmd) {
	owner, name := r.Owner.Login, r.Name
	if owner == "" || name == "" {
		owner, name, _ = strings.Cut(r.FullName, "/")
	}

	b.screen = screenDetail
	b.selected = r
	b.repository = b.explorer.Repository(owner, name)
	b.issues = b.explorer.Issues(owner, name)
	b.repoSnap = b.repository.Snapshot()
	b.applyIssues(b.issues.Snapshot())
	b.issueCursor.home()
	b.repoPending = 1
	b.issuesPending = 1
	b.issuesOp = "Loading issues"

	return b, tea.Batch(b.repositoryCmd(b.repository.Fetch), b.issuesCmd(b.issues.Fetch))
}

// detailRepository prefers the fetched details and falls back to the
// search result that was selected.
func (b Browser) detailRepository() model.Repository {
	if b.repoSnap.HasData && b.repoSnap.Data != nil {
		return *b.repoSnap.Data
	}
	return b.selected
}

func (b Browser) repositoryURL() string {
	return b.detailRepository().HTMLURL
}

func (b Browser) open(url string) (Browser, tea.Cmd) {
	if url == "" {
		b.statusMsg = "No URL available"
		return b, clearStatusAfter(2 * time.Second)
	}
	b.statusMsg = "Opening " + url
	return b, tea.Batch(b.openURL(url), clearStatusAfter(2*time.Second))
}

func (b Browser) searchCmd(op func(context.Context) (query.Snapshot[*model.SearchPage], error)) tea.Cmd {
	key, ctx := b.search.Key().String(), b.ctx
	return func() tea.Msg {
		snap, _ := op(ctx)
		return searchMsg{key: key, snap: snap}
	}
}

func (b Browser) repositoryCmd(op func(context.Context) (query.SingleSnapshot[*model.Repository], error)) tea.Cmd {
	key, ctx := b.repository.Key().String(), b.ctx
	return func() tea.Msg {
		snap, _ := op(ctx)
		return repositoryMsg{key: key, snap: snap}
	}
}

func (b Browser) issuesCmd(op func(context.Context) (query.Snapshot[[]model.Issue], error)) tea.Cmd {
	key, ctx := b.issues.Key().String(), b.ctx
	return func() tea.Msg {
		snap, _ := op(ctx)
		return issuesMsg{key: key, snap: snap}
	}
}

// clearStatusAfter returns a command that clears the status after a delay
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
