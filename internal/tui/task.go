package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spiffcs/explore/internal/ghclient"
)

// Task represents a single task in the TUI progress display.
type Task struct {
	ID       TaskID
	Name     string
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error
}

// NewTask creates a new task with the given ID and name.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// SearchTasks returns the task list for a paged repository search.
func SearchTasks() []Task {
	return []Task{
		NewTask(TaskFetch, "Searching repositories"),
		NewTask(TaskProcess, "Preparing results"),
	}
}

// IssuesTasks returns the task list for a paged issue listing.
func IssuesTasks() []Task {
	return []Task{
		NewTask(TaskFetch, "Fetching open issues"),
		NewTask(TaskProcess, "Preparing results"),
	}
}

// RepositoryTasks returns the task list for the repository overview.
func RepositoryTasks() []Task {
	return []Task{
		NewTask(TaskRepository, "Loading repository"),
		NewTask(TaskFetch, "Fetching open issues"),
	}
}

// View renders the task as a string.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	icon := StatusIcon(t.Status, spinnerFrame)

	var name string
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	} else {
		name = taskNameStyle.Render(t.Name)
	}

	line := fmt.Sprintf("  %s %s", icon, name)

	if t.Status == StatusRunning && t.Progress > 0 {
		bar := prog.ViewAs(t.Progress)
		line += fmt.Sprintf(" %s %d%%", bar, int(t.Progress*100))
		if t.Message != "" {
			line += " " + messageStyle.Render(fmt.Sprintf("(%s)", t.Message))
		}
	} else if t.Message != "" {
		line += " " + messageStyle.Render(t.Message)
	}

	if t.Count > 0 && t.Message == "" {
		line += " " + messageStyle.Render(fmt.Sprintf("(%d)", t.Count))
	}

	// Classified errors carry a localized message without request details.
	if t.Error != nil {
		line += " " + errorStyle.Render(ghclient.UserMessage(t.Error))
	}

	return line
}
