package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/ghclient"
)

func TestTaskID(t *testing.T) {
	// Verify task IDs are distinct
	ids := []TaskID{TaskRepository, TaskFetch, TaskProcess}
	seen := make(map[TaskID]bool)

	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate task ID: %d", id)
		}
		seen[id] = true
	}
}

func TestTaskStatus(t *testing.T) {
	statuses := []TaskStatus{StatusPending, StatusRunning, StatusComplete, StatusError, StatusSkipped}
	seen := make(map[TaskStatus]bool)

	for _, status := range statuses {
		if seen[status] {
			t.Errorf("duplicate status: %d", status)
		}
		seen[status] = true
	}
}

func TestNewTask(t *testing.T) {
	task := NewTask(TaskFetch, "Fetching open issues")

	if task.ID != TaskFetch {
		t.Errorf("expected ID %d, got %d", TaskFetch, task.ID)
	}
	if task.Name != "Fetching open issues" {
		t.Errorf("expected name 'Fetching open issues', got %q", task.Name)
	}
	if task.Status != StatusPending {
		t.Errorf("expected status %d, got %d", StatusPending, task.Status)
	}
}

func TestTaskLists(t *testing.T) {
	for name, tasks := range map[string][]Task{
		"search":     SearchTasks(),
		"issues":     IssuesTasks(),
		"repository": RepositoryTasks(),
	} {
		hasFetch := false
		for _, task := range tasks {
			if task.ID == TaskFetch {
				hasFetch = true
			}
		}
		if !hasFetch {
			t.Errorf("%s tasks have no fetch task", name)
		}
	}
}

func TestSendEvent(t *testing.T) {
	ch := make(chan Event, 1)

	SendEvent(ch, TaskEvent{Task: TaskRepository, Status: StatusComplete})

	select {
	case received := <-ch:
		te, ok := received.(TaskEvent)
		if !ok {
			t.Fatal("expected TaskEvent type")
		}
		if te.Task != TaskRepository {
			t.Errorf("expected task %d, got %d", TaskRepository, te.Task)
		}
	default:
		t.Error("expected event in channel")
	}
}

func TestSendEventNilChannel(t *testing.T) {
	// Should not panic with nil channel
	SendEvent(nil, TaskEvent{})
}

func TestSendEventFullChannelDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	SendEvent(ch, DoneEvent{})
	SendEvent(ch, DoneEvent{})
	if len(ch) != 1 {
		t.Errorf("expected 1 buffered event, got %d", len(ch))
	}
}

func TestSendTaskEvent(t *testing.T) {
	ch := make(chan Event, 1)

	SendTaskEvent(ch, TaskProcess, StatusRunning,
		WithMessage("processing"),
		WithCount(42),
		WithProgress(0.75),
	)

	select {
	case received := <-ch:
		te, ok := received.(TaskEvent)
		if !ok {
			t.Fatal("expected TaskEvent type")
		}
		if te.Task != TaskProcess {
			t.Errorf("expected task %d, got %d", TaskProcess, te.Task)
		}
		if te.Message != "processing" {
			t.Errorf("expected message 'processing', got %q", te.Message)
		}
		if te.Count != 42 {
			t.Errorf("expected count 42, got %d", te.Count)
		}
		if te.Progress != 0.75 {
			t.Errorf("expected progress 0.75, got %f", te.Progress)
		}
	default:
		t.Error("expected event in channel")
	}
}

func TestWithError(t *testing.T) {
	ch := make(chan Event, 1)
	testErr := errors.New("test error")

	SendTaskEvent(ch, TaskFetch, StatusError, WithError(testErr))

	te := (<-ch).(TaskEvent)
	if te.Error != testErr {
		t.Errorf("expected error %v, got %v", testErr, te.Error)
	}
}

func TestShouldUseTUIInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if ShouldUseTUI() {
		t.Error("TUI should be disabled in CI")
	}
}

func TestStatusIcon(t *testing.T) {
	statuses := []TaskStatus{StatusPending, StatusRunning, StatusComplete, StatusError, StatusSkipped}

	for _, status := range statuses {
		icon := StatusIcon(status, ">")
		if icon == "" {
			t.Errorf("StatusIcon returned empty string for status %d", status)
		}
	}
}

func TestTaskViewProgress(t *testing.T) {
	task := NewTask(TaskFetch, "Searching repositories")
	task.Status = StatusRunning
	task.Progress = 0.5
	task.Message = "page 2/4"

	out := task.View("*", progress.New(progress.WithWidth(10)))
	if !strings.Contains(out, "50%") || !strings.Contains(out, "(page 2/4)") {
		t.Errorf("unexpected task view %q", out)
	}
}

func TestModelUpdatesTask(t *testing.T) {
	m := NewModel(nil, WithTasks(IssuesTasks()), WithTitle("spiffcs/explore"))

	updated, _ := m.Update(TaskEvent{Task: TaskFetch, Status: StatusComplete, Count: 41})
	out := updated.(Model).View()

	if !strings.Contains(out, "spiffcs/explore") {
		t.Errorf("title missing from %q", out)
	}
	if !strings.Contains(out, "Fetching open issues") || !strings.Contains(out, "(41)") {
		t.Errorf("task not updated: %q", out)
	}
}

func TestModelShowsClassifiedError(t *testing.T) {
	m := NewModel(nil, WithTasks(RepositoryTasks()))
	err := &ghclient.APIError{Message: "Recurso não encontrado", StatusCode: 404}

	updated, _ := m.Update(TaskEvent{Task: TaskRepository, Status: StatusError, Error: err})
	out := updated.(Model).View()

	if !strings.Contains(out, "Recurso não encontrado") {
		t.Errorf("error message missing from %q", out)
	}
}

func TestModelRateLimitWarning(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewModel(nil)
	m.now = func() time.Time { return now }

	updated, _ := m.Update(RateLimitEvent{Limited: true, ResetAt: now.Add(90 * time.Second)})
	out := updated.(Model).View()

	if !strings.Contains(out, "Rate limited") || !strings.Contains(out, "1m30s") {
		t.Errorf("rate limit warning missing from %q", out)
	}
}

func TestModelDone(t *testing.T) {
	m := NewModel(nil)
	updated, cmd := m.Update(DoneEvent{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if strings.Contains(updated.(Model).View(), "Ctrl+C") {
		t.Error("cancel hint shown after done")
	}
}

func TestListCursor(t *testing.T) {
	var c listCursor

	c.move(-1, 10)
	if c.pos != 0 {
		t.Errorf("cursor moved above the list: %d", c.pos)
	}
	c.move(25, 10)
	if c.pos != 9 {
		t.Errorf("cursor moved past the end: %d", c.pos)
	}
	c.clamp(4)
	if c.pos != 3 {
		t.Errorf("clamp to shorter list = %d", c.pos)
	}
	c.end(0)
	if c.pos != 0 {
		t.Errorf("end of empty list = %d", c.pos)
	}
}

func TestListCursorNearEnd(t *testing.T) {
	total := 20
	threshold := constants.LoadMoreThreshold

	tests := []struct {
		pos  int
		want bool
	}{
		{0, false},
		{total - threshold - 1, false},
		{total - threshold, true},
		{total - 1, true},
	}
	for _, tt := range tests {
		c := listCursor{pos: tt.pos}
		if got := c.nearEnd(total); got != tt.want {
			t.Errorf("nearEnd(pos=%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
	if (listCursor{}).nearEnd(0) {
		t.Error("empty list should never be near the end")
	}
}

func TestCalculateScrollWindow(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		wantStart, wantEnd    int
	}{
		{0, 5, 10, 0, 5},
		{0, 50, 10, 0, 10},
		{25, 50, 10, 20, 30},
		{49, 50, 10, 40, 50},
		{3, 50, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := calculateScrollWindow(tt.cursor, tt.total, tt.height)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("calculateScrollWindow(%d, %d, %d) = %d, %d, want %d, %d",
				tt.cursor, tt.total, tt.height, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}
