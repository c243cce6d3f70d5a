package workspace

import (
	"strings"
	"time"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// Board holds the task list and the session-scoped tombstones for
// completed tasks. Completing a task removes it from every active view
// immediately, without waiting for a round trip, and the tombstone
// keeps a stale poll snapshot from resurrecting it later in the
// session.
type Board struct {
	tasks     []api.Task
	completed map[string]struct{}
	creating  bool
	now       func() time.Time
}

// NewBoard returns an empty task board.
func NewBoard() *Board {
	return &Board{completed: map[string]struct{}{}, now: time.Now}
}

// WithClock fixes the provisional-id clock for tests.
func (b *Board) WithClock(now func() time.Time) *Board {
	if now != nil {
		b.now = now
	}
	return b
}

// Active returns the visible working set: everything not complete and
// not tombstoned, in board order.
func (b *Board) Active() []api.Task {
	active := make([]api.Task, 0, len(b.tasks))
	for _, task := range b.tasks {
		if task.Status == api.TaskStatusComplete {
			continue
		}
		if _, gone := b.completed[task.ID]; gone {
			continue
		}
		active = append(active, task)
	}
	return active
}

// Creating reports whether a create is in flight.
func (b *Board) Creating() bool { return b.creating }

// Replace commits a polled snapshot wholesale. Tombstones survive the
// replace; the backend keeps completed tasks, the UI does not.
func (b *Board) Replace(tasks []api.Task) {
	b.tasks = tasks
}

// BeginCreate validates, inserts the provisional task at the head of
// the board, and takes the busy flag.
func (b *Board) BeginCreate(title, description, assigneeID string) (api.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" || b.creating {
		return api.Task{}, false
	}
	provisional := api.Task{
		ID:          provisionalID("task", b.now()),
		Title:       title,
		Description: strings.TrimSpace(description),
		AssigneeID:  assigneeID,
		Status:      api.TaskStatusNew,
	}
	b.tasks = append([]api.Task{provisional}, b.tasks...)
	b.creating = true
	return provisional, true
}

// FinishCreate reconciles the round trip. On success the provisional
// entry is replaced by the backend's authoritative task; on failure it
// stays on the board so the user sees what was attempted (the backend
// will drop it from the next snapshot anyway).
func (b *Board) FinishCreate(provisionalID string, created api.Task, err error) {
	b.creating = false
	if err != nil {
		return
	}
	for i := range b.tasks {
		if b.tasks[i].ID == provisionalID {
			b.tasks[i] = created
			return
		}
	}
	b.tasks = append([]api.Task{created}, b.tasks...)
}

// SetStatus applies a status transition locally. Completing a task
// tombstones it for the rest of the session.
func (b *Board) SetStatus(id, status string) {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Status = status
			break
		}
	}
	if status == api.TaskStatusComplete {
		b.completed[id] = struct{}{}
	}
}
