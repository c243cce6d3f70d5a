package status

import (
	"testing"

	"github.com/parallelhq/parallel-cli/internal/api"
)

func TestProjectKnownSteps(t *testing.T) {
	cases := []struct {
		event api.StatusEvent
		want  string
	}{
		{api.StatusEvent{Type: "status", Step: "room_created", Meta: map[string]any{"room_name": "workspace"}}, "Room workspace created"},
		{api.StatusEvent{Type: "status", Step: "agent_thinking", Meta: map[string]any{"agent": "Yug's Agent"}}, "Yug's Agent is thinking..."},
		{api.StatusEvent{Type: "status", Step: "agent_thinking"}, "Agent is thinking..."},
		{api.StatusEvent{Type: "status", Step: "file_saved", Meta: map[string]any{"path": "README.md"}}, "Saved README.md"},
		{api.StatusEvent{Type: "status", Step: "task_updated", Meta: map[string]any{"title": "Write spec", "status": "complete"}}, "Task Write spec → complete"},
	}
	for _, tc := range cases {
		if got := Project(tc.event); got != tc.want {
			t.Fatalf("Project(%q) = %q, want %q", tc.event.Step, got, tc.want)
		}
	}
}

// Dispatch is total: any step missing from the table renders verbatim.
func TestProjectUnknownStepRendersRawName(t *testing.T) {
	event := api.StatusEvent{Type: "status", Step: "quantum_reticulation", Meta: map[string]any{"ignored": true}}
	if got := Project(event); got != "quantum_reticulation" {
		t.Fatalf("unknown step must render raw, got %q", got)
	}
}

func TestProjectErrorEvent(t *testing.T) {
	event := api.StatusEvent{Type: "error", Message: "backend on fire"}
	if got := Project(event); got != "Error: backend on fire" {
		t.Fatalf("unexpected error rendering: %q", got)
	}
}

func TestProjectToleratesNilMeta(t *testing.T) {
	for step := range formatters {
		event := api.StatusEvent{Type: "status", Step: step}
		// Must not panic regardless of meta shape.
		_ = Project(event)
	}
	event := api.StatusEvent{Type: "status", Step: "tool_call", Meta: map[string]any{"tool": 42}}
	if got := Project(event); got != "Running tool 42" {
		t.Fatalf("non-string meta must stringify, got %q", got)
	}
}
