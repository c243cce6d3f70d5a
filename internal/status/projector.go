// Package status projects discrete backend progress events into single
// human-readable status lines for the TUI footer.
package status

import (
	"fmt"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// Formatter turns one status event's meta payload into display text.
type Formatter func(meta map[string]any) string

// formatters maps every known step name to its formatter. Dispatch is
// total: a step missing from this table renders as its raw name, so new
// backend steps degrade to something visible instead of failing.
var formatters = map[string]Formatter{
	"room_created": func(meta map[string]any) string {
		return fmt.Sprintf("Room %s created", metaString(meta, "room_name"))
	},
	"agent_thinking": func(meta map[string]any) string {
		if name := metaString(meta, "agent"); name != "" {
			return name + " is thinking..."
		}
		return "Agent is thinking..."
	},
	"agent_replied": func(meta map[string]any) string {
		if name := metaString(meta, "agent"); name != "" {
			return name + " replied"
		}
		return "Agent replied"
	},
	"tool_call": func(meta map[string]any) string {
		return fmt.Sprintf("Running tool %s", metaString(meta, "tool"))
	},
	"task_created": func(meta map[string]any) string {
		return fmt.Sprintf("Task created: %s", metaString(meta, "title"))
	},
	"task_updated": func(meta map[string]any) string {
		return fmt.Sprintf("Task %s → %s", metaString(meta, "title"), metaString(meta, "status"))
	},
	"file_saved": func(meta map[string]any) string {
		return fmt.Sprintf("Saved %s", metaString(meta, "path"))
	},
	"commit_pushed": func(meta map[string]any) string {
		return fmt.Sprintf("Committed %s", metaString(meta, "path"))
	},
	"summarizing": func(map[string]any) string {
		return "Summarizing conversation..."
	},
}

// Project renders one stream event as its transient status line.
func Project(event api.StatusEvent) string {
	switch event.Type {
	case "error":
		return "Error: " + event.Message
	case "status":
		if format, ok := formatters[event.Step]; ok {
			return format(event.Meta)
		}
		return event.Step
	default:
		// Unknown event types read as their step too; the stream must
		// never be able to blank the footer.
		return event.Step
	}
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	value, ok := meta[key]
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
