package api

import "time"

// Message is one entry in the shared workspace conversation log.
// Messages are append-only: the backend never edits or reorders them,
// and neither do we.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Role       string    `json:"role"` // "user" | "assistant" | "agent"
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityEntry is one line of the team activity feed. The feed is
// transient: each poll replaces the previous snapshot wholesale.
type ActivityEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Role      string     `json:"role,omitempty"`
	State     string     `json:"state,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	CreatedAt *time.Time `json:"created_at"`
}

// Task statuses as the backend spells them.
const (
	TaskStatusNew        = "new"
	TaskStatusInProgress = "in_progress"
	TaskStatusComplete   = "complete"
)

// Task is a workspace task board entry.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	Status      string `json:"status"`
}

// TeamMember is one roster entry. Status is derived client-side from
// the backend's online flag; Roles is an ordered list, first role is
// the primary one shown in panels.
type TeamMember struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles,omitempty"`
	Status string   `json:"status"` // "active" | "idle" | "offline"
}

// OnlineMember is the raw /online wire shape.
type OnlineMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// User is the authenticated identity returned by /me and /auth/register.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusEvent is one event off the /events stream. Consumed once,
// projected to display text, then discarded.
type StatusEvent struct {
	Type    string         `json:"type"` // "status" | "error"
	Step    string         `json:"step,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
	Message string         `json:"message,omitempty"`
}

// RepoEntry is one entry in a GitHub repository listing.
type RepoEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "file" | "directory"
}

// GitHubStatus reports whether the backend holds a usable GitHub
// connection for the current user.
type GitHubStatus struct {
	Connected bool   `json:"connected"`
	Login     string `json:"login,omitempty"`
	Repo      string `json:"repo,omitempty"`
}

// SaveResult acknowledges a file save or commit through the proxy.
type SaveResult struct {
	OK        bool   `json:"ok"`
	CommitSHA string `json:"commit_sha,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
