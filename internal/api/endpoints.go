package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ChatRequest is the /chat request body. Mode selects how the agent
// should answer ("chat" or "action"); ActionTool names the tool an
// action-mode request should run.
type ChatRequest struct {
	Content    string `json:"content"`
	Mode       string `json:"mode,omitempty"`
	ActionTool string `json:"action_tool,omitempty"`
}

// AskRequest is the /rooms/{id}/ask request body.
type AskRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Content  string `json:"content"`
	Mode     string `json:"mode,omitempty"`
}

// Register creates an account and starts a session.
func (c *Client) Register(ctx context.Context, email, name, password string) (User, error) {
	var user User
	err := c.post(ctx, "/auth/register", map[string]string{
		"email":    email,
		"name":     name,
		"password": password,
	}, &user)
	return user, err
}

// Login starts a session for an existing account. The session cookie
// lands in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

// Me returns the authenticated user. This is the prerequisite identity
// that gates every polling loop; it also refreshes presence serverside.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.get(ctx, "/me", &user)
	return user, err
}

// Online returns the raw presence snapshot.
func (c *Client) Online(ctx context.Context) ([]OnlineMember, error) {
	var wire struct {
		Members []OnlineMember `json:"members"`
	}
	if err := c.get(ctx, "/online", &wire); err != nil {
		return nil, err
	}
	return wire.Members, nil
}

// TeamRoster maps the presence snapshot onto roster entries: online
// members read as active, the rest as idle. Membership is replaced
// wholesale each load.
func (c *Client) TeamRoster(ctx context.Context) ([]TeamMember, error) {
	members, err := c.Online(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]TeamMember, 0, len(members))
	for _, m := range members {
		status := "idle"
		if m.Online {
			status = "active"
		}
		roster = append(roster, TeamMember{ID: m.ID, Name: m.Name, Status: status})
	}
	return roster, nil
}

// Messages returns the user's conversation log, oldest first.
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	var messages []Message
	err := c.get(ctx, "/messages", &messages)
	return messages, err
}

// SendChat posts one chat message and returns the agent's reply.
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (Message, error) {
	var reply Message
	err := c.post(ctx, "/chat", req, &reply)
	return reply, err
}

// Activity returns the team activity feed, most recent first.
func (c *Client) Activity(ctx context.Context) ([]ActivityEntry, error) {
	var entries []ActivityEntry
	err := c.get(ctx, "/activity", &entries)
	return entries, err
}

// Inbox returns direct notifications addressed to the current user.
func (c *Client) Inbox(ctx context.Context) ([]Message, error) {
	var messages []Message
	err := c.get(ctx, "/inbox", &messages)
	return messages, err
}

// Tasks returns the task board, newest first.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := c.get(ctx, "/tasks", &tasks)
	return tasks, err
}

// CreateTask creates a task and returns the backend's authoritative
// version (with its real id).
func (c *Client) CreateTask(ctx context.Context, task Task) (Task, error) {
	var created Task
	err := c.post(ctx, "/tasks", task, &created)
	return created, err
}

// UpdateTaskStatus transitions one task.
func (c *Client) UpdateTaskStatus(ctx context.Context, id, status string) (Task, error) {
	var updated Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), map[string]string{"status": status}, &updated)
	return updated, err
}

// UpdateUserRole changes a member's role. This is a write with no
// sensible mock, so failures surface to the caller.
func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/role", url.PathEscape(userID)), map[string]string{"role": role}, nil)
}

// CreateRoom creates a conversation room and returns its id.
func (c *Client) CreateRoom(ctx context.Context, name string) (string, error) {
	var wire struct {
		RoomID string `json:"room_id"`
	}
	if err := c.post(ctx, "/rooms", map[string]string{"room_name": name}, &wire); err != nil {
		return "", err
	}
	return wire.RoomID, nil
}

// Ask sends a prompt into a room and returns the fan-out of messages
// the room's agents produced.
func (c *Client) Ask(ctx context.Context, roomID string, req AskRequest) ([]Message, error) {
	var wire struct {
		Messages []Message `json:"messages"`
	}
	if err := c.post(ctx, "/rooms/"+url.PathEscape(roomID)+"/ask", req, &wire); err != nil {
		return nil, err
	}
	return wire.Messages, nil
}
