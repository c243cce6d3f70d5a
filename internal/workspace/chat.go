// internal/workspace/chat.go
//
// Client-side conversation state. Sends are optimistic: the user's
// message lands in the log immediately with a provisional id, the
// network round trip happens afterwards, and a failure appends an
// inline error bubble instead of rolling the message back. The user
// should see what was attempted and that it failed.

package workspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// Chat holds the message log and the per-resource busy flag that
// suppresses duplicate sends.
type Chat struct {
	messages []api.Message
	sending  bool
	now      func() time.Time
}

// NewChat returns an empty conversation.
func NewChat() *Chat {
	return &Chat{now: time.Now}
}

// WithClock fixes the provisional-id clock for tests.
func (c *Chat) WithClock(now func() time.Time) *Chat {
	if now != nil {
		c.now = now
	}
	return c
}

// Messages returns the log, oldest first.
func (c *Chat) Messages() []api.Message { return c.messages }

// Sending reports whether a send is in flight.
func (c *Chat) Sending() bool { return c.sending }

// Replace commits a polled snapshot. The syncer only emits one when
// the count changed, so this stays cheap; a snapshot racing an
// unconfirmed local send may momentarily hide it until the next poll,
// which matches the backend being the authority.
func (c *Chat) Replace(messages []api.Message) {
	c.messages = messages
}

// BeginSend validates, appends the provisional message, and takes the
// busy flag. Returns false (and does nothing) on empty input or when a
// send is already in flight.
func (c *Chat) BeginSend(senderID, senderName, content string) (api.Message, bool) {
	content = strings.TrimSpace(content)
	if content == "" || c.sending {
		return api.Message{}, false
	}
	provisional := api.Message{
		ID:         provisionalID("msg", c.now()),
		SenderID:   senderID,
		SenderName: senderName,
		Role:       "user",
		Content:    content,
		CreatedAt:  c.now(),
	}
	c.messages = append(c.messages, provisional)
	c.sending = true
	return provisional, true
}

// FinishSend reconciles the round trip and releases the busy flag in
// every path. On success the server reply is merged by id when it
// echoes one we already hold, otherwise appended. On failure an error
// bubble is appended inline.
func (c *Chat) FinishSend(reply api.Message, err error) {
	c.sending = false
	if err != nil {
		c.messages = append(c.messages, api.Message{
			ID:         provisionalID("err", c.now()),
			SenderName: "System",
			Role:       "assistant",
			Content:    fmt.Sprintf("Error: %v", err),
			CreatedAt:  c.now(),
		})
		return
	}
	for i := range c.messages {
		if c.messages[i].ID == reply.ID {
			c.messages[i] = reply
			return
		}
	}
	c.messages = append(c.messages, reply)
}

// AppendLocal appends a message produced locally (the notebook room
// flow builds its reply bubble client-side).
func (c *Chat) AppendLocal(message api.Message) {
	c.messages = append(c.messages, message)
}

// provisionalID derives a temporary id from the clock, the same way
// the optimistic entities get theirs everywhere in the client.
func provisionalID(kind string, at time.Time) string {
	return fmt.Sprintf("local-%s-%d", kind, at.UnixNano())
}
