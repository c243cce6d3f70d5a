package workspace

import (
	"context"
	"strings"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// FallbackReply is shown when a room's fan-out contains nothing usable.
const FallbackReply = "Got it."

// AskOutcome is the result of one notebook room exchange.
type AskOutcome struct {
	RoomID string
	Reply  string
}

// RunAsk drives the room flow for one prompt: lazily creates the room
// on first use, sends the prompt, and picks the reply to display. The
// returned room id must be carried into the next call so the room is
// only created once per session.
func RunAsk(ctx context.Context, client *api.Client, roomID string, user api.User, content string) (AskOutcome, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return AskOutcome{RoomID: roomID}, nil
	}
	if roomID == "" {
		created, err := client.CreateRoom(ctx, "workspace")
		if err != nil {
			return AskOutcome{}, err
		}
		roomID = created
	}
	messages, err := client.Ask(ctx, roomID, api.AskRequest{
		UserID:   user.ID,
		UserName: user.Name,
		Content:  content,
		Mode:     "chat",
	})
	if err != nil {
		return AskOutcome{RoomID: roomID}, err
	}
	return AskOutcome{RoomID: roomID, Reply: PickReply(messages)}, nil
}

// PickReply selects the displayed assistant reply from a room fan-out:
// the coordinator's message when one is present, otherwise the last
// assistant message, otherwise a literal fallback.
func PickReply(messages []api.Message) string {
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.SenderName), "coordinator") {
			return m.Content
		}
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "assistant" {
			return messages[i].Content
		}
	}
	return FallbackReply
}
