package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parallelhq/parallel-cli/internal/api"
	"github.com/parallelhq/parallel-cli/internal/config"
	"github.com/parallelhq/parallel-cli/internal/syncer"
	"github.com/parallelhq/parallel-cli/internal/workspace"
)

var errTest = errors.New("backend unavailable")

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		HomeDir:     t.TempDir(),
		APIURL:      "http://127.0.0.1:1",
		RoleOptions: []string{"Engineering", "Design"},
	}
	app := NewApp(cfg, api.New(cfg.APIURL), nil)
	t.Cleanup(app.Teardown)
	app.user = api.User{ID: "u1", Name: "Sean"}
	app.started = true
	return app
}

func update(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next
}

func streamEvent(step string) streamItemMsg {
	return streamItemMsg{
		item: api.StreamItem{Connected: true, Event: &api.StatusEvent{Type: "status", Step: step}},
		ok:   true,
	}
}

func TestStatusLineClearGuardedBySeq(t *testing.T) {
	app := newTestApp(t)

	app = update(t, app, streamEvent("agent_thinking"))
	if app.statusLine == "" {
		t.Fatalf("event did not set the status line")
	}
	firstSeq := app.statusSeq

	app = update(t, app, streamEvent("agent_replied"))
	replaced := app.statusLine
	if app.statusSeq == firstSeq {
		t.Fatalf("second event did not bump the sequence")
	}

	// The first event's expiry timer fires after its line was replaced;
	// the newer line must survive it.
	app = update(t, app, clearStatusLineMsg{seq: firstSeq})
	if app.statusLine != replaced {
		t.Fatalf("stale timer cleared the current line: %q", app.statusLine)
	}

	app = update(t, app, clearStatusLineMsg{seq: app.statusSeq})
	if app.statusLine != "" {
		t.Fatalf("matching timer did not clear: %q", app.statusLine)
	}
}

func TestStreamDisconnectAndReconnectNotices(t *testing.T) {
	app := newTestApp(t)

	app = update(t, app, streamItemMsg{item: api.StreamItem{Connected: false}, ok: true})
	if app.streamConnected {
		t.Fatalf("disconnect notice did not flip the flag")
	}
	if app.statusLine != "Disconnected" {
		t.Fatalf("statusLine = %q after disconnect", app.statusLine)
	}

	app = update(t, app, streamItemMsg{item: api.StreamItem{Connected: true}, ok: true})
	if !app.streamConnected {
		t.Fatalf("reconnect notice did not flip the flag back")
	}
	if app.statusLine != "" {
		t.Fatalf("reconnect left %q in the footer", app.statusLine)
	}
}

func TestCommitResultClearsInputOnlyOnSuccess(t *testing.T) {
	app := newTestApp(t)
	app.commitInput.SetValue("update readme")

	app = update(t, app, repoCommittedMsg{result: api.SaveResult{}, err: errTest})
	if app.commitInput.Value() != "update readme" {
		t.Fatalf("failed commit cleared the input")
	}

	app = update(t, app, repoCommittedMsg{result: api.SaveResult{OK: true, CommitSHA: "0123456789abcdef"}})
	if app.commitInput.Value() != "" {
		t.Fatalf("successful commit left %q in the input", app.commitInput.Value())
	}
}

func TestApplyUpdateClampsCursors(t *testing.T) {
	app := newTestApp(t)
	app.taskCursor = 5
	app.applyUpdate(syncer.TasksUpdate{Tasks: []api.Task{
		{ID: "t1", Title: "a", Status: api.TaskStatusNew},
		{ID: "t2", Title: "b", Status: api.TaskStatusNew},
	}})
	if app.taskCursor != 1 {
		t.Fatalf("taskCursor = %d after shrink, want 1", app.taskCursor)
	}

	app.memberCursor = 3
	app.applyUpdate(syncer.RosterUpdate{Roster: []api.TeamMember{{ID: "u1", Name: "Sean"}}})
	if app.memberCursor != 0 {
		t.Fatalf("memberCursor = %d after shrink, want 0", app.memberCursor)
	}
}

func TestApplyUpdateRoutesResources(t *testing.T) {
	app := newTestApp(t)
	app.applyUpdate(syncer.MessagesUpdate{Messages: []api.Message{{ID: "m1", Content: "hi"}}})
	if got := app.chat.Messages(); len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("messages not routed: %+v", got)
	}
	app.applyUpdate(syncer.InboxUpdate{Inbox: []api.Message{{ID: "n1"}}})
	if len(app.inbox) != 1 {
		t.Fatalf("inbox not routed: %+v", app.inbox)
	}
	app.applyUpdate(syncer.ActivityUpdate{
		Feed:    []api.ActivityEntry{{ID: "a1", UserName: "Yug"}},
		Current: []api.ActivityEntry{{ID: "a1", UserName: "Yug"}},
	})
	if len(app.activityFeed) != 1 || len(app.activityCurrent) != 1 {
		t.Fatalf("activity not routed")
	}
}

func TestAskResultReleasesNotebookBusyFlag(t *testing.T) {
	app := newTestApp(t)
	if _, ok := app.notebook.BeginSend("u1", "Sean", "hello"); !ok {
		t.Fatalf("notebook send rejected")
	}

	app = update(t, app, askResultMsg{outcome: workspace.AskOutcome{RoomID: "room-1", Reply: "Got it."}})
	if app.notebook.Sending() {
		t.Fatalf("busy flag stuck after reply")
	}
	if app.roomID != "room-1" {
		t.Fatalf("room id not carried: %q", app.roomID)
	}
	messages := app.notebook.Messages()
	if len(messages) != 2 || messages[1].Content != "Got it." {
		t.Fatalf("reply not appended: %+v", messages)
	}
}
