// internal/tui/app.go
//
// The main TUI for the Parallel workspace client. It follows the same
// Elm-style loop bubbletea always imposes:
//
// 1. Model: all panel state lives on App
// 2. Update: messages (keys, poll snapshots, stream events, network
//    results) mutate the model
// 3. View: the model renders to a string
//
// Network work never runs inside Update. Mutations go out as tea.Cmd
// goroutines and come back as typed messages; poll snapshots and
// stream events arrive over channels owned by the syncer and the API
// client, re-armed with a waiting command after every delivery.

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parallelhq/parallel-cli/internal/api"
	"github.com/parallelhq/parallel-cli/internal/config"
	"github.com/parallelhq/parallel-cli/internal/editor"
	"github.com/parallelhq/parallel-cli/internal/logbook"
	"github.com/parallelhq/parallel-cli/internal/status"
	"github.com/parallelhq/parallel-cli/internal/syncer"
	"github.com/parallelhq/parallel-cli/internal/workspace"
)

// tab is which panel has the screen.
type tab int

const (
	tabChat tab = iota
	tabNotebook
	tabTasks
	tabTeam
	tabEditor
)

var tabNames = []string{"Chat", "Notebook", "Tasks", "Team", "Editor"}

// noticeTTL is how long transient confirmations stay on screen.
const noticeTTL = 3 * time.Second

// statusLineTTL is how long a projected status line stays on screen
// when no newer event replaces it.
const statusLineTTL = 5 * time.Second

// Messages delivered back into Update.

type meMsg struct {
	user api.User
}

type syncUpdateMsg struct {
	update syncer.Update
	ok     bool
}

type streamItemMsg struct {
	item api.StreamItem
	ok   bool
}

type chatReplyMsg struct {
	reply api.Message
	err   error
}

type askResultMsg struct {
	outcome workspace.AskOutcome
	err     error
}

type taskCreatedMsg struct {
	provisionalID string
	created       api.Task
	err           error
}

type taskStatusMsg struct {
	id     string
	status string
	err    error
}

type roleChangedMsg struct {
	memberID string
	role     string
	err      error
}

type repoStatusMsg struct {
	status api.GitHubStatus
	err    error
}

type repoFilesMsg struct {
	files []api.RepoEntry
	err   error
}

type repoFileMsg struct {
	content string
	err     error
}

type repoSavedMsg struct {
	result api.SaveResult
	err    error
}

type repoCommittedMsg struct {
	result api.SaveResult
	err    error
}

type clearNoticeMsg struct{}

type clearStatusLineMsg struct{ seq int }

// App is the application model.
type App struct {
	cfg     *config.Config
	client  *api.Client
	logbook *logbook.Logbook

	ctx    context.Context
	cancel context.CancelFunc

	// session identity; gates the poll loops
	user    api.User
	started bool

	// sync channels
	updates <-chan syncer.Update
	stream  <-chan api.StreamItem

	// panel state
	active tab

	chat     *workspace.Chat
	notebook *workspace.Chat
	roomID   string

	board  *workspace.Board
	roster *workspace.Roster

	activityFeed    []api.ActivityEntry
	activityCurrent []api.ActivityEntry
	inbox           []api.Message

	collaborators []api.TeamMember
	collaborator  int

	editor *editor.Session

	// status footer
	statusLine      string
	statusSeq       int
	streamConnected bool

	// inputs
	chatInput     textinput.Model
	notebookInput textinput.Model
	taskInput     textinput.Model
	commitInput   textinput.Model
	fileEditor    textarea.Model
	editing       bool
	commitFocused bool

	// cursors
	taskCursor   int
	memberCursor int
	roleCursor   int
	pickingRole  bool
	fileCursor   int

	width  int
	height int
	errMsg string
}

// NewApp wires the model. The context owns every background loop: when
// the program quits we cancel it, which stops the pollers and closes
// the event stream, so nothing leaks across a restart.
func NewApp(cfg *config.Config, client *api.Client, lb *logbook.Logbook) *App {
	ctx, cancel := context.WithCancel(context.Background())

	chatInput := textinput.New()
	chatInput.Placeholder = "Message your agent..."
	chatInput.CharLimit = 2000
	chatInput.Focus()

	notebookInput := textinput.New()
	notebookInput.Placeholder = "Ask the room..."
	notebookInput.CharLimit = 2000

	taskInput := textinput.New()
	taskInput.Placeholder = "New task title..."
	taskInput.CharLimit = 200

	commitInput := textinput.New()
	commitInput.Placeholder = "Commit message..."
	commitInput.CharLimit = 200

	fileEditor := textarea.New()
	fileEditor.CharLimit = 0

	return &App{
		cfg:           cfg,
		client:        client,
		logbook:       lb,
		ctx:           ctx,
		cancel:        cancel,
		chat:          workspace.NewChat(),
		notebook:      workspace.NewChat(),
		board:         workspace.NewBoard(),
		roster:        workspace.NewRoster(),
		collaborators: api.MockCollaborators(),
		editor:        editor.NewSession(),
		chatInput:     chatInput,
		notebookInput: notebookInput,
		taskInput:     taskInput,
		commitInput:   commitInput,
		fileEditor:    fileEditor,
	}
}

// Teardown cancels every background loop. Exposed for tests; the quit
// path calls it too.
func (a *App) Teardown() { a.cancel() }

// Init fetches the session identity. Everything else waits on it.
func (a *App) Init() tea.Cmd {
	return a.fetchMe()
}

// fetchMe resolves /me, falling back to the canned identity so the
// whole client still works against a dead backend.
func (a *App) fetchMe() tea.Cmd {
	return func() tea.Msg {
		user := api.WithFallback[api.User](a.logbook, "me", func() (api.User, error) {
			return a.client.Me(a.ctx)
		}, api.User{ID: "u1", Name: "Sean", Email: "sean@parallel.dev"})
		return meMsg{user: user}
	}
}

// waitForUpdate re-arms the poll snapshot pump.
func (a *App) waitForUpdate() tea.Cmd {
	updates := a.updates
	return func() tea.Msg {
		update, ok := <-updates
		return syncUpdateMsg{update: update, ok: ok}
	}
}

// waitForStream re-arms the event stream pump.
func (a *App) waitForStream() tea.Cmd {
	stream := a.stream
	return func() tea.Msg {
		item, ok := <-stream
		return streamItemMsg{item: item, ok: ok}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.fileEditor.SetWidth(maxInt(20, msg.Width-8))
		a.fileEditor.SetHeight(maxInt(5, msg.Height-14))
		return a, nil

	case meMsg:
		a.user = msg.user
		a.started = true
		a.logbook.Info("session started as %s (%s)", msg.user.Name, msg.user.ID)
		sync := syncer.New(a.client, syncer.WithLogger(a.logbook))
		a.updates = sync.Start(a.ctx)
		a.stream = a.client.StreamEvents(a.ctx)
		return a, tea.Batch(a.waitForUpdate(), a.waitForStream(), a.checkRepoStatus())

	case syncUpdateMsg:
		if !msg.ok {
			return a, nil
		}
		a.applyUpdate(msg.update)
		return a, a.waitForUpdate()

	case streamItemMsg:
		if !msg.ok {
			return a, nil
		}
		a.streamConnected = msg.item.Connected
		if msg.item.Event != nil {
			a.statusLine = status.Project(*msg.item.Event)
			a.statusSeq++
			seq := a.statusSeq
			return a, tea.Batch(a.waitForStream(), tea.Tick(statusLineTTL, func(time.Time) tea.Msg {
				return clearStatusLineMsg{seq: seq}
			}))
		}
		if msg.item.Connected {
			// A reconnect notice ends the disconnected spell; drop the
			// stale footer text along with it.
			if a.statusLine == "Disconnected" {
				a.statusLine = ""
			}
		} else {
			a.statusLine = "Disconnected"
		}
		return a, a.waitForStream()

	case clearStatusLineMsg:
		// A newer status line may have replaced the one this timer was
		// armed for; only the matching one clears.
		if msg.seq == a.statusSeq {
			a.statusLine = ""
		}
		return a, nil

	case chatReplyMsg:
		a.chat.FinishSend(msg.reply, msg.err)
		if msg.err != nil {
			a.logbook.Error("chat send failed: %v", msg.err)
		}
		return a, nil

	case askResultMsg:
		a.roomID = msg.outcome.RoomID
		reply := api.Message{
			ID:         "local-reply-" + time.Now().Format("150405.000000"),
			SenderName: a.collaboratorName(),
			Role:       "assistant",
			Content:    msg.outcome.Reply,
			CreatedAt:  time.Now(),
		}
		a.notebook.FinishSend(reply, msg.err)
		if msg.err != nil {
			a.logbook.Error("room ask failed: %v", msg.err)
		}
		return a, nil

	case taskCreatedMsg:
		a.board.FinishCreate(msg.provisionalID, msg.created, msg.err)
		if msg.err != nil {
			a.errMsg = "Task create failed: " + msg.err.Error()
			a.logbook.Error("task create failed: %v", msg.err)
		}
		return a, nil

	case taskStatusMsg:
		if msg.err != nil {
			// Local transition already applied; the next poll snapshot
			// restores the backend's view if the write never landed.
			a.logbook.Warn("task %s → %s not persisted: %v", msg.id, msg.status, msg.err)
		}
		return a, nil

	case roleChangedMsg:
		a.roster.FinishRoleChange()
		if msg.err != nil {
			a.errMsg = "Role update failed: " + msg.err.Error()
			a.logbook.Error("role update for %s failed: %v", msg.memberID, msg.err)
		} else {
			a.logbook.Info("role for %s set to %s", msg.memberID, msg.role)
		}
		return a, nil

	case repoStatusMsg:
		a.editor.ApplyStatus(msg.status, msg.err)
		if a.editor.State() == editor.StateConnected {
			return a, a.fetchRepoFiles()
		}
		return a, nil

	case repoFilesMsg:
		if auto := a.editor.ApplyFiles(msg.files, msg.err); auto != "" {
			if a.editor.BeginLoad(auto) {
				return a, a.fetchRepoFile(auto)
			}
		}
		return a, nil

	case repoFileMsg:
		a.editor.FinishLoad(msg.content, msg.err)
		if msg.err == nil {
			a.fileEditor.SetValue(msg.content)
		}
		return a, nil

	case repoSavedMsg:
		a.editor.FinishSave(msg.result, msg.err)
		if msg.err == nil {
			return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{} })
		}
		return a, nil

	case repoCommittedMsg:
		a.editor.FinishCommit(msg.result, msg.err)
		if msg.err == nil {
			a.commitInput.SetValue("")
			return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{} })
		}
		return a, nil

	case clearNoticeMsg:
		a.editor.ClearNotice()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.updateFocusedInput(msg)
}

// applyUpdate folds one poll snapshot into the model. Each update
// touches a disjoint state slice, so ordering between resources never
// matters.
func (a *App) applyUpdate(update syncer.Update) {
	switch u := update.(type) {
	case syncer.MessagesUpdate:
		a.chat.Replace(u.Messages)
	case syncer.ActivityUpdate:
		a.activityFeed = u.Feed
		a.activityCurrent = u.Current
	case syncer.RosterUpdate:
		a.roster.Replace(u.Roster)
		if a.memberCursor >= len(u.Roster) {
			a.memberCursor = 0
		}
	case syncer.TasksUpdate:
		a.board.Replace(u.Tasks)
		if active := a.board.Active(); a.taskCursor >= len(active) {
			a.taskCursor = maxInt(0, len(active)-1)
		}
	case syncer.InboxUpdate:
		a.inbox = u.Inbox
	}
}

func (a *App) collaboratorName() string {
	if a.collaborator >= 0 && a.collaborator < len(a.collaborators) {
		return a.collaborators[a.collaborator].Name + "'s Agent"
	}
	return "Agent"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
