// internal/editor/session.go
//
// State machine for the GitHub-connected file editor. Each step is
// gated on the previous one succeeding:
//
//	checking-status → disconnected
//	                → connected (no file) → file loaded → saving
//	                                                    → committing
//
// The machine is pure state; the TUI runs the network calls between
// Begin/Finish pairs.

package editor

import (
	"strings"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// State is the editor lifecycle position.
type State int

const (
	StateCheckingStatus State = iota
	StateDisconnected
	StateConnected // connected, no file loaded yet
	StateFileLoaded
	StateSaving
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateCheckingStatus:
		return "checking-status"
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateFileLoaded:
		return "file-loaded"
	case StateSaving:
		return "saving"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Session is one editor lifecycle. A single file is active at a time;
// its content is client-authoritative between load and save.
type Session struct {
	state         State
	status        api.GitHubStatus
	files         []api.RepoEntry
	selectedPath  string
	content       string
	dirty         bool
	loading       bool
	commitMessage string
	notice        string
	errText       string
}

// NewSession starts at checking-status.
func NewSession() *Session {
	return &Session{state: StateCheckingStatus}
}

func (s *Session) State() State             { return s.state }
func (s *Session) Status() api.GitHubStatus { return s.status }
func (s *Session) Files() []api.RepoEntry   { return s.files }
func (s *Session) SelectedPath() string     { return s.selectedPath }
func (s *Session) Content() string          { return s.content }
func (s *Session) Dirty() bool              { return s.dirty }
func (s *Session) Loading() bool            { return s.loading }
func (s *Session) CommitMessage() string    { return s.commitMessage }
func (s *Session) Notice() string           { return s.notice }
func (s *Session) Err() string              { return s.errText }

// ApplyStatus resolves the checking-status step.
func (s *Session) ApplyStatus(status api.GitHubStatus, err error) {
	if err != nil || !status.Connected {
		s.state = StateDisconnected
		if err != nil {
			s.errText = err.Error()
		}
		return
	}
	s.status = status
	s.errText = ""
	s.state = StateConnected
}

// UseMockRepo is the escape hatch at the disconnected state: it flips
// the process into mock-repository mode so the rest of the flow runs
// offline, and reports connected without any backend call.
func (s *Session) UseMockRepo() bool {
	if s.state != StateDisconnected {
		return false
	}
	api.EnableMockRepo()
	s.status = api.GitHubStatus{Connected: true, Login: "mock", Repo: "mock/workspace"}
	s.errText = ""
	s.state = StateConnected
	return true
}

// ApplyFiles commits a listing fetch. Returns the path to auto-select:
// the first entry of kind "file", or "" when there is none (or when a
// file is already active).
func (s *Session) ApplyFiles(files []api.RepoEntry, err error) string {
	if err != nil {
		s.errText = err.Error()
		return ""
	}
	s.files = files
	s.errText = ""
	if s.selectedPath != "" {
		return ""
	}
	for _, entry := range files {
		if entry.Kind == "file" {
			return entry.Path
		}
	}
	return ""
}

// BeginLoad starts a content fetch for path. A fetch already in flight
// blocks a second one for the same or any other path.
func (s *Session) BeginLoad(path string) bool {
	if s.loading || path == "" {
		return false
	}
	if s.state != StateConnected && s.state != StateFileLoaded {
		return false
	}
	s.selectedPath = path
	s.loading = true
	return true
}

// FinishLoad resolves a content fetch.
func (s *Session) FinishLoad(content string, err error) {
	s.loading = false
	if err != nil {
		s.errText = err.Error()
		return
	}
	s.content = content
	s.dirty = false
	s.errText = ""
	s.state = StateFileLoaded
}

// Edit replaces the buffer and marks it dirty.
func (s *Session) Edit(content string) {
	if s.state != StateFileLoaded {
		return
	}
	s.content = content
	s.dirty = true
}

// SetCommitMessage updates the pending commit message.
func (s *Session) SetCommitMessage(message string) {
	s.commitMessage = message
}

// BeginSave gates the save transition: a loaded file, non-empty
// content, and no other mutation in flight. A load in flight also
// blocks it; selectedPath already points at the incoming file while
// content still holds the previous one.
func (s *Session) BeginSave() bool {
	if s.state != StateFileLoaded || s.loading || s.selectedPath == "" || strings.TrimSpace(s.content) == "" {
		return false
	}
	s.state = StateSaving
	return true
}

// FinishSave returns to file-loaded. The notice is transient; the
// caller clears it after a few seconds.
func (s *Session) FinishSave(result api.SaveResult, err error) {
	s.state = StateFileLoaded
	if err != nil {
		s.errText = err.Error()
		return
	}
	s.dirty = false
	s.errText = ""
	s.notice = "File saved"
	if result.Detail != "" {
		s.notice = "File saved: " + result.Detail
	}
}

// BeginCommit additionally requires a commit message.
func (s *Session) BeginCommit() bool {
	if s.state != StateFileLoaded || s.loading || s.selectedPath == "" || strings.TrimSpace(s.content) == "" {
		return false
	}
	if strings.TrimSpace(s.commitMessage) == "" {
		return false
	}
	s.state = StateCommitting
	return true
}

// FinishCommit returns to file-loaded and clears the commit message on
// success.
func (s *Session) FinishCommit(result api.SaveResult, err error) {
	s.state = StateFileLoaded
	if err != nil {
		s.errText = err.Error()
		return
	}
	s.dirty = false
	s.errText = ""
	s.commitMessage = ""
	s.notice = "Committed"
	if result.CommitSHA != "" {
		s.notice = "Committed " + shortSHA(result.CommitSHA)
	}
}

// ClearNotice drops the transient confirmation.
func (s *Session) ClearNotice() { s.notice = "" }

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
