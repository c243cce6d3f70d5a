// internal/tui/keys.go
//
// Key routing and the network commands each key can kick off. Every
// mutation follows the same optimistic shape: validate and apply the
// local change synchronously in the key handler, then hand the round
// trip to a tea.Cmd whose result message reconciles it.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parallelhq/parallel-cli/internal/api"
	"github.com/parallelhq/parallel-cli/internal/editor"
	"github.com/parallelhq/parallel-cli/internal/workspace"
)

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.Teardown()
		return a, tea.Quit
	case "tab":
		a.setTab((a.active + 1) % tab(len(tabNames)))
		return a, nil
	case "shift+tab":
		a.setTab((a.active + tab(len(tabNames)) - 1) % tab(len(tabNames)))
		return a, nil
	}

	switch a.active {
	case tabChat:
		return a.handleChatKey(msg)
	case tabNotebook:
		return a.handleNotebookKey(msg)
	case tabTasks:
		return a.handleTasksKey(msg)
	case tabTeam:
		return a.handleTeamKey(msg)
	case tabEditor:
		return a.handleEditorKey(msg)
	}
	return a, nil
}

// setTab moves panel focus and parks input focus accordingly.
func (a *App) setTab(next tab) {
	a.active = next
	a.errMsg = ""
	a.chatInput.Blur()
	a.notebookInput.Blur()
	a.taskInput.Blur()
	a.commitInput.Blur()
	a.fileEditor.Blur()
	a.editing = false
	a.commitFocused = false
	a.pickingRole = false
	switch next {
	case tabChat:
		a.chatInput.Focus()
	case tabNotebook:
		a.notebookInput.Focus()
	case tabTasks:
		a.taskInput.Focus()
	}
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		provisional, ok := a.chat.BeginSend(a.user.ID, a.user.Name, a.chatInput.Value())
		if !ok {
			return a, nil
		}
		a.chatInput.SetValue("")
		return a, a.sendChat(provisional.Content)
	}
	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(msg)
	return a, cmd
}

func (a *App) sendChat(content string) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.client.SendChat(a.ctx, api.ChatRequest{Content: content, Mode: "chat"})
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (a *App) handleNotebookKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "ctrl+p":
		if a.collaborator > 0 {
			a.collaborator--
		}
		return a, nil
	case "right", "ctrl+n":
		if a.collaborator < len(a.collaborators)-1 {
			a.collaborator++
		}
		return a, nil
	case "enter":
		provisional, ok := a.notebook.BeginSend(a.user.ID, a.user.Name, a.notebookInput.Value())
		if !ok {
			return a, nil
		}
		a.notebookInput.SetValue("")
		return a, a.sendAsk(provisional.Content)
	}
	var cmd tea.Cmd
	a.notebookInput, cmd = a.notebookInput.Update(msg)
	return a, cmd
}

func (a *App) sendAsk(content string) tea.Cmd {
	roomID := a.roomID
	user := a.user
	return func() tea.Msg {
		outcome, err := workspace.RunAsk(a.ctx, a.client, roomID, user, content)
		return askResultMsg{outcome: outcome, err: err}
	}
}

func (a *App) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := a.board.Active()
	switch msg.String() {
	case "up":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
		return a, nil
	case "down":
		if a.taskCursor < len(active)-1 {
			a.taskCursor++
		}
		return a, nil
	case "enter":
		provisional, ok := a.board.BeginCreate(a.taskInput.Value(), "", a.user.ID)
		if !ok {
			return a, nil
		}
		a.taskInput.SetValue("")
		return a, a.createTask(provisional)
	case "ctrl+p":
		return a.transitionTask(active, api.TaskStatusInProgress)
	case "ctrl+d":
		return a.transitionTask(active, api.TaskStatusComplete)
	}
	var cmd tea.Cmd
	a.taskInput, cmd = a.taskInput.Update(msg)
	return a, cmd
}

// transitionTask applies the status change locally first: a completed
// task disappears from the board on this very render, no round trip
// required for the removal.
func (a *App) transitionTask(active []api.Task, status string) (tea.Model, tea.Cmd) {
	if a.taskCursor < 0 || a.taskCursor >= len(active) {
		return a, nil
	}
	task := active[a.taskCursor]
	a.board.SetStatus(task.ID, status)
	return a, func() tea.Msg {
		_, err := a.client.UpdateTaskStatus(a.ctx, task.ID, status)
		return taskStatusMsg{id: task.ID, status: status, err: err}
	}
}

func (a *App) createTask(provisional api.Task) tea.Cmd {
	return func() tea.Msg {
		created, err := a.client.CreateTask(a.ctx, api.Task{
			Title:       provisional.Title,
			Description: provisional.Description,
			AssigneeID:  provisional.AssigneeID,
			Status:      provisional.Status,
		})
		return taskCreatedMsg{provisionalID: provisional.ID, created: created, err: err}
	}
}

func (a *App) handleTeamKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	members := a.roster.Members()
	if a.pickingRole {
		switch msg.String() {
		case "esc":
			a.pickingRole = false
		case "up":
			if a.roleCursor > 0 {
				a.roleCursor--
			}
		case "down":
			if a.roleCursor < len(a.cfg.RoleOptions)-1 {
				a.roleCursor++
			}
		case "enter":
			a.pickingRole = false
			if a.memberCursor >= len(members) || a.roleCursor >= len(a.cfg.RoleOptions) {
				return a, nil
			}
			member := members[a.memberCursor]
			role := a.cfg.RoleOptions[a.roleCursor]
			if !a.roster.BeginRoleChange(member.ID, role) {
				return a, nil
			}
			return a, func() tea.Msg {
				err := a.client.UpdateUserRole(a.ctx, member.ID, role)
				return roleChangedMsg{memberID: member.ID, role: role, err: err}
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "up":
		if a.memberCursor > 0 {
			a.memberCursor--
		}
	case "down":
		if a.memberCursor < len(members)-1 {
			a.memberCursor++
		}
	case "enter":
		if len(members) > 0 {
			a.pickingRole = true
			a.roleCursor = 0
		}
	}
	return a, nil
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "esc":
			a.editing = false
			a.editor.Edit(a.fileEditor.Value())
			return a, nil
		case "ctrl+s":
			a.editor.Edit(a.fileEditor.Value())
			return a, a.saveFile()
		}
		var cmd tea.Cmd
		a.fileEditor, cmd = a.fileEditor.Update(msg)
		return a, cmd
	}
	if a.commitFocused {
		switch msg.String() {
		case "esc":
			a.commitFocused = false
			a.commitInput.Blur()
			return a, nil
		case "enter":
			a.commitFocused = false
			a.commitInput.Blur()
			return a, a.commitFile()
		}
		var cmd tea.Cmd
		a.commitInput, cmd = a.commitInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "m":
		if a.editor.UseMockRepo() {
			a.logbook.Info("mock repository enabled")
			return a, a.fetchRepoFiles()
		}
	case "r":
		return a, a.checkRepoStatus()
	case "up":
		if a.fileCursor > 0 {
			a.fileCursor--
		}
	case "down":
		if a.fileCursor < len(a.editor.Files())-1 {
			a.fileCursor++
		}
	case "enter":
		files := a.editor.Files()
		if a.fileCursor < 0 || a.fileCursor >= len(files) {
			return a, nil
		}
		entry := files[a.fileCursor]
		if entry.Kind != "file" {
			return a, nil
		}
		if a.editor.BeginLoad(entry.Path) {
			return a, a.fetchRepoFile(entry.Path)
		}
	case "e":
		if a.editor.State() == editor.StateFileLoaded {
			a.editing = true
			a.fileEditor.SetValue(a.editor.Content())
			return a, a.fileEditor.Focus()
		}
	case "c":
		if a.editor.State() == editor.StateFileLoaded {
			a.commitFocused = true
			return a, a.commitInput.Focus()
		}
	case "ctrl+s":
		return a, a.saveFile()
	}
	return a, nil
}

func (a *App) checkRepoStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := a.client.RepoStatus(a.ctx)
		return repoStatusMsg{status: status, err: err}
	}
}

func (a *App) fetchRepoFiles() tea.Cmd {
	return func() tea.Msg {
		files, err := a.client.RepoFiles(a.ctx, "")
		return repoFilesMsg{files: files, err: err}
	}
}

func (a *App) fetchRepoFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := a.client.RepoFile(a.ctx, path)
		return repoFileMsg{content: content, err: err}
	}
}

func (a *App) saveFile() tea.Cmd {
	if !a.editor.BeginSave() {
		return nil
	}
	path, content := a.editor.SelectedPath(), a.editor.Content()
	return func() tea.Msg {
		result, err := a.client.SaveRepoFile(a.ctx, path, content)
		return repoSavedMsg{result: result, err: err}
	}
}

func (a *App) commitFile() tea.Cmd {
	a.editor.SetCommitMessage(a.commitInput.Value())
	if !a.editor.BeginCommit() {
		a.errMsg = "Commit needs loaded content and a commit message"
		return nil
	}
	path, content, message := a.editor.SelectedPath(), a.editor.Content(), a.editor.CommitMessage()
	return func() tea.Msg {
		result, err := a.client.CommitRepoFile(a.ctx, path, content, message)
		return repoCommittedMsg{result: result, err: err}
	}
}

// updateFocusedInput forwards non-key messages (cursor blinks and the
// like) to whichever text component currently has focus.
func (a *App) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	a.notebookInput, cmd = a.notebookInput.Update(msg)
	cmds = append(cmds, cmd)
	a.taskInput, cmd = a.taskInput.Update(msg)
	cmds = append(cmds, cmd)
	a.commitInput, cmd = a.commitInput.Update(msg)
	cmds = append(cmds, cmd)
	a.fileEditor, cmd = a.fileEditor.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}
