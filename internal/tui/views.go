// internal/tui/views.go
//
// Rendering. Pure functions of the model; no state changes here.

package tui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"

	"github.com/parallelhq/parallel-cli/internal/api"
	"github.com/parallelhq/parallel-cli/internal/editor"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
	tabActive     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	senderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	agentStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
)

// chatTail limits how many messages a chat panel renders.
const chatTail = 30

func (a *App) View() string {
	if !a.started {
		return "Connecting to workspace...\n"
	}
	var content string
	switch a.active {
	case tabChat:
		content = a.renderChat()
	case tabNotebook:
		content = a.renderNotebook()
	case tabTasks:
		content = a.renderTasks()
	case tabTeam:
		content = a.renderTeam()
	case tabEditor:
		content = a.renderEditor()
	}
	sections := []string{
		a.renderHeader(),
		panelStyle.Width(maxInt(40, a.width-2)).Render(content),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	var tabs []string
	for i, name := range tabNames {
		style := tabStyle
		if tab(i) == a.active {
			style = tabActive
		}
		label := name
		if tab(i) == tabChat && len(a.inbox) > 0 {
			label = fmt.Sprintf("%s (%d)", name, len(a.inbox))
		}
		tabs = append(tabs, style.Render(label))
	}
	title := headerStyle.Render("║ PARALLEL")
	who := dimStyle.Render(fmt.Sprintf("%s · %s", a.user.Name, a.cfg.APIURL))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, ""), "  ", who)
}

func (a *App) renderFooter() string {
	stream := "stream ●"
	streamStyle := noticeStyle
	if !a.streamConnected {
		stream = "stream ○"
		streamStyle = dimStyle
	}
	parts := []string{streamStyle.Render(stream)}
	if a.statusLine != "" {
		parts = append(parts, a.statusLine)
	}
	if a.errMsg != "" {
		parts = append(parts, errStyle.Render(a.errMsg))
	}
	parts = append(parts, dimStyle.Render("tab: switch panel · ctrl+c: quit"))
	return strings.Join(parts, "   ")
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	head := dimStyle.Bold(true).Render("LOG · " + filepath.Base(a.logbook.Path()))
	return panelStyle.Render(head + "\n" + dimStyle.Render(strings.Join(lines, "\n")))
}

func (a *App) renderChat() string {
	lines := renderMessages(a.chat.Messages())
	if len(lines) == 0 {
		lines = []string{dimStyle.Render("No messages yet. Say something!")}
	}
	prompt := a.chatInput.View()
	if a.chat.Sending() {
		prompt = dimStyle.Render("Sending...")
	}
	return strings.Join(lines, "\n") + "\n\n" + prompt
}

func (a *App) renderNotebook() string {
	var picker []string
	for i, c := range a.collaborators {
		label := fmt.Sprintf("%s (%s)", c.Name, firstRole(c.Roles))
		if i == a.collaborator {
			picker = append(picker, selectedStyle.Render("["+label+"]"))
		} else {
			picker = append(picker, dimStyle.Render(label))
		}
	}
	header := "Collaborators: " + strings.Join(picker, "  ")
	lines := renderMessages(a.notebook.Messages())
	if len(lines) == 0 {
		lines = []string{dimStyle.Render("Ask the room; the first prompt creates it.")}
	}
	prompt := a.notebookInput.View()
	if a.notebook.Sending() {
		prompt = dimStyle.Render("Asking...")
	}
	return header + "\n\n" + strings.Join(lines, "\n") + "\n\n" + prompt
}

func renderMessages(messages []api.Message) []string {
	if len(messages) > chatTail {
		messages = messages[len(messages)-chatTail:]
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		style := senderStyle
		if m.Role != "user" {
			style = agentStyle
		}
		stamp := ""
		if !m.CreatedAt.IsZero() {
			stamp = dimStyle.Render(m.CreatedAt.Local().Format("15:04") + " ")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", stamp, style.Render(m.SenderName+":"), m.Content))
	}
	return lines
}

func (a *App) renderTasks() string {
	active := a.board.Active()
	var rows []string
	for i, task := range active {
		marker := "  "
		if i == a.taskCursor {
			marker = selectedStyle.Render("> ")
		}
		assignee := ""
		if task.AssigneeID != "" {
			assignee = dimStyle.Render(" · " + a.memberName(task.AssigneeID))
		}
		rows = append(rows, fmt.Sprintf("%s%s [%s]%s", marker, task.Title, taskStatusLabel(task.Status), assignee))
	}
	if len(rows) == 0 {
		rows = []string{dimStyle.Render("No active tasks.")}
	}
	hint := dimStyle.Render("enter: create · ctrl+p: in progress · ctrl+d: complete")
	busy := ""
	if a.board.Creating() {
		busy = dimStyle.Render(" creating...")
	}
	return strings.Join(rows, "\n") + "\n\n" + a.taskInput.View() + busy + "\n" + hint
}

func taskStatusLabel(status string) string {
	switch status {
	case api.TaskStatusInProgress:
		return "in progress"
	case api.TaskStatusComplete:
		return "done"
	default:
		return "new"
	}
}

func (a *App) memberName(id string) string {
	for _, m := range a.roster.Members() {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

func (a *App) renderTeam() string {
	members := a.roster.Members()
	var rows []string
	for i, m := range members {
		marker := "  "
		if i == a.memberCursor {
			marker = selectedStyle.Render("> ")
		}
		dot := dimStyle.Render("○")
		if m.Status == "active" {
			dot = noticeStyle.Render("●")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s", marker, dot, m.Name, dimStyle.Render(firstRole(m.Roles))))
	}
	if len(rows) == 0 {
		rows = []string{dimStyle.Render("Nobody here yet.")}
	}
	section := strings.Join(rows, "\n")

	if a.pickingRole {
		var opts []string
		for i, role := range a.cfg.RoleOptions {
			if i == a.roleCursor {
				opts = append(opts, selectedStyle.Render("> "+role))
			} else {
				opts = append(opts, "  "+role)
			}
		}
		section += "\n\n" + "Set role:\n" + strings.Join(opts, "\n")
	} else {
		section += "\n\n" + a.renderCurrentActivity()
		if feed := a.renderActivityFeed(); feed != "" {
			section += "\n\n" + feed
		}
		section += "\n" + dimStyle.Render("enter: change role")
	}
	return section
}

// renderActivityFeed shows the most recent raw activity entries. The
// feed arrives already sorted, newest first.
func (a *App) renderActivityFeed() string {
	if len(a.activityFeed) == 0 {
		return ""
	}
	rows := []string{headerStyle.Render("Recent")}
	feed := a.activityFeed
	if len(feed) > 5 {
		feed = feed[:5]
	}
	for _, entry := range feed {
		detail := entry.Detail
		if detail == "" {
			detail = entry.State
		}
		rows = append(rows, dimStyle.Render(fmt.Sprintf("%s: %s", entry.UserName, detail)))
	}
	return strings.Join(rows, "\n")
}

// renderCurrentActivity shows the derived one-line-per-person view.
func (a *App) renderCurrentActivity() string {
	if len(a.activityCurrent) == 0 {
		return dimStyle.Render("No recent activity.")
	}
	var rows []string
	rows = append(rows, headerStyle.Render("Now"))
	for _, entry := range a.activityCurrent {
		detail := entry.Detail
		if detail == "" {
			detail = entry.State
		}
		when := ""
		if entry.CreatedAt != nil {
			when = dimStyle.Render(" · " + humanizeSince(*entry.CreatedAt))
		}
		rows = append(rows, fmt.Sprintf("%s: %s%s", senderStyle.Render(entry.UserName), detail, when))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderEditor() string {
	session := a.editor
	switch session.State() {
	case editor.StateCheckingStatus:
		return "Checking GitHub connection..."
	case editor.StateDisconnected:
		lines := []string{
			errStyle.Render("GitHub is not connected."),
			"",
			"Authorize in a browser: " + a.client.AuthorizeURL(),
			"",
			dimStyle.Render("m: use mock repository · r: re-check"),
		}
		if session.Err() != "" {
			lines = append(lines, "", dimStyle.Render(session.Err()))
		}
		return strings.Join(lines, "\n")
	}

	var files []string
	for i, entry := range session.Files() {
		marker := "  "
		if i == a.fileCursor {
			marker = selectedStyle.Render("> ")
		}
		name := entry.Path
		if entry.Kind == "directory" {
			name += "/"
		}
		if entry.Path == session.SelectedPath() {
			name = selectedStyle.Render(name)
		}
		files = append(files, marker+name)
	}
	left := strings.Join(files, "\n")
	if left == "" {
		left = dimStyle.Render("(empty repository)")
	}

	var body string
	switch {
	case session.Loading():
		body = dimStyle.Render("Loading " + session.SelectedPath() + "...")
	case a.editing:
		body = a.fileEditor.View()
	case session.State() == editor.StateFileLoaded || session.State() == editor.StateSaving || session.State() == editor.StateCommitting:
		body = highlight(session.SelectedPath(), session.Content())
	default:
		body = dimStyle.Render("Select a file and press enter.")
	}

	statusBits := []string{dimStyle.Render(session.State().String())}
	if session.Dirty() {
		statusBits = append(statusBits, errStyle.Render("modified"))
	}
	if session.Notice() != "" {
		statusBits = append(statusBits, noticeStyle.Render(session.Notice()))
	}
	if session.Err() != "" {
		statusBits = append(statusBits, errStyle.Render(session.Err()))
	}
	var commit string
	if a.commitFocused {
		commit = "\n" + a.commitInput.View()
	}
	hint := dimStyle.Render("enter: load · e: edit · ctrl+s: save · c: commit")

	leftBox := panelStyle.Width(28).Render(left)
	rightBox := panelStyle.Width(maxInt(40, a.width-36)).Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox) +
		"\n" + strings.Join(statusBits, " · ") + commit + "\n" + hint
}

// highlight renders file content through chroma, keyed by extension.
// Anything chroma cannot handle falls back to the raw text.
func highlight(path, content string) string {
	lexer := strings.TrimPrefix(filepath.Ext(path), ".")
	if lexer == "" {
		lexer = "markdown"
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, content, lexer, "terminal256", "monokai"); err != nil {
		return content
	}
	return buf.String()
}

func firstRole(roles []string) string {
	if len(roles) == 0 {
		return "member"
	}
	return roles[0]
}

func humanizeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
