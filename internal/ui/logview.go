package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/toolcat/internal/logging"
)

// logTailLimit is the number of log lines loaded into the log view.
const logTailLimit = 500

// logView shows the application's own log file.
type logView struct {
	open     bool
	path     string
	lines    []string
	err      error
	viewport viewport.Model
}

type logLinesMsg struct {
	lines []string
	err   error
}

// loadLogsCmd reads the tail of the log file off the UI goroutine.
func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logging.Tail(path, logTailLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

// toggleLogs opens or closes the log view.
func (m Model) toggleLogs() (tea.Model, tea.Cmd) {
	if m.logs.open {
		m.logs.open = false
		return m, nil
	}
	m.logs.open = true
	m.logs.viewport = viewport.New(max(m.width-2, 0), max(m.height-chromeHeight-2, 0))
	if m.logs.path == "" {
		return m, nil
	}
	return m, loadLogsCmd(m.logs.path)
}

// handleLogLines stores freshly read lines and scrolls to the newest.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logs.lines = msg.lines
	m.logs.err = msg.err
	m.logs.viewport.SetContent(m.renderLogLines())
	m.logs.viewport.GotoBottom()
}

// handleLogsKey scrolls the log view, reloads on r and closes on esc or L.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		m.logs.open = false
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.logs.path == "" {
			return m, nil
		}
		return m, loadLogsCmd(m.logs.path)
	case key.Matches(msg, m.keys.Top):
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

// renderLogs renders the log view below the header.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logs.path != "" {
		title = "Log " + truncateMiddle(m.logs.path, max(m.width/2, 10))
	}
	content := m.logs.viewport.View()
	switch {
	case m.logs.path == "":
		content = m.theme.Styles().MutedText.Render("Logging is disabled")
	case m.logs.err != nil:
		content = m.theme.Styles().DangerText.Render(m.logs.err.Error())
	case len(m.logs.lines) == 0:
		content = m.theme.Styles().MutedText.Render("No log entries yet")
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" +
		m.renderTitledBox(title, content, m.width, m.height-chromeHeight, true)
}

// renderLogLines formats and colors every loaded line by level.
func (m Model) renderLogLines() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	out := make([]string, 0, len(m.logs.lines))
	for _, line := range m.logs.lines {
		entry, ok := logging.ParseEntry(line)
		if !ok {
			out = append(out, bg.Render(line, styles.Text))
			continue
		}
		formatted := strings.TrimPrefix(logging.Format(line), entry.Time+" ")
		ts := entry.Time
		if len(ts) > 19 {
			ts = ts[:19]
		}
		out = append(out, bg.Render(ts, styles.FaintText)+bg.Space()+
			bg.Render(formatted, levelStyle(entry.Level, styles)))
	}
	return strings.Join(out, "\n")
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.Text
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.MutedText
	}
}
