package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pathquest/internal/logging"
)

// initLogViewport creates the log viewport once the terminal size is known.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-2, 1), max(m.bodyHeight()-2, 1))
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.bodyHeight()-2, 1)
}

// handleLogLines loads a fresh tail into the viewport and follows it.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logErr = msg.err
	m.logViewport.SetContent(m.renderLogContent(msg.lines))
	m.logViewport.GotoBottom()
}

// handleLogsKey processes input while the log view is active.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewMap
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, readLogsCmd(m.logFile)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// renderLogContent formats and colors log lines for the viewport.
func (m Model) renderLogContent(lines []string) string {
	styles := m.theme.Styles()
	if len(lines) == 0 {
		return styles.MutedText.Render("No log entries")
	}

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%4d │ ", i+1)))
		text := logging.FormatLine(line)
		if e, ok := logging.ParseLine(line); ok {
			b.WriteString(levelStyle(strings.ToUpper(e.Level), styles).Render(text))
		} else {
			b.WriteString(styles.Text.Render(text))
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLogs renders the log view in place of the map.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	content := m.logViewport.View()
	if m.logErr != nil {
		content = styles.DangerText.Render("read log: " + m.logErr.Error())
	} else if m.logFile == "" {
		content = styles.MutedText.Render("Logging to a file is disabled")
	}
	return styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(m.width-2, 1)).
		Height(max(m.bodyHeight()-2, 1)).
		Render(content)
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}
