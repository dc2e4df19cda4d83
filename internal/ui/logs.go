package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vapor/internal/logtail"
)

// logsState holds the Logs view: the tail of Vapor's own log file.
type logsState struct {
	entries   []logtail.Entry
	err       error
	follow    bool
	viewport  viewport.Model
	filter    textinput.Model
	filtering bool
}

func newLogsState() logsState {
	ti := textinput.New()
	ti.Placeholder = "Filter logs..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	return logsState{follow: true, viewport: viewport.New(0, 0), filter: ti}
}

type logsMsg struct {
	lines []string
	err   error
}

// readLogsCmd reads the log tail off the UI goroutine.
func (m Model) readLogsCmd() tea.Cmd {
	path := m.config.LogFile
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = logtail.ParseLines(msg.lines)
	}
	m.refreshLogViewport()
}

func (m *Model) resizeViewports() {
	m.logs.viewport.Width = max(m.width-2, 1)
	m.logs.viewport.Height = max(m.contentHeight()-3, 1)
	m.refreshLogViewport()
}

func (m *Model) refreshLogViewport() {
	m.logs.viewport.SetContent(m.renderLogLines(m.logs.viewport.Width))
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// visibleLogs applies the substring filter.
func (m Model) visibleLogs() []logtail.Entry {
	query := strings.ToLower(strings.TrimSpace(m.logs.filter.Value()))
	if query == "" {
		return m.logs.entries
	}
	var out []logtail.Entry
	for _, e := range m.logs.entries {
		text := e.Raw
		if e.Structured() {
			text = e.Level + " " + e.Logger + " " + e.Message + " " + strings.Join(e.Fields, " ")
		}
		if strings.Contains(strings.ToLower(text), query) {
			out = append(out, e)
		}
	}
	return out
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logs.filtering {
		switch msg.String() {
		case "enter":
			m.logs.filtering = false
			m.logs.filter.Blur()
			return m, nil
		case "esc":
			m.logs.filtering = false
			m.logs.filter.Blur()
			m.logs.filter.SetValue("")
			m.refreshLogViewport()
			return m, nil
		}
		var cmd tea.Cmd
		m.logs.filter, cmd = m.logs.filter.Update(msg)
		m.refreshLogViewport()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.logs.filtering = true
		cmd := m.logs.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m, m.readLogsCmd()
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.logs.filter.Value() != "" {
			m.logs.filter.SetValue("")
			m.refreshLogViewport()
			return m, nil
		}
		return m.back()
	}

	// Any manual scroll stops following.
	var cmd tea.Cmd
	before := m.logs.viewport.YOffset
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	if m.logs.viewport.YOffset < before {
		m.logs.follow = false
	}
	return m, cmd
}

func (m Model) renderLogs() string {
	height := m.contentHeight()
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	title := "Logs · " + truncate(m.config.LogFile, max(m.width-20, 10))
	box := m.renderTitledBox(title, m.logs.viewport.View(), m.width, height-1, true)

	var status string
	switch {
	case m.logs.filtering:
		status = m.logs.filter.View()
	case m.logs.err != nil:
		status = bg.Render("Could not read log: "+m.logs.err.Error(), styles.DangerText)
	default:
		follow := "off"
		if m.logs.follow {
			follow = "on"
		}
		text := fmt.Sprintf("%d lines · follow %s", len(m.visibleLogs()), follow)
		if q := m.logs.filter.Value(); q != "" {
			text += " · filter " + q
		}
		status = bg.Render(text, styles.FaintText)
	}
	return box + "\n" + status
}

// renderLogLines colors each entry by level.
func (m Model) renderLogLines(width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	entries := m.visibleLogs()
	if len(entries) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Structured() {
			lines = append(lines, bg.FillLine(bg.Render(truncate(e.Raw, width), styles.MutedText), width))
			continue
		}
		var parts []string
		if !e.Time.IsZero() {
			parts = append(parts, bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
		}
		parts = append(parts, bg.Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level)), levelStyle(e.Level, styles)))
		if e.Logger != "" {
			parts = append(parts, bg.Render("["+e.Logger+"]", styles.AccentText))
		}
		parts = append(parts, bg.Render(e.Message, styles.Text))
		if len(e.Fields) > 0 {
			parts = append(parts, bg.Render(strings.Join(e.Fields, " "), styles.FaintText))
		}
		line := strings.Join(parts, bg.Space())
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(bg.FillLine(line, width)))
	}
	return strings.Join(lines, "\n")
}

// levelStyle returns the style for a zap level name.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "info":
		return styles.SuccessText
	case "warn":
		return styles.WarningText
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "debug":
		return styles.InfoText
	default:
		return styles.Text
	}
}
