package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, the connection state and the signed-in user.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("vapor", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.WarningText))
	case m.snapshot.Loaded():
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	}

	if m.loggedIn() {
		who := m.sessions.Email()
		if m.snapshot.HasProfile && m.snapshot.Profile.NickName != "" {
			who = m.snapshot.Profile.NickName
		}
		parts = append(parts, bg.Render("User:", styles.MutedText)+bg.Space()+bg.Render(who, styles.Text))
	} else {
		parts = append(parts, bg.Render("Not signed in", styles.FaintText))
	}

	parts = append(parts, bg.Render("View:", styles.MutedText)+bg.Space()+bg.Render(m.currentView.String(), styles.AccentText))

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render("Updated", styles.FaintText)+bg.Space()+bg.Render(m.formatTimestamp(), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// formatTimestamp describes when the home data last changed.
func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return "never"
	}
	return relativeTime(m.snapshot.LastUpdated, m.now())
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 5"):
		return "SERVER ERROR"
	default:
		return "ERROR"
	}
}

type hint struct{ key, desc string }

// commandHints lists the keys worth showing for the active view.
func (m Model) commandHints() []hint {
	switch m.currentView {
	case ViewHome:
		return []hint{{"j/k", "Navigate"}, {"enter", "Open"}, {"/", "Search"}, {"r", "Refresh"}, {"tab", "Views"}, {"?", "More"}}
	case ViewCatalog:
		if m.catalog.searching {
			return []hint{{"enter", "Done"}, {"esc", "Close search"}}
		}
		return []hint{{"j/k", "Navigate"}, {"enter", "Details"}, {"/", "Search"}, {"r", "Refresh"}, {"esc", "Back"}, {"?", "More"}}
	case ViewLists:
		if m.lists.filtering {
			return []hint{{"enter", "Done"}, {"esc", "Clear filter"}}
		}
		return []hint{{"j/k", "Navigate"}, {"enter", "Open"}, {"/", "Filter"}, {"n", "New list"}, {"r", "Refresh"}, {"?", "More"}}
	case ViewListDetail:
		if m.listDetail.games.searching {
			return []hint{{"enter", "Done"}, {"esc", "Close search"}}
		}
		return []hint{{"j/k", "Navigate"}, {"enter", "Details"}, {"s", sortLabel(m.listDetail.sort)}, {"x", "Remove"}, {"/", "Search"}, {"esc", "Back"}}
	case ViewGame:
		return []hint{{"j/k", "Achievements"}, {"space", "Select"}, {"c", "Complete"}, {"a", "Add to list"}, {"ctrl+d/u", "Scroll"}, {"esc", "Back"}}
	case ViewProfile:
		return []hint{{"r", "Refresh"}, {"L", "Log out"}, {"tab", "Views"}, {"?", "More"}}
	case ViewLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		return []hint{{"f", follow}, {"j/k", "Scroll"}, {"g/G", "Top/Bottom"}, {"/", "Filter"}, {"r", "Reload"}, {"?", "More"}}
	case ViewLogin:
		return []hint{{"tab", "Next field"}, {"enter", "Log in"}, {"esc", "Browse without account"}}
	}
	return nil
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	hints := m.commandHints()
	segments := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		segments = append(segments, bg.Render(h.key, styles.AccentText)+colon+bg.Render(h.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// toast is a transient status line message.
type toast struct {
	id    int
	text  string
	isErr bool
}

type toastExpiredMsg int

// showToast replaces the status line message and schedules its removal.
func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = toast{id: id, text: text, isErr: isErr}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

// renderStatusLine shows the current toast, or the last refresh error.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var content string
	switch {
	case m.toast.text != "" && m.toast.isErr:
		content = bg.Render("✗ "+m.toast.text, styles.DangerText)
	case m.toast.text != "":
		content = bg.Render("✓ "+m.toast.text, styles.SuccessText)
	case m.snapshot.LastError != nil:
		content = bg.Render(fmt.Sprintf("Last refresh failed (%d in a row): %v", m.snapshot.ConsecutiveFailures, m.snapshot.LastError), styles.FaintText)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}
