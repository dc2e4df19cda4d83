package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.kickRefresh()
		cmd := m.showToast("Refreshing profile", false)
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		return m.back()
	}
	return m, nil
}

func (m Model) renderProfile() string {
	height := m.contentHeight()
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	inner := max(m.width-4, 10)

	if !m.snapshot.HasProfile {
		msg := "Profile not loaded yet"
		if !m.loggedIn() {
			msg = "Not signed in. Press L to log in."
		} else if m.snapshot.LastError != nil {
			msg = "Could not load profile: " + m.snapshot.LastError.Error()
		}
		body := m.renderCentered(bg.Render(msg, styles.MutedText), inner, height-2)
		return m.renderTitledBox("Profile", body, m.width, height, true)
	}

	u := m.snapshot.Profile
	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return bg.Render(fmt.Sprintf("%-14s", label), styles.MutedText) + bg.Space() + bg.Render(truncate(value, inner-16), styles.Text)
	}

	lines := []string{
		bg.Render(u.NickName, styles.AccentText.Bold(true)),
		"",
		row("Name", u.FullName()),
		row("Email", u.Email),
		row("Birth date", u.BirthDate),
		row("Role", u.Role),
		row("Avatar", u.Avatar),
	}
	if created := u.ParsedCreatedAt(); !created.IsZero() {
		since := fmt.Sprintf("%s (%s)", created.Local().Format("Jan 2, 2006"), relativeTime(created, m.now()))
		lines = append(lines, row("Member since", since))
	}
	lines = append(lines, row("Lists", humanize.Comma(int64(len(m.snapshot.Lists)))))

	return m.renderTitledBox("Profile", strings.Join(lines, "\n"), m.width, height, true)
}
