package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vapor/internal/vapor"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// renderModalFrame centers body in a rounded box titled title.
func renderModalFrame(theme Theme, title, body string, width, height, boxWidth int) string {
	styles := theme.Styles()
	content := styles.AccentText.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", boxWidth-6)) + "\n\n" + body
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// createListModal collects the name, icon and color of a new list.
type createListModal struct {
	inputs   [3]textinput.Model
	focus    int
	err      string
	onSubmit func(vapor.CreateListPayload) tea.Cmd
}

func newCreateListModal(onSubmit func(vapor.CreateListPayload) tea.Cmd) *createListModal {
	name := textinput.New()
	name.Placeholder = "Backlog"
	name.CharLimit = 40
	name.Focus()

	icon := textinput.New()
	icon.Placeholder = "🎮"
	icon.CharLimit = 2

	color := textinput.New()
	color.Placeholder = "#38bdf8"
	color.CharLimit = 7

	return &createListModal{inputs: [3]textinput.Model{name, icon, color}, onSubmit: onSubmit}
}

func (c *createListModal) payload() vapor.CreateListPayload {
	p := vapor.CreateListPayload{
		Name: strings.TrimSpace(c.inputs[0].Value()),
		Icon: strings.TrimSpace(c.inputs[1].Value()),
	}
	if color := strings.TrimSpace(c.inputs[2].Value()); color != "" {
		p.Color = normalizeHex(color)
	}
	return p
}

func (c *createListModal) setFocus(idx int) tea.Cmd {
	c.focus = (idx + len(c.inputs)) % len(c.inputs)
	for i := range c.inputs {
		c.inputs[i].Blur()
	}
	return c.inputs[c.focus].Focus()
}

// Update implements Modal.
func (c *createListModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case km.String() == "esc":
		return c, nil, true
	case key.Matches(km, keys.Submit):
		p := c.payload()
		switch {
		case p.Name == "":
			c.err = "Name is required"
			return c, nil, false
		case p.Color != "" && !validHex(p.Color):
			c.err = "Color must look like #38bdf8"
			return c, nil, false
		}
		return c, c.onSubmit(p), true
	case key.Matches(km, keys.NextField):
		return c, c.setFocus(c.focus + 1), false
	case key.Matches(km, keys.PrevField):
		return c, c.setFocus(c.focus - 1), false
	}
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(km)
	c.err = ""
	return c, cmd, false
}

// View implements Modal.
func (c *createListModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labels := []string{"Name", "Icon", "Color"}
	var b strings.Builder
	for i, in := range c.inputs {
		label := styles.MutedText.Width(7).Render(labels[i])
		if i == c.focus {
			label = styles.AccentText.Width(7).Render(labels[i])
		}
		b.WriteString(label + in.View() + "\n")
	}
	if p := c.payload(); p.Color != "" && validHex(p.Color) {
		b.WriteString("\n" + styles.BadgeStyle(p.Color).Render(p.Icon+" "+p.Name) + "\n")
	}
	if c.err != "" {
		b.WriteString("\n" + styles.DangerText.Render(c.err) + "\n")
	}
	b.WriteString("\n" + styles.FaintText.Render("tab next field · enter create · esc cancel"))
	return renderModalFrame(theme, "New list", b.String(), width, height, 50)
}

// addToListModal picks one of the user's lists for a game.
type addToListModal struct {
	game     vapor.Game
	lists    []vapor.List
	selected int
	onPick   func(vapor.List) tea.Cmd
	colorOf  func(vapor.List) string
}

func newAddToListModal(game vapor.Game, lists []vapor.List, colorOf func(vapor.List) string, onPick func(vapor.List) tea.Cmd) *addToListModal {
	return &addToListModal{game: game, lists: lists, onPick: onPick, colorOf: colorOf}
}

// Update implements Modal.
func (a *addToListModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil, false
	}
	switch {
	case km.String() == "esc":
		return a, nil, true
	case key.Matches(km, keys.Down):
		a.selected = clampIndex(a.selected+1, len(a.lists))
	case key.Matches(km, keys.Up):
		a.selected = clampIndex(a.selected-1, len(a.lists))
	case key.Matches(km, keys.Submit):
		if len(a.lists) == 0 {
			return a, nil, true
		}
		return a, a.onPick(a.lists[a.selected]), true
	}
	return a, nil, false
}

// View implements Modal.
func (a *addToListModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Render(truncate(a.game.Name, 40)) + "\n\n")
	if len(a.lists) == 0 {
		b.WriteString(styles.MutedText.Render("You have no lists yet. Create one from the Lists view (3, then n)."))
	}
	for i, l := range a.lists {
		marker := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(a.colorOf(l)))
		if i == a.selected {
			marker = "▸ "
			style = styles.BadgeStyle(a.colorOf(l))
		}
		b.WriteString(marker + style.Render(l.IconOr("•")+" "+truncate(l.Name, 36)) + "\n")
	}
	b.WriteString("\n" + styles.FaintText.Render("enter add · esc cancel"))
	return renderModalFrame(theme, "Add to list", b.String(), width, height, 50)
}

// confirmModal asks a yes/no question and runs onYes when confirmed.
type confirmModal struct {
	title  string
	prompt string
	onYes  tea.Cmd
}

func newConfirmModal(title, prompt string, onYes tea.Cmd) *confirmModal {
	return &confirmModal{title: title, prompt: prompt, onYes: onYes}
}

// Update implements Modal.
func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch km.String() {
	case "y", "Y", "enter":
		return c, c.onYes, true
	case "n", "N", "esc":
		return c, nil, true
	}
	return c, nil, false
}

// View implements Modal.
func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.Text.Render(c.prompt) + "\n\n" + styles.FaintText.Render("y confirm · n cancel")
	return renderModalFrame(theme, c.title, body, width, height, 50)
}
