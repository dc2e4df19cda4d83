package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

type listsState struct {
	filter    textinput.Model
	filtering bool
	selected  int
	offset    int
}

func newListsState() listsState {
	ti := textinput.New()
	ti.Placeholder = "Filter lists..."
	ti.Prompt = "/ "
	ti.CharLimit = 40
	return listsState{filter: ti}
}

func (l *listsState) clamp(n int) {
	l.selected = clampIndex(l.selected, n)
}

// listMatch is a list that passed the filter, with the name runes to highlight.
type listMatch struct {
	list    vapor.List
	matched []int
}

// filterLists keeps the lists whose names fuzzy-match query, best match first.
// An empty query keeps every list in server order.
func filterLists(lists []vapor.List, query string) []listMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]listMatch, len(lists))
		for i, l := range lists {
			out[i] = listMatch{list: l}
		}
		return out
	}
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = l.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]listMatch, 0, len(matches))
	for _, match := range matches {
		out = append(out, listMatch{list: lists[match.Index], matched: match.MatchedIndexes})
	}
	return out
}

func (m Model) filteredLists() []listMatch {
	return filterLists(m.snapshot.Lists, m.lists.filter.Value())
}

// handleListsKey processes keyboard input for the lists view.
func (m Model) handleListsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists.filtering {
		switch msg.String() {
		case "enter":
			m.lists.filtering = false
			m.lists.filter.Blur()
			return m, nil
		case "esc":
			m.lists.filtering = false
			m.lists.filter.Blur()
			m.lists.filter.SetValue("")
			m.lists.selected = 0
			return m, nil
		}
		var cmd tea.Cmd
		m.lists.filter, cmd = m.lists.filter.Update(msg)
		m.lists.selected = 0
		m.lists.offset = 0
		return m, cmd
	}

	matches := m.filteredLists()
	rows := m.listRows()

	switch {
	case key.Matches(msg, m.keys.Down):
		m.lists.selected = clampIndex(m.lists.selected+1, len(matches))
	case key.Matches(msg, m.keys.Up):
		m.lists.selected = clampIndex(m.lists.selected-1, len(matches))
	case key.Matches(msg, m.keys.Top):
		m.lists.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.lists.selected = clampIndex(len(matches)-1, len(matches))
	case key.Matches(msg, m.keys.Search):
		m.lists.filtering = true
		cmd := m.lists.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m, refreshListsCmd(m.ctx, m.api)
	case key.Matches(msg, m.keys.NewList):
		m.modal = newCreateListModal(func(p vapor.CreateListPayload) tea.Cmd {
			return createListCmd(m.ctx, m.api, p)
		})
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Open):
		if m.lists.selected < len(matches) {
			return m.openList(matches[m.lists.selected].list)
		}
	case key.Matches(msg, m.keys.Back):
		if m.lists.filter.Value() != "" {
			m.lists.filter.SetValue("")
			m.lists.selected = 0
			return m, nil
		}
		return m.back()
	}
	m.lists.offset = visibleWindow(m.lists.selected, m.lists.offset, rows, len(matches))
	return m, nil
}

func (m Model) renderLists() string {
	height := m.contentHeight()
	leftWidth, rightWidth := splitWidths(m.width)
	if m.width < LayoutCompactWidth {
		leftWidth = m.width
	}

	matches := m.filteredLists()
	left := m.renderTitledBox(fmt.Sprintf("Your lists (%d)", len(m.snapshot.Lists)), m.renderListRows(matches, leftWidth-2, height-2), leftWidth, height, true)
	if m.width < LayoutCompactWidth {
		return left
	}

	var detail string
	if m.lists.selected < len(matches) {
		detail = m.renderListSummary(matches[m.lists.selected].list, rightWidth-4)
	}
	right := m.renderTitledBox("List", detail, rightWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderListRows(matches []listMatch, width, height int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	var lines []string
	switch {
	case m.lists.filtering:
		lines = append(lines, m.lists.filter.View())
	case m.lists.filter.Value() != "":
		lines = append(lines, bg.Render("/ "+m.lists.filter.Value(), styles.AccentText)+bg.Render("  esc clears", styles.FaintText))
	default:
		lines = append(lines, bg.Render("/ to filter, n for a new list", styles.FaintText))
	}

	if len(matches) == 0 {
		msg := "No lists yet. Press n to create one."
		if m.lists.filter.Value() != "" {
			msg = "No lists match the filter"
		}
		lines = append(lines, "", bg.Render(" "+msg, styles.MutedText))
		return strings.Join(lines, "\n")
	}

	rows := max(height-1, 1)
	offset := visibleWindow(m.lists.selected, m.lists.offset, rows, len(matches))
	end := min(offset+rows, len(matches))
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderListRow(matches[i], width, bgColor, i == m.lists.selected))
	}
	return strings.Join(lines, "\n")
}

// renderListRow draws a list name on a background tinted with the list color,
// with fuzzy matches underlined.
func (m Model) renderListRow(match listMatch, width int, bgColor string, selected bool) string {
	color := m.listColor(match.list.ID, match.list.Color)
	rowBg := tint(color, bgColor, 0.18)
	if selected {
		rowBg = tint(color, bgColor, 0.55)
	}
	fg := readableText(rowBg, m.theme.Background)
	base := lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Foreground(lipgloss.Color(fg))
	hl := base.Underline(true).Bold(true)

	icon := base.Foreground(lipgloss.Color(color)).Render(" " + match.list.IconOr("•") + " ")
	if selected {
		icon = base.Render(" " + match.list.IconOr("•") + " ")
	}

	matched := make(map[int]bool, len(match.matched))
	for _, idx := range match.matched {
		matched[idx] = true
	}
	var name strings.Builder
	for i, r := range []rune(truncate(match.list.Name, max(width-5, 1))) {
		if matched[i] {
			name.WriteString(hl.Render(string(r)))
		} else {
			name.WriteString(base.Render(string(r)))
		}
	}
	return base.Width(width).Render(icon + name.String())
}

func (m Model) renderListSummary(list vapor.List, width int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()
	color := m.listColor(list.ID, list.Color)

	lines := []string{
		styles.BadgeStyle(color).Render(list.IconOr("•") + " " + truncate(list.Name, max(width-6, 1))),
		"",
		bg.Render(fmt.Sprintf("%-8s", "Color"), styles.MutedText) + bg.Render(color, styles.Text),
		bg.Render(fmt.Sprintf("%-8s", "ID"), styles.MutedText) + bg.Render(fmt.Sprintf("%d", list.ID), styles.Text),
		"",
		bg.Render("enter opens the list, s there cycles the sort", styles.FaintText),
	}
	return strings.Join(lines, "\n")
}

type listsMsg struct {
	lists []vapor.List
	err   error
}

type listCreatedMsg struct {
	list vapor.List
	err  error
}

func refreshListsCmd(ctx context.Context, api API) tea.Cmd {
	if api == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		lists, err := api.Lists(ctx)
		return listsMsg{lists: lists, err: err}
	}
}

func createListCmd(ctx context.Context, api API, payload vapor.CreateListPayload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		list, err := api.CreateList(ctx, payload)
		return listCreatedMsg{list: list, err: err}
	}
}

func (m Model) handleListsLoaded(msg listsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.failed("load lists", msg.err)
		return m, cmd
	}
	m.store.UpdateLists(msg.lists)
	m.snapshot = m.store.Snapshot()
	m.lists.clamp(len(m.filteredLists()))
	return m, nil
}

func (m Model) handleListCreated(msg listCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.failed("create list", msg.err)
		return m, cmd
	}
	m.logger.Info("list created", zap.Int("id", msg.list.ID), zap.String("name", msg.list.Name))
	toast := m.showToast(fmt.Sprintf("Created list %s", msg.list.Name), false)
	return m, tea.Batch(toast, refreshListsCmd(m.ctx, m.api))
}
