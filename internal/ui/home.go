package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vapor/internal/vapor"
)

// homeCategories are the genre shortcuts on the home screen. Each opens the
// catalog searched by its name.
var homeCategories = []string{"Action", "RPG", "Racing", "Indie", "Strategy", "Multiplayer", "Simulation"}

type homeEntryKind int

const (
	homeFeatured homeEntryKind = iota
	homeCategory
	homeRecent
	homeList
)

var homeSectionTitles = map[homeEntryKind]string{
	homeFeatured: "Featured",
	homeCategory: "Categories",
	homeRecent:   "Recently added",
	homeList:     "Your lists",
}

// homeEntry is one selectable row of the home screen.
type homeEntry struct {
	kind     homeEntryKind
	game     vapor.Game
	category string
	list     vapor.List
}

func (e homeEntry) label() string {
	switch e.kind {
	case homeCategory:
		return e.category
	case homeList:
		return e.list.IconOr("•") + " " + e.list.Name
	default:
		return e.game.Name
	}
}

type homeState struct {
	selected int
	offset   int
}

func (h *homeState) clamp(n int) {
	h.selected = clampIndex(h.selected, n)
}

// homeEntries flattens the snapshot into the rows the home screen shows.
func (m Model) homeEntries() []homeEntry {
	var entries []homeEntry
	for _, g := range m.snapshot.Featured {
		entries = append(entries, homeEntry{kind: homeFeatured, game: g})
	}
	for _, c := range homeCategories {
		entries = append(entries, homeEntry{kind: homeCategory, category: c})
	}
	for _, g := range m.snapshot.Recent {
		entries = append(entries, homeEntry{kind: homeRecent, game: g})
	}
	if m.loggedIn() {
		for _, l := range m.snapshot.Lists {
			entries = append(entries, homeEntry{kind: homeList, list: l})
		}
	}
	return entries
}

// homeLines pairs every rendered line with the entry it selects, -1 for headings.
func homeLines(entries []homeEntry) ([]string, []int) {
	var lines []string
	var index []int
	last := homeEntryKind(-1)
	for i, e := range entries {
		if e.kind != last {
			if last != -1 {
				lines = append(lines, "")
				index = append(index, -1)
			}
			lines = append(lines, homeSectionTitles[e.kind])
			index = append(index, -1)
			last = e.kind
		}
		lines = append(lines, e.label())
		index = append(index, i)
	}
	return lines, index
}

// handleHomeKey processes keyboard input for the home view.
func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.homeEntries()
	rows := m.contentHeight() - 2

	switch {
	case key.Matches(msg, m.keys.Down):
		m.home.selected = clampIndex(m.home.selected+1, len(entries))
	case key.Matches(msg, m.keys.Up):
		m.home.selected = clampIndex(m.home.selected-1, len(entries))
	case key.Matches(msg, m.keys.PageDown):
		m.home.selected = clampIndex(m.home.selected+rows/2, len(entries))
	case key.Matches(msg, m.keys.PageUp):
		m.home.selected = clampIndex(m.home.selected-rows/2, len(entries))
	case key.Matches(msg, m.keys.Top):
		m.home.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.home.selected = clampIndex(len(entries)-1, len(entries))
	case key.Matches(msg, m.keys.Refresh):
		m.kickRefresh()
		cmd := m.showToast("Refreshing home...", false)
		return m, cmd
	case key.Matches(msg, m.keys.Search):
		mm, cmd := m.push(ViewCatalog)
		model := mm.(Model)
		focus := model.catalog.startSearch()
		return model, tea.Batch(cmd, focus)
	case key.Matches(msg, m.keys.Open):
		if m.home.selected >= len(entries) {
			return m, nil
		}
		e := entries[m.home.selected]
		switch e.kind {
		case homeCategory:
			return m.browseCategory(e.category)
		case homeList:
			return m.openList(e.list)
		default:
			return m.openGame(e.game)
		}
	}

	_, index := homeLines(entries)
	m.home.offset = visibleWindow(lineOf(index, m.home.selected), m.home.offset, rows, len(index))
	return m, nil
}

func lineOf(index []int, entry int) int {
	for line, e := range index {
		if e == entry {
			return line
		}
	}
	return 0
}

func (m Model) renderHome() string {
	height := m.contentHeight()
	entries := m.homeEntries()

	if len(entries) == len(homeCategories) && !m.snapshot.Loaded() {
		msg := m.theme.Styles().MutedText.Render("Loading catalog...")
		return m.renderCentered(msg, m.width, height)
	}

	leftWidth, rightWidth := splitWidths(m.width)
	if m.width < LayoutCompactWidth {
		leftWidth = m.width
	}
	left := m.renderTitledBox("Vapor", m.renderHomeList(entries, leftWidth-2, height-2), leftWidth, height, true)
	if m.width < LayoutCompactWidth {
		return left
	}

	var detail string
	if m.home.selected < len(entries) {
		detail = m.renderHomeDetail(entries[m.home.selected], rightWidth-4)
	}
	right := m.renderTitledBox("Details", detail, rightWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderHomeList(entries []homeEntry, width, rows int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	lines, index := homeLines(entries)
	offset := visibleWindow(lineOf(index, m.home.selected), m.home.offset, rows, len(lines))
	end := min(offset+rows, len(lines))

	out := make([]string, 0, rows)
	for i := offset; i < end; i++ {
		entry := index[i]
		switch {
		case entry < 0 && lines[i] == "":
			out = append(out, "")
		case entry < 0:
			out = append(out, bg.Render(" "+lines[i], styles.AccentText.Bold(true)))
		default:
			e := entries[entry]
			style := styles.Text
			if e.kind == homeCategory {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.PaletteColor(entry)))
			}
			if e.kind == homeList {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.listColor(e.list.ID, e.list.Color)))
			}
			out = append(out, m.renderRow("   "+lines[i], width, bgColor, entry == m.home.selected, style))
		}
	}
	return strings.Join(out, "\n")
}

func (m Model) renderHomeDetail(e homeEntry, width int) string {
	bgColor := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	switch e.kind {
	case homeCategory:
		return strings.Join([]string{
			bg.Render(e.category, styles.Text.Bold(true)),
			"",
			bg.Render(fmt.Sprintf("enter searches the catalog for %q", e.category), styles.MutedText),
		}, "\n")
	case homeList:
		color := m.listColor(e.list.ID, e.list.Color)
		badge := m.theme.Styles().BadgeStyle(color).Render(e.list.IconOr("•") + " " + e.list.Name)
		return strings.Join([]string{
			badge,
			"",
			bg.Render("enter shows the games in this list", styles.MutedText),
		}, "\n")
	default:
		return m.renderGameSummary(e.game, width, bgColor)
	}
}
