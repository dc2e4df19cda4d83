package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleCatalogKey processes keyboard input for the catalog.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.catalog.handleKey(m.ctx, msg, m.keys, m.listRows()); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if game, ok := m.catalog.selectedGame(); ok {
			return m.openGame(game)
		}
	case key.Matches(msg, m.keys.Back):
		if m.catalog.search.Value() != "" {
			m.catalog.setSearch("")
			return m, nil
		}
		return m.back()
	}
	return m, nil
}

// browseCategory opens the catalog filtered by a category name.
func (m Model) browseCategory(category string) (tea.Model, tea.Cmd) {
	if m.catalog.pager == nil {
		return m, nil
	}
	m.catalog.setSearch(category)
	return m.push(ViewCatalog)
}

func (m Model) renderCatalog() string {
	title := "Catalog"
	if s := m.catalog.state.Search; s != "" {
		title = "Catalog · " + s
	}
	return m.renderGameListView(m.catalog, title)
}
