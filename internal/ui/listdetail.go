package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/vapor"
)

// listSorts is the order the sort key cycles through.
var listSorts = []vapor.ListSort{
	{By: "created_at", Order: "desc"},
	{By: "created_at", Order: "asc"},
	{By: "name", Order: "asc"},
	{By: "name", Order: "desc"},
	{By: "id", Order: "asc"},
	{By: "id", Order: "desc"},
}

var sortLabels = map[string]string{
	"created_at": "date added",
	"name":       "name",
	"id":         "id",
	"game_id":    "game id",
	"appId":      "app id",
}

func sortLabel(s vapor.ListSort) string {
	label, ok := sortLabels[s.By]
	if !ok {
		label = s.By
	}
	arrow := "↓"
	if s.Order == "asc" {
		arrow = "↑"
	}
	return label + " " + arrow
}

func nextSort(current vapor.ListSort) vapor.ListSort {
	for i, s := range listSorts {
		if s == current {
			return listSorts[(i+1)%len(listSorts)]
		}
	}
	return listSorts[0]
}

// listDetailState is the games-in-list screen. It owns its controller, which is
// rebuilt whenever the list or the sort changes.
type listDetailState struct {
	list  vapor.List
	sort  vapor.ListSort
	games gameList
}

func (l *listDetailState) close() {
	if l.games.pager != nil {
		l.games.pager.Close()
	}
	l.games = gameList{}
}

// openList shows the games of list.
func (m Model) openList(list vapor.List) (tea.Model, tea.Cmd) {
	if m.api == nil {
		return m, nil
	}
	m.listDetail.close()
	m.listDetail.list = list
	m.listDetail.sort = vapor.ListSort{By: m.prefs.ListSortBy, Order: m.prefs.ListSortOrder}
	if m.listDetail.sort.By == "" {
		m.listDetail.sort = listSorts[0]
	}
	m.listDetail.games = newGameList(list.Name, m.newPager(m.api.ListGamePages(list.ID, m.listDetail.sort), "list"))
	load := m.listDetail.games.ensureLoaded(m.ctx)
	mm, cmd := m.push(ViewListDetail)
	return mm, tea.Batch(cmd, load)
}

// handleListDetailKey processes keyboard input for a list's games.
func (m Model) handleListDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.listDetail.games.handleKey(m.ctx, msg, m.keys, m.listRows()); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if game, ok := m.listDetail.games.selectedGame(); ok {
			return m.openGame(game)
		}
	case key.Matches(msg, m.keys.Sort):
		return m.cycleListSort()
	case key.Matches(msg, m.keys.Remove):
		game, ok := m.listDetail.games.selectedGame()
		if !ok {
			return m, nil
		}
		list := m.listDetail.list
		m.modal = newConfirmModal(
			"Remove game",
			fmt.Sprintf("Remove %q from %s?", game.Name, list.Name),
			removeGameCmd(m.ctx, m.api, list.ID, game),
		)
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.listDetail.games.search.Value() != "" {
			m.listDetail.games.setSearch("")
			return m, nil
		}
		return m.back()
	}
	return m, nil
}

// cycleListSort moves to the next sort, saves it and reloads the list.
func (m Model) cycleListSort() (tea.Model, tea.Cmd) {
	sort := nextSort(m.listDetail.sort)
	m.prefs.ListSortBy, m.prefs.ListSortOrder = sort.By, sort.Order

	search := m.listDetail.games.search.Value()
	list := m.listDetail.list
	m.listDetail.close()
	m.listDetail.list = list
	m.listDetail.sort = sort
	m.listDetail.games = newGameList(list.Name, m.newPager(m.api.ListGamePages(list.ID, sort), "list"))
	m.listDetail.games.search.SetValue(search)
	m.listDetail.games.loaded = true

	pager := m.listDetail.games.pager
	load := func() tea.Msg {
		pager.RequestPage(m.ctx, paging.ModeInitial, &search)
		return nil
	}
	m.logger.Debug("list sort changed", zap.Int("list", list.ID), zap.String("by", sort.By), zap.String("order", sort.Order))
	toast := m.showToast("Sorted by "+sortLabel(sort), false)
	return m, tea.Batch(load, m.savePrefs(), toast)
}

type gameRemovedMsg struct {
	listID int
	game   vapor.Game
	err    error
}

func removeGameCmd(ctx context.Context, api API, listID int, game vapor.Game) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		err := api.RemoveGameFromList(ctx, listID, game.ID)
		return gameRemovedMsg{listID: listID, game: game, err: err}
	}
}

func (m Model) handleGameRemoved(msg gameRemovedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cmd := m.failed("remove game", msg.err)
		return m, cmd
	}
	m.logger.Info("game removed from list", zap.Int("list", msg.listID), zap.Int("game", msg.game.ID))
	toast := m.showToast(fmt.Sprintf("Removed %s", msg.game.Name), false)
	if m.listDetail.list.ID != msg.listID || m.listDetail.games.pager == nil {
		return m, toast
	}
	return m, tea.Batch(toast, requestPageCmd(m.ctx, m.listDetail.games.pager, paging.ModeRefresh))
}

func (m Model) renderListDetail() string {
	title := fmt.Sprintf("%s %s · %s", m.listDetail.list.IconOr("•"), m.listDetail.list.Name, sortLabel(m.listDetail.sort))
	if s := m.listDetail.games.state.Search; s != "" {
		title += " · " + s
	}
	return m.renderGameListView(m.listDetail.games, title)
}
