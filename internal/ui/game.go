package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

// gameState is the detail screen of one game.
type gameState struct {
	game         vapor.Game
	details      *vapor.GameDetails
	detailsErr   error
	achievements *vapor.Achievements
	achErr       error
	selected     int
	offset       int
	picked       map[int]bool
	completing   bool
	scroll       int
}

type gameDetailsMsg struct {
	appID   int
	details vapor.GameDetails
	err     error
}

type achievementsMsg struct {
	gameID       int
	achievements vapor.Achievements
	err          error
}

type achievementsCompletedMsg struct {
	gameID int
	ids    []int
	err    error
}

type addedToListMsg struct {
	list    vapor.List
	game    vapor.Game
	message string
	err     error
}

// openGame shows the detail screen for game and starts loading its store
// details and achievements.
func (m Model) openGame(game vapor.Game) (tea.Model, tea.Cmd) {
	m.game = gameState{game: game, picked: make(map[int]bool)}
	mm, cmd := m.push(ViewGame)
	return mm, tea.Batch(cmd, fetchDetailsCmd(m.ctx, m.api, game.AppID), fetchAchievementsCmd(m.ctx, m.api, game.ID))
}

func fetchDetailsCmd(ctx context.Context, api API, appID int) tea.Cmd {
	if api == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		details, err := api.GameDetails(ctx, appID)
		return gameDetailsMsg{appID: appID, details: details, err: err}
	}
}

func fetchAchievementsCmd(ctx context.Context, api API, gameID int) tea.Cmd {
	if api == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		a, err := api.Achievements(ctx, gameID)
		return achievementsMsg{gameID: gameID, achievements: a, err: err}
	}
}

func completeAchievementsCmd(ctx context.Context, api API, gameID int, ids []int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		err := api.CompleteAchievements(ctx, gameID, ids)
		return achievementsCompletedMsg{gameID: gameID, ids: ids, err: err}
	}
}

func addToListCmd(ctx context.Context, api API, list vapor.List, game vapor.Game) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		message, err := api.AddGamesToList(ctx, list.ID, []int{game.ID})
		return addedToListMsg{list: list, game: game, message: message, err: err}
	}
}

// pickedIDs returns the selected achievement IDs in ascending order.
func (g gameState) pickedIDs() []int {
	ids := make([]int, 0, len(g.picked))
	for id, on := range g.picked {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (m Model) handleGameMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gameDetailsMsg:
		if msg.appID != m.game.game.AppID {
			return m, nil
		}
		if msg.err != nil {
			m.game.detailsErr = msg.err
			m.logger.Warn("game details failed", zap.Int("app_id", msg.appID), zap.Error(msg.err))
			return m, nil
		}
		m.game.details = &msg.details
		m.game.detailsErr = nil

	case achievementsMsg:
		if msg.gameID != m.game.game.ID {
			return m, nil
		}
		if msg.err != nil {
			m.game.achErr = msg.err
			m.logger.Warn("achievements failed", zap.Int("game", msg.gameID), zap.Error(msg.err))
			return m, nil
		}
		m.game.achievements = &msg.achievements
		m.game.achErr = nil
		m.game.selected = clampIndex(m.game.selected, len(msg.achievements.List))

	case achievementsCompletedMsg:
		if msg.gameID == m.game.game.ID {
			m.game.completing = false
		}
		if msg.err != nil {
			cmd := m.failed("complete achievements", msg.err)
			return m, cmd
		}
		m.logger.Info("achievements completed", zap.Int("game", msg.gameID), zap.Ints("ids", msg.ids))
		if msg.gameID == m.game.game.ID {
			m.game.picked = make(map[int]bool)
		}
		toast := m.showToast(fmt.Sprintf("Unlocked %d achievement(s)", len(msg.ids)), false)
		return m, tea.Batch(toast, fetchAchievementsCmd(m.ctx, m.api, msg.gameID))

	case addedToListMsg:
		if msg.err != nil {
			cmd := m.failed("add to list", msg.err)
			return m, cmd
		}
		text := msg.message
		if text == "" {
			text = fmt.Sprintf("%s added to %s", msg.game.Name, msg.list.Name)
		}
		m.logger.Info("game added to list", zap.Int("list", msg.list.ID), zap.Int("game", msg.game.ID))
		cmd := m.showToast(text, false)
		return m, cmd
	}
	return m, nil
}

// handleGameKey processes keyboard input for the game detail view.
func (m Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var list []vapor.Achievement
	if m.game.achievements != nil {
		list = m.game.achievements.List
	}
	rows := m.achievementRows()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Down):
		m.game.selected = clampIndex(m.game.selected+1, len(list))
	case key.Matches(msg, m.keys.Up):
		m.game.selected = clampIndex(m.game.selected-1, len(list))
	case key.Matches(msg, m.keys.Top):
		m.game.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.game.selected = clampIndex(len(list)-1, len(list))
	case key.Matches(msg, m.keys.PageDown):
		m.game.scroll += max(m.contentHeight()/2, 1)
	case key.Matches(msg, m.keys.PageUp):
		m.game.scroll = max(m.game.scroll-max(m.contentHeight()/2, 1), 0)
	case key.Matches(msg, m.keys.ToggleAchievement):
		if m.game.selected < len(list) {
			a := list[m.game.selected]
			if !m.game.achievements.IsCompleted(a.ID) {
				m.game.picked[a.ID] = !m.game.picked[a.ID]
			}
		}
	case key.Matches(msg, m.keys.Complete):
		ids := m.game.pickedIDs()
		if len(ids) == 0 || m.game.completing {
			return m, nil
		}
		if !m.loggedIn() {
			return m.switchTo(ViewLogin)
		}
		m.game.completing = true
		return m, completeAchievementsCmd(m.ctx, m.api, m.game.game.ID, ids)
	case key.Matches(msg, m.keys.AddToList):
		if !m.loggedIn() {
			return m.switchTo(ViewLogin)
		}
		m.modal = newAddToListModal(m.game.game, m.snapshot.Lists,
			func(l vapor.List) string { return m.listColor(l.ID, l.Color) },
			func(l vapor.List) tea.Cmd { return addToListCmd(m.ctx, m.api, l, m.game.game) },
		)
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(fetchDetailsCmd(m.ctx, m.api, m.game.game.AppID), fetchAchievementsCmd(m.ctx, m.api, m.game.game.ID))
	}
	m.game.offset = visibleWindow(m.game.selected, m.game.offset, rows, len(list))
	return m, nil
}

// achievementRows is how many achievements fit in the right pane.
func (m Model) achievementRows() int {
	return max(m.contentHeight()-2-6, 1)
}

func (m Model) renderGame() string {
	height := m.contentHeight()
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth
	if m.width < LayoutCompactWidth {
		return m.renderTitledBox(m.game.game.Name, m.renderGameInfo(m.width-4, height-2), m.width, height, true)
	}
	left := m.renderTitledBox(m.game.game.Name, m.renderGameInfo(leftWidth-4, height-2), leftWidth, height, false)
	right := m.renderTitledBox("Achievements", m.renderAchievements(rightWidth-2, height-2), rightWidth, height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderGameInfo(width, height int) string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()
	label := func(name, value string) string {
		return bg.Render(fmt.Sprintf("%-11s", name), styles.MutedText) + bg.Render(truncate(value, max(width-12, 1)), styles.Text)
	}

	d := m.game.details
	switch {
	case d == nil && m.game.detailsErr != nil:
		return bg.Render("Could not load details: "+vapor.Message(m.game.detailsErr), styles.DangerText) +
			"\n" + bg.Render("r to retry", styles.FaintText)
	case d == nil:
		return bg.Render("Loading details...", styles.MutedText)
	}

	var lines []string
	if d.Price != "" {
		lines = append(lines, label("Price", d.Price))
	}
	release := d.ReleaseDate.Date
	if d.ReleaseDate.ComingSoon {
		release = "Coming soon " + release
	}
	if release != "" {
		lines = append(lines, label("Released", release))
	}
	if len(d.Developers) > 0 {
		lines = append(lines, label("Developer", strings.Join(d.Developers, ", ")))
	}
	if len(d.Publishers) > 0 {
		lines = append(lines, label("Publisher", strings.Join(d.Publishers, ", ")))
	}
	if len(d.Genres) > 0 {
		lines = append(lines, label("Genres", strings.Join(d.Genres, ", ")))
	}
	if len(d.Categories) > 0 {
		lines = append(lines, label("Features", strings.Join(d.Categories, ", ")))
	}
	lines = append(lines, "")

	desc := d.AboutTheGame
	if strings.TrimSpace(desc) == "" {
		desc = d.DetailedDescription
	}
	for _, line := range strings.Split(plainText(desc, width), "\n") {
		lines = append(lines, bg.Render(line, styles.Text))
	}

	scroll := min(m.game.scroll, max(len(lines)-height, 0))
	return strings.Join(lines[scroll:], "\n")
}

func (m Model) renderAchievements(width, height int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	a := m.game.achievements
	switch {
	case a == nil && m.game.achErr != nil:
		return bg.Render(" Could not load achievements: "+vapor.Message(m.game.achErr), styles.DangerText)
	case a == nil:
		return bg.Render(" Loading achievements...", styles.MutedText)
	case len(a.List) == 0:
		return bg.Render(" This game has no achievements", styles.MutedText)
	}

	pct := a.Progress()
	barWidth := max(width-12, 4)
	lines := []string{
		bg.Render(fmt.Sprintf(" %d of %d unlocked", len(a.CompletedIDs), len(a.List)), styles.Text),
		bg.Render(" "+progressBar(pct, barWidth), styles.SuccessText) + bg.Render(fmt.Sprintf(" %3d%%", pct), styles.Text),
		"",
	}

	rows := max(height-len(lines)-3, 1)
	offset := visibleWindow(m.game.selected, m.game.offset, rows, len(a.List))
	end := min(offset+rows, len(a.List))
	for i := offset; i < end; i++ {
		ach := a.List[i]
		mark, style := "[ ]", styles.Text
		switch {
		case a.IsCompleted(ach.ID):
			mark, style = "[✓]", styles.SuccessText
		case m.game.picked[ach.ID]:
			mark, style = "[•]", styles.WarningText
		}
		lines = append(lines, m.renderRow(fmt.Sprintf(" %s %s", mark, ach.Name), width, bgColor, i == m.game.selected, style))
	}

	if m.game.selected < len(a.List) {
		lines = append(lines, "", bg.Render(" "+truncate(a.List[m.game.selected].Description, max(width-2, 1)), styles.MutedText))
	}
	if n := len(m.game.pickedIDs()); n > 0 {
		status := fmt.Sprintf(" %d selected · c to mark complete", n)
		if m.game.completing {
			status = " Saving..."
		}
		lines = append(lines, bg.Render(status, styles.WarningText))
	}
	return strings.Join(lines, "\n")
}
