package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/vapor"
)

// gameList is a scrollable, searchable pane backed by a paging controller.
// The catalog and the list detail screen both use one.
type gameList struct {
	title     string
	pager     *paging.Controller[vapor.Game]
	state     paging.State[vapor.Game]
	selected  int
	offset    int
	search    textinput.Model
	searching bool
	loaded    bool
}

func newGameList(title string, pager *paging.Controller[vapor.Game]) gameList {
	ti := textinput.New()
	ti.Placeholder = "Search games..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	return gameList{title: title, pager: pager, search: ti}
}

// sync copies the controller state and keeps the selection in range. It
// returns the error of an append that failed since the previous sync; reset
// failures already replace the list with an error message.
func (g *gameList) sync() error {
	if g.pager == nil {
		return nil
	}
	prev := g.state.LastError
	g.state = g.pager.Snapshot()
	g.selected = clampIndex(g.selected, len(g.state.Items))

	err := g.state.LastError
	if err == nil || err == prev {
		return nil
	}
	var te *paging.TransportError
	if errors.As(err, &te) && te.Mode == paging.ModeAppend {
		return err
	}
	return nil
}

// ensureLoaded issues the first fetch the first time the pane is shown.
func (g *gameList) ensureLoaded(ctx context.Context) tea.Cmd {
	if g.pager == nil || g.loaded {
		return nil
	}
	g.loaded = true
	return requestPageCmd(ctx, g.pager, paging.ModeInitial)
}

func (g gameList) selectedGame() (vapor.Game, bool) {
	if g.selected < 0 || g.selected >= len(g.state.Items) {
		return vapor.Game{}, false
	}
	return g.state.Items[g.selected], true
}

// move shifts the selection and returns the append command when the selection
// is within nearEndRows of the last loaded game.
func (g *gameList) move(ctx context.Context, delta int) tea.Cmd {
	n := len(g.state.Items)
	if n == 0 {
		return nil
	}
	g.selected = clampIndex(g.selected+delta, n)
	return g.nearEndCmd(ctx)
}

func (g *gameList) moveTo(ctx context.Context, idx int) tea.Cmd {
	n := len(g.state.Items)
	if n == 0 {
		return nil
	}
	g.selected = clampIndex(idx, n)
	return g.nearEndCmd(ctx)
}

func (g gameList) nearEndCmd(ctx context.Context) tea.Cmd {
	n := len(g.state.Items)
	if n-1-g.selected >= nearEndRows || !g.state.CanLoadMore() {
		return nil
	}
	return requestPageCmd(ctx, g.pager, paging.ModeAppend)
}

// fillCmd appends a page when fewer games than rows are loaded. A failed read
// stops the top-up; the next scroll or refresh is the retry.
func (g gameList) fillCmd(ctx context.Context, rows int) tea.Cmd {
	if g.pager == nil || !g.loaded || rows <= 0 || g.state.LastError != nil {
		return nil
	}
	if len(g.state.Items) == 0 || len(g.state.Items) >= rows || !g.state.CanLoadMore() {
		return nil
	}
	return requestPageCmd(ctx, g.pager, paging.ModeAppend)
}

func (g *gameList) refresh(ctx context.Context) tea.Cmd {
	if g.pager == nil {
		return nil
	}
	g.loaded = true
	return requestPageCmd(ctx, g.pager, paging.ModeRefresh)
}

func (g *gameList) startSearch() tea.Cmd {
	g.searching = true
	return g.search.Focus()
}

func (g *gameList) stopSearch() {
	g.searching = false
	g.search.Blur()
}

// setSearch replaces the search text and schedules the debounced fetch.
func (g *gameList) setSearch(text string) {
	g.search.SetValue(text)
	g.loaded = true
	g.selected = 0
	g.pager.OnSearchTextChanged(text)
}

// updateSearch feeds a key to the search input and reports the change to the
// controller when the text changed.
func (g *gameList) updateSearch(msg tea.KeyMsg) tea.Cmd {
	before := g.search.Value()
	var cmd tea.Cmd
	g.search, cmd = g.search.Update(msg)
	if after := g.search.Value(); after != before && g.pager != nil {
		g.loaded = true
		g.selected = 0
		g.pager.OnSearchTextChanged(after)
	}
	return cmd
}

// handleKey applies the navigation and search keys shared by game lists. It
// reports whether the key was consumed.
func (g *gameList) handleKey(ctx context.Context, msg tea.KeyMsg, keys keyMap, rows int) (tea.Cmd, bool) {
	if g.searching {
		switch msg.String() {
		case "esc", "enter":
			g.stopSearch()
			return nil, true
		}
		return g.updateSearch(msg), true
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Down):
		cmd = g.move(ctx, 1)
	case key.Matches(msg, keys.Up):
		cmd = g.move(ctx, -1)
	case key.Matches(msg, keys.PageDown):
		cmd = g.move(ctx, max(rows-1, 1))
	case key.Matches(msg, keys.PageUp):
		cmd = g.move(ctx, -max(rows-1, 1))
	case key.Matches(msg, keys.Top):
		cmd = g.moveTo(ctx, 0)
	case key.Matches(msg, keys.Bottom):
		cmd = g.moveTo(ctx, len(g.state.Items)-1)
	default:
		return g.handleAction(ctx, msg, keys)
	}
	g.offset = visibleWindow(g.selected, g.offset, rows, len(g.state.Items))
	return cmd, true
}

func (g *gameList) handleAction(ctx context.Context, msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Search):
		return g.startSearch(), true
	case key.Matches(msg, keys.Refresh):
		return g.refresh(ctx), true
	}
	return nil, false
}

// render draws the search line, the rows and a footer into a pane body of
// width x height.
func (g gameList) render(m Model, width, height int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	var lines []string
	switch {
	case g.searching:
		lines = append(lines, g.search.View())
	case g.state.Search != "":
		lines = append(lines, bg.Render("/ "+g.state.Search, styles.AccentText)+bg.Render("  esc clears", styles.FaintText))
	default:
		lines = append(lines, bg.Render("/ to search", styles.FaintText))
	}

	rows := max(height-2, 1)
	items := g.state.Items
	if len(items) == 0 {
		lines = append(lines, "", g.emptyMessage(bg, styles))
		return strings.Join(lines, "\n")
	}

	offset := visibleWindow(g.selected, g.offset, rows, len(items))
	end := min(offset+rows, len(items))
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(" "+items[i].Name, width, bgColor, i == g.selected, styles.Text))
	}
	for i := end - offset; i < rows; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, g.footer(bg, styles))
	return strings.Join(lines, "\n")
}

func (g gameList) emptyMessage(bg BgStyle, styles Styles) string {
	switch {
	case g.state.InFlight || g.pager != nil && g.pager.SearchPending():
		return bg.Render(" Loading games...", styles.MutedText)
	case g.state.LastError != nil:
		return bg.Render(" Could not load games: "+pageError(g.state.LastError), styles.DangerText) +
			"\n" + bg.Render(" r to retry", styles.FaintText)
	case g.state.Search != "":
		return bg.Render(" No games match your search", styles.MutedText)
	default:
		return bg.Render(" No games available", styles.MutedText)
	}
}

func (g gameList) footer(bg BgStyle, styles Styles) string {
	count := humanize.Comma(int64(len(g.state.Items)))
	switch {
	case g.state.Refreshing:
		return bg.Render(" Refreshing...", styles.InfoText)
	case g.state.LoadingPage:
		return bg.Render(fmt.Sprintf(" %s games · loading more...", count), styles.InfoText)
	case g.state.LastError != nil:
		return bg.Render(" "+pageError(g.state.LastError), styles.DangerText)
	case g.state.Cursor.IsExhausted():
		return bg.Render(fmt.Sprintf(" %s games · end", count), styles.FaintText)
	default:
		return bg.Render(fmt.Sprintf(" %s games", count), styles.FaintText)
	}
}

// renderGameSummary draws the detail pane for a highlighted game.
func (m Model) renderGameSummary(game vapor.Game, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	label := func(name, value string) string {
		return bg.Render(fmt.Sprintf("%-10s", name), styles.MutedText) + bg.Render(truncate(value, max(width-11, 1)), styles.Text)
	}

	lines := []string{
		bg.Render(truncate(game.Name, width), styles.Text.Bold(true)),
		"",
		label("App ID", fmt.Sprintf("%d", game.AppID)),
	}
	if added := game.ParsedCreatedAt(); !added.IsZero() {
		lines = append(lines, label("Added", relativeTime(added, m.now())))
	}
	if game.HeaderImageURL != "" {
		lines = append(lines, label("Image", game.HeaderImageURL))
	}
	lines = append(lines, "", bg.Render("enter for details, achievements and lists", styles.FaintText))
	return strings.Join(lines, "\n")
}

// renderGameListView lays out a game list and the summary of the selection.
func (m Model) renderGameListView(g gameList, title string) string {
	height := m.contentHeight()
	if m.width < LayoutCompactWidth {
		return m.renderTitledBox(title, g.render(m, m.width-2, height-2, true), m.width, height, true)
	}
	leftWidth, rightWidth := splitWidths(m.width)
	left := m.renderTitledBox(title, g.render(m, leftWidth-2, height-2, true), leftWidth, height, true)

	var detail string
	if game, ok := g.selectedGame(); ok {
		detail = m.renderGameSummary(game, rightWidth-4, m.theme.SurfaceAlt)
	} else {
		detail = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render("Select a game")
	}
	right := m.renderTitledBox("Details", detail, rightWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// listRows is how many game rows fit in a list pane.
func (m Model) listRows() int {
	return max(m.contentHeight()-4, 1)
}

func requestPageCmd(ctx context.Context, pager *paging.Controller[vapor.Game], mode paging.Mode) tea.Cmd {
	if pager == nil {
		return nil
	}
	return func() tea.Msg {
		pager.RequestPage(ctx, mode, nil)
		return nil
	}
}

// pageError is the user-facing text of a failed page read.
func pageError(err error) string {
	var te *paging.TransportError
	if errors.As(err, &te) {
		return vapor.Message(te.Err)
	}
	return vapor.Message(err)
}

func clampIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(idx, 0), n-1)
}
