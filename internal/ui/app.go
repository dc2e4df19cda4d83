package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/config"
	"github.com/five82/vapor/internal/paging"
	"github.com/five82/vapor/internal/prefs"
	"github.com/five82/vapor/internal/state"
	"github.com/five82/vapor/internal/vapor"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewCatalog
	ViewLists
	ViewListDetail
	ViewGame
	ViewProfile
	ViewLogs
	ViewLogin
)

// tabOrder is the cycle used by tab and shift+tab.
var tabOrder = []View{ViewHome, ViewCatalog, ViewLists, ViewProfile, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewCatalog:
		return "Catalog"
	case ViewLists:
		return "Lists"
	case ViewListDetail:
		return "List"
	case ViewGame:
		return "Game"
	case ViewProfile:
		return "Profile"
	case ViewLogs:
		return "Logs"
	case ViewLogin:
		return "Login"
	default:
		return "Unknown"
	}
}

// API is the part of the Vapor client the UI calls.
type API interface {
	GamePages() paging.Source[vapor.Game]
	ListGamePages(listID int, sort vapor.ListSort) paging.Source[vapor.Game]
	GameDetails(ctx context.Context, appID int) (vapor.GameDetails, error)
	Achievements(ctx context.Context, gameID int) (vapor.Achievements, error)
	CompleteAchievements(ctx context.Context, gameID int, ids []int) error
	Lists(ctx context.Context) ([]vapor.List, error)
	CreateList(ctx context.Context, payload vapor.CreateListPayload) (vapor.List, error)
	AddGamesToList(ctx context.Context, listID int, gameIDs []int) (string, error)
	RemoveGameFromList(ctx context.Context, listID, gameID int) error
	Login(ctx context.Context, payload vapor.LoginPayload) (string, error)
}

// Sessions is the saved login the UI reads and changes.
type Sessions interface {
	LoggedIn() bool
	Email() string
	Save(token, email string) error
	Clear() error
}

// Refresher reloads the home data in the background.
type Refresher interface {
	Kick()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    API
	Store     *state.Store
	Sessions  Sessions
	Config    *config.Config
	Refresher Refresher
	Logger    *zap.Logger
	Prefs     prefs.Prefs
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       API
	store     *state.Store
	sessions  Sessions
	config    *config.Config
	refresher Refresher
	logger    *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	history     []View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot state.Snapshot
	changes  chan struct{}
	now      func() time.Time

	toast    toast
	toastSeq int

	home       homeState
	catalog    gameList
	lists      listsState
	listDetail listDetailState
	game       gameState
	logs       logsState
	login      loginState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	prefsPath := cfg.PrefsFile
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	m := Model{
		ctx:       ctx,
		api:       opts.Client,
		store:     store,
		sessions:  opts.Sessions,
		config:    cfg,
		refresher: opts.Refresher,
		logger:    logger,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		changes:   make(chan struct{}, 1),
		now:       time.Now,
		snapshot:  store.Snapshot(),
	}

	if m.api != nil {
		m.catalog = newGameList("Catalog", m.newPager(m.api.GamePages(), "catalog"))
	}
	m.lists = newListsState()
	m.login = newLoginState()
	m.logs = newLogsState()

	m.currentView = ViewHome
	if !m.loggedIn() {
		m.currentView = ViewLogin
		m.login.focus()
	}
	return m
}

// newPager builds a paging controller whose state changes wake the UI.
func (m Model) newPager(src paging.Source[vapor.Game], name string) *paging.Controller[vapor.Game] {
	changes := m.changes
	return paging.New(src, paging.Options{
		QuietPeriod: m.config.SearchDebounce,
		Context:     m.ctx,
		Logger:      m.logger.Named("paging").With(zap.String("screen", name)),
		OnChange: func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		},
	})
}

func (m Model) loggedIn() bool {
	return m.sessions != nil && m.sessions.LoggedIn()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		fetchSnapshotCmd(m.store),
		waitForChange(m.ctx, m.changes),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, m.fillViewCmd()

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.home.clamp(len(m.homeEntries()))
		m.lists.clamp(len(m.filteredLists()))
		return m, nil

	case pagerChangedMsg:
		errs := []error{m.catalog.sync(), m.listDetail.games.sync()}
		cmds := []tea.Cmd{waitForChange(m.ctx, m.changes), m.fillViewCmd()}
		for _, err := range errs {
			if err != nil {
				cmds = append(cmds, m.showToast("Could not load more games: "+pageError(err), true))
			}
		}
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		if int(msg) == m.toast.id {
			m.toast = toast{}
		}
		return m, nil

	case gameDetailsMsg, achievementsMsg, achievementsCompletedMsg, addedToListMsg:
		return m.handleGameMsg(msg)

	case listsMsg:
		return m.handleListsLoaded(msg)

	case listCreatedMsg:
		return m.handleListCreated(msg)

	case gameRemovedMsg:
		return m.handleGameRemoved(msg)

	case loginMsg:
		return m.handleLoginResult(msg)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	// Text inputs get every key before the global bindings.
	if m.typing() {
		return m.handleViewKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.Logout):
		return m.toggleSession()

	case key.Matches(msg, m.keys.ViewHome):
		return m.switchTo(ViewHome)
	case key.Matches(msg, m.keys.ViewCatalog):
		return m.switchTo(ViewCatalog)
	case key.Matches(msg, m.keys.ViewLists):
		return m.switchTo(ViewLists)
	case key.Matches(msg, m.keys.ViewProfile):
		return m.switchTo(ViewProfile)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchTo(ViewLogs)

	case key.Matches(msg, m.keys.Tab):
		return m.switchTo(cycleView(m.currentView, 1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTo(cycleView(m.currentView, -1))
	}

	return m.handleViewKey(msg)
}

// handleViewKey dispatches to the active view.
func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewLists:
		return m.handleListsKey(msg)
	case ViewListDetail:
		return m.handleListDetailKey(msg)
	case ViewGame:
		return m.handleGameKey(msg)
	case ViewProfile:
		return m.handleProfileKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewLogin:
		return m.handleLoginKey(msg)
	}
	return m, nil
}

// typing reports whether a text input owns the keyboard.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewCatalog:
		return m.catalog.searching
	case ViewListDetail:
		return m.listDetail.games.searching
	case ViewLists:
		return m.lists.filtering
	case ViewLogs:
		return m.logs.filtering
	case ViewLogin:
		return true
	}
	return false
}

func cycleView(current View, step int) View {
	idx := 0
	for i, v := range tabOrder {
		if v == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(tabOrder)) % len(tabOrder)
	return tabOrder[idx]
}

// switchTo jumps to a top-level view, dropping the back history.
func (m Model) switchTo(v View) (tea.Model, tea.Cmd) {
	m.history = nil
	if (v == ViewLists || v == ViewProfile) && !m.loggedIn() {
		v = ViewLogin
	}
	return m.enter(v)
}

// push opens v on top of the current view; esc returns.
func (m Model) push(v View) (tea.Model, tea.Cmd) {
	if m.currentView != v {
		m.history = append(m.history, m.currentView)
	}
	return m.enter(v)
}

// back returns to the previous view, or Home when there is none.
func (m Model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		if m.currentView == ViewHome {
			return m, nil
		}
		return m.enter(ViewHome)
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.enter(prev)
}

func (m Model) enter(v View) (tea.Model, tea.Cmd) {
	if m.currentView == ViewListDetail && v != ViewListDetail && !m.historyHas(ViewListDetail) {
		m.listDetail.close()
	}
	m.currentView = v
	switch v {
	case ViewCatalog:
		cmd := m.catalog.ensureLoaded(m.ctx)
		return m, cmd
	case ViewLogs:
		return m, m.readLogsCmd()
	case ViewLogin:
		cmd := m.login.focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) historyHas(v View) bool {
	for _, h := range m.history {
		if h == v {
			return true
		}
	}
	return false
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if m.currentView == ViewLogs && m.logs.follow {
		cmds = append(cmds, m.readLogsCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// fillViewCmd appends another page when the visible list does not fill its
// pane yet, so short first pages do not strand the user without a scrollbar.
func (m Model) fillViewCmd() tea.Cmd {
	rows := m.listRows()
	switch m.currentView {
	case ViewCatalog:
		return m.catalog.fillCmd(m.ctx, rows)
	case ViewListDetail:
		return m.listDetail.games.fillCmd(m.ctx, rows)
	}
	return nil
}

func (m Model) toggleSession() (tea.Model, tea.Cmd) {
	if !m.loggedIn() {
		return m.switchTo(ViewLogin)
	}
	email := m.sessions.Email()
	if err := m.sessions.Clear(); err != nil {
		cmd := m.failed("log out", err)
		return m, cmd
	}
	m.logger.Info("logged out", zap.String("email", email))
	m.kickRefresh()
	m.listDetail.close()
	mm, cmd := m.switchTo(ViewLogin)
	m = mm.(Model)
	toast := m.showToast("Logged out", false)
	return m, tea.Batch(cmd, toast)
}

func (m Model) kickRefresh() {
	if m.refresher != nil {
		m.refresher.Kick()
	}
}

func (m Model) savePrefs() tea.Cmd {
	path, p, logger := m.prefsPath, m.prefs, m.logger
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			logger.Warn("save prefs failed", zap.Error(err))
		}
		return nil
	}
}

// failed logs err, shows it as a toast and sends the user to the login screen
// when the session was rejected.
func (m *Model) failed(action string, err error) tea.Cmd {
	m.logger.Warn(action+" failed", zap.Error(err))
	if errors.Is(err, vapor.ErrUnauthorized) {
		m.kickRefresh()
		m.history = nil
		m.currentView = ViewLogin
		m.login.focus()
	}
	return m.showToast(capitalize(action)+" failed: "+vapor.Message(err), true)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// renderMain renders header, command bar, the active view and the status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// contentHeight is the space left for the active view.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.renderHome()
	case ViewCatalog:
		return m.renderCatalog()
	case ViewLists:
		return m.renderLists()
	case ViewListDetail:
		return m.renderListDetail()
	case ViewGame:
		return m.renderGame()
	case ViewProfile:
		return m.renderProfile()
	case ViewLogs:
		return m.renderLogs()
	case ViewLogin:
		return m.renderLogin()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type pagerChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForChange blocks until a paging controller reports a change.
func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return pagerChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

// close stops every paging controller.
func (m Model) close() {
	if m.catalog.pager != nil {
		m.catalog.pager.Close()
	}
	m.listDetail.close()
}
