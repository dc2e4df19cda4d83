package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Back       key.Binding
	Logout     key.Binding

	// View switching
	ViewHome    key.Binding
	ViewCatalog key.Binding
	ViewLists   key.Binding
	ViewProfile key.Binding
	ViewLogs    key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding

	// Collections
	Search  key.Binding
	Refresh key.Binding
	NewList key.Binding
	Sort    key.Binding
	Remove  key.Binding

	// Game detail
	ToggleAchievement key.Binding
	Complete          key.Binding
	AddToList         key.Binding

	// Logs
	ToggleFollow key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log in / out"),
		),

		ViewHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Home"),
		),
		ViewCatalog: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Catalog"),
		),
		ViewLists: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Lists"),
		),
		ViewProfile: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Profile"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search / filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		NewList: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New list"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove from list"),
		),

		ToggleAchievement: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Select achievement"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Mark selected complete"),
		),
		AddToList: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add to list"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, grouped by section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewHome, k.ViewCatalog, k.ViewLists, k.ViewProfile, k.ViewLogs, k.Tab, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageDown, k.PageUp, k.Open},
		{k.Search, k.Refresh, k.NewList, k.Sort, k.Remove},
		{k.ToggleAchievement, k.Complete, k.AddToList},
		{k.ToggleFollow},
		{k.Logout, k.CycleTheme, k.Help, k.Quit},
	}
}

// helpSectionTitles names the FullHelp groups in order.
var helpSectionTitles = []string{"Views", "Navigation", "Collections", "Game", "Logs", "General"}
