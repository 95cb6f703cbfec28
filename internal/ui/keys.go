package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	Reload     key.Binding
	Logs       key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Card actions
	Details key.Binding
	Website key.Binding
	Compare key.Binding

	// Catalog
	Search         key.Binding
	CycleType      key.Binding
	CyclePrice     key.Binding
	CycleCategory  key.Binding
	CycleSort      key.Binding
	ToggleView     key.Binding
	CompareMode    key.Binding
	OpenCompare    key.Binding
	ClearSelection key.Binding
	ResetFilters   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
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
			key.WithHelp("tab", "Focus list/details"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / clear search"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload catalog"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Application log"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Previous card"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Next card"),
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

		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Details"),
		),
		Website: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open website"),
		),
		Compare: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle compare"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle type"),
		),
		CyclePrice: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Cycle price"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Cycle category"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Grid/list"),
		),
		CompareMode: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Compare view"),
		),
		OpenCompare: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Compare modal"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear selection"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Reset filters"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom, k.PageUp, k.PageDown, k.Tab},
		{k.Details, k.Website, k.Compare},
		{k.Search, k.CycleType, k.CyclePrice, k.CycleCategory, k.CycleSort, k.ResetFilters},
		{k.ToggleView, k.CompareMode, k.OpenCompare, k.ClearSelection},
		{k.Reload, k.Logs, k.CycleTheme, k.Escape, k.Help, k.Quit},
	}
}
