package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Reload from the data source
	Refresh key.Binding

	// Todo actions
	NewTodo        key.Binding
	Edit           key.Binding
	ToggleComplete key.Binding
	Delete         key.Binding

	// Section manager
	NewSection    key.Binding
	NewSubsection key.Binding

	// View configuration
	CycleSort     key.Binding
	FlipOrder     key.Binding
	ShowCompleted key.Binding
	CyclePriority key.Binding
	CycleSection  key.Binding
	LabelFilter   key.Binding
	ClearFilters  key.Binding

	// Calendar
	PrevRange     key.Binding
	NextRange     key.Binding
	Today         key.Binding
	MoveEarlier   key.Binding
	MoveLater     key.Binding
	Shrink        key.Binding
	Grow          key.Binding
	CycleCalendar key.Binding

	// Views
	GoInbox    key.Binding
	GoTodos    key.Binding
	GoCalendar key.Binding
	GoSections key.Binding
	GoLabels   key.Binding

	// Layout
	ToggleSidebar key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		NewTodo: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		NewSection: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "new section"),
		),
		NewSubsection: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new subsection"),
		),
		ToggleComplete: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		FlipOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "flip order"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "show completed"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority filter"),
		),
		CycleSection: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "section filter"),
		),
		LabelFilter: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "label filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		PrevRange: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		MoveEarlier: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "move earlier"),
		),
		MoveLater: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "move later"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shorten"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "lengthen"),
		),
		CycleCalendar: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "day/week/month"),
		),
		GoInbox: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "inbox"),
		),
		GoTodos: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "todos"),
		),
		GoCalendar: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "calendar"),
		),
		GoSections: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "sections"),
		),
		GoLabels: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "labels"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sidebar"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.ToggleComplete, k.CycleSort,
		k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.NewTodo, k.Edit, k.ToggleComplete, k.Delete, k.Refresh, k.Help},
		{k.CycleSort, k.FlipOrder, k.ShowCompleted, k.CyclePriority, k.CycleSection, k.LabelFilter, k.ClearFilters},
		{k.PrevRange, k.NextRange, k.Today, k.MoveEarlier, k.MoveLater, k.Shrink, k.Grow, k.CycleCalendar},
		{k.GoInbox, k.GoTodos, k.GoCalendar, k.GoSections, k.GoLabels, k.NewSection, k.NewSubsection, k.ToggleSidebar},
	}
}
