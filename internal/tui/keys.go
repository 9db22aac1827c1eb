package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Today     key.Binding
	Day       key.Binding
	WeekStart key.Binding
	PageCount key.Binding
	GoTo      key.Binding
	Add       key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev week"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next week"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Day: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
		key.WithHelp("1-7", "select day"),
	),
	WeekStart: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "week start"),
	),
	PageCount: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "partial weeks"),
	),
	GoTo: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to date"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add event"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Day, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today},
		{k.Day, k.WeekStart, k.PageCount, k.GoTo},
		{k.Add, k.Help, k.Quit},
	}
}
