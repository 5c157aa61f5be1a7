package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the ruler bindings.
type KeyMap struct {
	Smaller    key.Binding
	Larger     key.Binding
	PrevMark   key.Binding
	NextMark   key.Binding
	FlingLeft  key.Binding
	FlingRight key.Binding
	First      key.Binding
	Last       key.Binding
	Units      key.Binding
	Jump       key.Binding
	Copy       key.Binding
	Commit     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Smaller: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "smaller"),
		),
		Larger: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "larger"),
		),
		PrevMark: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev mark"),
		),
		NextMark: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next mark"),
		),
		FlingLeft: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "fling down"),
		),
		FlingRight: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "fling up"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first mark"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "∞"),
		),
		Units: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "metric/imperial"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
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
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Smaller, k.Larger, k.PrevMark, k.NextMark, k.Jump, k.Units, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Smaller, k.Larger, k.PrevMark, k.NextMark},
		{k.FlingLeft, k.FlingRight, k.First, k.Last},
		{k.Units, k.Jump, k.Copy, k.Commit, k.Help, k.Quit},
	}
}
