package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit     key.Binding
	Refresh  key.Binding
	Timeline key.Binding // 1: home timeline
	MyPosts  key.Binding // 2: own posts
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding // enter: load more when the marker is selected
	LoadMore key.Binding // m: load more from anywhere
	Delete   key.Binding // d: delete own post
	Open     key.Binding // o: open in browser
	Cancel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Timeline: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "timeline"),
		),
		MyPosts: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "my posts"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// HelpLine renders the short key hints for the feed.
func (k KeyMap) HelpLine() string {
	bindings := []key.Binding{k.Timeline, k.MyPosts, k.Up, k.Down, k.LoadMore, k.Refresh, k.Delete, k.Open, k.Quit}
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + ": " + h.Desc
	}
	return out
}
