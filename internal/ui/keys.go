package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the overlay.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	auth   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle overlay"),
		),
		auth: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "authenticate"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.toggle, k.auth, k.quit},
	}
}
