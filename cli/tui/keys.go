package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the browser.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Enter         key.Binding
	Back          key.Binding
	Goto          key.Binding
	Copy          key.Binding
	TogglePreview key.Binding
	Refresh       key.Binding
	Command       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:        key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:           key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Enter:         key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
		Back:          key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("h", "back")),
		Goto:          key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "go to path")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank path")),
		TogglePreview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Refresh:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Command:       key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Goto, k.Command, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Enter, k.Back, k.Goto, k.Copy},
		{k.TogglePreview, k.Refresh, k.Command, k.Help, k.Quit},
	}
}
