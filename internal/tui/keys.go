package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus    key.Binding
	Submit   key.Binding
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Remove   key.Binding
	ClearAll key.Binding
	Filter   key.Binding
	Copy     key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Focus:    key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/update")),
		Up:       key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "bought")),
		Remove:   key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "remove")),
		ClearAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy pending")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// focusedKeys adapts the help line to the focused area.
type focusedKeys struct {
	k     keyMap
	focus focusArea
}

func (f focusedKeys) ShortHelp() []key.Binding {
	switch f.focus {
	case focusInput:
		return []key.Binding{f.k.Submit, f.k.Cancel, f.k.Focus}
	case focusFilter:
		return []key.Binding{f.k.Cancel, f.k.Focus}
	default:
		return []key.Binding{f.k.Edit, f.k.Toggle, f.k.Remove, f.k.ClearAll, f.k.Filter, f.k.Help, f.k.Quit}
	}
}

func (f focusedKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{f.k.Up, f.k.Down, f.k.Focus},
		{f.k.Edit, f.k.Toggle, f.k.Remove, f.k.ClearAll},
		{f.k.Submit, f.k.Filter, f.k.Copy, f.k.Cancel},
		{f.k.Help, f.k.Quit},
	}
}
