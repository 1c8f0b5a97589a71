package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings plus the editor bindings shown in help.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Evaluate key.Binding
	Reset    key.Binding
	Next     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous field")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next field")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		Evaluate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate / select")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset plan")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Evaluate, k.Help, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Evaluate, k.Reset},
		{k.Next, k.Back, k.Help, k.Quit},
	}
}
