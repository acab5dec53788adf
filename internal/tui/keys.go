package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	LineUp     key.Binding
	LineDown   key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Open       key.Binding
	Close      key.Binding
	Prev       key.Binding
	Next       key.Binding
	OpenURL    key.Binding
	CopyURL    key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
	inViewer   bool
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "select up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "select down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "select left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "select right")),
		LineUp:   key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "scroll up")),
		LineDown: key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Close:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous")),
		Next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		OpenURL:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		CopyURL:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy URL")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.inViewer {
		return []key.Binding{k.Close, k.Prev, k.Next, k.OpenURL, k.Help, k.Quit}
	}
	return []key.Binding{k.LineDown, k.LineUp, k.Open, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	if k.inViewer {
		return [][]key.Binding{
			{k.Close, k.Prev, k.Next},
			{k.OpenURL, k.CopyURL},
			{k.Help, k.Quit},
		}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Open},
		{k.LineUp, k.LineDown, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Reload, k.Help, k.Quit},
	}
}
