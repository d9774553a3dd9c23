package editor

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Focus      key.Binding
	Delete     key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous row")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next row")),
		Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous character")),
		Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next character")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDown", "page down")),
		Home:       key.NewBinding(key.WithKeys("home"), key.WithHelp("Home", "start of row")),
		End:        key.NewBinding(key.WithKeys("end"), key.WithHelp("End", "end of row")),
		ScrollUp:   key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("Ctrl+↑", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("Ctrl+↓", "scroll down")),
		Focus:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("TAB", "switch pane")),
		Delete:     key.NewBinding(key.WithKeys("delete"), key.WithHelp("Delete", "delete byte")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "save to original")),
		Help:       key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("Q", "quit")),
	}
}

// bindings lists the key map in the order the help screen shows it.
func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Left, k.Right,
		k.PageUp, k.PageDown, k.Home, k.End,
		k.ScrollUp, k.ScrollDown,
		k.Focus, k.Delete, k.Save, k.Help, k.Quit,
	}
}
