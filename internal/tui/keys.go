package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the normal-mode bindings. It satisfies help.KeyMap.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Focus   key.Binding
	Select  key.Binding
	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Remove  key.Binding
	Project key.Binding
	Filter  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open view")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task/label")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Toggle:  key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c", "toggle done")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task/label")),
		Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete project/filter")),
		Project: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
		Filter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by label")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Select},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Project, k.Filter, k.Remove},
		{k.Help, k.Quit},
	}
}
