package tui

import (
	"github.com/brizzai/hotel-console/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// removeRequestMsg asks the records page to delete or cancel item.
type removeRequestMsg struct {
	item models.RecordItem
}

// newItemDelegate returns a list.DefaultDelegate with custom update and help functions.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(models.RecordItem)
		if !ok {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.remove):
				if item.Removed {
					return m.NewStatusMessage(statusMessageStyle(item.Title() + " is already " + item.RemovedLabel))
				}
				return func() tea.Msg { return removeRequestMsg{item: item} }
			}
		}
		return nil
	}

	help := []key.Binding{keys.remove}

	d.ShortHelpFunc = func() []key.Binding {
		return help
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help}
	}

	return d
}

// delegateKeyMap holds key bindings for list item actions.
type delegateKeyMap struct {
	remove key.Binding
}

// ShortHelp returns additional short help entries for the delegate.
func (d delegateKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		d.remove,
	}
}

// FullHelp returns additional full help entries for the delegate.
func (d delegateKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			d.remove,
		},
	}
}

// newDelegateKeyMap creates a new delegateKeyMap; help is the label of the
// remove action, e.g. "Delete hotel".
func newDelegateKeyMap(help string) *delegateKeyMap {
	return &delegateKeyMap{
		remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", help),
		),
	}
}
