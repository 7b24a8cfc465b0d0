package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// ReasonModal holds the textarea a cancellation reason is typed into.
type ReasonModal struct {
	textarea textarea.Model
}

func NewReasonModal() ReasonModal {
	ti := textarea.New()
	ti.Placeholder = "Reason for cancelling..."
	ti.Focus()
	return ReasonModal{textarea: ti}
}

// Init returns the initial command for the modal (textarea blink).
func (m ReasonModal) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the modal. Saving and cancelling are handled by
// the owning page.
func (m ReasonModal) Update(msg tea.Msg) (ReasonModal, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if _, ok := msg.(tea.KeyMsg); ok && !m.textarea.Focused() {
		cmds = append(cmds, m.textarea.Focus())
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// Reason returns the current value of the textarea.
func (m ReasonModal) Reason() string {
	return m.textarea.Value()
}

// View renders the modal UI.
func (m ReasonModal) View(title string) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		editHeaderStyle.Render(title),
		m.textarea.View(),
		"(ctrl+s to confirm, esc to keep the booking)",
	) + "\n\n"
}
