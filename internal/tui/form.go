package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one input of a form.
type field struct {
	label       string
	placeholder string
	charLimit   int
}

// form is a column of labelled text inputs with a single focused one.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.Width = 40
		if fd.charLimit > 0 {
			ti.CharLimit = fd.charLimit
		}
		if i == 0 {
			ti.Focus()
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Value returns the trimmed value of input i.
func (f form) Value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// Values returns every trimmed value, in field order.
func (f form) Values() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = f.Value(i)
	}
	return out
}

func (f *form) SetValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

// Filled reports whether every input has a non-blank value.
func (f form) Filled() bool {
	for i := range f.inputs {
		if f.Value(i) == "" {
			return false
		}
	}
	return true
}

// Last reports whether the focused input is the last one.
func (f form) Last() bool {
	return f.focus == len(f.inputs)-1
}

// Move shifts focus by delta, wrapping around.
func (f *form) Move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

// Update handles focus movement and forwards everything else to the
// focused input.
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			cmd := f.Move(1)
			return f, cmd
		case "shift+tab", "up":
			cmd := f.Move(-1)
			return f, cmd
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) View() string {
	var sb strings.Builder
	for i, in := range f.inputs {
		sb.WriteString(editHeaderStyle.Render(f.labels[i]))
		sb.WriteString("\n")
		sb.WriteString(in.View())
		sb.WriteString("\n\n")
	}
	return sb.String()
}
