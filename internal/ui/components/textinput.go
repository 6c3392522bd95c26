package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with app styling and a focus marker.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a focused single-line input limited to charLimit runes.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{
		Model: ti,
		Label: label,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the underlying input while focused.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if !t.Model.Focused() {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// View renders the label and the input.
func (t TextInput) View() string {
	label := theme.Unselected.Render(t.Label)
	if t.Model.Focused() {
		label = theme.Selected.Render(t.Label)
	}
	return label + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(t.Model.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}
