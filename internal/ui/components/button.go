package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// Button is a styled button. Only a focused button reacts to Enter.
type Button struct {
	Label   string
	Focused bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Focused {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
