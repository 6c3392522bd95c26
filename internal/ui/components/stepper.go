package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// Stepper edits an integer within [Min, Max] using left/right or -/+.
// Values never leave the range, which keeps out-of-range input from ever
// reaching the session.
type Stepper struct {
	Label   string
	Value   int
	Min     int
	Max     int
	Focused bool
}

// NewStepper creates a stepper starting at value, clamped into range.
func NewStepper(label string, value, lo, hi int) Stepper {
	s := Stepper{Label: label, Min: lo, Max: hi}
	s.Set(value)
	return s
}

// Set assigns v clamped into range.
func (s *Stepper) Set(v int) {
	s.Value = min(max(v, s.Min), s.Max)
}

// Update adjusts the value while focused.
func (s Stepper) Update(msg tea.Msg) (Stepper, tea.Cmd) {
	if !s.Focused {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h", "-":
		s.Set(s.Value - 1)
	case "right", "l", "+", "=":
		s.Set(s.Value + 1)
	}
	return s, nil
}

// View renders "Label  ◂ 9 ▸  (3-18)".
func (s Stepper) View() string {
	label := theme.Unselected.Render(s.Label)
	value := lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("◂ %2d ▸", s.Value))
	if s.Focused {
		label = theme.Selected.Render(s.Label)
		value = theme.Selected.Render(fmt.Sprintf("◂ %2d ▸", s.Value))
	}
	rng := theme.Hint.Render(fmt.Sprintf("(%d-%d)", s.Min, s.Max))
	return fmt.Sprintf("%s  %s  %s", label, value, rng)
}
