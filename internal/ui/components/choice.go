package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// Choice is a single-select list of options, used for grade selection. After
// Reveal it marks the correct option and the learner's pick.
type Choice struct {
	Prompt   string
	Options  []string
	Selected int

	revealed bool
	correct  int
	chosen   int
}

// NewChoice creates a choice with the first option selected.
func NewChoice(prompt string, options []string) Choice {
	return Choice{
		Prompt:  prompt,
		Options: options,
		correct: -1,
		chosen:  -1,
	}
}

// Update moves the selection with arrows, vim keys or the option's digit.
// It ignores input after Reveal. Enter is left to the caller.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k", "left", "h":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j", "right", "l":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Selected = i
			}
		}
	}
	return c, nil
}

// Reveal freezes the choice, highlighting correct and the chosen option.
func (c *Choice) Reveal(chosen, correct int) {
	c.revealed = true
	c.chosen = chosen
	c.correct = correct
}

// Revealed reports whether Reveal was called.
func (c Choice) Revealed() bool {
	return c.revealed
}

// View renders the prompt and options on one line each.
func (c Choice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Prompt))
	b.WriteString("\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		switch {
		case c.revealed && i == c.correct:
			line = theme.Correct.Render(line + "  ✓")
		case c.revealed && i == c.chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case c.revealed:
			line = theme.Subtitle.Render(line)
		case i == c.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
