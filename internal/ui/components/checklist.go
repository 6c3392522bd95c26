package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// Checklist is a list of checkboxes toggled with space.
type Checklist struct {
	Items   []string
	Checked []bool
	Cursor  int
}

// NewChecklist creates an all-unchecked checklist.
func NewChecklist(items []string) Checklist {
	return Checklist{
		Items:   items,
		Checked: make([]bool, len(items)),
	}
}

// Update handles navigation and toggling.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		checked := make([]bool, len(c.Checked))
		copy(checked, c.Checked)
		checked[c.Cursor] = !checked[c.Cursor]
		c.Checked = checked
	}
	return c, nil
}

// AllChecked reports whether every item is checked.
func (c Checklist) AllChecked() bool {
	for _, v := range c.Checked {
		if !v {
			return false
		}
	}
	return true
}

// View renders one checkbox per line.
func (c Checklist) View() string {
	var b strings.Builder
	for i, item := range c.Items {
		box := "[ ]"
		if c.Checked[i] {
			box = theme.Correct.Render("[x]")
		}
		label := theme.Unselected.Render(item)
		cursor := "  "
		if i == c.Cursor {
			cursor = theme.Selected.Render("▸ ")
			label = theme.Selected.Render(item)
		}
		b.WriteString(cursor + box + " " + label + "\n")
	}
	return b.String()
}
