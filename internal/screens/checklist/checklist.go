package checklist

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/components"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

// ChecklistScreen asks the learner to confirm the metacognition checklist
// before grade practice.
type ChecklistScreen struct {
	list   components.Checklist
	errMsg string
}

var _ screen.Screen = (*ChecklistScreen)(nil)
var _ screen.KeyHintProvider = (*ChecklistScreen)(nil)

func New() *ChecklistScreen {
	return &ChecklistScreen{list: components.NewChecklist(session.DefaultChecklist)}
}

func (s *ChecklistScreen) Init() tea.Cmd { return nil }

func (s *ChecklistScreen) Title() string { return "Before You Grade" }

func (s *ChecklistScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Check"},
		{Key: "Enter", Description: "Start grading"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChecklistScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RejectedMsg:
		s.errMsg = "Check every item before starting."
		return s, nil
	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, screen.Dispatch(session.ConfirmChecklist{Checks: s.list.Checked})
		}
		s.errMsg = ""
		var cmd tea.Cmd
		s.list, cmd = s.list.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChecklistScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Metacognition checklist"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Confirm each item to begin grade practice."))
	b.WriteString("\n\n")
	b.WriteString(s.list.View())

	if s.list.AllChecked() {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("All set. Press Enter to start."))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	content := lipgloss.NewStyle().Width(layout.TextWidth(width)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
