package help

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/router"
	"github.com/sepme/sepme/internal/scoring"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

// HelpScreen is an overlay with the key bindings and rubric ranges.
type HelpScreen struct{}

var _ screen.Screen = (*HelpScreen)(nil)
var _ screen.KeyHintProvider = (*HelpScreen)(nil)

func New() *HelpScreen { return &HelpScreen{} }

func (h *HelpScreen) Init() tea.Cmd { return nil }

func (h *HelpScreen) Title() string { return "Help" }

func (h *HelpScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Close"}}
}

func (h *HelpScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "?", "q", "enter":
			return h, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return h, nil
}

var bindings = []layout.KeyHint{
	{Key: "Tab / ↑↓", Description: "Move between fields and options"},
	{Key: "Space", Description: "Toggle a checkbox"},
	{Key: "1-5", Description: "Pick a grade"},
	{Key: "←→ / - +", Description: "Adjust a sub-score"},
	{Key: "Enter", Description: "Confirm, submit or go to the next essay"},
	{Key: "PgUp/PgDn", Description: "Scroll a long essay"},
	{Key: "Esc", Description: "Go back a step or close this help"},
	{Key: "Ctrl+C", Description: "Quit"},
}

func (h *HelpScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Keys"))
	b.WriteString("\n")
	for _, kb := range bindings {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			theme.Selected.Render(fmt.Sprintf("%-11s", kb.Key)),
			theme.Body.Render(kb.Description)))
	}

	b.WriteString("\n")
	b.WriteString(theme.Title.Render("Rubric"))
	b.WriteString("\n")
	rows := []struct {
		name string
		rng  scoring.Range
	}{
		{"Grade", scoring.GradeRange},
		{"Content", scoring.ContentRange},
		{"Organization", scoring.OrganizationRange},
		{"Expression", scoring.ExpressionRange},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			theme.Body.Render(fmt.Sprintf("%-13s", r.name)),
			theme.Subtitle.Render(fmt.Sprintf("%d to %d", r.rng.Min, r.rng.Max))))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"Grade 1 is the strongest essay. A grade answer must match exactly; each sub-score counts when it is within ±%d point.",
		scoring.Tolerance)))

	content := lipgloss.NewStyle().Width(layout.TextWidth(width)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
