package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/components"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	item, ok := p.sess.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No essay to show."))
	}
	w := layout.TextWidth(width)

	top := components.NewProgressBar(item.Category.DisplayName(), p.sess.Position+1, len(p.sess.Queue()), w).View()
	if item.Synthetic {
		top += "\n" + theme.Warning.Width(w).Render(corpus.PlaceholderNotice)
	}

	var bottom string
	if o, answered := p.sess.CurrentOutcome(); answered {
		bottom = p.renderAnswerInput() + "\n" + p.renderResult(o, w)
	} else {
		bottom = p.renderAnswerInput()
	}
	if p.errMsg != "" {
		bottom += "\n" + theme.Incorrect.Render(p.errMsg)
	}

	// Essay box takes what is left: 2 border rows, 2 padding rows, 2 gaps.
	gap := "\n"
	chrome := 6
	if layout.IsCompactHeight(height) {
		gap = ""
		chrome = 4
	}
	essayRows := max(height-lipgloss.Height(top)-lipgloss.Height(bottom)-chrome, 3)
	essay := p.renderEssay(item.Text, w, essayRows)

	content := top + "\n" + gap + essay + "\n" + gap + bottom
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

// renderEssay wraps text to the box width and shows rows lines starting
// at the scroll offset.
func (p *PracticeScreen) renderEssay(text string, width, rows int) string {
	inner := width - 6 // border + horizontal padding
	wrapped := lipgloss.NewStyle().Width(inner).Render(text)
	lines := strings.Split(wrapped, "\n")

	maxScroll := max(len(lines)-rows, 0)
	p.scroll = min(p.scroll, maxScroll)
	visible := lines[p.scroll:min(p.scroll+rows, len(lines))]

	body := strings.Join(visible, "\n")
	if maxScroll > 0 {
		body += "\n" + theme.Hint.Render(fmt.Sprintf("-- lines %d-%d of %d --", p.scroll+1, p.scroll+len(visible), len(lines)))
	}
	return theme.Essay.Width(width).Render(body)
}

func (p *PracticeScreen) renderAnswerInput() string {
	if p.grading() {
		return p.choice.View()
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Estimate the three sub-scores:"))
	b.WriteString("\n")
	for _, s := range p.steppers {
		b.WriteString("  " + s.View() + "\n")
	}
	return b.String()
}

func (p *PracticeScreen) renderResult(o session.Outcome, width int) string {
	var b strings.Builder
	if o.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite. Compare with the feedback below."))
	}
	b.WriteString("\n")

	if o.Category == corpus.ScoreEstimation {
		b.WriteString(renderScoreTable(o))
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Your grade: %d   Correct grade: %d", o.SubmittedGrade, o.CorrectGrade)))
		b.WriteString("\n")
	}

	if !o.IsCorrect {
		switch {
		case p.feedbackRef != "":
			b.WriteString(theme.Body.Render("Feedback: "))
			b.WriteString(theme.Link.Render(p.feedbackRef))
		case p.feedbackErr != nil:
			b.WriteString(theme.Hint.Render("No feedback image for this essay."))
		case p.resolver != nil:
			b.WriteString(theme.Hint.Render("Looking up feedback..."))
		}
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("Press Enter for the next essay."))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func renderScoreTable(o session.Outcome) string {
	row := func(name string, yours, correct int, hit bool) string {
		mark := theme.Correct.Render("✓")
		if !hit {
			mark = theme.Incorrect.Render("✗")
		}
		return fmt.Sprintf("  %-13s %5d %8d   %s\n", name, yours, correct, mark)
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %-13s %5s %8s", "", "Yours", "Correct")))
	b.WriteString("\n")
	b.WriteString(row("Content", o.SubmittedScores.Content, o.CorrectScores.Content, o.Dimensions.Content))
	b.WriteString(row("Organization", o.SubmittedScores.Organization, o.CorrectScores.Organization, o.Dimensions.Organization))
	b.WriteString(row("Expression", o.SubmittedScores.Expression, o.CorrectScores.Expression, o.Dimensions.Expression))
	b.WriteString(theme.Body.Render(fmt.Sprintf("  %-13s %5d %8d", "Total", o.SubmittedScores.Total(), o.CorrectScores.Total())))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  Each sub-score counts within ±1 point."))
	b.WriteString("\n")
	return b.String()
}
