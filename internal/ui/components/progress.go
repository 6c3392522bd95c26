package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/ui/theme"
)

// ProgressBar displays "label  n / total" followed by a horizontal bar.
type ProgressBar struct {
	Label   string
	Current int // 1-based item number
	Total   int
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, current, total, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Current: current,
		Total:   total,
		Width:   width,
	}
}

// Counter returns the "n / total" text.
func (p ProgressBar) Counter() string {
	return fmt.Sprintf("%d / %d", p.Current, p.Total)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Label) + "  "
	}
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Counter()) + "  "

	barWidth := max(p.Width-lipgloss.Width(result), 4)

	var filled int
	if p.Total > 0 {
		filled = barWidth * p.Current / p.Total
	}
	filled = min(max(filled, 0), barWidth)

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	return result
}
