package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: ink on paper, with a red pen for corrections.
var (
	Primary   = lipgloss.Color("#3B82F6") // Ink Blue
	Secondary = lipgloss.Color("#10B981") // Emerald
	Accent    = lipgloss.Color("#F59E0B") // Highlighter Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#EF4444") // Red Pen
	Text      = lipgloss.Color("#F1F5F9") // Paper White
	TextDim   = lipgloss.Color("#94A3B8") // Pencil Grey
	BgCard    = lipgloss.Color("#1E293B") // Slate
	Border    = lipgloss.Color("#334155") // Slate Line
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	// Link is for image URLs and paths the learner copies out of the terminal.
	Link = lipgloss.NewStyle().
		Foreground(Secondary)
)

// Essay is the card the practice text is printed on.
var Essay = lipgloss.NewStyle().
	Foreground(Text).
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
