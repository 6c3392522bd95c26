package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/router"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/store"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

const (
	queryTimeout = 5 * time.Second
	maxSessions  = 50
)

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type outcomesLoadedMsg struct {
	SessionID string
	Outcomes  []store.OutcomeRecord
	Err       error
}

// HistoryScreen lists past practice rounds; Enter expands one into its answers.
type HistoryScreen struct {
	repo     store.ResultRepo
	sessions []store.SessionRecord
	outcomes map[string][]store.OutcomeRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		outcomes: make(map[string][]store.OutcomeRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		sessions, err := repo.RecentSessions(ctx, maxSessions)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case outcomesLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.outcomes[msg.SessionID] = msg.Outcomes
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadOutcomes(s.sessions[s.selected].ID)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadOutcomes(id string) tea.Cmd {
	if _, ok := s.outcomes[id]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		out, err := repo.Outcomes(ctx, id)
		return outcomesLoadedMsg{SessionID: id, Outcomes: out, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No rounds yet. Finish a practice to see it here.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		mode := sess.Mode
		if m, ok := session.ParseMode(sess.Mode); ok {
			mode = m.DisplayName()
		}
		line := fmt.Sprintf("%s%s  %-12s  %-18s  %d/%d correct  %.0f%%",
			prefix, sess.FinishedAt.Local().Format("Jan 02 15:04"), sess.Learner, mode,
			sess.Correct, sess.Total, sess.Accuracy*100)
		if sess.Synthetic {
			line += "  (sample essays)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderOutcomes(sess.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderOutcomes(id string, width int) string {
	outs, ok := s.outcomes[id]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    loading...")) + "\n"
	}
	if len(outs) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, o := range outs {
		var detail string
		if o.Category == corpus.ScoreEstimation.String() {
			detail = fmt.Sprintf("scores %d/%d/%d, reference %d/%d/%d",
				o.SubmittedContent, o.SubmittedOrganization, o.SubmittedExpression,
				o.CorrectContent, o.CorrectOrganization, o.CorrectExpression)
		} else {
			detail = fmt.Sprintf("grade %d, reference %d", o.SubmittedGrade, o.CorrectGrade)
		}
		style := theme.Correct
		mark := "✓"
		if !o.Correct {
			style = theme.Incorrect
			mark = "✗"
		}
		line := fmt.Sprintf("    %s %s #%d  %s", mark, o.Category, o.ItemID, detail)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
