package results

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/router"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/screens/history"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/store"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

const saveTimeout = 5 * time.Second

// savedMsg reports the outcome of persisting the finished round.
type savedMsg struct {
	ID  string
	Err error
}

// ResultsScreen shows the round summary and records it in the store.
type ResultsScreen struct {
	sess    session.Session
	summary session.Summary
	repo    store.ResultRepo
	logger  *zap.Logger

	saving  bool
	savedID string
	saveErr error
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen. repo may be nil, in which case nothing
// is persisted.
func New(s session.Session, repo store.ResultRepo, logger *zap.Logger) *ResultsScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultsScreen{
		sess:    s,
		summary: session.Summarize(s),
		repo:    repo,
		logger:  logger,
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	if r.repo == nil || r.saving || r.summary.Total == 0 {
		return nil
	}
	r.saving = true
	rec := Record(r.sess)
	repo, logger := r.repo, r.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := repo.SaveSession(ctx, &rec); err != nil {
			logger.Error("saving session failed", zap.Error(err))
			return savedMsg{Err: err}
		}
		logger.Info("session saved",
			zap.String("id", rec.ID),
			zap.Int("total", rec.Total),
			zap.Int("correct", rec.Correct),
		)
		return savedMsg{ID: rec.ID}
	}
}

func (r *ResultsScreen) Title() string { return "Results" }

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Practice again"},
		{Key: "a", Description: "Assignment"},
		{Key: "n", Description: "New learner"},
		{Key: "h", Description: "History"},
		{Key: "q", Description: "Quit"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		r.savedID = msg.ID
		r.saveErr = msg.Err
		return r, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "r", "enter":
			return r, screen.Dispatch(session.Retry{})
		case "a":
			return r, screen.Dispatch(session.Review{})
		case "n":
			return r, screen.Dispatch(session.Restart{})
		case "h":
			if r.repo != nil {
				return r, func() tea.Msg { return router.PushScreenMsg{Screen: history.New(r.repo)} }
			}
		case "q":
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r *ResultsScreen) View(width, height int) string {
	sum := r.summary
	w := layout.TextWidth(width)
	center := lipgloss.NewStyle().Width(w).Align(lipgloss.Center)

	var b strings.Builder
	heading := "Round complete!"
	if sum.LearnerName != "" {
		heading = fmt.Sprintf("Round complete, %s!", sum.LearnerName)
	}
	b.WriteString(center.Inherit(theme.Title).Render(heading))
	b.WriteString("\n")
	b.WriteString(center.Inherit(theme.Subtitle).Render(sum.Mode.DisplayName()))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		sum.Total, sum.Correct, sum.Accuracy*100)
	b.WriteString(center.Inherit(theme.Body).Render(stats))
	b.WriteString("\n")
	b.WriteString(center.Inherit(ratingStyle(sum.Rating)).Render(sum.Rating.Message()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(w, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, divider))
	b.WriteString("\n")

	if sum.Grade.Attempted > 0 {
		b.WriteString(categoryLine(corpus.GradeEstimation.DisplayName(), sum.Grade))
	}
	if sum.Score.Attempted > 0 {
		b.WriteString(categoryLine(corpus.ScoreEstimation.DisplayName(), sum.Score))
		n := sum.Score.Attempted
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf(
			"    within ±1   content %d/%d   organization %d/%d   expression %d/%d",
			sum.Hits.Content, n, sum.Hits.Organization, n, sum.Hits.Expression, n)))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf(
			"    total points   yours %d   correct %d", sum.SubmittedTotal, sum.CorrectTotal)))
		b.WriteString("\n")
	}
	if sum.Total == 0 {
		b.WriteString(theme.Hint.Render("No answers were recorded this round."))
		b.WriteString("\n")
	}

	if sum.Synthetic {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Width(w).Render(corpus.PlaceholderNotice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case r.saveErr != nil:
		b.WriteString(theme.Incorrect.Render("Could not save this round: " + r.saveErr.Error()))
	case r.savedID != "":
		b.WriteString(theme.Hint.Render("Saved to your practice history."))
	}

	content := lipgloss.NewStyle().Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func categoryLine(name string, c session.CategorySummary) string {
	return fmt.Sprintf("  %s %s  %s\n",
		theme.Body.Render(fmt.Sprintf("%-18s", name)),
		theme.Body.Render(fmt.Sprintf("%d/%d correct", c.Correct, c.Attempted)),
		theme.Subtitle.Render(fmt.Sprintf("(%.0f%%)", c.Accuracy()*100)),
	)
}

func ratingStyle(r session.Rating) lipgloss.Style {
	switch r {
	case session.RatingExcellent:
		return theme.Correct
	case session.RatingGood:
		return theme.Selected
	default:
		return theme.Warning
	}
}

// Record converts a finished session into its store representation.
func Record(s session.Session) store.SessionRecord {
	sum := session.Summarize(s)
	rec := store.SessionRecord{
		Learner:       s.LearnerName,
		Mode:          s.Mode.String(),
		QuestionCount: s.QuestionCount,
		Total:         sum.Total,
		Correct:       sum.Correct,
		Accuracy:      sum.Accuracy,
		Synthetic:     sum.Synthetic,
		Outcomes:      make([]store.OutcomeRecord, 0, len(s.Results)),
	}
	for _, o := range s.Results {
		out := store.OutcomeRecord{
			Category: o.Category.String(),
			ItemID:   o.ItemID,
			Correct:  o.IsCorrect,
		}
		if o.Category == corpus.ScoreEstimation {
			out.SubmittedContent = o.SubmittedScores.Content
			out.SubmittedOrganization = o.SubmittedScores.Organization
			out.SubmittedExpression = o.SubmittedScores.Expression
			out.CorrectContent = o.CorrectScores.Content
			out.CorrectOrganization = o.CorrectScores.Organization
			out.CorrectExpression = o.CorrectScores.Expression
		} else {
			out.SubmittedGrade = o.SubmittedGrade
			out.CorrectGrade = o.CorrectGrade
		}
		rec.Outcomes = append(rec.Outcomes, out)
	}
	return rec
}
