package practice

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/scoring"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
)

type stubResolver struct {
	ref   string
	err   error
	calls int
}

func (r *stubResolver) Feedback(_ context.Context, _ corpus.Category, _ int) (string, error) {
	r.calls++
	return r.ref, r.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func items(category corpus.Category, n int) []corpus.Item {
	out := make([]corpus.Item, n)
	for i := range out {
		out[i] = corpus.Item{
			ID:       i + 1,
			Text:     "Our town should keep its library open because it serves everyone.",
			Grade:    2,
			Scores:   scoring.Scores{Content: 12, Organization: 8, Expression: 7},
			Category: category,
		}
	}
	return out
}

func step(t *testing.T, s session.Session, a session.Action) session.Session {
	t.Helper()
	next, err := session.Step(s, a)
	require.NoError(t, err)
	return next
}

func practiceSession(t *testing.T, mode session.Mode) session.Session {
	t.Helper()
	s := step(t, session.New(), session.Begin{Name: "Mina", Consent: true, QuestionCount: 2})
	s = step(t, s, session.Continue{})
	s = step(t, s, session.SelectMode{
		Mode:  mode,
		Grade: items(corpus.GradeEstimation, 2),
		Score: items(corpus.ScoreEstimation, 2),
	})
	if s.Stage == session.StageChecklist {
		checks := make([]bool, len(session.DefaultChecklist))
		for i := range checks {
			checks[i] = true
		}
		s = step(t, s, session.ConfirmChecklist{Checks: checks})
	}
	return s
}

// dispatched runs cmd and returns the action it carries.
func dispatched(t *testing.T, cmd tea.Cmd) session.Action {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(screen.ActionMsg)
	require.True(t, ok, "expected ActionMsg")
	return msg.Action
}

func TestPractice_GradeSubmitDefault(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	require.Equal(t, session.StageGradePractice, s.Stage)
	p := New(s, nil)

	_, cmd := p.Update(enter())
	assert.Equal(t, session.SubmitGrade{Grade: scoring.GradeRange.Mid()}, dispatched(t, cmd))
}

func TestPractice_GradeDigitSelects(t *testing.T) {
	p := New(practiceSession(t, session.ModeGradeOnly), nil)

	p.Update(keyPress('2'))
	_, cmd := p.Update(enter())
	assert.Equal(t, session.SubmitGrade{Grade: 2}, dispatched(t, cmd))
}

func TestPractice_WrongAnswerLooksUpFeedback(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	res := &stubResolver{ref: "https://example.com/f_grade/1.png"}
	p := New(s, res)

	s = step(t, s, session.SubmitGrade{Grade: 5})
	_, cmd := p.Update(screen.SessionMsg{Session: s})
	require.NotNil(t, cmd)

	_, cmd = p.Update(cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, 1, res.calls)

	view := p.View(100, 40)
	assert.Contains(t, view, "Not quite")
	assert.Contains(t, view, "https://example.com/f_grade/1.png")
	assert.Contains(t, view, "Correct grade: 2")
}

func TestPractice_CorrectAnswerSkipsFeedback(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	res := &stubResolver{ref: "x.png"}
	p := New(s, res)

	s = step(t, s, session.SubmitGrade{Grade: 2})
	_, cmd := p.Update(screen.SessionMsg{Session: s})
	assert.Nil(t, cmd)
	assert.Zero(t, res.calls)
	assert.Contains(t, p.View(100, 40), "Correct!")
}

func TestPractice_MissingFeedback(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	p := New(s, &stubResolver{err: errors.New("not found")})

	s = step(t, s, session.SubmitGrade{Grade: 4})
	_, cmd := p.Update(screen.SessionMsg{Session: s})
	p.Update(cmd())

	assert.Contains(t, p.View(100, 40), "No feedback image")
}

func TestPractice_StaleFeedbackIgnored(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	p := New(s, nil)

	p.Update(feedbackResolvedMsg{ItemID: 99, Ref: "stale.png"})
	assert.Empty(t, p.feedbackRef)
}

func TestPractice_AnsweredKeysDispatchNext(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	p := New(s, nil)
	s = step(t, s, session.SubmitGrade{Grade: 2})
	p.Update(screen.SessionMsg{Session: s})

	// Further grade keys are ignored once answered.
	_, cmd := p.Update(keyPress('4'))
	assert.Nil(t, cmd)

	_, cmd = p.Update(enter())
	assert.Equal(t, session.Next{}, dispatched(t, cmd))
}

func TestPractice_NextResetsWidgets(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	p := New(s, nil)
	p.Update(keyPress('1'))
	s = step(t, s, session.SubmitGrade{Grade: 1})
	p.Update(screen.SessionMsg{Session: s})
	require.True(t, p.choice.Revealed())

	s = step(t, s, session.Next{})
	p.Update(screen.SessionMsg{Session: s})
	assert.False(t, p.choice.Revealed())
	assert.Equal(t, scoring.GradeRange.Mid()-1, p.choice.Selected)
	assert.Equal(t, 1, p.position)
}

func TestPractice_ScoreSteppers(t *testing.T) {
	s := practiceSession(t, session.ModeScoreOnly)
	require.Equal(t, session.StageScorePractice, s.Stage)
	p := New(s, nil)

	p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	p.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	p.Update(tea.KeyPressMsg{Code: tea.KeyLeft})

	_, cmd := p.Update(enter())
	assert.Equal(t, session.SubmitScores{Scores: scoring.Scores{
		Content:      scoring.ContentRange.Mid() + 1,
		Organization: scoring.OrganizationRange.Mid() - 2,
		Expression:   scoring.ExpressionRange.Mid(),
	}}, dispatched(t, cmd))
}

func TestPractice_ScoreResultTable(t *testing.T) {
	s := practiceSession(t, session.ModeScoreOnly)
	p := New(s, nil)

	s = step(t, s, session.SubmitScores{Scores: scoring.Scores{Content: 12, Organization: 4, Expression: 8}})
	p.Update(screen.SessionMsg{Session: s})

	view := p.View(100, 50)
	assert.Contains(t, view, "Organization")
	assert.Contains(t, view, "Total")
	assert.Contains(t, view, "✗")
	assert.Equal(t, 12, p.steppers[dimContent].Value)
	assert.Equal(t, 4, p.steppers[dimOrganization].Value)
}

func TestPractice_RejectedShowsError(t *testing.T) {
	p := New(practiceSession(t, session.ModeGradeOnly), nil)
	p.Update(screen.RejectedMsg{Err: scoring.ErrOutOfRange})
	assert.Contains(t, p.View(100, 40), scoring.ErrOutOfRange.Error())
}

func TestPractice_PlaceholderNotice(t *testing.T) {
	s := step(t, session.New(), session.Begin{Name: "Mina", Consent: true, QuestionCount: 1})
	s = step(t, s, session.Continue{})
	s = step(t, s, session.SelectMode{Mode: session.ModeScoreOnly, Score: corpus.Placeholder(corpus.ScoreEstimation)})

	view := New(s, nil).View(120, 50)
	assert.Contains(t, view, "Sample essays")
}

func TestPractice_ScrollClampsToEssay(t *testing.T) {
	s := practiceSession(t, session.ModeGradeOnly)
	p := New(s, nil)
	for range 10 {
		p.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	}
	p.View(100, 40)
	assert.Zero(t, p.scroll, "short essay cannot scroll")

	p.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	assert.Zero(t, p.scroll)
}

func TestPractice_TitleAndHints(t *testing.T) {
	p := New(practiceSession(t, session.ModeGradeOnly), nil)
	assert.Equal(t, corpus.GradeEstimation.DisplayName(), p.Title())

	var keys []string
	for _, h := range p.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, strings.Join(keys, " "), "Enter")
}
