package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/scoring"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/components"
	"github.com/sepme/sepme/internal/ui/layout"
)

const feedbackTimeout = 10 * time.Second

// FeedbackResolver finds the feedback image of an item.
type FeedbackResolver interface {
	Feedback(ctx context.Context, category corpus.Category, id int) (string, error)
}

// Score dimensions, in focus order.
const (
	dimContent = iota
	dimOrganization
	dimExpression
	numDims
)

// PracticeScreen shows one essay at a time for grade or score practice.
// It never changes the session itself: answers and "next" are dispatched
// as actions and the result arrives back as screen.SessionMsg.
type PracticeScreen struct {
	sess     session.Session
	resolver FeedbackResolver

	// Per-item widgets, rebuilt when the position changes.
	position int
	choice   components.Choice
	steppers [numDims]components.Stepper
	focus    int
	scroll   int

	feedbackRef string
	feedbackErr error
	errMsg      string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates the practice screen for the session's current stage.
func New(s session.Session, resolver FeedbackResolver) *PracticeScreen {
	p := &PracticeScreen{sess: s, resolver: resolver}
	p.resetItem()
	return p
}

func (p *PracticeScreen) grading() bool {
	return p.sess.Stage == session.StageGradePractice
}

func (p *PracticeScreen) resetItem() {
	p.position = p.sess.Position
	p.choice = components.NewChoice("Which grade would you give this essay?", []string{
		"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5",
	})
	p.choice.Selected = scoring.GradeRange.Mid() - 1
	p.steppers = [numDims]components.Stepper{
		components.NewStepper("Content     ", scoring.ContentRange.Mid(), scoring.MinContent, scoring.MaxContent),
		components.NewStepper("Organization", scoring.OrganizationRange.Mid(), scoring.MinOrganization, scoring.MaxOrganization),
		components.NewStepper("Expression  ", scoring.ExpressionRange.Mid(), scoring.MinExpression, scoring.MaxExpression),
	}
	p.setFocus(dimContent)
	p.scroll = 0
	p.feedbackRef = ""
	p.feedbackErr = nil
	p.errMsg = ""
}

func (p *PracticeScreen) setFocus(i int) {
	p.focus = i
	for d := range p.steppers {
		p.steppers[d].Focused = d == i
	}
}

func (p *PracticeScreen) Init() tea.Cmd {
	// A screen built mid-stage may start on an answered item.
	return p.syncReveal()
}

func (p *PracticeScreen) Title() string {
	item, ok := p.sess.Current()
	if !ok {
		return "Practice"
	}
	return item.Category.DisplayName()
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.sess.Answered() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next essay"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "?", Description: "Help"},
		}
	}
	if p.grading() {
		return []layout.KeyHint{
			{Key: "↑↓ 1-5", Description: "Choose grade"},
			{Key: "Enter", Description: "Submit"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "?", Description: "Help"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Dimension"},
		{Key: "←→", Description: "Adjust"},
		{Key: "Enter", Description: "Submit"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "?", Description: "Help"},
	}
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SessionMsg:
		p.sess = msg.Session
		if p.sess.Position != p.position {
			p.resetItem()
		}
		return p, p.syncReveal()

	case screen.RejectedMsg:
		p.errMsg = msg.Err.Error()
		return p, nil

	case feedbackResolvedMsg:
		if item, ok := p.sess.Current(); ok && item.ID == msg.ItemID {
			p.feedbackRef = msg.Ref
			p.feedbackErr = msg.Err
		}
		return p, nil

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "pgdown", "ctrl+d":
		p.scroll += 5
		return p, nil
	case "pgup", "ctrl+u":
		p.scroll = max(p.scroll-5, 0)
		return p, nil
	}

	if p.sess.Answered() {
		switch msg.String() {
		case "enter", "n", "space", " ":
			return p, screen.Dispatch(session.Next{})
		}
		return p, nil
	}

	if msg.String() == "enter" {
		p.errMsg = ""
		return p, screen.Dispatch(p.answer())
	}

	if p.grading() {
		var cmd tea.Cmd
		p.choice, cmd = p.choice.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "up", "k", "shift+tab":
		p.setFocus((p.focus + numDims - 1) % numDims)
		return p, nil
	case "down", "j", "tab":
		p.setFocus((p.focus + 1) % numDims)
		return p, nil
	}
	var cmd tea.Cmd
	p.steppers[p.focus], cmd = p.steppers[p.focus].Update(msg)
	return p, cmd
}

func (p *PracticeScreen) answer() session.Action {
	if p.grading() {
		return session.SubmitGrade{Grade: p.choice.Selected + 1}
	}
	return session.SubmitScores{Scores: scoring.Scores{
		Content:      p.steppers[dimContent].Value,
		Organization: p.steppers[dimOrganization].Value,
		Expression:   p.steppers[dimExpression].Value,
	}}
}

// syncReveal freezes the widgets on the recorded answer and starts the
// feedback lookup for a wrong answer.
func (p *PracticeScreen) syncReveal() tea.Cmd {
	o, ok := p.sess.CurrentOutcome()
	if !ok {
		return nil
	}
	if p.grading() {
		if !p.choice.Revealed() {
			p.choice.Selected = o.SubmittedGrade - 1
			p.choice.Reveal(o.SubmittedGrade-1, o.CorrectGrade-1)
		}
	} else {
		p.steppers[dimContent].Set(o.SubmittedScores.Content)
		p.steppers[dimOrganization].Set(o.SubmittedScores.Organization)
		p.steppers[dimExpression].Set(o.SubmittedScores.Expression)
		p.setFocus(-1)
	}

	if o.IsCorrect || p.resolver == nil || p.feedbackRef != "" || p.feedbackErr != nil {
		return nil
	}
	resolver := p.resolver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
		defer cancel()
		ref, err := resolver.Feedback(ctx, o.Category, o.ItemID)
		return feedbackResolvedMsg{ItemID: o.ItemID, Ref: ref, Err: err}
	}
}
