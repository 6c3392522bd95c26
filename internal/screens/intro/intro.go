package intro

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/components"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

// Focusable fields, in tab order.
const (
	fieldName = iota
	fieldQuestions
	fieldConsent
	fieldStart
	numFields
)

const consentText = "I agree to the collection and use of my name for practice records."

// IntroScreen collects the learner's name, consent and question count.
type IntroScreen struct {
	name    components.TextInput
	count   components.Stepper
	consent bool
	start   components.Button
	focus   int
	errMsg  string
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)
var _ screen.InputCapturer = (*IntroScreen)(nil)

// New creates the intro screen prefilled from s (after Back) with
// defaultCount used when s has no count yet.
func New(s session.Session, defaultCount int) *IntroScreen {
	count := s.QuestionCount
	if count == 0 {
		count = defaultCount
	}
	name := components.NewTextInput("Your name", "Type your name...", 40)
	name.SetValue(s.LearnerName)

	return &IntroScreen{
		name:    name,
		count:   components.NewStepper("Questions per practice", count, session.MinQuestionCount, session.MaxQuestionCount),
		consent: s.ConsentGiven,
		start:   components.NewButton("Start", nil),
	}
}

func (s *IntroScreen) Init() tea.Cmd {
	return s.name.Init()
}

func (s *IntroScreen) Title() string {
	return "Welcome"
}

func (s *IntroScreen) CapturingInput() bool {
	return s.focus == fieldName
}

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab/↑↓", Description: "Move"}}
	switch s.focus {
	case fieldQuestions:
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Adjust"})
	case fieldConsent:
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Start"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.RejectedMsg:
		s.errMsg = rejection(msg.Err)
		switch {
		case errors.Is(msg.Err, session.ErrMissingName):
			return s, s.setFocus(fieldName)
		case errors.Is(msg.Err, session.ErrMissingConsent):
			return s, s.setFocus(fieldConsent)
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % numFields)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + numFields - 1) % numFields)
		case "enter":
			s.errMsg = ""
			return s, screen.Dispatch(session.Begin{
				Name:          s.name.Value(),
				Consent:       s.consent,
				QuestionCount: s.count.Value,
			})
		case "space", " ":
			if s.focus == fieldConsent {
				s.consent = !s.consent
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldQuestions:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *IntroScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.count.Focused = f == fieldQuestions
	s.start.Focused = f == fieldStart
	if f == fieldName {
		return s.name.Focus()
	}
	s.name.Blur()
	return nil
}

func (s *IntroScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render("Essay Grading Practice"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Read student essays and estimate their grade and scores."))
	b.WriteString("\n\n")

	b.WriteString(s.name.View())
	b.WriteString("\n\n")
	b.WriteString(s.count.View())
	b.WriteString("\n\n")

	box := "[ ]"
	if s.consent {
		box = theme.Correct.Render("[x]")
	}
	label := theme.Unselected.Render(consentText)
	if s.focus == fieldConsent {
		label = theme.Selected.Render(consentText)
	}
	b.WriteString(box + " " + label)
	b.WriteString("\n\n")
	b.WriteString(s.start.View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	content := lipgloss.NewStyle().Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func rejection(err error) string {
	switch {
	case errors.Is(err, session.ErrMissingName):
		return "Please enter your name to start."
	case errors.Is(err, session.ErrMissingConsent):
		return "Consent is required to start."
	case errors.Is(err, session.ErrQuestionCount):
		return "Choose between 1 and 15 questions."
	}
	return err.Error()
}
