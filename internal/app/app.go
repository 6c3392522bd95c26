package app

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/router"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/screens/assignment"
	"github.com/sepme/sepme/internal/screens/checklist"
	"github.com/sepme/sepme/internal/screens/help"
	"github.com/sepme/sepme/internal/screens/intro"
	"github.com/sepme/sepme/internal/screens/modeselect"
	"github.com/sepme/sepme/internal/screens/practice"
	"github.com/sepme/sepme/internal/screens/results"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/store"
	"github.com/sepme/sepme/internal/ui/layout"
)

// CorpusProvider loads practice items and can drop its cache.
type CorpusProvider interface {
	modeselect.CorpusProvider
	Invalidate()
}

// Resolver finds feedback and instructional images.
type Resolver interface {
	practice.FeedbackResolver
	assignment.AssetResolver
}

// Options carries the dependencies of the TUI.
type Options struct {
	QuestionCount int
	Assets        []assignment.Asset

	Provider CorpusProvider
	Resolver Resolver
	Repo     store.ResultRepo
	NewRand  func() *rand.Rand
	Logger   *zap.Logger
}

// AppModel is the root Bubble Tea model. It owns the session; screens
// only propose actions.
type AppModel struct {
	router *router.Router
	sess   session.Session
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel on the intro stage.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand { return session.NewRand(0) }
	}
	if opts.QuestionCount == 0 {
		opts.QuestionCount = session.DefaultQuestionCount
	}
	m := AppModel{sess: session.New(), opts: opts}
	m.router = router.New(m.screenFor(m.sess))
	return m
}

// screenFor builds the screen of the session's stage.
func (m AppModel) screenFor(s session.Session) screen.Screen {
	switch s.Stage {
	case session.StageIntro:
		return intro.New(s, m.opts.QuestionCount)
	case session.StageAssignmentInfo:
		return assignment.New(s, m.opts.Resolver, m.opts.Assets)
	case session.StageModeSelection:
		return modeselect.New(s, m.opts.Provider, m.opts.NewRand, m.opts.Logger)
	case session.StageChecklist:
		return checklist.New()
	case session.StageGradePractice, session.StageScorePractice:
		return practice.New(s, m.opts.Resolver)
	case session.StageResults:
		return results.New(s, m.opts.Repo, m.opts.Logger)
	}
	panic(fmt.Sprintf("no screen for stage %s", s.Stage))
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ActionMsg:
		return m, m.apply(msg.Action)

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		return m, m.router.Update(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, m.apply(session.Back{})
		case "?":
			if m.router.Depth() == 1 && !capturing(m.router.Active()) {
				return m, func() tea.Msg { return router.PushScreenMsg{Screen: help.New()} }
			}
		}
		return m, m.router.Update(msg)
	}

	// Async results belong to the screen that asked for them, which may be
	// the stage screen under an overlay.
	cmd := m.router.UpdateBase(msg)
	if top := m.router.Depth() - 1; top > 0 {
		cmd = tea.Batch(cmd, m.router.UpdateScreen(top, msg))
	}
	return m, cmd
}

func capturing(s screen.Screen) bool {
	c, ok := s.(screen.InputCapturer)
	return ok && c.CapturingInput()
}

// apply runs a on the session. A stage change swaps the stage screen;
// otherwise the current screen gets the new session or the rejection.
func (m *AppModel) apply(a session.Action) tea.Cmd {
	next, err := session.Step(m.sess, a)
	if errors.Is(err, session.ErrInvalidTransition) {
		m.opts.Logger.Debug("ignored action", zap.String("action", fmt.Sprintf("%T", a)), zap.Error(err))
		return nil
	}
	if err != nil {
		m.opts.Logger.Info("action rejected",
			zap.String("action", fmt.Sprintf("%T", a)),
			zap.Stringer("stage", m.sess.Stage),
			zap.Error(err),
		)
		return m.router.UpdateBase(screen.RejectedMsg{Err: err})
	}

	prev := m.sess
	m.sess = next
	if next.Stage != prev.Stage {
		m.opts.Logger.Info("stage changed",
			zap.Stringer("from", prev.Stage),
			zap.Stringer("to", next.Stage),
		)
	}

	if _, ok := a.(session.Restart); ok {
		if m.opts.Provider != nil {
			m.opts.Provider.Invalidate()
		}
		return m.router.Replace(m.screenFor(next))
	}
	if next.Stage != prev.Stage {
		return m.router.Replace(m.screenFor(next))
	}
	return m.router.UpdateBase(screen.SessionMsg{Session: next})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.sess.LearnerName, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
