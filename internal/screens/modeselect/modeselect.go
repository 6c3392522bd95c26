package modeselect

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/sepme/sepme/internal/corpus"
	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/components"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

const loadTimeout = 60 * time.Second

// CorpusProvider returns the corpus for a practice category.
type CorpusProvider interface {
	Get(ctx context.Context, category corpus.Category) (corpus.Corpus, error)
}

type modeChosenMsg struct {
	Mode session.Mode
}

type corpusLoadedMsg struct {
	Mode  session.Mode
	Grade corpus.Corpus
	Score corpus.Corpus
	Err   error
}

// ModeSelectScreen picks the practice mode and loads the corpora it needs.
type ModeSelectScreen struct {
	provider CorpusProvider
	newRand  func() *rand.Rand
	logger   *zap.Logger
	count    int

	menu    components.Menu
	loading session.Mode
	errMsg  string
}

var _ screen.Screen = (*ModeSelectScreen)(nil)
var _ screen.KeyHintProvider = (*ModeSelectScreen)(nil)

// New creates the screen. newRand supplies the shuffle source for each
// round; it may return nil to keep corpus order.
func New(s session.Session, provider CorpusProvider, newRand func() *rand.Rand, logger *zap.Logger) *ModeSelectScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	items := make([]components.MenuItem, 0, len(session.Modes))
	for _, m := range session.Modes {
		items = append(items, components.MenuItem{
			Label:  m.DisplayName(),
			Detail: modeDetail(m),
			Action: func() tea.Cmd {
				return func() tea.Msg { return modeChosenMsg{Mode: m} }
			},
		})
	}
	return &ModeSelectScreen{
		provider: provider,
		newRand:  newRand,
		logger:   logger,
		count:    s.QuestionCount,
		menu:     components.NewMenu(items),
	}
}

func modeDetail(m session.Mode) string {
	switch m {
	case session.ModeGradeOnly:
		return "checklist, then grade 1-5"
	case session.ModeScoreOnly:
		return "content / organization / expression"
	case session.ModeBoth:
		return "grade practice, then score practice"
	}
	return ""
}

func (s *ModeSelectScreen) Init() tea.Cmd {
	return nil
}

func (s *ModeSelectScreen) Title() string {
	return "Choose Practice"
}

func (s *ModeSelectScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
		{Key: "?", Description: "Help"},
	}
}

func (s *ModeSelectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case modeChosenMsg:
		if s.loading != session.ModeNone {
			return s, nil
		}
		s.loading = msg.Mode
		s.errMsg = ""
		return s, s.load(msg.Mode)

	case corpusLoadedMsg:
		s.loading = session.ModeNone
		if msg.Err != nil {
			s.errMsg = fmt.Sprintf("Could not load essays: %v", msg.Err)
			return s, nil
		}
		var rng *rand.Rand
		if s.newRand != nil {
			rng = s.newRand()
		}
		return s, screen.Dispatch(session.SelectMode{
			Mode:  msg.Mode,
			Grade: session.BuildQueue(msg.Grade.Items, s.count, rng),
			Score: session.BuildQueue(msg.Score.Items, s.count, rng),
		})

	case screen.RejectedMsg:
		s.errMsg = msg.Err.Error()
		return s, nil

	case tea.KeyPressMsg:
		if s.loading != session.ModeNone {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

// load fetches the corpora mode needs. Loads are memoized by the provider,
// so returning to this screen is cheap.
func (s *ModeSelectScreen) load(mode session.Mode) tea.Cmd {
	provider := s.provider
	logger := s.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		out := corpusLoadedMsg{Mode: mode}
		if provider == nil {
			out.Err = corpus.ErrCorpusUnavailable
			return out
		}
		if mode.NeedsGrade() {
			out.Grade, out.Err = provider.Get(ctx, corpus.GradeEstimation)
			if out.Err != nil {
				return out
			}
		}
		if mode.NeedsScore() {
			out.Score, out.Err = provider.Get(ctx, corpus.ScoreEstimation)
			if out.Err != nil {
				return out
			}
		}
		for _, c := range []corpus.Corpus{out.Grade, out.Score} {
			if c.Warning != nil {
				logger.Warn("practicing on placeholder essays", zap.Error(c.Warning))
			}
		}
		return out
	}
}

func (s *ModeSelectScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render("Which practice would you like to do?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d question(s) per practice", s.count)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	if s.loading != session.ModeNone {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Loading essays..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	content := lipgloss.NewStyle().Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
