package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sepme/sepme/internal/screen"
	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/layout"
	"github.com/sepme/sepme/internal/ui/theme"
)

const resolveTimeout = 10 * time.Second

// AssetResolver finds instructional images.
type AssetResolver interface {
	Asset(ctx context.Context, name string) (string, error)
}

// Asset is one instructional image shown on this screen.
type Asset struct {
	Label string
	Name  string
}

type assetResolvedMsg struct {
	Index int
	Ref   string
	Err   error
}

// AssignmentScreen introduces the writing task, the rubric and the sample
// essay before practice starts.
type AssignmentScreen struct {
	resolver AssetResolver
	assets   []Asset
	refs     []string
	errs     []error
	learner  string
}

var _ screen.Screen = (*AssignmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssignmentScreen)(nil)

// New creates the screen. A nil resolver shows the asset names unresolved.
func New(s session.Session, resolver AssetResolver, assets []Asset) *AssignmentScreen {
	return &AssignmentScreen{
		resolver: resolver,
		assets:   assets,
		refs:     make([]string, len(assets)),
		errs:     make([]error, len(assets)),
		learner:  s.LearnerName,
	}
}

func (s *AssignmentScreen) Init() tea.Cmd {
	if s.resolver == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.assets))
	for i, a := range s.assets {
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
			defer cancel()
			ref, err := s.resolver.Asset(ctx, a.Name)
			return assetResolvedMsg{Index: i, Ref: ref, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *AssignmentScreen) Title() string {
	return "Writing Task & Rubric"
}

func (s *AssignmentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Choose practice"},
		{Key: "Esc", Description: "Back"},
		{Key: "?", Description: "Help"},
	}
}

func (s *AssignmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case assetResolvedMsg:
		if msg.Index >= 0 && msg.Index < len(s.assets) {
			s.refs[msg.Index] = msg.Ref
			s.errs[msg.Index] = msg.Err
		}
	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, screen.Dispatch(session.Continue{})
		}
	}
	return s, nil
}

func (s *AssignmentScreen) View(width, height int) string {
	w := layout.TextWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Hello, %s!", s.learner)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(
		"Before practicing, read the writing task, the scoring rubric and the sample essay. " +
			"Open the images below in a browser or image viewer."))
	b.WriteString("\n\n")

	for i, a := range s.assets {
		b.WriteString(theme.Selected.Render("• " + a.Label))
		b.WriteString("\n  ")
		switch {
		case s.refs[i] != "":
			b.WriteString(theme.Link.Render(s.refs[i]))
		case s.errs[i] != nil:
			b.WriteString(theme.Hint.Render("(image unavailable)"))
		default:
			b.WriteString(theme.Hint.Render("locating " + a.Name + "..."))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Selected.Render("Before score practice, check that:"))
	b.WriteString("\n")
	for _, item := range session.ScoreChecklist {
		b.WriteString(theme.Body.Render("  ☐ " + item))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.Subtitle.Render("Scores: content 3-18, organization 2-12, expression 2-12. Grades: 1 (best) to 5."))

	content := lipgloss.NewStyle().Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
