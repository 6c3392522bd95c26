package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/sepme/sepme/internal/session"
	"github.com/sepme/sepme/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that are currently reading free
// text, so global single-key shortcuts must not fire.
type InputCapturer interface {
	CapturingInput() bool
}

// ActionMsg asks the app to apply a session action.
type ActionMsg struct {
	Action session.Action
}

// Dispatch returns a command emitting ActionMsg{a}.
func Dispatch(a session.Action) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: a} }
}

// SessionMsg delivers the updated session to the current stage screen when
// an action kept the wizard on the same stage.
type SessionMsg struct {
	Session session.Session
}

// RejectedMsg tells the current stage screen why its action was refused.
type RejectedMsg struct {
	Err error
}
