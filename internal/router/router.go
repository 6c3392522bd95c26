package router

import (
	"github.com/sepme/sepme/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
// Used for overlays such as help.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests the router to drop the whole stack and show
// Screen alone. Wizard stage changes use it.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen) *Router {
	return &Router{
		stack: []screen.Screen{initial},
	}
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Replace clears the stack, installs s and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack = []screen.Screen{s}
	return s.Init()
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Base returns the bottom screen, the current wizard stage.
func (r *Router) Base() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[0]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	return r.UpdateScreen(len(r.stack)-1, msg)
}

// UpdateBase delivers msg to the bottom screen even while an overlay is
// shown, so async results reach the stage that asked for them.
func (r *Router) UpdateBase(msg tea.Msg) tea.Cmd {
	return r.UpdateScreen(0, msg)
}

// UpdateScreen delivers msg to the screen at stack index i.
func (r *Router) UpdateScreen(i int, msg tea.Msg) tea.Cmd {
	if i < 0 || i >= len(r.stack) {
		return nil
	}
	updated, cmd := r.stack[i].Update(msg)
	r.stack[i] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
