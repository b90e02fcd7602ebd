// Package router keeps the stack of screens the app navigates through.
// Screens ask for navigation by returning one of the commands below;
// the app hands every message to Router.Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// ReplaceScreenMsg swaps the top screen, keeping the depth.
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg goes back one screen.
	PopScreenMsg struct{}
	// PopToRootMsg goes back to the first screen.
	PopToRootMsg struct{}
)

func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// Pop and PopToRoot are commands themselves.
func Pop() tea.Msg       { return PopScreenMsg{} }
func PopToRoot() tea.Msg { return PopToRootMsg{} }

// Router owns the screen stack. The root screen is never popped. Any
// screen implementing screen.Closer is closed once when it leaves.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if top := len(r.stack) - 1; top >= 0 {
		closeScreen(r.stack[top])
		r.stack[top] = s
	} else {
		r.stack = append(r.stack, s)
	}
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	r.unwind(len(r.stack) - 1)
	return nil
}

func (r *Router) PopToRoot() tea.Cmd {
	r.unwind(1)
	return nil
}

// unwind closes screens from the top until depth remain, never below one.
func (r *Router) unwind(depth int) {
	depth = max(depth, 1)
	for len(r.stack) > depth {
		last := len(r.stack) - 1
		closeScreen(r.stack[last])
		r.stack[last] = nil
		r.stack = r.stack[:last]
	}
}

// Close closes the whole stack, top first. The app calls it on quit.
func (r *Router) Close() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		closeScreen(r.stack[i])
	}
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and routes everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case PopToRootMsg:
		return r.PopToRoot()
	}
	if len(r.stack) == 0 {
		return nil
	}
	top := len(r.stack) - 1
	next, cmd := r.stack[top].Update(msg)
	r.stack[top] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}
