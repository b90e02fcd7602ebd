package screen

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/earlybird-app/earlybird/internal/coach"
	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/store"
	"github.com/earlybird-app/earlybird/internal/ui/layout"
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

// Closer is implemented by screens holding resources. The router calls
// Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// BackHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type BackHandler interface {
	HandlesBack() bool
}

// WokeUpMsg announces a completed session so the header can show it.
type WokeUpMsg struct {
	At time.Time
}

// Deps are the services shared by every screen.
type Deps struct {
	Config   config.Config
	Settings store.SettingsRepo // nil without a database
	Profile  *profile.Log
	Advisor  *coach.Advisor

	// NewMonitor builds an unstarted session wired to the app's notifier
	// and observers.
	NewMonitor func() *session.Monitor

	Now    func() time.Time
	Logger *slog.Logger
}
