package tui

import (
	"net/url"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// SessionMsg signals a session change from the store subscription. The router
// re-reads the store rather than trusting State.
type SessionMsg struct {
	State session.State
}

// LandingMsg is sent when the callback listener receives the provider redirect.
type LandingMsg struct {
	URL *url.URL
}

// NavigateMsg asks the router to switch views.
type NavigateMsg struct {
	View View
	// Status is shown by the target screen, e.g. after a create.
	Status string
}

// BackMsg leaves a full-screen view for the last shell view.
type BackMsg struct{}

type redirectDoneMsg struct {
	result auth.CallbackResult
}

type browserOpenedMsg struct {
	err error
}

// ownedMsg is the result of a screen's request. The router drops it if the
// screen that issued the request is no longer mounted.
type ownedMsg interface {
	owner() int
}

func navigate(v View, status string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{View: v, Status: status} }
}

func back() tea.Msg { return BackMsg{} }
