package tui

import (
	"errors"
	"testing"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshLoadShowsLogin(t *testing.T) {
	b := newBackend(t)
	m := NewAppModel(newDeps(t, b, ""))
	assert.Equal(t, LayoutLoading, m.Layout())
	assert.Contains(t, m.View(), "Loading")

	m = boot(t, m)
	assert.Equal(t, LayoutAuth, m.Layout())
	assert.Equal(t, auth.StepAwaitingEmail, m.AuthPage().Snapshot().Step)
	assert.False(t, m.AuthPage().Signup())
	assert.False(t, b.seen("GET /api/v1/auth/callback/tokens"))
}

func TestLoginShowsShell(t *testing.T) {
	b := newBackend(t)
	m := boot(t, NewAppModel(newDeps(t, b, "")))

	m, _ = update(t, m, typeText("a@b.com"))
	m, cmd := update(t, m, enterKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, auth.StepAwaitingCode, m.AuthPage().Snapshot().Step)
	assert.Contains(t, m.View(), "a@b.com")

	m, _ = update(t, m, typeText("123456"))
	m, cmd = update(t, m, enterKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, "tok1", m.deps.Session.GetState().AccessToken)

	m = settle(t, m)
	st := m.deps.Session.GetState()
	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, "42", st.CurrentUser.ID)
	assert.Equal(t, LayoutShell, m.Layout())
	assert.Equal(t, ViewHotels, m.ActiveView())
	assert.Contains(t, m.View(), "Ann Example")
}

func TestInvalidCodeStaysOnCodeStep(t *testing.T) {
	b := newBackend(t)
	m := boot(t, NewAppModel(newDeps(t, b, "")))

	m, _ = update(t, m, typeText("a@b.com"))
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, typeText("000000"))
	m, cmd = update(t, m, enterKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	snap := m.AuthPage().Snapshot()
	assert.Equal(t, auth.StepAwaitingCode, snap.Step)
	assert.Equal(t, "Invalid OTP", snap.Error)
	assert.Contains(t, m.View(), "Invalid OTP")
	assert.Equal(t, session.State{}, m.deps.Session.GetState())
	assert.Equal(t, LayoutAuth, m.Layout())
}

func TestShortCodeCannotBeSubmitted(t *testing.T) {
	b := newBackend(t)
	m := boot(t, NewAppModel(newDeps(t, b, "")))

	m, _ = update(t, m, typeText("a@b.com"))
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, typeText("123"))
	_, cmd = update(t, m, enterKey)
	assert.Nil(t, cmd)
	assert.False(t, b.seen("POST /api/v1/auth/login/verify-otp"))
}

func TestOAuthRedirectSuccess(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "http://localhost:5173/auth/callback?success=true&user_id=42")
	m := boot(t, NewAppModel(deps))

	assert.Equal(t, 1, b.exchangeCount())
	assert.Equal(t, "tok2", deps.Session.GetState().AccessToken)
	assert.Equal(t, "", deps.Flows.Location.URL().RawQuery)
	assert.Equal(t, LayoutShell, m.Layout())

	// a second start on the stripped location does nothing
	m, _ = update(t, m, m.completeRedirect(false)())
	assert.Equal(t, 1, b.exchangeCount())
}

func TestOAuthRedirectError(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "http://localhost:5173/auth/callback?error=access_denied")
	m := boot(t, NewAppModel(deps))

	assert.Equal(t, LayoutAuth, m.Layout())
	assert.Contains(t, m.View(), "access_denied")
	assert.Equal(t, 0, b.exchangeCount())
	assert.Equal(t, "", deps.Flows.Location.URL().RawQuery)
	assert.Equal(t, "", deps.Session.GetState().AccessToken)
}

func TestLandingFromListener(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "")
	m := boot(t, NewAppModel(deps))
	require.Equal(t, LayoutAuth, m.Layout())

	landing := deps.Flows.Location.URL()
	landing.RawQuery = "success=true&user_id=42"
	m, cmd := update(t, m, LandingMsg{URL: landing})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	m = settle(t, m)

	assert.Equal(t, 1, b.exchangeCount())
	assert.Equal(t, LayoutShell, m.Layout())
}

func TestGoogleSignInOpensBrowser(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "")
	nav := &fakeNavigator{err: errors.New("no browser")}
	deps.Flows.Navigator = nav
	m := boot(t, NewAppModel(deps))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	require.Len(t, nav.opened, 1)
	assert.Equal(t, deps.Flows.SignInURL, nav.opened[0])
	assert.Contains(t, m.View(), auth.MsgBrowserOpenError)
}

func TestSwitchToSignup(t *testing.T) {
	b := newBackend(t)
	m := boot(t, NewAppModel(newDeps(t, b, "")))

	m, _ = update(t, m, typeText("a@b.com"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.AuthPage().Signup())
	assert.Equal(t, "a@b.com", m.AuthPage().Snapshot().Email)
	assert.Contains(t, m.View(), "Create an account")
}

func TestShellNavigation(t *testing.T) {
	b := newBackend(t)
	m := signIn(t, boot(t, NewAppModel(newDeps(t, b, ""))))
	require.Equal(t, LayoutShell, m.Layout())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, ViewRooms, m.ActiveView())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, ViewSearchRooms, m.ActiveView())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, ViewProfile, m.ActiveView())
	assert.Equal(t, LayoutFullScreen, m.Layout())
	assert.NotContains(t, m.View(), "ctrl+n/ctrl+p")

	// chrome keys do nothing on full-screen views
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, ViewProfile, m.ActiveView())

	m, cmd := update(t, m, escKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, ViewSearchRooms, m.ActiveView())
	assert.Equal(t, LayoutShell, m.Layout())
}

func TestSidebar(t *testing.T) {
	b := newBackend(t)
	m := signIn(t, boot(t, NewAppModel(newDeps(t, b, ""))))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Contains(t, m.View(), "log out")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, enterKey)
	assert.Equal(t, ViewRooms, m.ActiveView())
	assert.NotContains(t, m.View(), "log out")
}

func TestStaleResponseIsDropped(t *testing.T) {
	b := newBackend(t)
	m := signIn(t, boot(t, NewAppModel(newDeps(t, b, ""))))
	hotelsID := m.activeID

	m, _ = update(t, m, NavigateMsg{View: ViewBookings})
	m, _ = update(t, m, recordsLoadedMsg{id: hotelsID, err: errors.New("boom")})
	assert.Contains(t, m.View(), "Loading My Bookings")
	assert.NotContains(t, m.View(), "boom")
}

func TestLogoutReturnsToLogin(t *testing.T) {
	b := newBackend(t)
	m := signIn(t, boot(t, NewAppModel(newDeps(t, b, ""))))

	m, _ = update(t, m, NavigateMsg{View: ViewProfile})
	m, cmd := update(t, m, typeText("l"))
	require.NotNil(t, cmd)
	cmd()
	m = settle(t, m)

	assert.Equal(t, LayoutAuth, m.Layout())
	assert.Equal(t, auth.StepAwaitingEmail, m.AuthPage().Snapshot().Step)
	assert.Equal(t, DefaultView, m.ActiveView())
	assert.True(t, b.seen("POST /api/v1/auth/logout"))
}

func TestNavigateIgnoredWhenSignedOut(t *testing.T) {
	b := newBackend(t)
	m := boot(t, NewAppModel(newDeps(t, b, "")))

	m, cmd := update(t, m, NavigateMsg{View: ViewProfile})
	assert.Nil(t, cmd)
	assert.Equal(t, LayoutAuth, m.Layout())
}

func TestLandingLocksAuthPageUntilExchangeDone(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "")
	m := boot(t, NewAppModel(deps))

	landing := deps.Flows.Location.URL()
	landing.RawQuery = "success=true&user_id=42"
	m, cmd := update(t, m, LandingMsg{URL: landing})
	require.NotNil(t, cmd)

	assert.True(t, m.AuthPage().Completing())
	assert.Contains(t, m.View(), "Completing Google sign-in")

	m, _ = update(t, m, typeText("a@b.com"))
	m, submit := update(t, m, enterKey)
	assert.Nil(t, submit)
	assert.Empty(t, m.AuthPage().Snapshot().Email)

	m, _ = update(t, m, cmd())
	assert.False(t, m.AuthPage().Completing())
	m = settle(t, m)
	assert.Equal(t, LayoutShell, m.Layout())
}

func TestLandingWithoutCallbackDoesNotLock(t *testing.T) {
	b := newBackend(t)
	deps := newDeps(t, b, "")
	m := boot(t, NewAppModel(deps))

	m, cmd := update(t, m, LandingMsg{URL: deps.Flows.Location.URL()})
	require.NotNil(t, cmd)
	assert.False(t, m.AuthPage().Completing())
	m, _ = update(t, m, cmd())
	assert.Equal(t, 0, b.exchangeCount())
	assert.Equal(t, LayoutAuth, m.Layout())
}

func TestStaleSessionMsgAfterLogout(t *testing.T) {
	b := newBackend(t)
	m := signIn(t, boot(t, NewAppModel(newDeps(t, b, ""))))
	signedIn := m.deps.Session.GetState()
	require.True(t, signedIn.Authenticated())

	m.deps.Session.Clear()
	m = settle(t, m)
	require.Equal(t, LayoutAuth, m.Layout())

	// a delivery carrying the old signed-in state arrives late
	m, _ = update(t, m, SessionMsg{State: signedIn})
	assert.Equal(t, LayoutAuth, m.Layout())
	assert.False(t, m.state.Authenticated())
}
