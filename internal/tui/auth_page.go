package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// challengeFlow is what the auth page drives; both the login and the signup
// challenges implement it.
type challengeFlow interface {
	SetEmail(email string)
	SetCode(code string)
	CanSubmitEmail() bool
	CanSubmitCode() bool
	ChangeEmail()
	Snapshot() auth.Snapshot
	SubmitEmail(ctx context.Context) error
	SubmitCode(ctx context.Context) error
}

type challengeDoneMsg struct {
	flow challengeFlow
	err  error
}

// AuthPageKeyMap holds key bindings for the sign-in screen
type AuthPageKeyMap struct {
	submit      key.Binding
	switchMode  key.Binding
	changeEmail key.Binding
	google      key.Binding
	quit        key.Binding
}

func newAuthPageKeyMap() *AuthPageKeyMap {
	return &AuthPageKeyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Continue"),
		),
		switchMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Login / Sign up"),
		),
		changeEmail: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "Change email"),
		),
		google: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Sign in with Google"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// AuthPage is the login-or-signup screen shown while nobody is signed in.
type AuthPage struct {
	flows  *auth.Flows
	keys   *AuthPageKeyMap
	signup bool
	login  *auth.LoginChallenge
	reg    *auth.SignupChallenge

	email   textinput.Model
	code    textinput.Model
	profile form

	// notice is a message from outside the challenge, such as a failed
	// provider redirect.
	notice string
	// completing is set while a landing callback is exchanged for tokens.
	completing bool

	width  int
	height int
}

// NewAuthPage mounts the sign-in screen with a fresh login challenge.
func NewAuthPage(flows *auth.Flows, notice string) AuthPage {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Width = 40
	email.Focus()

	code := textinput.New()
	code.Placeholder = "123456"
	code.CharLimit = auth.CodeLength
	code.Width = auth.CodeLength + 2

	return AuthPage{
		flows:   flows,
		keys:    newAuthPageKeyMap(),
		login:   flows.NewLogin(),
		email:   email,
		code:    code,
		profile: newProfileForm(),
		notice:  notice,
	}
}

func newProfileForm() form {
	return newForm(
		field{label: "Full name"},
		field{label: "Username"},
		field{label: "Phone number"},
		field{label: "City"},
	)
}

func (m AuthPage) flow() challengeFlow {
	if m.signup {
		return m.reg
	}
	return m.login
}

// Snapshot is the state of the active challenge.
func (m AuthPage) Snapshot() auth.Snapshot {
	return m.flow().Snapshot()
}

// Completing reports whether a landing callback is being exchanged.
func (m AuthPage) Completing() bool {
	return m.completing
}

// Signup reports whether the signup flow is active.
func (m AuthPage) Signup() bool {
	return m.signup
}

func (m AuthPage) Init() tea.Cmd {
	return textinput.Blink
}

func (m AuthPage) Update(msg tea.Msg) (AuthPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case challengeDoneMsg:
		// a result for a challenge this page no longer drives
		if msg.flow != m.flow() {
			return m, nil
		}
		cmd := m.focusStep()
		return m, cmd

	case browserOpenedMsg:
		if msg.err != nil {
			m.notice = auth.MsgBrowserOpenError
		} else {
			m.notice = "Continue in your browser."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m AuthPage) handleKey(msg tea.KeyMsg) (AuthPage, tea.Cmd) {
	snap := m.Snapshot()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case m.completing:
		return m, nil

	case key.Matches(msg, m.keys.google):
		nav, target := m.flows.Navigator, m.flows.SignInURL
		return m, func() tea.Msg {
			return browserOpenedMsg{err: nav.Open(target)}
		}

	case key.Matches(msg, m.keys.switchMode):
		if snap.Step != auth.StepAwaitingEmail || snap.Busy {
			return m, nil
		}
		m.signup = !m.signup
		if m.signup {
			m.reg = m.flows.NewSignup()
		} else {
			m.login = m.flows.NewLogin()
		}
		m.flow().SetEmail(m.email.Value())
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.changeEmail):
		m.flow().ChangeEmail()
		m.code.SetValue("")
		cmd := m.focusStep()
		return m, cmd

	case key.Matches(msg, m.keys.submit):
		return m.submit(snap)
	}
	return m.updateInputs(msg)
}

// submit fires the request for the current step. The challenge itself
// refuses a second submit while one is in flight.
func (m AuthPage) submit(snap auth.Snapshot) (AuthPage, tea.Cmd) {
	flow := m.flow()
	m.notice = ""
	switch snap.Step {
	case auth.StepAwaitingEmail:
		if !flow.CanSubmitEmail() {
			return m, nil
		}
		return m, func() tea.Msg {
			return challengeDoneMsg{flow: flow, err: flow.SubmitEmail(context.Background())}
		}
	case auth.StepAwaitingCode:
		if !flow.CanSubmitCode() {
			return m, nil
		}
		return m, func() tea.Msg {
			return challengeDoneMsg{flow: flow, err: flow.SubmitCode(context.Background())}
		}
	case auth.StepAwaitingProfile:
		if !m.profile.Last() {
			cmd := m.profile.Move(1)
			return m, cmd
		}
		reg := m.reg
		reg.SetDraft(m.draft())
		if !reg.CanSubmitProfile() {
			return m, nil
		}
		return m, func() tea.Msg {
			return challengeDoneMsg{flow: reg, err: reg.SubmitProfile(context.Background())}
		}
	}
	return m, nil
}

func (m AuthPage) draft() auth.ProfileDraft {
	return auth.ProfileDraft{
		FullName:    m.profile.Value(0),
		Username:    m.profile.Value(1),
		PhoneNumber: m.profile.Value(2),
		City:        m.profile.Value(3),
	}
}

// updateInputs forwards msg to the input of the current step and mirrors
// its value into the challenge.
func (m AuthPage) updateInputs(msg tea.Msg) (AuthPage, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Snapshot().Step {
	case auth.StepAwaitingEmail:
		m.email, cmd = m.email.Update(msg)
		m.flow().SetEmail(m.email.Value())
	case auth.StepAwaitingCode:
		m.code, cmd = m.code.Update(msg)
		m.flow().SetCode(m.code.Value())
	case auth.StepAwaitingProfile:
		m.profile, cmd = m.profile.Update(msg)
		if m.reg != nil {
			m.reg.SetDraft(m.draft())
		}
	}
	return m, cmd
}

// focusStep moves focus to the input of the step the challenge is in.
func (m *AuthPage) focusStep() tea.Cmd {
	m.email.Blur()
	m.code.Blur()
	switch m.Snapshot().Step {
	case auth.StepAwaitingEmail:
		return m.email.Focus()
	case auth.StepAwaitingCode:
		return m.code.Focus()
	}
	return nil
}

func (m AuthPage) View() string {
	snap := m.Snapshot()

	heading := "Sign in"
	if m.signup {
		heading = "Create an account"
	}
	title := titleStyle.Render("Hotel Console · " + heading)

	var body strings.Builder
	switch {
	case m.completing:
		body.WriteString(statusMessageStyle("Completing Google sign-in..."))
	case snap.Step == auth.StepAwaitingEmail:
		body.WriteString(editHeaderStyle.Render("Email"))
		body.WriteString("\n")
		body.WriteString(m.email.View())
		body.WriteString("\n\n")
		body.WriteString(m.action("Send code", m.flow().CanSubmitEmail(), snap.Busy, "Sending code..."))
	case snap.Step == auth.StepAwaitingCode:
		body.WriteString(fmt.Sprintf("We sent a %d-digit code to %s\n\n", auth.CodeLength, snap.Email))
		body.WriteString(editHeaderStyle.Render("Code"))
		body.WriteString("\n")
		body.WriteString(m.code.View())
		body.WriteString("\n\n")
		body.WriteString(m.action("Verify", m.flow().CanSubmitCode(), snap.Busy, "Verifying..."))
	case snap.Step == auth.StepAwaitingProfile:
		body.WriteString("Almost there, tell us about you.\n\n")
		body.WriteString(m.profile.View())
		body.WriteString(m.action("Create account", m.reg.CanSubmitProfile(), snap.Busy, "Creating account..."))
	}

	if msg := firstNonEmpty(snap.Error, m.notice); msg != "" {
		body.WriteString("\n\n")
		body.WriteString(errorMessageStyle(msg))
	}

	help := []string{"enter: Continue"}
	if snap.Step == auth.StepAwaitingEmail {
		help = append(help, "ctrl+t: Login / Sign up", "ctrl+g: Sign in with Google")
	}
	if snap.Step == auth.StepAwaitingCode {
		help = append(help, "ctrl+e: Change email")
	}
	help = append(help, "ctrl+c: Quit")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		title,
		"",
		body.String(),
		"",
		helpStyle.Render(strings.Join(help, " • ")),
	)
	return docStyle.Render(content)
}

// action renders the submit control, dimmed while disabled.
func (m AuthPage) action(label string, enabled, busy bool, busyLabel string) string {
	switch {
	case busy:
		return statusMessageStyle(busyLabel)
	case enabled:
		return navActiveStyle.Render(label)
	default:
		return navStyle.Render(label)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
