package tui

import (
	"context"
	"io"
	"strings"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/session"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProfileEditor is the part of the auth service the profile screens use.
type ProfileEditor interface {
	UpdateProfile(ctx context.Context, token string, update authapi.ProfileUpdate) error
	UploadProfileImage(ctx context.Context, token, filename string, r io.Reader) error
	DeleteProfileImage(ctx context.Context, token string) error
}

// Deps are what the router and its screens talk to.
type Deps struct {
	Session     *session.Store
	Flows       *auth.Flows
	Clients     *services.Clients
	Account     ProfileEditor
	DefaultView View
}

// appKeyMap holds the shell-wide bindings
type appKeyMap struct {
	next    key.Binding
	prev    key.Binding
	sidebar key.Binding
	profile key.Binding
	quit    key.Binding
	up      key.Binding
	down    key.Binding
	choose  key.Binding
	close   key.Binding
}

func newAppKeyMap() *appKeyMap {
	return &appKeyMap{
		next:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "Next view")),
		prev:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "Previous view")),
		sidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "Menu")),
		profile: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "Profile")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Quit")),
		up:      key.NewBinding(key.WithKeys("up", "k")),
		down:    key.NewBinding(key.WithKeys("down", "j")),
		choose:  key.NewBinding(key.WithKeys("enter")),
		close:   key.NewBinding(key.WithKeys("esc")),
	}
}

// sidebarEntry is one line of the menu; logout entries have no view.
type sidebarEntry struct {
	label  string
	view   View
	logout bool
}

func sidebarEntries() []sidebarEntry {
	var out []sidebarEntry
	for _, v := range Views() {
		out = append(out, sidebarEntry{label: v.String(), view: v})
	}
	return append(out, sidebarEntry{label: "log out", logout: true})
}

// AppModel is the view router: it picks the layout from the session state
// and mounts the screen for the selected view.
type AppModel struct {
	deps  *Deps
	keys  *appKeyMap
	state session.State
	view  View
	// last is the shell view full-screen views return to.
	last View

	authPage    AuthPage
	authMounted bool
	// notice waits for the next auth page mount.
	notice string

	active   screen
	activeID int
	nextID   int

	sidebar   bool
	sideIndex int
	spinner   spinner.Model
	spinning  bool

	width  int
	height int
}

// NewAppModel creates the router in the current session state.
func NewAppModel(deps *Deps) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f56a96"))

	return AppModel{
		deps:    deps,
		keys:    newAppKeyMap(),
		state:   deps.Session.GetState(),
		view:    deps.DefaultView,
		last:    deps.DefaultView,
		spinner: s,
	}
}

// Init completes a pending provider redirect, then ends the bootstrap phase.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.completeRedirect(true))
}

func (m AppModel) completeRedirect(bootstrap bool) tea.Cmd {
	redirect, loc, store := m.deps.Flows.Redirect, m.deps.Flows.Location, m.deps.Session
	return func() tea.Msg {
		res := redirect.CompleteRedirect(context.Background(), loc)
		if bootstrap {
			store.Bootstrap()
		}
		return redirectDoneMsg{result: res}
	}
}

// Layout is the frame currently drawn.
func (m AppModel) Layout() Layout {
	return Route(m.state, m.view)
}

// ActiveView is the selected view; it only matters once signed in.
func (m AppModel) ActiveView() View {
	return m.view
}

// AuthPage is the mounted sign-in screen.
func (m AppModel) AuthPage() AuthPage {
	return m.authPage
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionMsg:
		// deliveries can lag behind the store; the store is the source of truth
		m.state = m.deps.Session.GetState()
		cmd := m.sync()
		return m, cmd

	case redirectDoneMsg:
		m.authPage.completing = false
		if msg.result.Error != "" {
			if m.authMounted {
				m.authPage.notice = msg.result.Error
			} else {
				m.notice = msg.result.Error
			}
		}
		m.state = m.deps.Session.GetState()
		cmd := m.sync()
		return m, cmd

	case LandingMsg:
		m.deps.Flows.Location.Navigate(msg.URL)
		if m.authMounted && auth.IsCallback(msg.URL) {
			m.authPage.completing = true
		}
		return m, m.completeRedirect(false)

	case NavigateMsg:
		if !m.state.Authenticated() {
			return m, nil
		}
		cmd := m.mount(msg.View, msg.Status)
		return m, cmd

	case BackMsg:
		if !m.state.Authenticated() {
			return m, nil
		}
		cmd := m.mount(m.last, "")
		return m, cmd

	case spinner.TickMsg:
		if m.Layout() != LayoutLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.spinning = true
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmds []tea.Cmd
		if m.authMounted {
			var cmd tea.Cmd
			m.authPage, cmd = m.authPage.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.active != nil {
			var cmd tea.Cmd
			m.active, cmd = m.active.Update(m.contentSize())
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.Layout() == LayoutShell {
			if handled, cmd := m.handleShellKey(msg); handled {
				return m, cmd
			}
			if m.sidebar {
				return m, nil
			}
		}

	case ownedMsg:
		if m.active == nil || msg.owner() != m.activeID {
			return m, nil
		}
	}

	return m.delegate(msg)
}

// delegate hands msg to whatever the current layout shows.
func (m AppModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Layout() {
	case LayoutAuth:
		if m.authMounted {
			m.authPage, cmd = m.authPage.Update(msg)
		}
	case LayoutShell, LayoutFullScreen:
		if m.active != nil {
			m.active, cmd = m.active.Update(msg)
		}
	}
	return m, cmd
}

// handleShellKey processes navigation chrome keys. It reports false for keys
// that belong to the screen.
func (m *AppModel) handleShellKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	capturing := m.active != nil && m.active.Capturing()
	entries := sidebarEntries()

	if m.sidebar {
		switch {
		case key.Matches(msg, m.keys.sidebar), key.Matches(msg, m.keys.close):
			m.sidebar = false
			return true, m.resize()
		case key.Matches(msg, m.keys.up):
			m.sideIndex = (m.sideIndex - 1 + len(entries)) % len(entries)
			return true, nil
		case key.Matches(msg, m.keys.down):
			m.sideIndex = (m.sideIndex + 1) % len(entries)
			return true, nil
		case key.Matches(msg, m.keys.choose):
			m.sidebar = false
			entry := entries[m.sideIndex]
			if entry.logout {
				return true, m.logout()
			}
			return true, m.mount(entry.view, "")
		}
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.next):
		return true, m.mount(m.cycle(1), "")
	case key.Matches(msg, m.keys.prev):
		return true, m.mount(m.cycle(-1), "")
	case key.Matches(msg, m.keys.sidebar):
		m.sidebar = true
		m.sideIndex = int(m.view)
		return true, m.resize()
	case key.Matches(msg, m.keys.profile):
		return true, m.mount(ViewProfile, "")
	case !capturing && msg.String() == "q":
		return true, tea.Quit
	}
	return false, nil
}

func (m AppModel) logout() tea.Cmd {
	store := m.deps.Session
	return func() tea.Msg {
		store.Clear()
		return nil
	}
}

// cycle returns the navigation view delta steps away from the current one.
func (m AppModel) cycle(delta int) View {
	nav := NavViews()
	idx := 0
	for i, v := range nav {
		if v == m.view {
			idx = i
		}
	}
	return nav[((idx+delta)%len(nav)+len(nav))%len(nav)]
}

// sync reconciles mounted screens with the layout after a state change.
func (m *AppModel) sync() tea.Cmd {
	var cmds []tea.Cmd
	layout := m.Layout()

	if layout != LayoutAuth {
		m.authMounted = false
	}
	if !m.state.Authenticated() {
		// a new sign-in starts over from the default view
		m.active = nil
		m.sidebar = false
		m.view = m.deps.DefaultView
		m.last = m.deps.DefaultView
	}

	switch layout {
	case LayoutLoading:
		if !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
	case LayoutAuth:
		if !m.authMounted {
			m.authPage = NewAuthPage(m.deps.Flows, m.notice)
			m.notice = ""
			m.authMounted = true
			var cmd tea.Cmd
			m.authPage, cmd = m.authPage.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			cmds = append(cmds, m.authPage.Init(), cmd)
		}
	case LayoutShell, LayoutFullScreen:
		if m.active == nil {
			cmds = append(cmds, m.mount(m.view, ""))
		}
	}
	return tea.Batch(cmds...)
}

// mount replaces the active screen with a fresh one for v.
func (m *AppModel) mount(v View, status string) tea.Cmd {
	m.nextID++
	m.activeID = m.nextID
	m.view = v
	if !v.FullScreen() {
		m.last = v
	}
	m.active = newScreen(v, m.activeID, m.deps, status)

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(m.contentSize())
	return tea.Batch(m.active.Init(), cmd)
}

func (m *AppModel) resize() tea.Cmd {
	if m.active == nil {
		return nil
	}
	var cmd tea.Cmd
	m.active, cmd = m.active.Update(m.contentSize())
	return cmd
}

const (
	headerHeight = 3
	sidebarWidth = 22
)

// contentSize is the area left to the screen once the chrome is drawn.
func (m AppModel) contentSize() tea.WindowSizeMsg {
	if m.view.FullScreen() {
		return tea.WindowSizeMsg{Width: m.width, Height: m.height}
	}
	w, h := m.width, m.height-headerHeight
	if m.sidebar {
		w -= sidebarWidth
	}
	return tea.WindowSizeMsg{Width: max(w, 0), Height: max(h, 0)}
}

// View renders the active layout
func (m AppModel) View() string {
	switch m.Layout() {
	case LayoutLoading:
		return docStyle.Render(m.spinner.View() + " Loading...")
	case LayoutAuth:
		return m.authPage.View()
	case LayoutFullScreen:
		if m.active == nil {
			return ""
		}
		return m.active.View()
	default:
		return m.shellView()
	}
}

func (m AppModel) shellView() string {
	var tabs []string
	for _, v := range NavViews() {
		if v == m.view {
			tabs = append(tabs, navActiveStyle.Render(v.String()))
		} else {
			tabs = append(tabs, navStyle.Render(v.String()))
		}
	}
	user := ""
	if m.state.CurrentUser != nil {
		user = helpStyle.Render(m.state.CurrentUser.DisplayName())
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " "), "  ", user)
	help := helpStyle.Render("ctrl+n/ctrl+p: Switch view • ctrl+b: Menu • ctrl+o: Profile • ctrl+c: Quit")

	content := ""
	if m.active != nil {
		content = m.active.View()
	}
	if m.sidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, help, "", content)
}

func (m AppModel) sidebarView() string {
	var lines []string
	for i, e := range sidebarEntries() {
		if i == m.sideIndex {
			lines = append(lines, navActiveStyle.Render(e.label))
		} else {
			lines = append(lines, navStyle.Render(e.label))
		}
	}
	return sidebarStyle.Width(sidebarWidth - 4).Render(strings.Join(lines, "\n"))
}
