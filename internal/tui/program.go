package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config  *config.Config
	Session *session.Store
	Flows   *auth.Flows
	Clients *services.Clients
	Account *authapi.Client
	Jar     http.CookieJar
}

// Program runs the router and feeds it session changes and provider
// redirects from the callback listener.
type Program struct {
	program     *tea.Program
	listener    *auth.CallbackListener
	unsubscribe func()
}

func NewProgram(p Params) (*Program, error) {
	view := DefaultView
	if p.Config.UI.DefaultView != "" {
		v, err := ParseView(p.Config.UI.DefaultView)
		if err != nil {
			return nil, fmt.Errorf("ui.default_view: %w", err)
		}
		if v.FullScreen() {
			return nil, fmt.Errorf("ui.default_view: %s cannot be the start view", v)
		}
		view = v
	}

	model := NewAppModel(&Deps{
		Session:     p.Session,
		Flows:       p.Flows,
		Clients:     p.Clients,
		Account:     p.Account,
		DefaultView: view,
	})

	var opts []tea.ProgramOption
	if p.Config.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	prog := tea.NewProgram(model, opts...)

	out := &Program{program: prog}
	out.unsubscribe = p.Session.Subscribe(func(st session.State) {
		prog.Send(SessionMsg{State: st})
	})

	if !p.Config.OAuth.DisableListener {
		l, err := auth.NewCallbackListener(p.Config, p.Jar, func(u *url.URL) {
			prog.Send(LandingMsg{URL: u})
		})
		if err != nil {
			return nil, err
		}
		out.listener = l
	}
	return out, nil
}

// Start brings up the callback listener. A busy port is not fatal: the
// console still works with e-mail codes or --landing-url.
func (p *Program) Start() error {
	if p.listener == nil {
		return nil
	}
	if err := p.listener.Start(); err != nil {
		logger.Warn("oauth2 callback listener disabled", zap.Error(err))
		p.listener = nil
	}
	return nil
}

// Run blocks until the user quits.
func (p *Program) Run() error {
	_, err := p.program.Run()
	return err
}

func (p *Program) Stop(ctx context.Context) error {
	p.unsubscribe()
	if p.listener == nil {
		return nil
	}
	return p.listener.Stop(ctx)
}
