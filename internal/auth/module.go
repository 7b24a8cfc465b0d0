package auth

import (
	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/session"
	"go.uber.org/fx"
)

// Flows hands out fresh challenges and holds the pieces of the redirect flow.
type Flows struct {
	api       *authapi.Client
	session   *session.Store
	Redirect  *RedirectCompleter
	Location  *MemoryLocation
	Navigator Navigator
	SignInURL string
}

type FlowsParams struct {
	fx.In

	Config    *config.Config
	API       *authapi.Client
	Session   *session.Store
	Navigator Navigator
}

func NewFlows(p FlowsParams) (*Flows, error) {
	loc, err := NewMemoryLocation(p.Config.LandingURL)
	if err != nil {
		return nil, err
	}
	signIn, err := SignInURL(p.Config)
	if err != nil {
		return nil, err
	}
	return &Flows{
		api:       p.API,
		session:   p.Session,
		Redirect:  NewRedirectCompleter(p.API, p.Session),
		Location:  loc,
		Navigator: p.Navigator,
		SignInURL: signIn,
	}, nil
}

// NewLogin starts a login flow at the email step.
func (f *Flows) NewLogin() *LoginChallenge {
	return NewLoginChallenge(f.api, f.session)
}

// NewSignup starts a signup flow at the email step.
func (f *Flows) NewSignup() *SignupChallenge {
	return NewSignupChallenge(f.api, f.session)
}

// Module provides the authentication flows
var Module = fx.Options(
	fx.Provide(
		NewFlows,
		fx.Annotate(
			NewBrowserNavigator,
			fx.As(new(Navigator)),
		),
	),
)
