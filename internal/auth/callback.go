package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/brizzai/hotel-console/internal/requester"
	"go.uber.org/zap"
)

// Location is the console's address bar: the URL it landed on and a way to
// rewrite its query without a new page load.
type Location interface {
	URL() *url.URL
	ReplaceQuery(rawQuery string)
}

// MemoryLocation is a Location held in memory.
type MemoryLocation struct {
	mu  sync.Mutex
	url *url.URL
}

// NewMemoryLocation parses raw; an empty raw gives an empty location.
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{url: u}, nil
}

// URL returns a copy of the current URL.
func (l *MemoryLocation) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *l.url
	return &cp
}

func (l *MemoryLocation) ReplaceQuery(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url.RawQuery = rawQuery
	l.url.ForceQuery = false
}

// Navigate replaces the whole URL, as a fresh page load would.
func (l *MemoryLocation) Navigate(u *url.URL) {
	cp := *u
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url = &cp
}

// CallbackContext is what the OAuth2 provider redirect left in the query string.
// Exactly one of a successful UserID or Error is meaningful.
type CallbackContext struct {
	Success bool
	UserID  string
	Error   string
}

// IsCallback reports whether u carries an OAuth2 redirect result.
func IsCallback(u *url.URL) bool {
	if u == nil {
		return false
	}
	return strings.Contains(u.RawQuery, "success=true") || strings.Contains(u.RawQuery, "error=")
}

// ParseCallback extracts the redirect result from u. ok is false when u is not a callback.
func ParseCallback(u *url.URL) (cb CallbackContext, ok bool) {
	if !IsCallback(u) {
		return CallbackContext{}, false
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		return CallbackContext{Error: e}, true
	}
	return CallbackContext{Success: q.Get("success") == "true", UserID: q.Get("user_id")}, true
}

// CallbackAPI redeems the cookies the provider redirect left behind.
type CallbackAPI interface {
	CallbackTokens(ctx context.Context) (*authapi.TokenPair, error)
}

// CallbackResult reports what CompleteRedirect did.
type CallbackResult struct {
	// Handled is false when the location carried no redirect result.
	Handled bool
	// Exchanged is true when the token exchange endpoint was called.
	Exchanged bool
	// Error is the message to show on the login screen, empty on success.
	Error string
}

// RedirectCompleter finishes the OAuth2 flow on the landing page load.
type RedirectCompleter struct {
	api     CallbackAPI
	session TokenSetter
}

func NewRedirectCompleter(api CallbackAPI, session TokenSetter) *RedirectCompleter {
	return &RedirectCompleter{api: api, session: session}
}

// CompleteRedirect inspects loc and, if it carries a provider redirect result,
// exchanges it for tokens. The query string is stripped in every handled case,
// so calling it again on the same location is a no-op.
func (r *RedirectCompleter) CompleteRedirect(ctx context.Context, loc Location) CallbackResult {
	cb, ok := ParseCallback(loc.URL())
	if !ok {
		return CallbackResult{}
	}
	defer loc.ReplaceQuery("")

	if cb.Error != "" {
		logger.Info("oauth2 redirect returned an error", zap.String("error", cb.Error))
		return CallbackResult{Handled: true, Error: cb.Error}
	}
	if !cb.Success || cb.UserID == "" {
		logger.Info("oauth2 redirect without a user id")
		return CallbackResult{Handled: true, Error: MsgOAuthFailed}
	}

	pair, err := r.api.CallbackTokens(ctx)
	if err != nil {
		logger.Warn("oauth2 token exchange failed", zap.Error(err))
		return CallbackResult{Handled: true, Exchanged: true, Error: callbackMessage(err)}
	}
	if !pair.Complete() {
		return CallbackResult{Handled: true, Exchanged: true, Error: MsgTokensMissing}
	}

	logger.Info("oauth2 sign-in completed", zap.String("user_id", cb.UserID))
	r.session.SetToken(pair.AccessToken)
	return CallbackResult{Handled: true, Exchanged: true}
}

func callbackMessage(err error) string {
	if errors.Is(err, requester.ErrNetwork) {
		return MsgOAuthIncomplete
	}
	return FlowMessage(err, MsgTokensMissing)
}
