package requester

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	authHeaderName   = "Authorization"
	authHeaderPrefix = "Bearer "
)

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// NoAuthManager sends requests anonymously.
type NoAuthManager struct{}

func (NoAuthManager) ApplyAuth(*http.Request) error { return nil }

// BearerAuthManager attaches "Authorization: Bearer <token>" using the token
// currently held by its source. An empty access token means the request goes out
// anonymously.
type BearerAuthManager struct {
	source oauth2.TokenSource
}

// NewBearerAuthManager creates an AuthManager reading tokens from source on every request.
func NewBearerAuthManager(source oauth2.TokenSource) *BearerAuthManager {
	return &BearerAuthManager{source: source}
}

// StaticBearer authenticates with a fixed token, used when the caller already
// holds the token it wants to present.
func StaticBearer(token string) *BearerAuthManager {
	return NewBearerAuthManager(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// ApplyAuth adds authentication to the request
func (a *BearerAuthManager) ApplyAuth(req *http.Request) error {
	if a.source == nil {
		return nil
	}
	tok, err := a.source.Token()
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	req.Header.Set(authHeaderName, authHeaderPrefix+tok.AccessToken)
	return nil
}
