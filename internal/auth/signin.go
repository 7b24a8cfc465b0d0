package auth

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/pkg/browser"
)

// SignInURL is where the browser goes to start the provider sign-in. The auth
// service serves it from its origin, outside the /api/v1 prefix.
func SignInURL(cfg *config.Config) (string, error) {
	base, err := url.Parse(cfg.Endpoints.Auth.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid auth base url: %w", err)
	}
	provider := cfg.OAuth.Provider
	if provider == "" {
		provider = "google"
	}

	u := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   strings.TrimSuffix(strings.TrimSuffix(base.Path, "/"), "/api/v1") + "/oauth2/authorization/" + url.PathEscape(provider),
	}
	u.RawQuery = url.Values{"redirect_uri": {cfg.OAuth.CallbackURL}}.Encode()
	return u.String(), nil
}

// Navigator hands a URL to the system browser.
type Navigator interface {
	Open(url string) error
}

// BrowserNavigator opens URLs with the platform's default handler.
type BrowserNavigator struct {
	openURL func(string) error
}

// NewBrowserNavigator returns a navigator backed by the system browser. The
// launcher's own output is discarded since the terminal belongs to the console.
func NewBrowserNavigator() BrowserNavigator {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return BrowserNavigator{openURL: browser.OpenURL}
}

// Open only accepts http(s) URLs.
func (n BrowserNavigator) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q in a browser", target)
	}
	open := n.openURL
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(target); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
