package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const landingPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>hotel-console</title></head>
<body><p>%s</p><p>You can close this tab and return to the console.</p></body></html>
`

// CallbackListener stands in for the browser tab the provider redirects back
// to. Each hit on the callback path is a fresh page load: the cookies the
// auth service set are copied into the console's jar and the landing URL is
// handed to OnLanding.
type CallbackListener struct {
	callbackURL *url.URL
	authOrigin  *url.URL
	jar         http.CookieJar
	onLanding   func(*url.URL)

	srv *http.Server
	ln  net.Listener
}

// NewCallbackListener prepares a listener for cfg.OAuth.CallbackURL. onLanding
// runs on the server goroutine.
func NewCallbackListener(cfg *config.Config, jar http.CookieJar, onLanding func(*url.URL)) (*CallbackListener, error) {
	cb, err := url.Parse(cfg.OAuth.CallbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback url: %w", err)
	}
	origin, err := url.Parse(cfg.Endpoints.Auth.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth base url: %w", err)
	}
	origin = &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"}

	l := &CallbackListener{
		callbackURL: cb,
		authOrigin:  origin,
		jar:         jar,
		onLanding:   onLanding,
	}
	l.srv = &http.Server{
		Handler:           l.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return l, nil
}

// Routes returns the listener's handler.
func (l *CallbackListener) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	path := l.callbackURL.Path
	if path == "" {
		path = "/"
	}
	r.Get(path, l.handleCallback)
	return r
}

func (l *CallbackListener) handleCallback(w http.ResponseWriter, r *http.Request) {
	if cookies := r.Cookies(); len(cookies) > 0 && l.jar != nil {
		l.jar.SetCookies(l.authOrigin, cookies)
	}

	landing := *l.callbackURL
	landing.RawQuery = r.URL.RawQuery

	status := "Sign-in received."
	if cb, ok := ParseCallback(&landing); ok && cb.Error != "" {
		status = "Sign-in failed: " + cb.Error
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, landingPage, html.EscapeString(status))

	logger.Debug("oauth2 callback received", zap.Bool("has_cookies", len(r.Cookies()) > 0))
	if l.onLanding != nil {
		l.onLanding(&landing)
	}
}

// Start binds the callback host and serves in the background.
func (l *CallbackListener) Start() error {
	ln, err := net.Listen("tcp", l.callbackURL.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.callbackURL.Host, err)
	}
	l.ln = ln
	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("callback listener stopped", zap.Error(err))
		}
	}()
	logger.Info("oauth2 callback listener started", zap.String("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the listener down.
func (l *CallbackListener) Stop(ctx context.Context) error {
	if l.ln == nil {
		return nil
	}
	return l.srv.Shutdown(ctx)
}
