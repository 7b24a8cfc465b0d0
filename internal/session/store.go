// Package session holds the console's single in-memory session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNoSession is returned by Refresh when there is no session, or it ended
// while the profile was loading.
var ErrNoSession = errors.New("not signed in")

// State is a snapshot of the session. An empty AccessToken means no token.
// CurrentUser is set only once a profile fetch for the current token succeeded.
type State struct {
	AccessToken string
	IsLoading   bool
	CurrentUser *authapi.Profile
}

// Authenticated reports whether the session has a verified user.
func (s State) Authenticated() bool {
	return s.AccessToken != "" && s.CurrentUser != nil
}

// AuthService is the part of the auth service the store talks to.
type AuthService interface {
	Profile(ctx context.Context, token string) (*authapi.Profile, error)
	Logout(ctx context.Context, token string) error
}

// Store owns the session state. It is safe for concurrent use.
type Store struct {
	api     AuthService
	timeout time.Duration

	mu          sync.Mutex
	state       State
	generation  uint64
	subscribers map[int]func(State)
	nextSubID   int

	// notifyMu orders deliveries: each one reads the state it sends while
	// holding it, so the last delivery always carries the latest state.
	notifyMu sync.Mutex

	tasks sync.WaitGroup
}

// NewStore creates a store in its initial state: no token, loading.
func NewStore(api AuthService, timeout time.Duration) *Store {
	return &Store{
		api:         api,
		timeout:     timeout,
		state:       State{IsLoading: true},
		subscribers: make(map[int]func(State)),
	}
}

// Bootstrap ends the initial loading phase. Tokens are never persisted, so there
// is nothing to restore and the console starts logged out.
func (s *Store) Bootstrap() {
	s.mu.Lock()
	if !s.state.IsLoading || s.state.AccessToken != "" {
		s.mu.Unlock()
		return
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// GetState returns the current snapshot.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token implements oauth2.TokenSource. With no session it returns an empty token.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &oauth2.Token{AccessToken: s.state.AccessToken, TokenType: "Bearer"}, nil
}

// SetToken installs token and starts a profile fetch in the background. On
// success CurrentUser is set; on any failure the session is cleared. An empty
// token is the same as Clear.
func (s *Store) SetToken(token string) {
	if token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = State{AccessToken: token, IsLoading: true}
	s.mu.Unlock()

	logger.Debug("session token set, fetching profile", zap.Uint64("generation", gen))
	s.notify()

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.fetchProfile(gen, token)
	}()
}

func (s *Store) fetchProfile(gen uint64, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	profile, err := s.api.Profile(ctx, token)
	if err != nil {
		logger.Info("profile fetch failed, clearing session", zap.Error(err))
		s.clearIf(gen)
		return
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		logger.Debug("dropping stale profile response", zap.Uint64("generation", gen))
		return
	}
	s.state.CurrentUser = profile
	s.state.IsLoading = false
	s.mu.Unlock()

	logger.Info("session established", zap.String("user_id", profile.ID), logger.Email(profile.Email))
	s.notify()
}

// Refresh re-fetches the profile of the current token, for example after it was
// edited. Unlike SetToken a failure leaves the session as it was.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen, token := s.generation, s.state.AccessToken
	s.mu.Unlock()
	if token == "" {
		return ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	profile, err := s.api.Profile(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.state.CurrentUser = profile
	s.state.IsLoading = false
	s.mu.Unlock()

	s.notify()
	return nil
}

// Clear drops the session immediately and notifies the auth service in the
// background. The remote call is best-effort; its failure is only logged.
func (s *Store) Clear() {
	s.mu.Lock()
	token := s.reset()
	s.mu.Unlock()

	s.notify()
	s.logout(token)
}

// clearIf clears only if no SetToken/Clear happened since generation gen.
func (s *Store) clearIf(gen uint64) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	token := s.reset()
	s.mu.Unlock()

	s.notify()
	s.logout(token)
}

// reset must be called with mu held. It returns the token that was dropped.
func (s *Store) reset() string {
	token := s.state.AccessToken
	s.generation++
	s.state = State{}
	return token
}

func (s *Store) logout(token string) {
	if token == "" {
		return
	}
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.api.Logout(ctx, token); err != nil {
			logger.Warn("logout notification failed", zap.Error(err))
		}
	}()
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// notify delivers the current state to every subscriber. Subscribers run with
// notifyMu held and must not change the session themselves.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	st := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// Wait blocks until background profile fetches and logout notifications finish.
func (s *Store) Wait() {
	s.tasks.Wait()
}
