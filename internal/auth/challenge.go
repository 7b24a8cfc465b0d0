package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/brizzai/hotel-console/internal/authapi"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// Step is where a challenge flow currently stands.
type Step int

const (
	StepAwaitingEmail Step = iota
	StepAwaitingCode
	StepAwaitingProfile
)

func (s Step) String() string {
	switch s {
	case StepAwaitingEmail:
		return "awaiting-email"
	case StepAwaitingCode:
		return "awaiting-code"
	case StepAwaitingProfile:
		return "awaiting-profile"
	default:
		return "unknown"
	}
}

// CanSubmitCode reports whether code has the exact length the verify endpoints accept.
func CanSubmitCode(code string) bool {
	return len(code) == CodeLength
}

// CanSubmitEmail reports whether email is worth sending to the service.
func CanSubmitEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// TokenSetter receives the access token of a completed flow.
type TokenSetter interface {
	SetToken(token string)
}

// LoginAPI is the part of the auth service the login flow uses.
type LoginAPI interface {
	SendLoginOTP(ctx context.Context, email string) error
	VerifyLoginOTP(ctx context.Context, email, otp string) (*authapi.TokenPair, error)
}

// SignupAPI is the part of the auth service the signup flow uses.
type SignupAPI interface {
	SendSignupOTP(ctx context.Context, email string) error
	VerifySignupOTP(ctx context.Context, email, otp string) error
	CompleteSignup(ctx context.Context, req authapi.SignupRequest) (*authapi.TokenPair, error)
}

// Snapshot is a read-only view of a challenge for rendering.
type Snapshot struct {
	Step  Step
	Email string
	Code  string
	Busy  bool
	Error string
}

// challenge is the email + code state machine shared by login and signup.
type challenge struct {
	mu    sync.Mutex
	step  Step
	email string
	code  string
	busy  bool
	err   string
}

func (c *challenge) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepAwaitingEmail {
		c.email = email
	}
}

func (c *challenge) SetCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepAwaitingCode {
		c.code = code
	}
}

// CanSubmitEmail reports whether the send-code control is enabled.
func (c *challenge) CanSubmitEmail() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step == StepAwaitingEmail && !c.busy && CanSubmitEmail(c.email)
}

// CanSubmitCode reports whether the verify control is enabled.
func (c *challenge) CanSubmitCode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step == StepAwaitingCode && !c.busy && CanSubmitCode(c.code)
}

// ChangeEmail goes back to the email step, discarding the entered code.
func (c *challenge) ChangeEmail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy || c.step != StepAwaitingCode {
		return
	}
	c.step = StepAwaitingEmail
	c.code = ""
	c.err = ""
}

func (c *challenge) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Step: c.step, Email: c.email, Code: c.code, Busy: c.busy, Error: c.err}
}

// begin marks the challenge busy if it is in step and ready checks out.
// It returns the email and code to send.
func (c *challenge) begin(step Step, ready func() bool) (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return "", "", ErrBusy
	}
	if c.step != step || !ready() {
		return "", "", ErrNotReady
	}
	c.busy = true
	c.err = ""
	return strings.TrimSpace(c.email), c.code, nil
}

// finish clears busy; on success the flow moves to next, otherwise the
// step is kept and msg is surfaced.
func (c *challenge) finish(err error, next Step, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.err = FlowMessage(err, fallback)
		return
	}
	c.step = next
}

func (c *challenge) sendCode(ctx context.Context, send func(context.Context, string) error) error {
	email, _, err := c.begin(StepAwaitingEmail, func() bool { return CanSubmitEmail(c.email) })
	if err != nil {
		return err
	}
	err = send(ctx, email)
	c.finish(err, StepAwaitingCode, MsgSendCodeFailed)
	return err
}
