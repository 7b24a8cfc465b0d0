package auth

import (
	"context"

	"github.com/brizzai/hotel-console/internal/logger"
	"go.uber.org/zap"
)

// LoginChallenge drives the email + one-time code login. A successful
// verification hands the access token to the session and ends the flow.
type LoginChallenge struct {
	challenge
	api     LoginAPI
	session TokenSetter
}

func NewLoginChallenge(api LoginAPI, session TokenSetter) *LoginChallenge {
	return &LoginChallenge{api: api, session: session}
}

// SubmitEmail requests a login code for the entered email.
func (l *LoginChallenge) SubmitEmail(ctx context.Context) error {
	err := l.sendCode(ctx, l.api.SendLoginOTP)
	if err != nil {
		logger.Info("login code request failed", logger.Email(l.Snapshot().Email), zap.Error(err))
	}
	return err
}

// SubmitCode verifies the entered code. Only the access token of the returned
// pair is kept.
func (l *LoginChallenge) SubmitCode(ctx context.Context) error {
	email, code, err := l.begin(StepAwaitingCode, func() bool { return CanSubmitCode(l.code) })
	if err != nil {
		return err
	}

	pair, err := l.api.VerifyLoginOTP(ctx, email, code)
	if err == nil && pair.AccessToken == "" {
		err = errMissingAccessToken
	}
	// the flow is discarded once the session owns the token
	l.finish(err, StepAwaitingCode, MsgInvalidCode)
	if err != nil {
		logger.Info("login code rejected", logger.Email(email), zap.Error(err))
		return err
	}

	logger.Info("login verified", logger.Email(email))
	l.session.SetToken(pair.AccessToken)
	return nil
}
