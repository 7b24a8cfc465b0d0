package auth

import (
	"context"
	"strings"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileDraft holds the account details collected after the code is verified.
type ProfileDraft struct {
	FullName    string `validate:"required"`
	Username    string `validate:"required"`
	PhoneNumber string `validate:"required"`
	City        string `validate:"required"`
}

func (d ProfileDraft) trimmed() ProfileDraft {
	return ProfileDraft{
		FullName:    strings.TrimSpace(d.FullName),
		Username:    strings.TrimSpace(d.Username),
		PhoneNumber: strings.TrimSpace(d.PhoneNumber),
		City:        strings.TrimSpace(d.City),
	}
}

// Complete reports whether every field is filled in.
func (d ProfileDraft) Complete() bool {
	return validate.Struct(d.trimmed()) == nil
}

// SignupChallenge is the login challenge with an extra profile step between
// code verification and token issue.
type SignupChallenge struct {
	challenge
	api     SignupAPI
	session TokenSetter
	draft   ProfileDraft
}

func NewSignupChallenge(api SignupAPI, session TokenSetter) *SignupChallenge {
	return &SignupChallenge{api: api, session: session}
}

// SubmitEmail requests a signup code for the entered email.
func (s *SignupChallenge) SubmitEmail(ctx context.Context) error {
	err := s.sendCode(ctx, s.api.SendSignupOTP)
	if err != nil {
		logger.Info("signup code request failed", logger.Email(s.Snapshot().Email), zap.Error(err))
	}
	return err
}

// SubmitCode verifies the code and, on success, moves to the profile step.
func (s *SignupChallenge) SubmitCode(ctx context.Context) error {
	email, code, err := s.begin(StepAwaitingCode, func() bool { return CanSubmitCode(s.code) })
	if err != nil {
		return err
	}
	err = s.api.VerifySignupOTP(ctx, email, code)
	s.finish(err, StepAwaitingProfile, MsgInvalidCode)
	return err
}

// SetDraft replaces the profile draft.
func (s *SignupChallenge) SetDraft(d ProfileDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepAwaitingProfile {
		s.draft = d
	}
}

// Draft returns the current profile draft.
func (s *SignupChallenge) Draft() ProfileDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// CanSubmitProfile reports whether the create-account control is enabled.
func (s *SignupChallenge) CanSubmitProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step == StepAwaitingProfile && !s.busy && s.draft.Complete()
}

// SubmitProfile completes the signup and hands the access token to the session.
func (s *SignupChallenge) SubmitProfile(ctx context.Context) error {
	var draft ProfileDraft
	email, _, err := s.begin(StepAwaitingProfile, func() bool {
		draft = s.draft.trimmed()
		return s.draft.Complete()
	})
	if err != nil {
		return err
	}

	pair, err := s.api.CompleteSignup(ctx, authapi.SignupRequest{
		Email:       email,
		FullName:    draft.FullName,
		Username:    draft.Username,
		PhoneNumber: draft.PhoneNumber,
		City:        draft.City,
	})
	if err == nil && pair.AccessToken == "" {
		err = errMissingAccessToken
	}
	s.finish(err, StepAwaitingProfile, MsgSignupFailed)
	if err != nil {
		logger.Info("signup completion failed", logger.Email(email), zap.Error(err))
		return err
	}

	logger.Info("signup completed", logger.Email(email))
	s.session.SetToken(pair.AccessToken)
	return nil
}
