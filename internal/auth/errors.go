package auth

import (
	"errors"

	"github.com/brizzai/hotel-console/internal/requester"
)

const (
	MsgSendCodeFailed   = "Failed to send OTP"
	MsgInvalidCode      = "Invalid OTP"
	MsgSignupFailed     = "Signup failed"
	MsgNetwork          = "Network error. Please try again."
	MsgOAuthFailed      = "OAuth2 authentication failed"
	MsgTokensMissing    = "Failed to retrieve authentication tokens"
	MsgOAuthIncomplete  = "Failed to complete OAuth2 authentication"
	MsgBrowserOpenError = "Could not open the browser, visit the URL below to continue"
)

var (
	// ErrBusy is returned when an action is submitted while another is in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrNotReady is returned when the action's control would be disabled.
	ErrNotReady = errors.New("action not available in the current step")

	errMissingAccessToken = errors.New("response carried no access token")
)

// FlowMessage turns a failed flow step into the inline message shown next to
// the form: the server's own message if it sent one, else fallback.
func FlowMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, requester.ErrNetwork) {
		return MsgNetwork
	}
	var httpErr *requester.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}
