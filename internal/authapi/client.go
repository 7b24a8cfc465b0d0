// Package authapi is a typed client of the authentication service.
package authapi

import (
	"context"
	"io"
	"net/http"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/requester"
)

var (
	routeSendLoginOTP = &requester.RouteConfig{
		Path: "/auth/login/send-otp", Method: http.MethodPost, Description: "Send login OTP",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email"}},
	}
	routeVerifyLoginOTP = &requester.RouteConfig{
		Path: "/auth/login/verify-otp", Method: http.MethodPost, Description: "Verify login OTP",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email", "otp"}},
	}
	routeSendSignupOTP = &requester.RouteConfig{
		Path: "/auth/send-otp", Method: http.MethodPost, Description: "Send signup OTP",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email"}},
	}
	routeVerifySignupOTP = &requester.RouteConfig{
		Path: "/auth/verify-otp", Method: http.MethodPost, Description: "Verify signup OTP",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email", "otp"}},
	}
	routeCompleteSignup = &requester.RouteConfig{
		Path: "/auth/complete-signup", Method: http.MethodPost, Description: "Complete signup",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email", "fullName", "username", "phoneNumber", "city"}},
	}
	routeCallbackTokens = &requester.RouteConfig{
		Path: "/auth/callback/tokens", Method: http.MethodGet, Description: "OAuth2 callback exchange",
	}
	routeLogout = &requester.RouteConfig{
		Path: "/auth/logout", Method: http.MethodPost, Description: "Logout",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"refreshToken"}},
	}
	routeProfile = &requester.RouteConfig{
		Path: "/profile", Method: http.MethodGet, Description: "Get profile",
	}
	routeUpdateProfile = &requester.RouteConfig{
		Path: "/profile", Method: http.MethodPut, Description: "Update profile",
		MethodConfig: requester.MethodConfig{BodyFields: []string{"email", "username", "fullName", "phoneNumber", "city"}},
	}
	routeUploadProfileImage = &requester.RouteConfig{
		Path: "/profile/upload-image", Method: http.MethodPost, Description: "Upload profile photo",
		MethodConfig: requester.MethodConfig{FormFields: []string{"file"}},
	}
	routeDeleteProfileImage = &requester.RouteConfig{
		Path: "/profile/delete-image", Method: http.MethodDelete, Description: "Delete profile photo",
	}
)

// Routes lists every auth service route the console calls.
func Routes() []*requester.RouteConfig {
	return []*requester.RouteConfig{
		routeSendLoginOTP,
		routeVerifyLoginOTP,
		routeSendSignupOTP,
		routeVerifySignupOTP,
		routeCompleteSignup,
		routeCallbackTokens,
		routeLogout,
		routeProfile,
		routeUpdateProfile,
		routeUploadProfileImage,
		routeDeleteProfileImage,
	}
}

// Client talks to the authentication service. The OTP and callback calls are
// anonymous; the profile calls present the token they are given.
type Client struct {
	gw *requester.HTTPRequester
}

// NewClient creates an auth service client sharing httpClient (and its cookie jar).
func NewClient(httpClient *http.Client, cfg *config.Config) *Client {
	return &Client{
		gw: requester.NewHTTPRequester(httpClient, &cfg.Endpoints.Auth, requester.NoAuthManager{}),
	}
}

func body(v interface{}) map[string]interface{} {
	return map[string]interface{}{"body": v}
}

// SendLoginOTP asks the service to mail a login code to email.
func (c *Client) SendLoginOTP(ctx context.Context, email string) error {
	return c.gw.Call(ctx, routeSendLoginOTP, body(emailRequest{Email: email}), nil)
}

// VerifyLoginOTP exchanges a login code for a token pair.
func (c *Client) VerifyLoginOTP(ctx context.Context, email, otp string) (*TokenPair, error) {
	var out TokenPair
	if err := c.gw.Call(ctx, routeVerifyLoginOTP, body(otpRequest{Email: email, OTP: otp}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendSignupOTP asks the service to mail a signup code to email.
func (c *Client) SendSignupOTP(ctx context.Context, email string) error {
	return c.gw.Call(ctx, routeSendSignupOTP, body(emailRequest{Email: email}), nil)
}

// VerifySignupOTP checks a signup code. No tokens are issued until CompleteSignup.
func (c *Client) VerifySignupOTP(ctx context.Context, email, otp string) error {
	return c.gw.Call(ctx, routeVerifySignupOTP, body(otpRequest{Email: email, OTP: otp}), nil)
}

// CompleteSignup creates the account and returns its first token pair.
func (c *Client) CompleteSignup(ctx context.Context, req SignupRequest) (*TokenPair, error) {
	var out TokenPair
	if err := c.gw.Call(ctx, routeCompleteSignup, body(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CallbackTokens redeems the cookies the OAuth2 provider redirect left in the
// client's cookie jar.
func (c *Client) CallbackTokens(ctx context.Context) (*TokenPair, error) {
	var out TokenPair
	if err := c.gw.Call(ctx, routeCallbackTokens, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the service the session is over. The service expects the
// current access token in the refreshToken field.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.gw.Call(ctx, routeLogout, body(logoutRequest{RefreshToken: token}), nil)
}

// Profile fetches the user owning token.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.gw.WithAuth(requester.StaticBearer(token)).Call(ctx, routeProfile, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile saves the editable profile fields of the user owning token.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error {
	return c.gw.WithAuth(requester.StaticBearer(token)).Call(ctx, routeUpdateProfile, body(update), nil)
}

// UploadProfileImage replaces the profile photo with the contents of r.
func (c *Client) UploadProfileImage(ctx context.Context, token, filename string, r io.Reader) error {
	params := map[string]interface{}{
		"file": &requester.FormFile{Filename: filename, Content: r},
	}
	return c.gw.WithAuth(requester.StaticBearer(token)).Call(ctx, routeUploadProfileImage, params, nil)
}

// DeleteProfileImage removes the profile photo.
func (c *Client) DeleteProfileImage(ctx context.Context, token string) error {
	return c.gw.WithAuth(requester.StaticBearer(token)).Call(ctx, routeDeleteProfileImage, nil, nil)
}
