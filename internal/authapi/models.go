package authapi

// TokenPair is what every token-issuing endpoint returns. The console keeps
// only AccessToken.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

// Complete reports whether both tokens are present.
func (p *TokenPair) Complete() bool {
	return p != nil && p.AccessToken != "" && p.RefreshToken != ""
}

// Profile is the authenticated user's projection.
type Profile struct {
	ID              string   `json:"id" yaml:"id"`
	Email           string   `json:"email" yaml:"email"`
	Username        string   `json:"username" yaml:"username"`
	FullName        string   `json:"fullName" yaml:"full_name"`
	PhoneNumber     string   `json:"phoneNumber,omitempty" yaml:"phone_number,omitempty"`
	City            string   `json:"city,omitempty" yaml:"city,omitempty"`
	ProfilePhotoURL string   `json:"profilePhotoUrl,omitempty" yaml:"profile_photo_url,omitempty"`
	Roles           []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	ProviderType    string   `json:"providerType,omitempty" yaml:"provider_type,omitempty"`
}

// DisplayName is the full name, falling back to the username.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// SignupRequest completes a signup after the code was verified.
type SignupRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
	City        string `json:"city"`
}

// ProfileUpdate is the editable part of a profile.
type ProfileUpdate struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	City        string `json:"city"`
}

// Update returns the editable fields of p.
func (p *Profile) Update() ProfileUpdate {
	return ProfileUpdate{
		Email:       p.Email,
		Username:    p.Username,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		City:        p.City,
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
