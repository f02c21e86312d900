package model

import "time"

// OAuthFlowState tracks one authorization attempt for a (user, platform).
type OAuthFlowState string

const (
	OAuthIdle             OAuthFlowState = "idle"
	OAuthAwaitingRedirect OAuthFlowState = "awaiting_redirect"
	OAuthExchangingCode   OAuthFlowState = "exchanging_code"
	OAuthConnected        OAuthFlowState = "connected"
	OAuthFailed           OAuthFlowState = "failed"
)

// OAuthFlow is transient and never persisted. After awaiting_redirect the
// process has no continuation; the callback request resumes it from the URL.
type OAuthFlow struct {
	Platform  PlatformID     `json:"platform"`
	State     OAuthFlowState `json:"state"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CallbackParams are the query parameters a provider returns with.
type CallbackParams struct {
	Platform  PlatformID
	Connected bool
	Username  string
	Code      string
	State     string
	Error     string
	ErrorDesc string
	// Extra keeps any other query values (page ids, channel ids) for account meta.
	Extra map[string]string
}

// HasCallback reports whether the params carry anything to process.
func (p CallbackParams) HasCallback() bool {
	return p.Connected || p.Code != "" || p.Error != ""
}

// Marker is the value the at-most-once guard is keyed on.
func (p CallbackParams) Marker() string {
	if p.Code != "" {
		return "code:" + p.Code
	}
	if p.Connected {
		return "connected:" + p.Username
	}
	return ""
}

// OAuthToken stores platform OAuth credentials per user.
type OAuthToken struct {
	UserID       string     `json:"user_id"`
	Platform     PlatformID `json:"platform"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       string     `json:"scopes"`
}
