package auth

import "time"

// GenerateTokenRequest is the payload for the token endpoint. Clients identify
// themselves by username only; unknown usernames are provisioned on the fly.
type GenerateTokenRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
}

// TokenResponse carries a freshly minted access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
