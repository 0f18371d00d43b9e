package domain

import "time"

// AuthSession is the session relayed from Supabase on login, signup,
// refresh and code exchange. It is never persisted server-side.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
}
