package domain

import "github.com/supabase-community/supabase-go"

// SupabaseClient wraps the Supabase project handle. Every method performs
// one remote call; failures come back as pkg/errors AppError values so
// handlers can translate them into HTTP status codes.
type SupabaseClient interface {
	Initialize() error

	SignIn(email, password string) (*AuthSession, *SupabaseUser, error)
	SignUp(email, password string, metadata map[string]interface{}) (*AuthSession, *SupabaseUser, error)
	ResetPassword(email string) error
	RefreshSession(refreshToken string) (*AuthSession, error)
	SignOut(token string) error
	UpdateUserMetadata(token string, metadata map[string]interface{}) (*SupabaseUser, error)
	ValidateToken(token string) (*SupabaseUser, error)
	SignInWithOAuth(provider, redirectURL string) (string, error)
	ExchangeCode(code, codeVerifier string) (*AuthSession, *SupabaseUser, error)

	GetClientWithToken(token string) (*supabase.Client, error)
}
