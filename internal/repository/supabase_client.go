package repository

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"insect-guide-server/internal/domain"
	apperrors "insect-guide-server/pkg/errors"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// Providers the mobile client offers. Anything else is rejected before a
// request is made upstream.
var supportedProviders = map[string]types.Provider{
	"google":   types.Provider("google"),
	"github":   types.Provider("github"),
	"facebook": types.Provider("facebook"),
	"apple":    types.Provider("apple"),
	"discord":  types.Provider("discord"),
}

// SupabaseClient implements the domain.SupabaseClient interface
type SupabaseClient struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) domain.SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes a connection to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseServiceKey()

	if supabaseURL == "" || supabaseKey == "" {
		return domain.ErrSupabaseNotConfigured
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return apperrors.NewUpstreamError("failed to create Supabase client", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// SignIn authenticates a user with email and password
func (s *SupabaseClient) SignIn(email, password string) (*domain.AuthSession, *domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, nil, s.notConfigured()
	}

	resp, err := s.client.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		s.logger.Error("Sign in failed", err, "email", email)
		return nil, nil, authError(err, "Invalid login credentials")
	}

	user := userFromTypes(resp.Session.User)
	return sessionFromTypes(resp.Session), user, nil
}

// SignUp registers a new user. The returned session is nil when the
// project requires email confirmation before the first login.
func (s *SupabaseClient) SignUp(email, password string, metadata map[string]interface{}) (*domain.AuthSession, *domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, nil, s.notConfigured()
	}

	resp, err := s.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err != nil {
		s.logger.Error("Sign up failed", err, "email", email)
		return nil, nil, apperrors.NewValidationError("Could not register user")
	}

	var session *domain.AuthSession
	user := &resp.User
	if resp.Session.AccessToken != "" {
		// Autoconfirm is on: the user comes back inside the session.
		session = sessionFromTypes(resp.Session)
		user = &resp.Session.User
	}

	return session, userFromTypes(*user), nil
}

// ResetPassword triggers the Supabase password-recovery email
func (s *SupabaseClient) ResetPassword(email string) error {
	if s.client == nil {
		return s.notConfigured()
	}

	if err := s.client.Auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		s.logger.Error("Password recovery failed", err, "email", email)
		return apperrors.NewValidationError("Could not send password reset email")
	}
	return nil
}

// RefreshSession exchanges a refresh token for a new session
func (s *SupabaseClient) RefreshSession(refreshToken string) (*domain.AuthSession, error) {
	if s.client == nil {
		return nil, s.notConfigured()
	}

	resp, err := s.client.Auth.RefreshToken(refreshToken)
	if err != nil {
		s.logger.Error("Token refresh failed", err)
		return nil, authError(err, "Invalid or expired refresh token")
	}

	return sessionFromTypes(resp.Session), nil
}

// SignOut invalidates the session behind the given access token
func (s *SupabaseClient) SignOut(token string) error {
	if s.client == nil {
		return s.notConfigured()
	}

	if err := s.client.Auth.WithToken(token).Logout(); err != nil {
		s.logger.Error("Sign out failed", err)
		return apperrors.NewUnauthorizedError("Could not sign out session")
	}
	return nil
}

// UpdateUserMetadata merges the given metadata into the user's profile
func (s *SupabaseClient) UpdateUserMetadata(token string, metadata map[string]interface{}) (*domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, s.notConfigured()
	}

	resp, err := s.client.Auth.WithToken(token).UpdateUser(types.UpdateUserRequest{Data: metadata})
	if err != nil {
		s.logger.Error("Metadata update failed", err)
		return nil, apperrors.NewUnauthorizedError("Could not update user metadata")
	}

	return userFromTypes(resp.User), nil
}

// ValidateToken validates a Supabase access token and returns user info.
// Supabase is the authority here: no local JWT verification is done.
func (s *SupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, s.notConfigured()
	}

	// Get user info using an auth client with the access token.
	// Note: passing "Authorization" via Supabase client headers does not affect GoTrue requests.
	resp, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, authError(err, "Invalid or expired token")
	}
	if resp == nil {
		return nil, apperrors.NewUnauthorizedError("User not found")
	}

	return userFromTypes(resp.User), nil
}

// SignInWithOAuth returns the provider's authorization URL for the OAuth flow
func (s *SupabaseClient) SignInWithOAuth(provider, redirectURL string) (string, error) {
	if s.client == nil {
		return "", s.notConfigured()
	}

	prov, ok := supportedProviders[strings.ToLower(provider)]
	if !ok {
		return "", apperrors.NewValidationError("Unsupported OAuth provider", provider)
	}

	resp, err := s.client.Auth.Authorize(types.AuthorizeRequest{
		Provider: prov,
	})
	if err != nil {
		s.logger.Error("OAuth authorization failed", err, "provider", provider)
		return "", apperrors.NewUpstreamError("Could not start OAuth flow", err)
	}

	return withRedirectTo(resp.AuthorizationURL, redirectURL), nil
}

// ExchangeCode exchanges a PKCE authorization code for a session
func (s *SupabaseClient) ExchangeCode(code, codeVerifier string) (*domain.AuthSession, *domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, nil, s.notConfigured()
	}

	resp, err := s.client.Auth.Token(types.TokenRequest{
		GrantType:    "pkce",
		Code:         code,
		CodeVerifier: codeVerifier,
	})
	if err != nil {
		s.logger.Error("Code exchange failed", err)
		return nil, nil, apperrors.NewValidationError("Invalid authorization code")
	}

	return sessionFromTypes(resp.Session), userFromTypes(resp.Session.User), nil
}

// GetClientWithToken returns a client scoped to the caller's access token,
// so PostgREST queries run under the user's row-level security policies.
func (s *SupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseServiceKey()
	if supabaseURL == "" || supabaseKey == "" {
		return nil, s.notConfigured()
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to create Supabase client", err)
	}
	return client, nil
}

func (s *SupabaseClient) notConfigured() error {
	return apperrors.NewUpstreamError("Authentication service is unavailable", domain.ErrSupabaseNotConfigured)
}

// authError maps a gotrue failure onto the error taxonomy. A transport
// failure means Supabase is unreachable, not that the credentials are bad.
func authError(err error, message string) error {
	var netErr *url.Error
	if errors.As(err, &netErr) {
		return apperrors.NewUpstreamError("Authentication service is unavailable", err)
	}
	return apperrors.NewUnauthorizedError(message)
}

// withRedirectTo appends the client's redirect_to parameter to the
// authorization URL. The authorize request itself carries no redirect,
// so it travels as a query parameter the way the hosted endpoint expects.
func withRedirectTo(authURL, redirectTo string) string {
	if redirectTo == "" {
		return authURL
	}
	u, err := url.Parse(authURL)
	if err != nil {
		return authURL
	}
	q := u.Query()
	q.Set("redirect_to", redirectTo)
	u.RawQuery = q.Encode()
	return u.String()
}

func sessionFromTypes(session types.Session) *domain.AuthSession {
	return &domain.AuthSession{
		AccessToken:  session.AccessToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		ExpiresAt:    time.Now().Add(time.Duration(session.ExpiresIn) * time.Second),
		RefreshToken: session.RefreshToken,
	}
}

func userFromTypes(user types.User) *domain.SupabaseUser {
	if user.ID == uuid.Nil {
		return nil
	}
	return &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		CreatedAt:    user.CreatedAt.Format(timeFormat),
		UpdatedAt:    user.UpdatedAt.Format(timeFormat),
	}
}
