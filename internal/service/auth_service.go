package service

import (
	"insect-guide-server/internal/domain"
)

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewAuthService creates the token-validation service used by the
// auth middleware.
func NewAuthService(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.AuthService {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// ValidateToken validates a token and returns user info. Every call goes
// back to Supabase; nothing is cached between requests.
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Debug("Token validation failed", "error", err)
		return nil, err
	}
	return user, nil
}
