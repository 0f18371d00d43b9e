package domain

import "errors"

// Domain errors
var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrUserNotFound          = errors.New("user not found")
	ErrTaxonNotFound         = errors.New("taxon not found")
	ErrSupabaseNotConfigured = errors.New("supabase client not initialized")
	ErrUnsupportedProvider   = errors.New("unsupported oauth provider")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
