package handler

import (
	"encoding/json"
	"net/http"

	"insect-guide-server/internal/domain"
)

// AuthHandler relays authentication requests to Supabase
type AuthHandler struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(supabaseClient domain.SupabaseClient, logger domain.Logger) *AuthHandler {
	return &AuthHandler{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Login signs a user in with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, user, err := h.supabaseClient.SignIn(req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
		"user":    user,
	})
}

// Signup registers a new user, optionally with initial metadata
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string                 `json:"email"`
		Password string                 `json:"password"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, user, err := h.supabaseClient.SignUp(req.Email, req.Password, req.Metadata)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
		"user":    user,
	})
}

// ResetPassword triggers the password-recovery email
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.supabaseClient.ResetPassword(req.Email); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset email sent",
	})
}

// RefreshToken exchanges a refresh token for a new session
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	session, err := h.supabaseClient.RefreshSession(req.RefreshToken)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
	})
}

// SignOut invalidates the caller's session upstream
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	if err := h.supabaseClient.SignOut(token); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signed out successfully",
	})
}

// UpdateMetadata merges the given metadata into the caller's profile
func (h *AuthHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req struct {
		Metadata map[string]interface{} `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Metadata) == 0 {
		writeError(w, http.StatusBadRequest, "Metadata is required")
		return
	}

	user, err := h.supabaseClient.UpdateUserMetadata(token, req.Metadata)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// GetUser returns the authenticated caller's identity
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// OAuth returns the redirect URL that starts the provider's OAuth flow.
// The provider comes from the query string on GET or the body on POST.
func (h *AuthHandler) OAuth(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	redirectURL := r.URL.Query().Get("redirect_url")

	if r.Method == http.MethodPost {
		var req struct {
			Provider    string `json:"provider"`
			RedirectURL string `json:"redirect_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		provider = req.Provider
		redirectURL = req.RedirectURL
	}

	if provider == "" {
		writeError(w, http.StatusBadRequest, "Provider is required")
		return
	}

	url, err := h.supabaseClient.SignInWithOAuth(provider, redirectURL)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}

// ExchangeCode exchanges an OAuth authorization code for a session
func (h *AuthHandler) ExchangeCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code         string `json:"code"`
		CodeVerifier string `json:"code_verifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "Code is required")
		return
	}

	session, user, err := h.supabaseClient.ExchangeCode(req.Code, req.CodeVerifier)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
		"user":    user,
	})
}
