package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insect-guide-server/internal/domain"
	apperrors "insect-guide-server/pkg/errors"

	"github.com/supabase-community/supabase-go"
)

type mockSupabaseClient struct {
	session *domain.AuthSession
	user    *domain.SupabaseUser
	url     string
	err     error

	lastEmail    string
	lastMetadata map[string]interface{}
	lastToken    string
	lastProvider string
	lastCode     string
}

func (m *mockSupabaseClient) Initialize() error { return nil }

func (m *mockSupabaseClient) SignIn(email, password string) (*domain.AuthSession, *domain.SupabaseUser, error) {
	m.lastEmail = email
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.session, m.user, nil
}

func (m *mockSupabaseClient) SignUp(email, password string, metadata map[string]interface{}) (*domain.AuthSession, *domain.SupabaseUser, error) {
	m.lastEmail = email
	m.lastMetadata = metadata
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.session, m.user, nil
}

func (m *mockSupabaseClient) ResetPassword(email string) error {
	m.lastEmail = email
	return m.err
}

func (m *mockSupabaseClient) RefreshSession(refreshToken string) (*domain.AuthSession, error) {
	m.lastToken = refreshToken
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSupabaseClient) SignOut(token string) error {
	m.lastToken = token
	return m.err
}

func (m *mockSupabaseClient) UpdateUserMetadata(token string, metadata map[string]interface{}) (*domain.SupabaseUser, error) {
	m.lastToken = token
	m.lastMetadata = metadata
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockSupabaseClient) SignInWithOAuth(provider, redirectURL string) (string, error) {
	m.lastProvider = provider
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

func (m *mockSupabaseClient) ExchangeCode(code, codeVerifier string) (*domain.AuthSession, *domain.SupabaseUser, error) {
	m.lastCode = code
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.session, m.user, nil
}

func (m *mockSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return nil, m.err
}

func createContextWithUser(req *http.Request, user *domain.SupabaseUser, token string) *http.Request {
	ctx := context.WithValue(req.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return req.WithContext(ctx)
}

func TestAuthHandler_Login_OK(t *testing.T) {
	client := &mockSupabaseClient{
		session: &domain.AuthSession{AccessToken: "at", RefreshToken: "rt"},
		user:    &domain.SupabaseUser{ID: "user-1", Email: "a@b.com"},
	}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	body := strings.NewReader(`{"email":"a@b.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var payload struct {
		Success bool `json:"success"`
		Session struct {
			AccessToken string `json:"access_token"`
		} `json:"session"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Success || payload.Session.AccessToken != "at" {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if client.lastEmail != "a@b.com" {
		t.Fatalf("expected sign in with a@b.com, got %s", client.lastEmail)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	client := &mockSupabaseClient{err: apperrors.NewUnauthorizedError("Invalid login credentials")}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	body := strings.NewReader(`{"email":"a@b.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Fatalf("expected success false, got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Invalid login credentials") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	body := strings.NewReader(`{"email":"a@b.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_Login_BadBody(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{bad"))
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_Signup_PassesMetadata(t *testing.T) {
	client := &mockSupabaseClient{user: &domain.SupabaseUser{ID: "user-1", Email: "a@b.com"}}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	body := strings.NewReader(`{"email":"a@b.com","password":"secret","metadata":{"name":"Ana"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", body)
	rr := httptest.NewRecorder()

	handler.Signup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if client.lastMetadata["name"] != "Ana" {
		t.Fatalf("expected metadata to reach the client, got %v", client.lastMetadata)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.RefreshToken(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_RefreshToken_Expired(t *testing.T) {
	client := &mockSupabaseClient{err: apperrors.NewUnauthorizedError("Invalid or expired refresh token")}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh-token", strings.NewReader(`{"refresh_token":"stale"}`))
	rr := httptest.NewRecorder()

	handler.RefreshToken(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAuthHandler_SignOut_OK(t *testing.T) {
	client := &mockSupabaseClient{}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req = createContextWithUser(req, &domain.SupabaseUser{ID: "user-1"}, "session-token")
	rr := httptest.NewRecorder()

	handler.SignOut(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if client.lastToken != "session-token" {
		t.Fatalf("expected sign out with session token, got %s", client.lastToken)
	}
}

func TestAuthHandler_SignOut_NoContext(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	rr := httptest.NewRecorder()

	handler.SignOut(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAuthHandler_UpdateMetadata_EmptyMetadata(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/update-metadata", strings.NewReader(`{"metadata":{}}`))
	req = createContextWithUser(req, &domain.SupabaseUser{ID: "user-1"}, "session-token")
	rr := httptest.NewRecorder()

	handler.UpdateMetadata(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_GetUser_OK(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	user := &domain.SupabaseUser{ID: "user-1", Email: "a@b.com", UserMetadata: map[string]interface{}{"name": "Ana"}}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req = createContextWithUser(req, user, "session-token")
	rr := httptest.NewRecorder()

	handler.GetUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var payload struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.User.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", payload.User.ID)
	}
}

func TestAuthHandler_OAuth_MissingProvider(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/oauth", nil)
	rr := httptest.NewRecorder()

	handler.OAuth(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_OAuth_UnsupportedProvider(t *testing.T) {
	client := &mockSupabaseClient{err: apperrors.NewValidationError("Unsupported OAuth provider")}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/oauth?provider=myspace", nil)
	rr := httptest.NewRecorder()

	handler.OAuth(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if client.lastProvider != "myspace" {
		t.Fatalf("expected provider myspace, got %s", client.lastProvider)
	}
}

func TestAuthHandler_OAuth_PostBody(t *testing.T) {
	client := &mockSupabaseClient{url: "https://example.supabase.co/auth/v1/authorize?provider=google"}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	body := strings.NewReader(`{"provider":"google","redirect_url":"app://callback"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/oauth", body)
	rr := httptest.NewRecorder()

	handler.OAuth(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "authorize?provider=google") {
		t.Fatalf("expected authorization url in body, got %s", rr.Body.String())
	}
}

func TestAuthHandler_ExchangeCode_MissingCode(t *testing.T) {
	handler := NewAuthHandler(&mockSupabaseClient{}, NewMockHandlerLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/exchange-code", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.ExchangeCode(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestAuthHandler_DegradedSupabase(t *testing.T) {
	client := &mockSupabaseClient{err: apperrors.NewUpstreamError("Authentication service is unavailable", nil)}
	handler := NewAuthHandler(client, NewMockHandlerLogger())

	body := strings.NewReader(`{"email":"a@b.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rr := httptest.NewRecorder()

	handler.Login(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}
