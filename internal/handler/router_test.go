package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insect-guide-server/internal/domain"
)

func newTestRouter(authService domain.AuthService) http.Handler {
	logger := NewMockHandlerLogger()
	authHandler := NewAuthHandler(&mockSupabaseClient{}, logger)
	insectHandler := NewInsectHandler(
		&mockInsectService{searchResult: &domain.TaxonSearchResult{Page: 1, PerPage: 10, Results: []domain.Taxon{}}},
		&mockFavoriteService{},
		logger,
	)
	favoriteHandler := NewFavoriteHandler(&mockFavoriteService{}, logger)
	middleware := NewAuthMiddleware(authService, logger)

	return NewRouter(
		authHandler,
		insectHandler,
		favoriteHandler,
		middleware.Middleware,
		middleware.OptionalMiddleware,
		[]string{"*"},
	)
}

func TestNewRouter_Welcome(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Welcome to the Insect Guide API") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_Health(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(&mockAuthService{err: errors.New("invalid token")})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/insects/favorites/list"},
		{http.MethodPost, "/api/insects/favorites/add/47219"},
		{http.MethodPost, "/api/auth/signout"},
		{http.MethodPost, "/api/auth/update-metadata"},
		{http.MethodGet, "/api/auth/user"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status %d, got %d", route.method, route.path, http.StatusUnauthorized, rr.Code)
		}
	}
}

func TestNewRouter_ObservationsAnonymous(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/observations?query=ladybug", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestNewRouter_ObservationsBadTokenStillServed(t *testing.T) {
	router := newTestRouter(&mockAuthService{err: errors.New("invalid token")})

	req := httptest.NewRequest(http.MethodGet, "/api/observations?query=ladybug", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestNewRouter_LoginRejectsGet(t *testing.T) {
	router := newTestRouter(&mockAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}
