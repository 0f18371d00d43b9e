package handler

import (
	"net/http"
	"strconv"

	"insect-guide-server/internal/domain"

	"github.com/gorilla/mux"
)

// FavoriteHandler serves the authenticated favorites endpoints
type FavoriteHandler struct {
	favoriteService domain.FavoriteService
	logger          domain.Logger
}

// NewFavoriteHandler creates a new favorites handler
func NewFavoriteHandler(favoriteService domain.FavoriteService, logger domain.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// List returns the caller's favorite insects
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	favorites, err := h.favoriteService.List(user.ID, token)
	if err != nil {
		h.logger.Error("Failed to list favorites", err, "user_id", user.ID)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"favorites": favorites,
		"total":     len(favorites),
	})
}

// Add saves an insect as a favorite for the caller
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	insectID, err := strconv.Atoi(mux.Vars(r)["insect_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid insect id")
		return
	}

	favorite, err := h.favoriteService.Add(user.ID, insectID, token)
	if err != nil {
		h.logger.Error("Failed to add favorite", err, "user_id", user.ID, "insect_id", insectID)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"favorite": favorite,
	})
}
