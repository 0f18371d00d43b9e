package handler

import (
	"net/http"
	"strconv"

	"insect-guide-server/internal/domain"

	"github.com/gorilla/mux"
)

const (
	defaultObservationsPerPage = 10
	defaultSearchPerPage       = 20
	maxPerPage                 = 50
	defaultRadiusKm            = 50
	maxRadiusKm                = 500
	defaultLocale              = "es"
)

// InsectHandler serves taxon search and detail requests backed by iNaturalist
type InsectHandler struct {
	insectService   domain.InsectService
	favoriteService domain.FavoriteService
	logger          domain.Logger
}

// NewInsectHandler creates a new insect handler
func NewInsectHandler(insectService domain.InsectService, favoriteService domain.FavoriteService, logger domain.Logger) *InsectHandler {
	return &InsectHandler{
		insectService:   insectService,
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// GetObservations searches insect taxa; page parameters pass through to
// iNaturalist verbatim.
func (h *InsectHandler) GetObservations(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, defaultObservationsPerPage)
}

// SearchInsects is the app-facing search endpoint with a larger page default
func (h *InsectHandler) SearchInsects(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, defaultSearchPerPage)
}

func (h *InsectHandler) search(w http.ResponseWriter, r *http.Request, defaultPerPage int) {
	params := r.URL.Query()

	query := params.Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	q := domain.ObservationQuery{
		Query:   query,
		Locale:  localeOrDefault(params.Get("locale")),
		PerPage: intParam(params.Get("per_page"), defaultPerPage, 1, maxPerPage),
		Page:    intParam(params.Get("page"), 1, 1, 0),
	}

	if user, ok := GetUserFromContext(r); ok {
		h.logger.Debug("Authenticated search", "user_id", user.ID, "query", q.Query)
	}

	result, err := h.insectService.SearchTaxa(r.Context(), q)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetSpecies returns the detail of one taxon. Authenticated callers also
// learn whether the species is among their favorites.
func (h *InsectHandler) GetSpecies(w http.ResponseWriter, r *http.Request) {
	taxonID, err := strconv.Atoi(mux.Vars(r)["taxon_id"])
	if err != nil || taxonID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid taxon id")
		return
	}

	locale := localeOrDefault(r.URL.Query().Get("locale"))

	taxon, err := h.insectService.GetTaxon(r.Context(), taxonID, locale)
	if err != nil {
		writeAppError(w, err)
		return
	}

	user, ok := GetUserFromContext(r)
	token, hasToken := GetTokenFromContext(r)
	if !ok || !hasToken {
		writeJSON(w, http.StatusOK, taxon)
		return
	}

	isFavorite, err := h.favoriteService.IsFavorite(user.ID, taxonID, token)
	if err != nil {
		// Favorite lookup failing should not hide the species detail.
		h.logger.Warn("Favorite lookup failed", "user_id", user.ID, "taxon_id", taxonID, "error", err)
		writeJSON(w, http.StatusOK, taxon)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*domain.Taxon
		IsFavorite bool `json:"is_favorite"`
	}{taxon, isFavorite})
}

// GetNearbyInsects returns taxa observed near a coordinate
func (h *InsectHandler) GetNearbyInsects(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	lat, latErr := strconv.ParseFloat(params.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(params.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	q := domain.NearbyQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  intParam(params.Get("radius"), defaultRadiusKm, 1, maxRadiusKm),
		Locale:    localeOrDefault(params.Get("locale")),
		PerPage:   intParam(params.Get("per_page"), defaultSearchPerPage, 1, maxPerPage),
		Page:      intParam(params.Get("page"), 1, 1, 0),
	}

	result, err := h.insectService.NearbyTaxa(r.Context(), q)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetCacheStats reports the response cache size and TTL
func (h *InsectHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.insectService.CacheStats())
}

// ClearCache drops every cached iNaturalist response
func (h *InsectHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.insectService.ClearCache()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Cache cleared",
	})
}

// intParam coerces a query parameter to an int, applying a default on
// absence or garbage and clamping to [min, max]. max <= 0 means unbounded.
func intParam(raw string, def, min, max int) int {
	value := def
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			value = parsed
		}
	}
	if value < min {
		value = min
	}
	if max > 0 && value > max {
		value = max
	}
	return value
}

func localeOrDefault(locale string) string {
	if locale == "" {
		return defaultLocale
	}
	return locale
}
