package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	insectHandler *InsectHandler,
	favoriteHandler *FavoriteHandler,
	requireAuth func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Welcome endpoint, also the container liveness target
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Insect Guide API"})
	}).Methods("GET")

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"insect-guide-server"}`))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth relay routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/reset-password", authHandler.ResetPassword).Methods("POST")
	auth.HandleFunc("/refresh-token", authHandler.RefreshToken).Methods("POST")
	auth.HandleFunc("/oauth", authHandler.OAuth).Methods("GET", "POST")
	auth.HandleFunc("/exchange-code", authHandler.ExchangeCode).Methods("POST")

	// Auth routes requiring a valid session
	authProtected := auth.PathPrefix("").Subrouter()
	authProtected.Use(requireAuth)
	authProtected.HandleFunc("/signout", authHandler.SignOut).Methods("POST")
	authProtected.HandleFunc("/update-metadata", authHandler.UpdateMetadata).Methods("POST")
	authProtected.HandleFunc("/user", authHandler.GetUser).Methods("GET")

	// Favorites (require authentication). Registered before the public
	// insect routes so /insects/favorites is not shadowed.
	favorites := api.PathPrefix("/insects/favorites").Subrouter()
	favorites.Use(requireAuth)
	favorites.HandleFunc("/list", favoriteHandler.List).Methods("GET")
	favorites.HandleFunc("/add/{insect_id}", favoriteHandler.Add).Methods("POST")

	// iNaturalist-backed routes; anonymous works, a valid token enriches
	public := api.PathPrefix("").Subrouter()
	public.Use(optionalAuth)
	public.HandleFunc("/observations", insectHandler.GetObservations).Methods("GET")
	public.HandleFunc("/species/{taxon_id}", insectHandler.GetSpecies).Methods("GET")
	public.HandleFunc("/insects/search", insectHandler.SearchInsects).Methods("GET")
	public.HandleFunc("/insects/nearby", insectHandler.GetNearbyInsects).Methods("GET")

	// Cache introspection
	api.HandleFunc("/cache/stats", insectHandler.GetCacheStats).Methods("GET")
	api.HandleFunc("/cache/clear", insectHandler.ClearCache).Methods("DELETE")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
