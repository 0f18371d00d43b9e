package config

import (
	"insect-guide-server/internal/domain"
	"insect-guide-server/internal/repository"
	"insect-guide-server/internal/service"
	"insect-guide-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SupabaseClient    domain.SupabaseClient
	INaturalistClient domain.INaturalistClient
	AuthService       domain.AuthService
	InsectService     domain.InsectService
	FavoriteService   domain.FavoriteService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client. A missing configuration is not fatal:
	// auth endpoints report the upstream as unavailable until it is fixed.
	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Warn("Supabase client not configured, auth endpoints degraded", "error", err)
	}

	inaturalistClient := repository.NewINaturalistClient(config, appLogger)
	favoriteRepo := repository.NewSupabaseFavoriteRepository(supabaseClient, appLogger)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		SupabaseClient:    supabaseClient,
		INaturalistClient: inaturalistClient,
		AuthService:       service.NewAuthService(supabaseClient, appLogger),
		InsectService:     service.NewInsectService(inaturalistClient, config.GetCacheTTL(), appLogger),
		FavoriteService:   service.NewFavoriteService(favoriteRepo, appLogger),
	}
}
