package domain

import (
	"context"
	"time"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseServiceKey() string
	GetINaturalistBaseURL() string
	GetCacheTTL() time.Duration
	GetAllowedOrigins() []string
}

// AuthService validates bearer tokens against Supabase
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// INaturalistClient defines the interface for the iNaturalist API
type INaturalistClient interface {
	SearchTaxa(ctx context.Context, query ObservationQuery) (*TaxonSearchResult, error)
	GetTaxon(ctx context.Context, taxonID int, locale string) (*Taxon, error)
	SearchObservations(ctx context.Context, query NearbyQuery) (*NearbySearchResult, error)
}

// InsectService defines taxon search and lookup with response caching
type InsectService interface {
	SearchTaxa(ctx context.Context, query ObservationQuery) (*TaxonSearchResult, error)
	GetTaxon(ctx context.Context, taxonID int, locale string) (*Taxon, error)
	NearbyTaxa(ctx context.Context, query NearbyQuery) (*NearbySearchResult, error)
	CacheStats() CacheStats
	ClearCache()
}

// FavoriteService defines operations on a user's favorite insects
type FavoriteService interface {
	List(userID string, token string) ([]Favorite, error)
	Add(userID string, taxonID int, token string) (*Favorite, error)
	IsFavorite(userID string, taxonID int, token string) (bool, error)
}

// FavoriteRepository defines the storage interface for favorites
type FavoriteRepository interface {
	List(userID string, token string) ([]Favorite, error)
	Add(userID string, taxonID int, token string) (*Favorite, error)
	Exists(userID string, taxonID int, token string) (bool, error)
}
