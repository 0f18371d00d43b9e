package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"insect-guide-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort         string
	LogLevel           string
	SupabaseURL        string
	SupabaseServiceKey string
	INaturalistBaseURL string
	CacheTTLSeconds    int
	AllowedOrigins     []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:         getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8000")),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:        getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		INaturalistBaseURL: getEnvOrDefault("INATURALIST_BASE_URL", "https://api.inaturalist.org/v1"),
		CacheTTLSeconds:    getEnvIntOrDefault("CACHE_TTL_SECONDS", 86400), // 24 hours
		AllowedOrigins:     getEnvListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase project URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseServiceKey returns the Supabase service-role key
func (c *AppConfig) GetSupabaseServiceKey() string {
	return c.SupabaseServiceKey
}

// GetINaturalistBaseURL returns the iNaturalist API base URL
func (c *AppConfig) GetINaturalistBaseURL() string {
	return c.INaturalistBaseURL
}

// GetCacheTTL returns the response cache time-to-live
func (c *AppConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// GetAllowedOrigins returns the CORS allowed origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return defaultValue
	}
	return origins
}
