package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Service    ServiceConfig
	PokeAPI    PokeAPIConfig
	Catalog    CatalogConfig
	Collection CollectionConfig
	Session    SessionConfig
	Logging    LoggingConfig
	AppEnv     string
}

// ServiceConfig describes the remote Pokédex service this client talks to.
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PokeAPIConfig describes the public reference data source used for
// bookmark enrichment (names and sprites for bare Pokémon ids).
type PokeAPIConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

type CatalogConfig struct {
	PageSize int
	Debounce time.Duration
}

type CollectionConfig struct {
	PageSize     int
	TeamCapacity int
}

type SessionConfig struct {
	// TokenPath is the file holding the persisted credential. Empty means
	// the per-user default under os.UserConfigDir.
	TokenPath string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVICE_BASE_URL", "https://watisdis31.web.id")
	v.SetDefault("SERVICE_TIMEOUT_SECONDS", 30)
	v.SetDefault("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2")
	v.SetDefault("POKEAPI_CACHE_TTL_SECONDS", 3600)
	v.SetDefault("CATALOG_PAGE_SIZE", 20)
	v.SetDefault("SEARCH_DEBOUNCE_MS", 500)
	v.SetDefault("COLLECTION_PAGE_SIZE", 10)
	v.SetDefault("TEAM_CAPACITY", 6)
	v.SetDefault("TOKEN_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("APP_ENV", "production")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Service: ServiceConfig{
			BaseURL: strings.TrimRight(v.GetString("SERVICE_BASE_URL"), "/"),
			Timeout: time.Duration(v.GetInt("SERVICE_TIMEOUT_SECONDS")) * time.Second,
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:  strings.TrimRight(v.GetString("POKEAPI_BASE_URL"), "/"),
			CacheTTL: time.Duration(v.GetInt("POKEAPI_CACHE_TTL_SECONDS")) * time.Second,
		},
		Catalog: CatalogConfig{
			PageSize: v.GetInt("CATALOG_PAGE_SIZE"),
			Debounce: time.Duration(v.GetInt("SEARCH_DEBOUNCE_MS")) * time.Millisecond,
		},
		Collection: CollectionConfig{
			PageSize:     v.GetInt("COLLECTION_PAGE_SIZE"),
			TeamCapacity: v.GetInt("TEAM_CAPACITY"),
		},
		Session: SessionConfig{
			TokenPath: v.GetString("TOKEN_PATH"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		AppEnv: v.GetString("APP_ENV"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("SERVICE_BASE_URL is required")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be positive")
	}
	if c.Collection.PageSize <= 0 {
		return fmt.Errorf("COLLECTION_PAGE_SIZE must be positive")
	}
	return nil
}

// TokenFilePath resolves the credential file location, defaulting to the
// per-user config directory when TOKEN_PATH is not set.
func (c *Config) TokenFilePath() (string, error) {
	if c.Session.TokenPath != "" {
		return c.Session.TokenPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "pokedex", "token.json"), nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return !c.IsDevelopment()
}
