package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/llmcost/internal/cache/redis"
	"github.com/davidbz/llmcost/internal/observability"
	"github.com/davidbz/llmcost/internal/source/litellm"
	"github.com/davidbz/llmcost/internal/source/openrouter"
)

// Cache backends for the catalog slot.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Log        observability.LogConfig
	Catalog    CatalogConfig
	LiteLLM    litellm.Config
	OpenRouter openrouter.Config
	Redis      redis.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CatalogConfig contains catalog loading settings.
type CatalogConfig struct {
	FetchTimeout int    `env:"CATALOG_FETCH_TIMEOUT" envDefault:"15"` // seconds per source
	CacheBackend string `env:"CATALOG_CACHE_BACKEND" envDefault:"memory"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Log        *observability.LogConfig
	Catalog    *CatalogConfig
	LiteLLM    *litellm.Config
	OpenRouter *openrouter.Config
	Redis      *redis.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return &cfg
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Catalog.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown catalog cache backend %q", c.Catalog.CacheBackend)
	}

	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("catalog fetch timeout must be positive, got %d", c.Catalog.FetchTimeout)
	}

	return nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:        dig.Out{},
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Log:        &cfg.Log,
		Catalog:    &cfg.Catalog,
		LiteLLM:    &cfg.LiteLLM,
		OpenRouter: &cfg.OpenRouter,
		Redis:      &cfg.Redis,
	}
}
