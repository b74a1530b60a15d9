package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/observability"
)

// Config holds the redis catalog cache settings.
type Config struct {
	Addr     string `env:"REDIS_ADDR"          envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"            envDefault:"0"`
	Key      string `env:"REDIS_CATALOG_KEY"   envDefault:"llmcost:catalog"`
	TTL      int    `env:"REDIS_CATALOG_TTL"   envDefault:"0"` // seconds, 0 keeps the entry until refreshed
}

// CatalogCache stores the catalog as a redis hash, one field per model id.
type CatalogCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewClient creates a redis client from the config.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewCatalogCache creates a redis-backed catalog cache.
func NewCatalogCache(client *redis.Client, key string, ttl time.Duration) (*CatalogCache, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if key == "" {
		return nil, errors.New("cache key cannot be empty")
	}

	return &CatalogCache{
		client: client,
		key:    key,
		ttl:    ttl,
	}, nil
}

// Get reads every model field of the hash.
func (c *CatalogCache) Get(ctx context.Context) (domain.Catalog, bool, error) {
	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog: %w", err)
	}

	if len(fields) == 0 {
		return nil, false, nil
	}

	catalog, err := decodeCatalog(fields)
	if err != nil {
		observability.FromContext(ctx).Warn("discarding malformed cached catalog",
			observability.String("key", c.key),
			observability.Error(err))
		return nil, false, err
	}

	return catalog, true, nil
}

// Set replaces the hash atomically.
func (c *CatalogCache) Set(ctx context.Context, catalog domain.Catalog) error {
	if catalog == nil {
		return errors.New("catalog cannot be nil")
	}

	fields, err := encodeCatalog(catalog)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, c.key, fields)
	}
	if c.ttl > 0 {
		pipe.Expire(ctx, c.key, c.ttl)
	}

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		return fmt.Errorf("failed to store catalog: %w", execErr)
	}

	observability.FromContext(ctx).Debug("catalog cached in redis",
		observability.String("key", c.key),
		observability.Int("models", len(catalog)))
	return nil
}

// Invalidate deletes the hash.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog: %w", err)
	}
	return nil
}

// encodeCatalog converts models to hash fields keyed by model id.
func encodeCatalog(catalog domain.Catalog) (map[string]any, error) {
	fields := make(map[string]any, len(catalog))
	for id, m := range catalog {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to encode model %s: %w", id, err)
		}
		fields[id] = string(data)
	}
	return fields, nil
}

// decodeCatalog parses hash fields back into a catalog.
func decodeCatalog(fields map[string]string) (domain.Catalog, error) {
	catalog := make(domain.Catalog, len(fields))
	for id, raw := range fields {
		var m domain.ModelSpec
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("failed to decode model %s: %w", id, err)
		}
		if m.ID == "" {
			m.ID = id
		}
		catalog[id] = m
	}
	return catalog, nil
}
