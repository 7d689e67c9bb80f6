package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"storefront/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisCatalogCache struct {
	client *redis.Client
}

func NewRedisCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

func (c *RedisCatalogCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return value, err
}

func (c *RedisCatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCatalogCache is used when no Redis server is configured.
type MemoryCatalogCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCatalogCache() *MemoryCatalogCache {
	return &MemoryCatalogCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCatalogCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *MemoryCatalogCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

type catalogFetcher interface {
	FetchProducts(ctx context.Context, category string) ([]models.Product, error)
	FetchProduct(ctx context.Context, id int) (*models.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// CachedCatalog keeps reshaped catalog responses for ttl, so the generated
// stock of a product stays stable while it is cached.
type CachedCatalog struct {
	next   catalogFetcher
	cache  CatalogCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(next catalogFetcher, cache CatalogCache, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{next: next, cache: cache, ttl: ttl, logger: logger}
}

func productsCacheKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "catalog:products:" + category
}

func productCacheKey(id int) string {
	return "catalog:product:" + strconv.Itoa(id)
}

const categoriesCacheKey = "catalog:categories"

func (c *CachedCatalog) FetchProducts(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if c.load(ctx, productsCacheKey(category), &products) {
		return products, nil
	}

	products, err := c.next.FetchProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	c.store(ctx, productsCacheKey(category), products)
	return products, nil
}

func (c *CachedCatalog) FetchProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if c.load(ctx, productCacheKey(id), &product) {
		return &product, nil
	}

	fetched, err := c.next.FetchProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, productCacheKey(id), fetched)
	return fetched, nil
}

func (c *CachedCatalog) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if c.load(ctx, categoriesCacheKey, &categories) {
		return categories, nil
	}

	categories, err := c.next.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, categoriesCacheKey, categories)
	return categories, nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, dest any) bool {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("catalog cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("catalog cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
