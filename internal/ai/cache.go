package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/romizzidiamly/vocabmaster/internal/logger"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

// Store is the byte cache behind Cached; cache.RedisCache implements it
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached serves enrichment from a Store and fills it on misses.
// Cache errors are logged and fall through to the provider.
type Cached struct {
	next  Enricher
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

func NewCached(next Enricher, store Store, ttl time.Duration, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.Nop()
	}
	return &Cached{next: next, store: store, ttl: ttl, log: log}
}

// CacheKey is the store key for a word
func CacheKey(word string) string {
	return "enrich:" + strings.ToLower(strings.TrimSpace(word))
}

func (c *Cached) Enrich(ctx context.Context, word string) (*models.Enrichment, error) {
	if cached, ok := c.lookup(ctx, word); ok {
		cacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	cacheLookupsTotal.WithLabelValues("miss").Inc()
	return c.fetch(ctx, word)
}

// Regenerate bypasses the cache and overwrites the stored entry
func (c *Cached) Regenerate(ctx context.Context, word string) (*models.Enrichment, error) {
	return c.fetch(ctx, word)
}

// Warm fetches and stores word unless it is already cached.
// It reports whether the provider was called.
func (c *Cached) Warm(ctx context.Context, word string) (bool, error) {
	if _, ok := c.lookup(ctx, word); ok {
		return false, nil
	}
	_, err := c.fetch(ctx, word)
	return true, err
}

func (c *Cached) lookup(ctx context.Context, word string) (*models.Enrichment, bool) {
	data, ok, err := c.store.Get(ctx, CacheKey(word))
	if err != nil {
		c.log.Warn("enrichment cache read failed", "word", word, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result models.Enrichment
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warn("dropping corrupt cache entry", "word", word, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *Cached) fetch(ctx context.Context, word string) (*models.Enrichment, error) {
	result, err := c.next.Enrich(ctx, word)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = c.store.Set(ctx, CacheKey(word), data, c.ttl)
	}
	if err != nil {
		c.log.Warn("enrichment cache write failed", "word", word, "error", err)
	}
	return result, nil
}
