// Package candidatecache caches autocomplete candidate lists in a key-value store.
package candidatecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/db"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
)

const keyPrefix = "candidates:"

// Source is the decorated candidate source.
type Source interface {
	ListCandidates(ctx context.Context, kind *catalog.Kind) ([]catalog.Candidate, error)
}

// store is the consumer interface for the candidate cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedSource caches candidate lists per kind filter.
type CachedSource struct {
	inner      Source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner Source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ListCandidates returns cached candidates or loads them from the inner source.
// Cache failures fall through to the inner source.
func (c *CachedSource) ListCandidates(ctx context.Context, kind *catalog.Kind) ([]catalog.Candidate, error) {
	key := cacheKey(kind)

	if cands, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return cands, nil
	}

	c.incCache("miss")

	cands, err := c.inner.ListCandidates(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	c.putToCache(ctx, key, cands)
	return cands, nil
}

// Invalidate drops every cached list.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	keys := []string{cacheKey(nil)}
	for _, k := range []catalog.Kind{catalog.Food, catalog.Category} {
		keys = append(keys, cacheKey(&k))
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate candidates: %w", err)
	}
	return nil
}

func cacheKey(kind *catalog.Kind) string {
	if kind == nil {
		return keyPrefix + "all"
	}
	return keyPrefix + string(*kind)
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) ([]catalog.Candidate, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("error")
			c.logger.Warn("Failed to get cached candidates", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	cands, err := decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached candidates", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return cands, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, cands []catalog.Candidate) {
	data, err := encode(cands)
	if err != nil {
		c.logger.Warn("Failed to encode candidates", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache candidates", zap.String("key", key), zap.Error(err))
	}
}
