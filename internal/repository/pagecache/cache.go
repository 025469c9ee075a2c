// Package pagecache caches complete unified search pages in a key-value store.
package pagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/db"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
)

const keyPrefix = "page:"

// Searcher is the decorated search service.
type Searcher interface {
	Search(ctx context.Context, req *request.Search) (result.Page, error)
}

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher serves repeated page requests from the store.
// Degraded pages are never stored.
type CachedSearcher struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached page or runs the inner search.
func (c *CachedSearcher) Search(ctx context.Context, req *request.Search) (result.Page, error) {
	if req.Keyword() == "" {
		return c.inner.Search(ctx, req) //nolint:wrapcheck // transparent decorator
	}

	key := cacheKey(req)
	if page, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return page, nil
	}

	c.incCache("miss")

	page, err := c.inner.Search(ctx, req)
	if err != nil {
		return result.Page{}, fmt.Errorf("search: %w", err)
	}

	if !page.IsDegraded() {
		c.putToCache(ctx, key, &page)
	}
	return page, nil
}

func cacheKey(req *request.Search) string {
	h := sha256.New()
	for _, part := range []string{req.Keyword(), req.Locale(), strconv.Itoa(req.PageSize()), req.Cursor()} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (result.Page, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("error")
			c.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		return result.Page{}, false
	}

	page, err := decodePage(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached page", zap.String("key", key), zap.Error(err))
		return result.Page{}, false
	}
	return page, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, page *result.Page) {
	data, err := encodePage(page)
	if err != nil {
		c.logger.Warn("Failed to encode page", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}
