package cookfind

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/repository/memory"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	fetchers map[Kind]Fetcher
	source   Source

	cursorSecret []byte
	poolSize     int
	fetchTimeout time.Duration

	logger *zap.Logger
	err    error
}

// WithFetcher registers the search source for one kind. Later calls replace earlier ones.
func WithFetcher(kind Kind, f Fetcher) Option {
	return optionFunc(func(c *engineConfig) {
		c.fetchers[kind] = f
	})
}

// WithSource sets the autocomplete candidate source.
func WithSource(s Source) Option {
	return optionFunc(func(c *engineConfig) {
		c.source = s
	})
}

// WithFixtures loads a YAML or JSON dataset and serves every kind and autocomplete from memory.
func WithFixtures(path string) Option {
	return optionFunc(func(c *engineConfig) {
		ds, err := memory.LoadFile(path)
		if err != nil {
			c.err = fmt.Errorf("cookfind: %w", err)
			return
		}
		for _, kind := range []Kind{KindRecipe, KindLog, KindHashtag} {
			c.fetchers[kind] = ds.Fetcher(kind)
		}
		c.source = ds
	})
}

// WithCursorSecret sets the HMAC key that signs pagination cursors.
// Cursors issued under one secret are rejected under another (paging restarts).
func WithCursorSecret(secret []byte) Option {
	return optionFunc(func(c *engineConfig) {
		c.cursorSecret = append([]byte(nil), secret...)
	})
}

// WithLogger enables structured logging. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPoolSize sets the number of fetch workers. Default: 64.
func WithPoolSize(size int) Option {
	return optionFunc(func(c *engineConfig) {
		c.poolSize = size
	})
}

// WithFetchTimeout bounds each fetcher call. Default: 2s.
func WithFetchTimeout(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.fetchTimeout = d
	})
}
