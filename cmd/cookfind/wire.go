package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/config"
	dbPostgres "github.com/kailas-cloud/cookfind/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/cookfind/internal/db/redis"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/cursor"
	"github.com/kailas-cloud/cookfind/internal/metrics"
	"github.com/kailas-cloud/cookfind/internal/repository/candidatecache"
	"github.com/kailas-cloud/cookfind/internal/repository/memory"
	"github.com/kailas-cloud/cookfind/internal/repository/pagecache"
	pgrepo "github.com/kailas-cloud/cookfind/internal/repository/postgres"
	chiTransport "github.com/kailas-cloud/cookfind/internal/transport/chi"
	"github.com/kailas-cloud/cookfind/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/cookfind/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cookfind/internal/usecase/search"
)

// sources are the content backends selected by source.driver.
type sources struct {
	fetchers   map[document.Kind]searchuc.Fetcher
	candidates autocomplete.Source
	// database is nil for the fixtures driver.
	database healthuc.Pinger
	close    func()
}

// services is the composition root output consumed by the HTTP server.
type services struct {
	search  chiTransport.Searcher
	suggest chiTransport.Suggester
	health  *healthuc.Service
	closers []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openSources(ctx context.Context, cfg config.Config, logger *zap.Logger) (sources, error) {
	switch cfg.Source.Driver {
	case config.DriverFixtures:
		ds, err := memory.LoadFile(cfg.Source.Fixtures)
		if err != nil {
			return sources{}, err
		}
		src := sources{fetchers: make(map[document.Kind]searchuc.Fetcher), candidates: ds, close: func() {}}
		for _, kind := range document.Kinds() {
			src.fetchers[kind] = ds.Fetcher(kind)
		}
		logger.Info("Loaded fixtures",
			zap.String("path", cfg.Source.Fixtures),
			zap.Int("recipes", ds.Len(document.Recipe)),
			zap.Int("logs", ds.Len(document.Log)),
			zap.Int("hashtags", ds.Len(document.Hashtag)),
		)
		return src, nil

	case config.DriverPostgres:
		pool, err := dbPostgres.Open(ctx, dbPostgres.Config{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return sources{}, fmt.Errorf("open postgres: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := dbPostgres.WaitForReady(ctx, pool, timeout); err != nil {
			pool.Close()
			return sources{}, fmt.Errorf("postgres not ready: %w", err)
		}
		logger.Info("Connected to database")

		repo := pgrepo.New(pool)
		if cfg.Database.Migrate {
			if err := repo.Migrate(ctx); err != nil {
				pool.Close()
				return sources{}, fmt.Errorf("migrate: %w", err)
			}
		}

		src := sources{
			fetchers:   make(map[document.Kind]searchuc.Fetcher),
			candidates: repo,
			database:   pool,
			close:      pool.Close,
		}
		for _, kind := range document.Kinds() {
			f, err := repo.Fetcher(kind)
			if err != nil {
				pool.Close()
				return sources{}, fmt.Errorf("fetcher %s: %w", kind, err)
			}
			src.fetchers[kind] = f
		}
		return src, nil

	default:
		return sources{}, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

func buildServices(ctx context.Context, cfg config.Config, logger *zap.Logger) (*services, error) {
	src, err := openSources(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	out := &services{closers: []func(){src.close}}

	if cfg.Search.CursorSecret == "" {
		logger.Warn("search.cursor_secret is empty, cursors are signed with the built-in key")
	}
	searchSvc, err := searchuc.New(src.fetchers,
		searchuc.WithCodec(cursor.NewCodec([]byte(cfg.Search.CursorSecret))),
		searchuc.WithPoolSize(cfg.Search.PoolSize),
		searchuc.WithFetchTimeout(cfg.Search.FetchTimeout()),
		searchuc.WithLogger(logger),
	)
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("create search service: %w", err)
	}
	out.closers = append(out.closers, searchSvc.Close)

	var searcher chiTransport.Searcher = searchSvc
	candidates := src.candidates
	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.Pinger

	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Cache.Addrs,
			Password:  cfg.Cache.Password,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		out.closers = append(out.closers, store.Close)

		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Warn("Cache not ready, requests fall through until it recovers", zap.Error(err))
		} else {
			logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
		}

		candidates = candidatecache.New(candidates, store,
			time.Duration(cfg.Cache.CandidatesTTLSec)*time.Second,
			metrics.CacheTotal.MustCurryWith(prometheus.Labels{"cache": "candidates"}),
			logger,
		)
		searcher = pagecache.New(searchSvc, store,
			time.Duration(cfg.Cache.PageTTLSec)*time.Second,
			metrics.CacheTotal.MustCurryWith(prometheus.Labels{"cache": "page"}),
			logger,
		)
		cachePinger = store
	}

	out.search = searcher
	out.suggest = autocomplete.New(candidates, logger)
	out.health = healthuc.New(src.database, cachePinger)
	return out, nil
}
