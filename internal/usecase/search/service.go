package search

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/cursor"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
	"github.com/kailas-cloud/cookfind/internal/logger"
	"github.com/kailas-cloud/cookfind/internal/metrics"
)

// Defaults for the fan-out.
const (
	DefaultPoolSize     = 64
	DefaultFetchTimeout = 2 * time.Second
)

// Service runs unified search: one fetch per kind, merged into a single ordered page.
type Service struct {
	fetchers     map[document.Kind]Fetcher
	kinds        []document.Kind
	codec        *cursor.Codec
	pool         *ants.Pool
	ownsPool     bool
	poolSize     int
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithCodec sets the cursor codec (default: built-in secret).
func WithCodec(c *cursor.Codec) Option {
	return func(s *Service) error {
		if c == nil {
			return errors.New("nil cursor codec")
		}
		s.codec = c
		return nil
	}
}

// WithPool runs fetches on a caller-owned pool. Close does not release it.
// A blocking pool holds a search until a worker frees up; prefer a nonblocking one.
func WithPool(p *ants.Pool) Option {
	return func(s *Service) error {
		if p == nil {
			return errors.New("nil pool")
		}
		s.pool = p
		return nil
	}
}

// WithPoolSize sets the size of the internally created pool.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		s.poolSize = size
		return nil
	}
}

// WithFetchTimeout bounds every individual fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) error {
		if d <= 0 {
			return fmt.Errorf("fetch timeout must be positive, got %s", d)
		}
		s.fetchTimeout = d
		return nil
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// New creates a search service over one fetcher per kind.
func New(fetchers map[document.Kind]Fetcher, opts ...Option) (*Service, error) {
	s := &Service{
		fetchers:     make(map[document.Kind]Fetcher, len(fetchers)),
		poolSize:     DefaultPoolSize,
		fetchTimeout: DefaultFetchTimeout,
		logger:       zap.NewNop(),
	}
	for _, kind := range document.Kinds() {
		f, ok := fetchers[kind]
		if !ok || f == nil {
			continue
		}
		s.fetchers[kind] = f
		s.kinds = append(s.kinds, kind)
	}
	if len(s.fetchers) != len(fetchers) {
		return nil, errors.New("fetcher is nil or registered for an unknown kind")
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if s.codec == nil {
		s.codec = cursor.NewCodec(nil)
	}
	if s.pool == nil {
		pool, err := ants.NewPool(s.poolSize, ants.WithNonblocking(true))
		if err != nil {
			return nil, fmt.Errorf("create fetch pool: %w", err)
		}
		s.pool = pool
		s.ownsPool = true
	}
	return s, nil
}

// Close releases the internally created pool.
func (s *Service) Close() {
	if s.ownsPool {
		s.pool.Release()
	}
}

// fetchOutcome is the result of one fetcher for one request.
type fetchOutcome struct {
	kind  document.Kind
	res   FetchResult
	err   error
	after *document.Key
}

// Search returns one page of the unified result stream.
// Failing sources degrade the page instead of failing it; an unusable cursor restarts paging.
func (s *Service) Search(ctx context.Context, req *request.Search) (result.Page, error) {
	if req.Keyword() == "" {
		return result.Page{Items: []result.Item{}}, nil
	}

	log := logger.FromContext(ctx)
	fingerprint := cursor.Fingerprint(req.Keyword(), req.Locale())
	cur := s.resume(ctx, req.Cursor(), fingerprint)

	outcomes := s.fanOut(ctx, req, cur)
	if err := ctx.Err(); err != nil {
		return result.Page{}, fmt.Errorf("search: %w", err)
	}

	page := result.Page{}
	batches := make([]*batch, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			log.Warn("search source failed", zap.String("kind", string(o.kind)), zap.Error(o.err))
			metrics.SourceFailuresTotal.WithLabelValues(string(o.kind)).Inc()
			page.Degraded = append(page.Degraded, o.kind)
			continue
		}
		page.Counts.Add(o.kind, o.res.Total)
		batches = append(batches, prepare(o.kind, o.res.Documents, o.after))
	}

	merged := merge(batches, req.PageSize())
	page.Items = merged.items
	if page.IsDegraded() {
		metrics.DegradedResponsesTotal.Inc()
	}

	if merged.more {
		next := cursor.Cursor{Query: fingerprint, After: make(map[document.Kind]document.Key)}
		maps.Copy(next.After, cur.After)
		maps.Copy(next.After, merged.last)
		token, err := s.codec.Encode(next)
		if err != nil {
			return result.Page{}, fmt.Errorf("encode cursor: %w", err)
		}
		page.NextCursor = token
	}

	s.logger.Debug("search merged",
		zap.String("keyword", req.Keyword()),
		zap.Int("returned", len(page.Items)),
		zap.Int("total", page.Counts.Total()),
		zap.Bool("has_more", page.HasMore()),
	)
	return page, nil
}

// resume decodes the request cursor; anything unusable means the first page.
func (s *Service) resume(ctx context.Context, token, fingerprint string) cursor.Cursor {
	if token == "" {
		return cursor.Cursor{Query: fingerprint}
	}
	cur, err := s.codec.DecodeFor(token, fingerprint)
	if err != nil {
		logger.FromContext(ctx).Debug("cursor rejected, restarting", zap.Error(err))
		metrics.CursorDecodeFailuresTotal.Inc()
		return cursor.Cursor{Query: fingerprint}
	}
	return cur
}

// fanOut runs every fetcher on the pool and collects what arrives before the fetch deadline.
// Kinds that miss the deadline, or that the pool refuses, come back as failed; their late
// results are dropped.
func (s *Service) fanOut(ctx context.Context, req *request.Search, cur cursor.Cursor) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(s.kinds))
	// Buffered so a straggler can always deliver and exit after the join gave up on it.
	done := make(chan fetchOutcome, len(s.kinds))
	pending := make(map[document.Kind]int, len(s.kinds))

	for i, kind := range s.kinds {
		q := FetchQuery{
			Keyword: req.Keyword(),
			Locale:  req.Locale(),
			After:   cur.Resume(kind),
			Limit:   req.PageSize() + 1,
		}
		outcomes[i] = fetchOutcome{kind: kind, after: q.After}

		err := s.pool.Submit(func() {
			o := fetchOutcome{kind: kind, after: q.After}
			o.res, o.err = s.fetch(ctx, kind, q)
			done <- o
		})
		if err != nil {
			outcomes[i].err = domain.NewSourceError(string(kind), fmt.Errorf("submit fetch: %w", err))
			continue
		}
		pending[kind] = i
	}

	timer := time.NewTimer(s.fetchTimeout)
	defer timer.Stop()

	for len(pending) > 0 {
		select {
		case o := <-done:
			outcomes[pending[o.kind]] = o
			delete(pending, o.kind)
		case <-timer.C:
			for kind, i := range pending {
				outcomes[i].err = domain.NewSourceError(string(kind), context.DeadlineExceeded)
			}
			return outcomes
		case <-ctx.Done():
			for kind, i := range pending {
				outcomes[i].err = domain.NewSourceError(string(kind), ctx.Err())
			}
			return outcomes
		}
	}
	return outcomes
}

// fetch calls one fetcher under the per-fetch timeout.
// A result that arrives after the deadline counts as a timeout.
func (s *Service) fetch(ctx context.Context, kind document.Kind, q FetchQuery) (res FetchResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res, err = FetchResult{}, fmt.Errorf("fetcher panic: %v", r)
		}
		metrics.FetchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	res, err = s.fetchers[kind].Fetch(ctx, q)
	if err != nil {
		return FetchResult{}, domain.NewSourceError(string(kind), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return FetchResult{}, domain.NewSourceError(string(kind), ctxErr)
	}
	return res, nil
}
