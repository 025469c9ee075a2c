package cookfind

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/search/cursor"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/usecase/autocomplete"
	searchuc "github.com/kailas-cloud/cookfind/internal/usecase/search"
)

// ErrNoSource is returned by Autocomplete when no Source was configured.
var ErrNoSource = errors.New("cookfind: autocomplete source not configured (use WithSource or WithFixtures)")

// Engine is the cookfind library entry point. Safe for concurrent use.
type Engine struct {
	search  *searchuc.Service
	suggest *autocomplete.Service
}

// New creates an Engine. At least one fetcher or a source is required.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{fetchers: make(map[Kind]Fetcher)}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if len(cfg.fetchers) == 0 && cfg.source == nil {
		return nil, errors.New("cookfind: nothing to search (use WithFetcher, WithSource or WithFixtures)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	searchOpts := []searchuc.Option{
		searchuc.WithCodec(cursor.NewCodec(cfg.cursorSecret)),
		searchuc.WithLogger(logger),
	}
	if cfg.poolSize != 0 {
		searchOpts = append(searchOpts, searchuc.WithPoolSize(cfg.poolSize))
	}
	if cfg.fetchTimeout != 0 {
		searchOpts = append(searchOpts, searchuc.WithFetchTimeout(cfg.fetchTimeout))
	}

	svc, err := searchuc.New(cfg.fetchers, searchOpts...)
	if err != nil {
		return nil, fmt.Errorf("cookfind: %w", err)
	}

	e := &Engine{search: svc}
	if cfg.source != nil {
		e.suggest = autocomplete.New(cfg.source, logger)
	}
	return e, nil
}

// Close releases the fetch workers.
func (e *Engine) Close() {
	e.search.Close()
}

// Search returns one page of results across every registered kind.
// A source that fails or times out is listed in Page.Degraded instead of failing the call.
func (e *Engine) Search(ctx context.Context, q SearchQuery) (Page, error) {
	req, err := request.NewSearch(q.Keyword, q.Locale, q.PageSize, q.Cursor)
	if err != nil {
		return Page{}, err
	}
	page, err := e.search.Search(ctx, &req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return page, nil
}

// Autocomplete returns ranked reference items for a partial keyword.
func (e *Engine) Autocomplete(ctx context.Context, q SuggestQuery) ([]Suggestion, error) {
	if e.suggest == nil {
		return nil, ErrNoSource
	}
	var kind *catalog.Kind
	if q.Type != "" {
		k := q.Type
		kind = &k
	}
	req, err := request.NewSuggest(q.Keyword, q.Locale, kind, q.Limit)
	if err != nil {
		return nil, err
	}
	out, err := e.suggest.Suggest(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return out, nil
}
