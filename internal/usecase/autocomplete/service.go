package autocomplete

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/logger"
)

// Service ranks reference items for autocomplete.
type Service struct {
	source Source
	logger *zap.Logger
}

// New creates an autocomplete service.
func New(source Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, logger: log}
}

// Suggest returns ranked suggestions for a validated request.
// An empty keyword returns no suggestions without touching the source.
func (s *Service) Suggest(ctx context.Context, req *request.Suggest) ([]catalog.Suggestion, error) {
	if req.Keyword() == "" {
		return []catalog.Suggestion{}, nil
	}

	candidates, err := s.source.ListCandidates(ctx, req.Kind())
	if err != nil {
		logger.FromContext(ctx).Warn("autocomplete source failed", zap.Error(err))
		return nil, domain.NewSourceError("autocomplete", err)
	}

	if kind := req.Kind(); kind != nil {
		candidates = filterKind(candidates, *kind)
	}

	out := rank(req.Keyword(), req.Locale(), candidates, req.Limit())
	s.logger.Debug("autocomplete ranked",
		zap.String("keyword", req.Keyword()),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

func filterKind(candidates []catalog.Candidate, kind catalog.Kind) []catalog.Candidate {
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}
