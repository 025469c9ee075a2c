package autocomplete

import (
	"context"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
)

// Source lists verified/published reference items. A nil kind lists every kind.
type Source interface {
	ListCandidates(ctx context.Context, kind *catalog.Kind) ([]catalog.Candidate, error)
}
