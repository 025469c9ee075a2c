package search

import (
	"context"

	"github.com/kailas-cloud/cookfind/internal/domain/document"
)

// FetchQuery asks one source for its next batch of matches.
type FetchQuery struct {
	Keyword string
	Locale  string
	// After is the key of the last document already delivered, nil on the first page.
	After *document.Key
	Limit int
}

// FetchResult is one batch of matches of a single kind.
type FetchResult struct {
	// Documents are matches strictly after the query's After key, in result order.
	Documents []document.Document
	// Total is the number of matches for the keyword regardless of paging.
	Total int
}

// Fetcher is the read contract of a single content source.
// Scores must be comparable across kinds (fuzzy similarity in [0, 1]).
type Fetcher interface {
	Fetch(ctx context.Context, q FetchQuery) (FetchResult, error)
}
