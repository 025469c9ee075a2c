// Package memory serves search and autocomplete from an in-memory dataset loaded from fixture files.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/match"
	"github.com/kailas-cloud/cookfind/internal/usecase/search"
)

// Dataset holds immutable documents and autocomplete candidates.
type Dataset struct {
	docs       map[document.Kind][]document.Document
	candidates []catalog.Candidate
}

// LoadFile reads a YAML or JSON fixture file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures %s: %w", path, err)
	}
	return ds, nil
}

// Parse builds a dataset from fixture bytes.
func Parse(data []byte) (*Dataset, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	recipes, logs, tags, err := f.documents()
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	cands, err := f.candidates()
	if err != nil {
		return nil, fmt.Errorf("invalid candidate: %w", err)
	}
	return &Dataset{
		docs: map[document.Kind][]document.Document{
			document.Recipe:  recipes,
			document.Log:     logs,
			document.Hashtag: tags,
		},
		candidates: cands,
	}, nil
}

// Len returns the number of documents of kind.
func (d *Dataset) Len(kind document.Kind) int { return len(d.docs[kind]) }

// Fetcher returns the search source for one kind.
func (d *Dataset) Fetcher(kind document.Kind) *Fetcher {
	return &Fetcher{kind: kind, docs: d.docs[kind]}
}

// ListCandidates returns candidates in file order, optionally filtered by kind.
func (d *Dataset) ListCandidates(ctx context.Context, kind *catalog.Kind) ([]catalog.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	out := make([]catalog.Candidate, 0, len(d.candidates))
	for _, c := range d.candidates {
		if kind == nil || c.Kind() == *kind {
			out = append(out, c)
		}
	}
	return out, nil
}

// Fetcher scores one kind of documents with the fuzzy matcher.
type Fetcher struct {
	kind document.Kind
	docs []document.Document
}

// Fetch scores every document as the best match over its title and hashtags,
// keeps matches, and pages them by key.
func (f *Fetcher) Fetch(ctx context.Context, q search.FetchQuery) (search.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return search.FetchResult{}, fmt.Errorf("fetch %s: %w", f.kind, err)
	}

	matched := make([]document.Document, 0, len(f.docs))
	for i := range f.docs {
		d := &f.docs[i]
		best := match.Best(q.Keyword, append([]string{d.Title()}, d.Hashtags()...)...)
		if !best.Matched() {
			continue
		}
		scored, err := d.WithScore(best.Score)
		if err != nil {
			return search.FetchResult{}, fmt.Errorf("score %s %q: %w", f.kind, d.ID(), err)
		}
		matched = append(matched, scored)
	}
	slices.SortFunc(matched, func(a, b document.Document) int { return document.Compare(&a, &b) })

	res := search.FetchResult{Total: len(matched)}
	for i := range matched {
		if q.After != nil && matched[i].Key().Compare(*q.After) <= 0 {
			continue
		}
		if q.Limit > 0 && len(res.Documents) == q.Limit {
			break
		}
		res.Documents = append(res.Documents, matched[i])
	}
	return res, nil
}
