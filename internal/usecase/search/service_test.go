package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/cursor"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
)

// --- Mocks ---

// sliceFetcher serves a fixed set of documents with keyset paging.
type sliceFetcher struct {
	docs  []document.Document
	total int
	err   error
	delay time.Duration
	calls atomic.Int32
}

func newSliceFetcher(docs ...document.Document) *sliceFetcher {
	sorted := slices.Clone(docs)
	slices.SortFunc(sorted, func(a, b document.Document) int { return document.Compare(&a, &b) })
	return &sliceFetcher{docs: sorted, total: len(sorted)}
}

func (f *sliceFetcher) Fetch(ctx context.Context, q FetchQuery) (FetchResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return FetchResult{}, ctx.Err()
		}
	}
	if f.err != nil {
		return FetchResult{}, f.err
	}
	var out []document.Document
	for _, d := range f.docs {
		if q.After != nil && d.Key().Compare(*q.After) <= 0 {
			continue
		}
		out = append(out, d)
		if len(out) == q.Limit {
			break
		}
	}
	return FetchResult{Documents: out, Total: f.total}, nil
}

// stuckFetcher never looks at its context; it returns only once release is closed.
type stuckFetcher struct {
	release chan struct{}
}

func newStuckFetcher(t *testing.T) *stuckFetcher {
	t.Helper()
	f := &stuckFetcher{release: make(chan struct{})}
	t.Cleanup(func() { close(f.release) })
	return f
}

func (f *stuckFetcher) Fetch(context.Context, FetchQuery) (FetchResult, error) {
	<-f.release
	return FetchResult{}, nil
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, FetchQuery) (FetchResult, error) { panic("boom") }

// --- Helpers ---

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func mkDoc(t *testing.T, kind document.Kind, id string, score float64, age int) document.Document {
	t.Helper()
	c := document.Common{
		ID:        id,
		CreatedAt: base.Add(-time.Duration(age) * time.Hour),
		Title:     id,
		Score:     score,
	}
	var (
		d   document.Document
		err error
	)
	switch kind {
	case document.Recipe:
		d, err = document.NewRecipe(c, document.RecipePayload{})
	case document.Log:
		d, err = document.NewLog(c, document.LogPayload{})
	default:
		d, err = document.NewHashtag(c, document.HashtagPayload{})
	}
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return d
}

func mkDocs(t *testing.T, kind document.Kind, n int) []document.Document {
	t.Helper()
	out := make([]document.Document, n)
	for i := range n {
		// Repeating scores and ages force the createdAt and id tie-breaks.
		score := float64(10-i%4) / 10
		out[i] = mkDoc(t, kind, fmt.Sprintf("%s-%02d", kind, i), score, i%3)
	}
	return out
}

func newService(t *testing.T, fetchers map[document.Kind]Fetcher, opts ...Option) *Service {
	t.Helper()
	svc, err := New(fetchers, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func searchReq(t *testing.T, keyword string, pageSize int, token string) *request.Search {
	t.Helper()
	r, err := request.NewSearch(keyword, "en-US", pageSize, token)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}
	return &r
}

func firstID(p result.Page) string {
	if len(p.Items) == 0 {
		return ""
	}
	d := p.Items[0].Document()
	return d.ID()
}

// flip changes one character in the middle of a token.
func flip(token string) string {
	b := []byte(token)
	i := len(b) / 2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

// --- Tests ---

func TestSearch_ExhaustedFetchers(t *testing.T) {
	empty := func() *sliceFetcher { return &sliceFetcher{total: 5} }
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe:  empty(),
		document.Log:     empty(),
		document.Hashtag: empty(),
	})

	page, err := svc.Search(context.Background(), searchReq(t, "tomato", 10, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected no items, got %d", len(page.Items))
	}
	if page.Counts.Recipes != 5 || page.Counts.Logs != 5 || page.Counts.Hashtags != 5 {
		t.Errorf("unexpected counts: %+v", page.Counts)
	}
	if page.NextCursor != "" {
		t.Errorf("expected terminal page, got cursor %q", page.NextCursor)
	}
}

func TestSearch_EmptyKeyword(t *testing.T) {
	f := newSliceFetcher(mkDocs(t, document.Recipe, 3)...)
	svc := newService(t, map[document.Kind]Fetcher{document.Recipe: f})

	page, err := svc.Search(context.Background(), searchReq(t, "   ", 10, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 || page.Counts.Total() != 0 || page.NextCursor != "" {
		t.Errorf("expected empty page, got %+v", page)
	}
	if f.calls.Load() != 0 {
		t.Errorf("fetcher must not be called, got %d calls", f.calls.Load())
	}
}

func TestSearch_PaginationCompleteness(t *testing.T) {
	recipes := mkDocs(t, document.Recipe, 7)
	logs := mkDocs(t, document.Log, 3)
	tags := mkDocs(t, document.Hashtag, 11)
	// Same id and key in two kinds must both be delivered.
	logs = append(logs, mkDoc(t, document.Log, "recipe-00", recipes[0].Score(), 0))

	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe:  newSliceFetcher(recipes...),
		document.Log:     newSliceFetcher(logs...),
		document.Hashtag: newSliceFetcher(tags...),
	})

	all := slices.Concat(recipes, logs, tags)
	slices.SortFunc(all, func(a, b document.Document) int { return document.Compare(&a, &b) })

	var (
		got   []document.Document
		token string
		pages int
	)
	for {
		page, err := svc.Search(context.Background(), searchReq(t, "tomato", 4, token))
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		pages++
		if page.Counts.Total() != len(all) {
			t.Fatalf("page %d: counts %d, want %d", pages, page.Counts.Total(), len(all))
		}
		if len(page.Items) > 4 {
			t.Fatalf("page %d: %d items exceeds page size", pages, len(page.Items))
		}
		for _, it := range page.Items {
			got = append(got, it.Document())
		}
		if page.NextCursor == "" {
			break
		}
		if len(page.Items) != 4 {
			t.Fatalf("page %d: non-terminal page has %d items", pages, len(page.Items))
		}
		token = page.NextCursor
		if pages > 20 {
			t.Fatal("pagination did not terminate")
		}
	}

	if len(got) != len(all) {
		t.Fatalf("got %d documents, want %d", len(got), len(all))
	}
	for i := range all {
		if got[i].Kind() != all[i].Kind() || got[i].ID() != all[i].ID() {
			t.Fatalf("position %d: got %s/%s, want %s/%s",
				i, got[i].Kind(), got[i].ID(), all[i].Kind(), all[i].ID())
		}
	}
}

func TestSearch_ExactPageBoundary(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe: newSliceFetcher(mkDocs(t, document.Recipe, 4)...),
	})

	page, err := svc.Search(context.Background(), searchReq(t, "tomato", 4, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(page.Items))
	}
	if page.NextCursor != "" {
		t.Errorf("exactly pageSize candidates must be terminal, got cursor")
	}
}

func TestSearch_Deterministic(t *testing.T) {
	fetchers := map[document.Kind]Fetcher{
		document.Recipe:  newSliceFetcher(mkDocs(t, document.Recipe, 9)...),
		document.Log:     newSliceFetcher(mkDocs(t, document.Log, 9)...),
		document.Hashtag: newSliceFetcher(mkDocs(t, document.Hashtag, 9)...),
	}
	svc := newService(t, fetchers)

	first, err := svc.Search(context.Background(), searchReq(t, "tomato", 5, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 10 {
		again, err := svc.Search(context.Background(), searchReq(t, "tomato", 5, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.NextCursor != first.NextCursor {
			t.Fatal("cursor differs between identical requests")
		}
		for i := range first.Items {
			a, b := first.Items[i].Document(), again.Items[i].Document()
			if a.Kind() != b.Kind() || a.ID() != b.ID() {
				t.Fatalf("item %d differs between identical requests", i)
			}
		}
	}

	// A separate service with its own pool produces the same bytes.
	other := newService(t, fetchers)
	page, err := other.Search(context.Background(), searchReq(t, "tomato", 5, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.NextCursor != first.NextCursor {
		t.Error("cursor differs between service instances")
	}
}

func TestSearch_DegradedSource(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe:  newSliceFetcher(mkDocs(t, document.Recipe, 3)...),
		document.Log:     &sliceFetcher{err: errors.New("connection refused")},
		document.Hashtag: panicFetcher{},
	})

	page, err := svc.Search(context.Background(), searchReq(t, "tomato", 10, ""))
	if err != nil {
		t.Fatalf("source failures must not fail the query: %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("expected 3 recipe items, got %d", len(page.Items))
	}
	if !slices.Equal(page.Degraded, []document.Kind{document.Log, document.Hashtag}) {
		t.Errorf("unexpected degraded kinds: %v", page.Degraded)
	}
	if page.Counts.Logs != 0 || page.Counts.Hashtags != 0 || page.Counts.Recipes != 3 {
		t.Errorf("unexpected counts: %+v", page.Counts)
	}
}

func TestSearch_FetchTimeout(t *testing.T) {
	slow := newSliceFetcher(mkDocs(t, document.Log, 2)...)
	slow.delay = time.Second
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe: newSliceFetcher(mkDocs(t, document.Recipe, 2)...),
		document.Log:    slow,
	}, WithFetchTimeout(20*time.Millisecond))

	start := time.Now()
	page, err := svc.Search(context.Background(), searchReq(t, "tomato", 10, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("timeout not enforced")
	}
	if !slices.Equal(page.Degraded, []document.Kind{document.Log}) {
		t.Errorf("expected log to be degraded, got %v", page.Degraded)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(page.Items))
	}
}

func TestSearch_FetcherIgnoringContext(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe:  newSliceFetcher(mkDocs(t, document.Recipe, 2)...),
		document.Hashtag: newStuckFetcher(t),
	}, WithFetchTimeout(50*time.Millisecond))

	start := time.Now()
	page, err := svc.Search(context.Background(), searchReq(t, "tomato", 10, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("search waited %s for a stuck fetcher", elapsed)
	}
	if !slices.Equal(page.Degraded, []document.Kind{document.Hashtag}) {
		t.Errorf("expected hashtag to be degraded, got %v", page.Degraded)
	}
	if len(page.Items) != 2 || page.Counts.Total() != 2 {
		t.Errorf("expected 2 recipe items, got %d (counts %+v)", len(page.Items), page.Counts)
	}
}

func TestSearch_SaturatedPoolDegrades(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe: newStuckFetcher(t),
	}, WithPoolSize(1), WithFetchTimeout(50*time.Millisecond))

	// The first search leaves the only worker stuck.
	if _, err := svc.Search(context.Background(), searchReq(t, "tomato", 10, "")); err != nil {
		t.Fatalf("first search: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	page, err := svc.Search(ctx, searchReq(t, "tomato", 10, ""))
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Errorf("search blocked %s on a full pool", elapsed)
	}
	if !slices.Equal(page.Degraded, []document.Kind{document.Recipe}) {
		t.Errorf("expected recipe to be degraded, got %v", page.Degraded)
	}
}

func TestSearch_InvalidCursorRestarts(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe: newSliceFetcher(mkDocs(t, document.Recipe, 6)...),
	})
	first, err := svc.Search(context.Background(), searchReq(t, "tomato", 3, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, token := range []string{"garbage", flip(first.NextCursor)} {
		page, err := svc.Search(context.Background(), searchReq(t, "tomato", 3, token))
		if err != nil {
			t.Fatalf("invalid cursor must not fail: %v", err)
		}
		if firstID(page) != firstID(first) {
			t.Errorf("token %q: expected restart from the first page", token)
		}
	}

	// A cursor issued for another keyword restarts too.
	page, err := svc.Search(context.Background(), searchReq(t, "potato", 3, first.NextCursor))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if firstID(page) != firstID(first) {
		t.Error("foreign cursor must restart paging")
	}
}

func TestSearch_CursorFromOtherSecretRestarts(t *testing.T) {
	fetchers := map[document.Kind]Fetcher{
		document.Recipe: newSliceFetcher(mkDocs(t, document.Recipe, 6)...),
	}
	a := newService(t, fetchers, WithCodec(cursor.NewCodec([]byte("a"))))
	b := newService(t, fetchers, WithCodec(cursor.NewCodec([]byte("b"))))

	first, err := a.Search(context.Background(), searchReq(t, "tomato", 3, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, err := b.Search(context.Background(), searchReq(t, "tomato", 3, first.NextCursor))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if firstID(page) != firstID(first) {
		t.Error("cursor signed with another secret must restart paging")
	}
}

func TestSearch_CanceledContext(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Recipe: newSliceFetcher(mkDocs(t, document.Recipe, 2)...),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Search(ctx, searchReq(t, "tomato", 3, "")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(map[document.Kind]Fetcher{"video": newSliceFetcher()}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := New(nil, WithPoolSize(0)); err == nil {
		t.Error("expected error for zero pool size")
	}
	if _, err := New(nil, WithFetchTimeout(-time.Second)); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestSearch_SourceErrorIsWrapped(t *testing.T) {
	svc := newService(t, map[document.Kind]Fetcher{
		document.Log: &sliceFetcher{err: errors.New("down")},
	})
	_, err := svc.fetch(context.Background(), document.Log, FetchQuery{Keyword: "x", Limit: 1})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
