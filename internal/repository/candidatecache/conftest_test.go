package candidatecache

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/cookfind/internal/db"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

type mockSource struct {
	cands []catalog.Candidate
	err   error
	calls int
}

func (m *mockSource) ListCandidates(_ context.Context, _ *catalog.Kind) ([]catalog.Candidate, error) {
	m.calls++
	return m.cands, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	ttls   map[string]time.Duration
	dels   []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.dels = append(m.dels, keys...)
	return nil
}

func testCandidates(t *testing.T) []catalog.Candidate {
	t.Helper()
	tomato, err := catalog.NewCandidate("1", locale.MustName(
		locale.Entry{Locale: "ko-KR", Text: "토마토"},
		locale.Entry{Locale: "en-US", Text: "tomato"},
	), catalog.Food, 80, "tomato")
	if err != nil {
		t.Fatalf("NewCandidate: %v", err)
	}
	soup, err := catalog.NewCandidate("2", locale.MustName(
		locale.Entry{Locale: "en-US", Text: "soup"},
	), catalog.Category, 10, "")
	if err != nil {
		t.Fatalf("NewCandidate: %v", err)
	}
	return []catalog.Candidate{tomato, soup}
}
