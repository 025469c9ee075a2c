package autocomplete

import (
	"fmt"
	"testing"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
	"github.com/kailas-cloud/cookfind/internal/domain/match"
)

func cand(t *testing.T, id string, kind catalog.Kind, keyword string, names ...locale.Entry) catalog.Candidate {
	t.Helper()
	c, err := catalog.NewCandidate(id, locale.MustName(names...), kind, 50, keyword)
	if err != nil {
		t.Fatalf("NewCandidate: %v", err)
	}
	return c
}

func en(text string) locale.Entry { return locale.Entry{Locale: "en-US", Text: text} }
func ko(text string) locale.Entry { return locale.Entry{Locale: "ko-KR", Text: text} }

func TestRank_TypoExample(t *testing.T) {
	cands := []catalog.Candidate{
		cand(t, "1", catalog.Food, "", en("tomato")),
		cand(t, "2", catalog.Food, "", en("potato")),
	}
	got := rank("tmato", "en-US", cands, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %+v", len(got), got)
	}
	if got[0].DisplayName != "tomato" {
		t.Errorf("DisplayName = %q", got[0].DisplayName)
	}
	if !match.Matches(got[0].Score) {
		t.Errorf("score %f should be above threshold", got[0].Score)
	}
}

func TestRank_SortOrder(t *testing.T) {
	cands := []catalog.Candidate{
		cand(t, "c", catalog.Food, "", en("cherry tomato")),
		cand(t, "b", catalog.Food, "", en("tomato")),
		cand(t, "a", catalog.Category, "", en("tomatoes")),
		cand(t, "d", catalog.Food, "", en("tomato")),
		cand(t, "e", catalog.Food, "", en("tomatillo")),
	}
	got := rank("tomato", "en-US", cands, 10)

	wantIDs := []string{"b", "d", "a", "c"}
	if len(got) < len(wantIDs) {
		t.Fatalf("expected at least %d suggestions, got %d", len(wantIDs), len(got))
	}
	for i, id := range wantIDs {
		if got[i].Candidate.ID() != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].Candidate.ID(), id)
		}
	}
	assertSorted(t, got)
}

func TestRank_Limit(t *testing.T) {
	var cands []catalog.Candidate
	for i := 0; i < 20; i++ {
		cands = append(cands, cand(t, fmt.Sprintf("id-%02d", i), catalog.Food, "", en("rice cake")))
	}
	got := rank("rice", "en-US", cands, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(got))
	}
	if got[0].Candidate.ID() != "id-00" || got[4].Candidate.ID() != "id-04" {
		t.Errorf("expected id ascending tie-break, got %s..%s", got[0].Candidate.ID(), got[4].Candidate.ID())
	}
}

func TestRank_EmptyInputs(t *testing.T) {
	cands := []catalog.Candidate{cand(t, "1", catalog.Food, "", en("tomato"))}
	if got := rank("", "en-US", cands, 10); len(got) != 0 {
		t.Errorf("empty keyword: got %d", len(got))
	}
	if got := rank("   ", "en-US", cands, 10); len(got) != 0 {
		t.Errorf("blank keyword: got %d", len(got))
	}
	if got := rank("tomato", "en-US", nil, 10); got == nil || len(got) != 0 {
		t.Errorf("no candidates: got %v", got)
	}
	if got := rank("tomato", "en-US", cands, 0); len(got) != 0 {
		t.Errorf("zero limit: got %d", len(got))
	}
}

func TestRank_LocaleResolution(t *testing.T) {
	cands := []catalog.Candidate{
		cand(t, "1", catalog.Food, "", ko("토마토"), en("tomato")),
		cand(t, "2", catalog.Food, "", ko("감자"), en("potato")),
	}
	got := rank("토마토", "ko-KR", cands, 10)
	if len(got) != 1 || got[0].DisplayName != "토마토" {
		t.Fatalf("unexpected: %+v", got)
	}

	// Korean-only candidate falls back to its first entry for en-US.
	only := []catalog.Candidate{cand(t, "3", catalog.Food, "", ko("토마토"))}
	got = rank("토마토", "en-US", only, 10)
	if len(got) != 1 || got[0].DisplayName != "토마토" {
		t.Fatalf("unexpected fallback: %+v", got)
	}
}

func TestRank_SecondaryKeyword(t *testing.T) {
	cands := []catalog.Candidate{
		cand(t, "1", catalog.Food, "tomato", ko("토마토")),
	}
	got := rank("tomato", "ko-KR", cands, 10)
	if len(got) != 1 {
		t.Fatalf("expected keyword field to match, got %d", len(got))
	}
	if got[0].Score != 1 || got[0].DisplayName != "토마토" {
		t.Errorf("unexpected suggestion: %+v", got[0])
	}
}

func TestRank_ExcludesAtThreshold(t *testing.T) {
	cands := []catalog.Candidate{
		cand(t, "1", catalog.Food, "", en("potato")),
		cand(t, "2", catalog.Food, "", en("bread")),
	}
	for _, s := range rank("tmato", "en-US", cands, 10) {
		if s.Score <= match.Threshold {
			t.Errorf("suggestion %q scored %f, must be excluded", s.DisplayName, s.Score)
		}
	}
}

func assertSorted(t *testing.T, got []catalog.Suggestion) {
	t.Helper()
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Score < cur.Score {
			t.Fatalf("not sorted by score at %d", i)
		}
		if prev.Score == cur.Score {
			pl, cl := len([]rune(prev.DisplayName)), len([]rune(cur.DisplayName))
			if pl > cl {
				t.Fatalf("not sorted by length at %d", i)
			}
			if pl == cl && prev.Candidate.ID() >= cur.Candidate.ID() {
				t.Fatalf("not sorted by id at %d", i)
			}
		}
	}
}
