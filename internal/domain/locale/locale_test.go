package locale

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/cookfind/internal/domain"
)

func TestResolve_ExactMatch(t *testing.T) {
	n := MustName(Entry{"ko-KR", "토마토"}, Entry{"en-US", "Tomato"})
	if got := Resolve(n, "ko-KR"); got != "토마토" {
		t.Errorf("Resolve = %q, want 토마토", got)
	}
}

func TestResolve_DefaultLocaleFallback(t *testing.T) {
	n := MustName(Entry{"ja-JP", "トマト"}, Entry{"en-US", "Tomato"})
	if got := Resolve(n, "ko-KR"); got != "Tomato" {
		t.Errorf("Resolve = %q, want Tomato", got)
	}
}

func TestResolve_FirstEntryFallback(t *testing.T) {
	n := MustName(Entry{"ko-KR", "토마토"})
	if got := Resolve(n, "en-US"); got != "토마토" {
		t.Errorf("Resolve = %q, want 토마토", got)
	}
}

func TestResolve_FirstEntryIsInsertionOrder(t *testing.T) {
	n := MustName(Entry{"ja-JP", "トマト"}, Entry{"ko-KR", "토마토"}, Entry{"fr-FR", "Tomate"})
	for i := 0; i < 50; i++ {
		if got := Resolve(n, "de-DE"); got != "トマト" {
			t.Fatalf("iteration %d: Resolve = %q, want トマト", i, got)
		}
	}
}

func TestResolve_Empty(t *testing.T) {
	if got := Resolve(Name{}, "en-US"); got != Unknown {
		t.Errorf("Resolve = %q, want %q", got, Unknown)
	}
	n := MustName()
	if got := Resolve(n, ""); got != Unknown {
		t.Errorf("Resolve = %q, want %q", got, Unknown)
	}
}

func TestResolve_CaseInsensitiveTag(t *testing.T) {
	n := MustName(Entry{"ko-kr", "토마토"}, Entry{"en-US", "Tomato"})
	if got := Resolve(n, "KO-KR"); got != "토마토" {
		t.Errorf("Resolve = %q, want 토마토", got)
	}
}

func TestNewName_DuplicateKeepsPosition(t *testing.T) {
	n := MustName(Entry{"ko-KR", "토마도"}, Entry{"en-US", "Tomato"}, Entry{"ko-KR", "토마토"})
	entries := n.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Locale != "ko-KR" || entries[0].Text != "토마토" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestNewName_RejectsEmptyText(t *testing.T) {
	if _, err := NewName(Entry{"en-US", "  "}); err == nil {
		t.Fatal("expected error for empty text")
	}
	if _, err := NewName(Entry{"", "Tomato"}); err == nil {
		t.Fatal("expected error for empty locale")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	n := MustName(Entry{"en-US", "Tomato"})
	e := n.Entries()
	e[0].Text = "mutated"
	if got, _ := n.Get("en-US"); got != "Tomato" {
		t.Errorf("Name mutated through Entries(): %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"", false},
		{"en-US", false},
		{"ko-KR", false},
		{"zh-Hant-TW", false},
		{"en_US!", true},
		{"not a locale", true},
		{"e", true},
	}
	for _, tc := range tests {
		err := Validate(tc.tag)
		if (err != nil) != tc.wantErr {
			t.Errorf("Validate(%q) err = %v, wantErr %v", tc.tag, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Validate(%q) should wrap ErrInvalidInput, got %v", tc.tag, err)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"en-us":  "en-US",
		" ko-KR": "ko-KR",
		"":       "",
	}
	for in, want := range tests {
		if got := Canonical(in); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}
