// Package locale resolves display strings from multi-locale name maps.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/kailas-cloud/cookfind/internal/domain"
)

// Fallback values used by Resolve.
const (
	DefaultLocale = "en-US"
	Unknown       = "Unknown"
)

// maxTagLength bounds locale tags accepted from requests.
const maxTagLength = 35

// Entry is a single localized display string.
type Entry struct {
	Locale string
	Text   string
}

// Name is an insertion-ordered locale -> text mapping (immutable value object).
type Name struct {
	entries []Entry
	index   map[string]int
}

// NewName builds a Name from entries in insertion order.
// Locale keys are canonicalized; a repeated locale keeps its first position and takes the last text.
func NewName(entries ...Entry) (Name, error) {
	n := Name{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			return Name{}, fmt.Errorf("empty text for locale %q", e.Locale)
		}
		key := Canonical(e.Locale)
		if key == "" {
			return Name{}, fmt.Errorf("empty locale for text %q", text)
		}
		if i, ok := n.index[key]; ok {
			n.entries[i].Text = text
			continue
		}
		n.index[key] = len(n.entries)
		n.entries = append(n.entries, Entry{Locale: key, Text: text})
	}
	return n, nil
}

// MustName is NewName that panics on invalid input (fixtures and tests).
func MustName(entries ...Entry) Name {
	n, err := NewName(entries...)
	if err != nil {
		panic(err)
	}
	return n
}

// Len returns the number of locales.
func (n Name) Len() int { return len(n.entries) }

// Get returns the text for a locale.
func (n Name) Get(tag string) (string, bool) {
	i, ok := n.index[Canonical(tag)]
	if !ok {
		return "", false
	}
	return n.entries[i].Text, true
}

// Entries returns a copy of the entries in insertion order.
func (n Name) Entries() []Entry {
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Resolve picks the best display string for the requested locale:
// exact match, then DefaultLocale, then the first inserted entry, then Unknown.
func Resolve(n Name, requested string) string {
	if requested != "" {
		if text, ok := n.Get(requested); ok {
			return text
		}
	}
	if text, ok := n.Get(DefaultLocale); ok {
		return text
	}
	if len(n.entries) > 0 {
		return n.entries[0].Text
	}
	return Unknown
}

// Canonical returns the BCP 47 canonical form of tag ("en-us" -> "en-US").
// Tags that do not parse are returned trimmed as-is.
func Canonical(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

// Validate reports a malformed locale tag. Empty tags are valid and resolve through fallbacks.
func Validate(tag string) error {
	if tag == "" {
		return nil
	}
	if len(tag) > maxTagLength {
		return domain.NewInvalidInput("locale", "too long")
	}
	if _, err := language.Parse(tag); err != nil {
		return domain.NewInvalidInput("locale", fmt.Sprintf("malformed tag %q", tag))
	}
	return nil
}
