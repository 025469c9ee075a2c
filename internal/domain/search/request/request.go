package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

// Request limits.
const (
	// MaxKeywordLength is the maximum keyword length in runes.
	MaxKeywordLength    = 256
	DefaultPageSize     = 20
	MaxPageSize         = 100
	DefaultSuggestLimit = 10
	MaxSuggestLimit     = 50
	// MaxCursorLength bounds tokens before any decoding is attempted.
	MaxCursorLength = 4096
)

// Search is a validated unified search query.
type Search struct {
	keyword  string
	locale   string
	pageSize int
	cursor   string
}

// NewSearch validates unified search parameters.
// A non-positive or oversized page size is rejected, never clamped.
// An oversized cursor is dropped (paging restarts) rather than rejected.
func NewSearch(keyword, loc string, pageSize int, cursor string) (Search, error) {
	keyword = strings.TrimSpace(keyword)
	if err := validateKeyword(keyword); err != nil {
		return Search{}, err
	}
	if err := locale.Validate(loc); err != nil {
		return Search{}, err
	}
	if pageSize <= 0 {
		return Search{}, domain.NewInvalidInput("page_size", "must be positive")
	}
	if pageSize > MaxPageSize {
		return Search{}, domain.NewInvalidInput("page_size", fmt.Sprintf("must not exceed %d", MaxPageSize))
	}
	if len(cursor) > MaxCursorLength {
		cursor = ""
	}
	return Search{
		keyword:  keyword,
		locale:   locale.Canonical(loc),
		pageSize: pageSize,
		cursor:   cursor,
	}, nil
}

// Keyword returns the trimmed search keyword (may be empty).
func (r *Search) Keyword() string { return r.keyword }

// Locale returns the canonical requested locale (may be empty).
func (r *Search) Locale() string { return r.locale }

// PageSize returns the requested page size.
func (r *Search) PageSize() int { return r.pageSize }

// Cursor returns the opaque continuation token (empty for the first page).
func (r *Search) Cursor() string { return r.cursor }

// Suggest is a validated autocomplete query.
type Suggest struct {
	keyword string
	locale  string
	kind    *catalog.Kind
	limit   int
}

// NewSuggest validates autocomplete parameters.
// Defaults: limit=10. Limit is clamped to MaxSuggestLimit.
func NewSuggest(keyword, loc string, kind *catalog.Kind, limit int) (Suggest, error) {
	keyword = strings.TrimSpace(keyword)
	if err := validateKeyword(keyword); err != nil {
		return Suggest{}, err
	}
	if err := locale.Validate(loc); err != nil {
		return Suggest{}, err
	}
	if kind != nil && !kind.IsValid() {
		return Suggest{}, domain.NewInvalidInput("type", fmt.Sprintf("unknown type %q", *kind))
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	if limit > MaxSuggestLimit {
		limit = MaxSuggestLimit
	}
	return Suggest{keyword: keyword, locale: locale.Canonical(loc), kind: kind, limit: limit}, nil
}

// Keyword returns the trimmed keyword (may be empty).
func (r *Suggest) Keyword() string { return r.keyword }

// Locale returns the canonical requested locale.
func (r *Suggest) Locale() string { return r.locale }

// Kind returns the optional type filter.
func (r *Suggest) Kind() *catalog.Kind { return r.kind }

// Limit returns the maximum number of suggestions.
func (r *Suggest) Limit() int { return r.limit }

func validateKeyword(keyword string) error {
	if !utf8.ValidString(keyword) {
		return domain.NewInvalidInput("keyword", "not valid UTF-8")
	}
	if utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return domain.NewInvalidInput("keyword", fmt.Sprintf("too long (max %d chars)", MaxKeywordLength))
	}
	return nil
}
