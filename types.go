package cookfind

import (
	"github.com/kailas-cloud/cookfind/internal/domain"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
	"github.com/kailas-cloud/cookfind/internal/domain/search/request"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
	"github.com/kailas-cloud/cookfind/internal/usecase/autocomplete"
	"github.com/kailas-cloud/cookfind/internal/usecase/search"
)

// Kind is the content variant of a searchable document.
type Kind = document.Kind

// Document kinds, in their tie-break order.
const (
	KindRecipe  = document.Recipe
	KindLog     = document.Log
	KindHashtag = document.Hashtag
)

// Document types re-exported for Fetcher implementations.
type (
	Document       = document.Document
	Common         = document.Common
	Key            = document.Key
	RecipePayload  = document.RecipePayload
	LogPayload     = document.LogPayload
	HashtagPayload = document.HashtagPayload
)

// Document constructors.
var (
	NewRecipe  = document.NewRecipe
	NewLog     = document.NewLog
	NewHashtag = document.NewHashtag
)

// Fetcher returns documents of one kind after a resume key.
type Fetcher = search.Fetcher

// FetchQuery and FetchResult are the Fetcher contract.
type (
	FetchQuery  = search.FetchQuery
	FetchResult = search.FetchResult
)

// Source lists autocomplete candidates.
type Source = autocomplete.Source

// Reference item types.
type (
	CandidateKind = catalog.Kind
	Candidate     = catalog.Candidate
	Suggestion    = catalog.Suggestion
	LocalizedName = locale.Name
	NameEntry     = locale.Entry
)

// Reference item kinds.
const (
	CandidateFood     = catalog.Food
	CandidateCategory = catalog.Category
)

// Reference item constructors.
var (
	NewCandidate = catalog.NewCandidate
	NewName      = locale.NewName
)

// Page is one slice of the unified result stream.
type (
	Page   = result.Page
	Item   = result.Item
	Counts = result.Counts
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrSourceUnavailable = domain.ErrSourceUnavailable
)

// Page size bounds for SearchQuery.
const (
	DefaultPageSize = request.DefaultPageSize
	MaxPageSize     = request.MaxPageSize
)

// SearchQuery are unified search parameters.
type SearchQuery struct {
	Keyword string
	Locale  string
	// PageSize must be between 1 and MaxPageSize; zero is rejected with ErrInvalidInput.
	PageSize int
	// Cursor is NextCursor of the previous page; empty starts from the top.
	Cursor string
}

// SuggestQuery are autocomplete parameters.
type SuggestQuery struct {
	Keyword string
	Locale  string
	// Type optionally restricts suggestions to one reference kind.
	Type CandidateKind
	// Limit defaults to 10 when zero.
	Limit int
}
