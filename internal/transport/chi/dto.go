package chi

import (
	"time"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeSourceUnavailable ErrorCode = "source_unavailable"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Items           []SearchItem `json:"items"`
	Counts          Counts       `json:"counts"`
	Page            PageInfo     `json:"page"`
	NextCursor      *string      `json:"next_cursor"`
	DegradedSources []string     `json:"degraded_sources,omitempty"`
}

// SearchItem is one unified hit; exactly one payload field is set.
type SearchItem struct {
	Type           string      `json:"type"`
	RelevanceScore float64     `json:"relevance_score"`
	Recipe         *RecipeDTO  `json:"recipe,omitempty"`
	Log            *LogDTO     `json:"log,omitempty"`
	Hashtag        *HashtagDTO `json:"hashtag,omitempty"`
}

type commonDTO struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	CreatorID string    `json:"creator_id,omitempty"`
	Hashtags  []string  `json:"hashtags"`
}

// RecipeDTO is a recipe payload.
type RecipeDTO struct {
	commonDTO
	Description    string   `json:"description,omitempty"`
	Servings       int      `json:"servings,omitempty"`
	CookingMinutes int      `json:"cooking_minutes,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Ingredients    []string `json:"ingredients,omitempty"`
}

// LogDTO is a cooking log payload.
type LogDTO struct {
	commonDTO
	RecipeID string `json:"recipe_id,omitempty"`
	Content  string `json:"content,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// HashtagDTO is a hashtag payload.
type HashtagDTO struct {
	commonDTO
	UsageCount int `json:"usage_count"`
}

// Counts are per-type totals of matching documents.
type Counts struct {
	Recipes  int `json:"recipes"`
	Logs     int `json:"logs"`
	Hashtags int `json:"hashtags"`
	Total    int `json:"total"`
}

// PageInfo describes the returned slice.
type PageInfo struct {
	Size     int  `json:"size"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
}

// AutocompleteResponse is the body of GET /v1/autocomplete.
type AutocompleteResponse struct {
	Items []SuggestionDTO `json:"items"`
}

// SuggestionDTO is one ranked reference item.
type SuggestionDTO struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Score       float64 `json:"score"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewSearchResponse renders a page as returned by GET /v1/search.
func NewSearchResponse(p *result.Page, pageSize int) SearchResponse {
	items := make([]SearchItem, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, itemToDTO(&p.Items[i]))
	}

	resp := SearchResponse{
		Items: items,
		Counts: Counts{
			Recipes:  p.Counts.Recipes,
			Logs:     p.Counts.Logs,
			Hashtags: p.Counts.Hashtags,
			Total:    p.Counts.Total(),
		},
		Page: PageInfo{
			Size:     pageSize,
			Returned: len(items),
			HasMore:  p.HasMore(),
		},
	}
	if p.NextCursor != "" {
		next := p.NextCursor
		resp.NextCursor = &next
	}
	for _, k := range p.Degraded {
		resp.DegradedSources = append(resp.DegradedSources, string(k))
	}
	return resp
}

func itemToDTO(it *result.Item) SearchItem {
	doc := it.Document()
	item := SearchItem{
		Type:           string(doc.Kind()),
		RelevanceScore: it.Score(),
	}
	common := commonDTO{
		ID:        doc.ID(),
		CreatedAt: doc.CreatedAt(),
		Title:     doc.Title(),
		CreatorID: doc.CreatorID(),
		Hashtags:  doc.Hashtags(),
	}
	if common.Hashtags == nil {
		common.Hashtags = []string{}
	}

	switch doc.Kind() {
	case document.Recipe:
		p, _ := doc.Recipe()
		item.Recipe = &RecipeDTO{
			commonDTO:      common,
			Description:    p.Description,
			Servings:       p.Servings,
			CookingMinutes: p.CookingMinutes,
			ImageURL:       p.ImageURL,
			Ingredients:    p.Ingredients,
		}
	case document.Log:
		p, _ := doc.Log()
		item.Log = &LogDTO{
			commonDTO: common,
			RecipeID:  p.RecipeID,
			Content:   p.Content,
			Rating:    p.Rating,
			ImageURL:  p.ImageURL,
		}
	case document.Hashtag:
		p, _ := doc.HashtagInfo()
		item.Hashtag = &HashtagDTO{commonDTO: common, UsageCount: p.UsageCount}
	}
	return item
}

// NewAutocompleteResponse renders ranked suggestions.
func NewAutocompleteResponse(ss []catalog.Suggestion) AutocompleteResponse {
	items := make([]SuggestionDTO, 0, len(ss))
	for _, s := range ss {
		items = append(items, SuggestionDTO{
			ID:          s.Candidate.ID(),
			DisplayName: s.DisplayName,
			Type:        string(s.Candidate.Kind()),
			Score:       s.Score,
		})
	}
	return AutocompleteResponse{Items: items}
}
