package postgres

import (
	"time"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

type recipeRow struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	CreatorID      string    `db:"creator_id"`
	Hashtags       []string  `db:"hashtags"`
	CreatedAt      time.Time `db:"created_at"`
	Description    string    `db:"description"`
	Servings       int       `db:"servings"`
	CookingMinutes int       `db:"cooking_minutes"`
	ImageURL       string    `db:"image_url"`
	Ingredients    []string  `db:"ingredients"`
	Score          float64   `db:"score"`
}

func (r recipeRow) toDomain() (document.Document, error) {
	return document.NewRecipe(document.Common{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Title:     r.Title,
		CreatorID: r.CreatorID,
		Hashtags:  r.Hashtags,
		Score:     r.Score,
	}, document.RecipePayload{
		Description:    r.Description,
		Servings:       r.Servings,
		CookingMinutes: r.CookingMinutes,
		ImageURL:       r.ImageURL,
		Ingredients:    r.Ingredients,
	})
}

type logRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatorID string    `db:"creator_id"`
	Hashtags  []string  `db:"hashtags"`
	CreatedAt time.Time `db:"created_at"`
	RecipeID  string    `db:"recipe_id"`
	Content   string    `db:"content"`
	Rating    int       `db:"rating"`
	ImageURL  string    `db:"image_url"`
	Score     float64   `db:"score"`
}

func (r logRow) toDomain() (document.Document, error) {
	return document.NewLog(document.Common{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Title:     r.Title,
		CreatorID: r.CreatorID,
		Hashtags:  r.Hashtags,
		Score:     r.Score,
	}, document.LogPayload{
		RecipeID: r.RecipeID,
		Content:  r.Content,
		Rating:   r.Rating,
		ImageURL: r.ImageURL,
	})
}

type hashtagRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	UsageCount int       `db:"usage_count"`
	Score      float64   `db:"score"`
}

func (r hashtagRow) toDomain() (document.Document, error) {
	return document.NewHashtag(document.Common{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Title:     r.Name,
		Score:     r.Score,
	}, document.HashtagPayload{UsageCount: r.UsageCount})
}

type nameJSON struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

type candidateRow struct {
	ID        string     `db:"id"`
	Kind      string     `db:"kind"`
	Names     []nameJSON `db:"names"`
	Keyword   string     `db:"keyword"`
	BaseScore float64    `db:"base_score"`
}

func (r candidateRow) toDomain() (catalog.Candidate, error) {
	entries := make([]locale.Entry, len(r.Names))
	for i, n := range r.Names {
		entries[i] = locale.Entry{Locale: n.Locale, Text: n.Text}
	}
	name, err := locale.NewName(entries...)
	if err != nil {
		return catalog.Candidate{}, err
	}
	return catalog.NewCandidate(r.ID, name, catalog.Kind(r.Kind), r.BaseScore, r.Keyword)
}
