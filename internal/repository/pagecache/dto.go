package pagecache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
)

type documentDTO struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title,omitempty"`
	CreatorID string    `json:"creator_id,omitempty"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	Score     float64   `json:"score"`

	Recipe  *document.RecipePayload  `json:"recipe,omitempty"`
	Log     *document.LogPayload     `json:"log,omitempty"`
	Hashtag *document.HashtagPayload `json:"hashtag,omitempty"`
}

type pageDTO struct {
	Items      []documentDTO `json:"items"`
	Recipes    int           `json:"recipes"`
	Logs       int           `json:"logs"`
	Hashtags   int           `json:"hashtags"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toDTO(d document.Document) documentDTO {
	dto := documentDTO{
		Kind:      string(d.Kind()),
		ID:        d.ID(),
		CreatedAt: d.CreatedAt(),
		Title:     d.Title(),
		CreatorID: d.CreatorID(),
		Hashtags:  d.Hashtags(),
		Score:     d.Score(),
	}
	if p, ok := d.Recipe(); ok {
		dto.Recipe = &p
	}
	if p, ok := d.Log(); ok {
		dto.Log = &p
	}
	if p, ok := d.HashtagInfo(); ok {
		dto.Hashtag = &p
	}
	return dto
}

func fromDTO(dto documentDTO) (document.Document, error) {
	c := document.Common{
		ID:        dto.ID,
		CreatedAt: dto.CreatedAt,
		Title:     dto.Title,
		CreatorID: dto.CreatorID,
		Hashtags:  dto.Hashtags,
		Score:     dto.Score,
	}
	switch document.Kind(dto.Kind) {
	case document.Recipe:
		var p document.RecipePayload
		if dto.Recipe != nil {
			p = *dto.Recipe
		}
		return document.NewRecipe(c, p)
	case document.Log:
		var p document.LogPayload
		if dto.Log != nil {
			p = *dto.Log
		}
		return document.NewLog(c, p)
	case document.Hashtag:
		var p document.HashtagPayload
		if dto.Hashtag != nil {
			p = *dto.Hashtag
		}
		return document.NewHashtag(c, p)
	default:
		return document.Document{}, fmt.Errorf("unknown document kind %q", dto.Kind)
	}
}

func encodePage(p *result.Page) ([]byte, error) {
	dto := pageDTO{
		Items:      make([]documentDTO, len(p.Items)),
		Recipes:    p.Counts.Recipes,
		Logs:       p.Counts.Logs,
		Hashtags:   p.Counts.Hashtags,
		NextCursor: p.NextCursor,
	}
	for i := range p.Items {
		dto.Items[i] = toDTO(p.Items[i].Document())
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal page: %w", err)
	}
	return data, nil
}

func decodePage(data []byte) (result.Page, error) {
	var dto pageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return result.Page{}, fmt.Errorf("unmarshal page: %w", err)
	}
	page := result.Page{
		Items:      make([]result.Item, 0, len(dto.Items)),
		Counts:     result.Counts{Recipes: dto.Recipes, Logs: dto.Logs, Hashtags: dto.Hashtags},
		NextCursor: dto.NextCursor,
	}
	for _, it := range dto.Items {
		d, err := fromDTO(it)
		if err != nil {
			return result.Page{}, err
		}
		page.Items = append(page.Items, result.NewItem(d))
	}
	return page, nil
}
