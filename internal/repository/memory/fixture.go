package memory

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

// fixture is the on-disk dataset layout (YAML, or JSON as a YAML subset).
type fixture struct {
	Recipes    []recipeRecord    `yaml:"recipes"`
	Logs       []logRecord       `yaml:"logs"`
	Hashtags   []hashtagRecord   `yaml:"hashtags"`
	Foods      []candidateRecord `yaml:"foods"`
	Categories []candidateRecord `yaml:"categories"`
}

type commonRecord struct {
	ID        string    `yaml:"id"`
	CreatedAt timestamp `yaml:"created_at"`
	Title     string    `yaml:"title"`
	CreatorID string    `yaml:"creator_id"`
	Hashtags  []string  `yaml:"hashtags"`
}

func (c commonRecord) toDomain() document.Common {
	return document.Common{
		ID:        c.ID,
		CreatedAt: time.Time(c.CreatedAt),
		Title:     c.Title,
		CreatorID: c.CreatorID,
		Hashtags:  c.Hashtags,
	}
}

type recipeRecord struct {
	commonRecord   `yaml:",inline"`
	Description    string   `yaml:"description"`
	Servings       int      `yaml:"servings"`
	CookingMinutes int      `yaml:"cooking_minutes"`
	ImageURL       string   `yaml:"image_url"`
	Ingredients    []string `yaml:"ingredients"`
}

type logRecord struct {
	commonRecord `yaml:",inline"`
	RecipeID     string `yaml:"recipe_id"`
	Content      string `yaml:"content"`
	Rating       int    `yaml:"rating"`
	ImageURL     string `yaml:"image_url"`
}

type hashtagRecord struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	CreatedAt  timestamp `yaml:"created_at"`
	UsageCount int       `yaml:"usage_count"`
}

type candidateRecord struct {
	ID        string       `yaml:"id"`
	Names     orderedNames `yaml:"names"`
	Keyword   string       `yaml:"keyword"`
	BaseScore float64      `yaml:"base_score"`
}

// timestamp accepts RFC 3339 times or plain dates, quoted or not.
type timestamp time.Time

// UnmarshalYAML implements yaml.Unmarshaler.
func (ts *timestamp) UnmarshalYAML(value *yaml.Node) error {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, value.Value); err == nil {
			*ts = timestamp(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("line %d: invalid timestamp %q", value.Line, value.Value)
}

// orderedNames keeps the mapping order of a locale -> text map as written in the file.
type orderedNames []locale.Entry

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *orderedNames) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: names must be a mapping", value.Line)
	}
	out := make(orderedNames, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: name for %q must be a string", v.Line, k.Value)
		}
		out = append(out, locale.Entry{Locale: k.Value, Text: v.Value})
	}
	*n = out
	return nil
}

func (f *fixture) documents() (recipes, logs, tags []document.Document, err error) {
	for _, r := range f.Recipes {
		d, err := document.NewRecipe(r.toDomain(), document.RecipePayload{
			Description:    r.Description,
			Servings:       r.Servings,
			CookingMinutes: r.CookingMinutes,
			ImageURL:       r.ImageURL,
			Ingredients:    r.Ingredients,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		recipes = append(recipes, d)
	}
	for _, l := range f.Logs {
		d, err := document.NewLog(l.toDomain(), document.LogPayload{
			RecipeID: l.RecipeID,
			Content:  l.Content,
			Rating:   l.Rating,
			ImageURL: l.ImageURL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logs = append(logs, d)
	}
	for _, h := range f.Hashtags {
		d, err := document.NewHashtag(document.Common{
			ID:        h.ID,
			CreatedAt: time.Time(h.CreatedAt),
			Title:     h.Name,
		}, document.HashtagPayload{UsageCount: h.UsageCount})
		if err != nil {
			return nil, nil, nil, err
		}
		tags = append(tags, d)
	}
	return recipes, logs, tags, nil
}

func (f *fixture) candidates() ([]catalog.Candidate, error) {
	var out []catalog.Candidate
	add := func(records []candidateRecord, kind catalog.Kind) error {
		for _, r := range records {
			name, err := locale.NewName(r.Names...)
			if err != nil {
				return fmt.Errorf("%s %q: %w", kind, r.ID, err)
			}
			c, err := catalog.NewCandidate(r.ID, name, kind, r.BaseScore, r.Keyword)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	}
	if err := add(f.Foods, catalog.Food); err != nil {
		return nil, err
	}
	if err := add(f.Categories, catalog.Category); err != nil {
		return nil, err
	}
	return out, nil
}
