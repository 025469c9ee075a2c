package document

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// MaxIDLength is the maximum document identifier length.
const MaxIDLength = 256

// Kind is the content variant of a searchable document.
type Kind string

// Document kinds.
const (
	Recipe  Kind = "recipe"
	Log     Kind = "log"
	Hashtag Kind = "hashtag"
)

// Kinds returns every kind in its fixed tie-break order.
func Kinds() []Kind { return []Kind{Recipe, Log, Hashtag} }

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Recipe || k == Log || k == Hashtag
}

// Rank is the kind's position in Kinds (used as the last tie-break across kinds).
func (k Kind) Rank() int {
	switch k {
	case Recipe:
		return 0
	case Log:
		return 1
	case Hashtag:
		return 2
	default:
		return 3
	}
}

// RecipePayload holds recipe-specific fields.
type RecipePayload struct {
	Description    string
	Servings       int
	CookingMinutes int
	ImageURL       string
	Ingredients    []string
}

// LogPayload holds cooking-log-specific fields.
type LogPayload struct {
	RecipeID string
	Content  string
	Rating   int
	ImageURL string
}

// HashtagPayload holds hashtag-specific fields.
type HashtagPayload struct {
	UsageCount int
}

// Common holds the fields shared by every document kind.
type Common struct {
	ID        string
	CreatedAt time.Time
	Title     string
	CreatorID string
	Hashtags  []string
	Score     float64
}

// Document is a searchable record of exactly one kind (immutable value object).
type Document struct {
	kind      Kind
	id        string
	createdAt time.Time
	title     string
	creatorID string
	hashtags  []string
	score     float64

	recipe  *RecipePayload
	log     *LogPayload
	hashtag *HashtagPayload
}

// NewRecipe validates and creates a recipe document.
func NewRecipe(c Common, p RecipePayload) (Document, error) {
	d, err := newDocument(Recipe, c)
	if err != nil {
		return Document{}, err
	}
	p.Ingredients = slices.Clone(p.Ingredients)
	d.recipe = &p
	return d, nil
}

// NewLog validates and creates a cooking log document.
func NewLog(c Common, p LogPayload) (Document, error) {
	d, err := newDocument(Log, c)
	if err != nil {
		return Document{}, err
	}
	d.log = &p
	return d, nil
}

// NewHashtag validates and creates a hashtag document. The title is the hashtag name.
func NewHashtag(c Common, p HashtagPayload) (Document, error) {
	d, err := newDocument(Hashtag, c)
	if err != nil {
		return Document{}, err
	}
	d.hashtag = &p
	return d, nil
}

func newDocument(kind Kind, c Common) (Document, error) {
	if c.ID == "" {
		return Document{}, fmt.Errorf("%s document ID is required", kind)
	}
	if len(c.ID) > MaxIDLength {
		return Document{}, fmt.Errorf("%s document ID too long (max %d)", kind, MaxIDLength)
	}
	if math.IsNaN(c.Score) || c.Score < 0 || c.Score > 1 {
		return Document{}, fmt.Errorf("%s document %q: relevance score %v outside [0,1]", kind, c.ID, c.Score)
	}
	return Document{
		kind:      kind,
		id:        c.ID,
		createdAt: c.CreatedAt.UTC(),
		title:     c.Title,
		creatorID: c.CreatorID,
		hashtags:  hashtagSet(c.Hashtags),
		score:     c.Score,
	}, nil
}

// hashtagSet trims, deduplicates and sorts hashtag names.
func hashtagSet(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Kind returns the document variant.
func (d *Document) Kind() Kind { return d.kind }

// ID returns the document identifier (unique within its kind).
func (d *Document) ID() string { return d.id }

// CreatedAt returns the creation time in UTC.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// Title returns the title (recipe/log) or name (hashtag).
func (d *Document) Title() string { return d.title }

// CreatorID returns the author identifier.
func (d *Document) CreatorID() string { return d.creatorID }

// Hashtags returns a copy of the sorted hashtag set.
func (d *Document) Hashtags() []string { return slices.Clone(d.hashtags) }

// Score returns the source-normalized relevance score in [0,1].
func (d *Document) Score() float64 { return d.score }

// Key returns the pagination ordering key.
func (d *Document) Key() Key {
	return Key{Score: d.score, CreatedAt: d.createdAt, ID: d.id}
}

// Recipe returns the recipe payload if the document is a recipe.
func (d *Document) Recipe() (RecipePayload, bool) {
	if d.recipe == nil {
		return RecipePayload{}, false
	}
	p := *d.recipe
	p.Ingredients = slices.Clone(p.Ingredients)
	return p, true
}

// Log returns the cooking log payload if the document is a log.
func (d *Document) Log() (LogPayload, bool) {
	if d.log == nil {
		return LogPayload{}, false
	}
	return *d.log, true
}

// HashtagInfo returns the hashtag payload if the document is a hashtag.
func (d *Document) HashtagInfo() (HashtagPayload, bool) {
	if d.hashtag == nil {
		return HashtagPayload{}, false
	}
	return *d.hashtag, true
}

// WithScore returns a copy of the document carrying a new relevance score.
func (d *Document) WithScore(score float64) (Document, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return Document{}, fmt.Errorf("%s document %q: relevance score %v outside [0,1]", d.kind, d.id, score)
	}
	out := *d
	out.score = score
	return out, nil
}
