package result

import "github.com/kailas-cloud/cookfind/internal/domain/document"

// Item is a single unified search hit.
type Item struct {
	doc document.Document
}

// NewItem wraps a document as a result item.
func NewItem(doc document.Document) Item { return Item{doc: doc} }

// Kind returns the content variant.
func (i *Item) Kind() document.Kind { return i.doc.Kind() }

// Score returns the relevance score used for ranking.
func (i *Item) Score() float64 { return i.doc.Score() }

// Document returns the underlying document.
func (i *Item) Document() document.Document { return i.doc }

// Counts are per-kind totals of matching documents, independent of paging.
type Counts struct {
	Recipes  int
	Logs     int
	Hashtags int
}

// Add accumulates n matches for kind. Unknown kinds are ignored.
func (c *Counts) Add(kind document.Kind, n int) {
	switch kind {
	case document.Recipe:
		c.Recipes += n
	case document.Log:
		c.Logs += n
	case document.Hashtag:
		c.Hashtags += n
	}
}

// Of returns the count for kind.
func (c Counts) Of(kind document.Kind) int {
	switch kind {
	case document.Recipe:
		return c.Recipes
	case document.Log:
		return c.Logs
	case document.Hashtag:
		return c.Hashtags
	}
	return 0
}

// Total returns the sum over all kinds.
func (c Counts) Total() int { return c.Recipes + c.Logs + c.Hashtags }

// Page is one slice of the unified result stream.
type Page struct {
	Items      []Item
	Counts     Counts
	NextCursor string
	// Degraded lists kinds whose source failed for this page.
	Degraded []document.Kind
}

// HasMore reports whether another page can be requested.
func (p *Page) HasMore() bool { return p.NextCursor != "" }

// IsDegraded reports whether any source failed.
func (p *Page) IsDegraded() bool { return len(p.Degraded) > 0 }
