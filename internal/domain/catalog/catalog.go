// Package catalog holds the curated reference items offered by autocomplete.
package catalog

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

// Kind is the reference item type.
type Kind string

// Candidate kinds.
const (
	Food     Kind = "food"
	Category Kind = "category"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool { return k == Food || k == Category }

// MaxBaseScore bounds the curation/popularity score.
const MaxBaseScore = 100

// Candidate is a verified food or category item.
type Candidate struct {
	id        string
	name      locale.Name
	kind      Kind
	baseScore float64
	keyword   string
}

// NewCandidate validates and creates a Candidate.
// keyword is an optional raw search keyword matched alongside the localized name.
func NewCandidate(id string, name locale.Name, kind Kind, baseScore float64, keyword string) (Candidate, error) {
	if id == "" {
		return Candidate{}, fmt.Errorf("candidate ID is required")
	}
	if !kind.IsValid() {
		return Candidate{}, fmt.Errorf("candidate %q: invalid kind %q", id, kind)
	}
	if math.IsNaN(baseScore) || baseScore < 0 || baseScore > MaxBaseScore {
		return Candidate{}, fmt.Errorf("candidate %q: base score %v outside [0,%d]", id, baseScore, MaxBaseScore)
	}
	return Candidate{id: id, name: name, kind: kind, baseScore: baseScore, keyword: keyword}, nil
}

// ID returns the candidate identifier.
func (c *Candidate) ID() string { return c.id }

// Name returns the localized names.
func (c *Candidate) Name() locale.Name { return c.name }

// Kind returns the candidate type.
func (c *Candidate) Kind() Kind { return c.kind }

// BaseScore returns the query-independent curation score.
func (c *Candidate) BaseScore() float64 { return c.baseScore }

// Keyword returns the secondary raw keyword field (may be empty).
func (c *Candidate) Keyword() string { return c.keyword }

// Suggestion is a ranked autocomplete hit.
type Suggestion struct {
	Candidate   Candidate
	DisplayName string
	Score       float64
}
