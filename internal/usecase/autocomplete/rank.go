package autocomplete

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
	"github.com/kailas-cloud/cookfind/internal/domain/match"
)

// rank scores candidates against keyword in the requested locale and returns at most
// limit matches ordered by score desc, display length asc, id asc.
// The score is the best of the localized display name and the raw keyword field.
func rank(keyword, loc string, candidates []catalog.Candidate, limit int) []catalog.Suggestion {
	if strings.TrimSpace(keyword) == "" || len(candidates) == 0 || limit <= 0 {
		return []catalog.Suggestion{}
	}

	type scored struct {
		s      catalog.Suggestion
		length int
	}

	hits := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		display := locale.Resolve(c.Name(), loc)
		score := match.Score(keyword, display)
		if kw := c.Keyword(); kw != "" && score < 1 {
			score = max(score, match.Score(keyword, kw))
		}
		if !match.Matches(score) {
			continue
		}
		hits = append(hits, scored{
			s:      catalog.Suggestion{Candidate: c, DisplayName: display, Score: score},
			length: utf8.RuneCountInString(display),
		})
	}

	slices.SortFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(b.s.Score, a.s.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.length, b.length); c != 0 {
			return c
		}
		return strings.Compare(a.s.Candidate.ID(), b.s.Candidate.ID())
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]catalog.Suggestion, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}
