package candidatecache

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/locale"
)

type nameDTO struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

type candidateDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	BaseScore float64   `json:"base_score"`
	Keyword   string    `json:"keyword,omitempty"`
	Names     []nameDTO `json:"names"`
}

// encode serializes candidates preserving locale order.
func encode(cands []catalog.Candidate) ([]byte, error) {
	out := make([]candidateDTO, len(cands))
	for i, c := range cands {
		entries := c.Name().Entries()
		names := make([]nameDTO, len(entries))
		for j, e := range entries {
			names[j] = nameDTO{Locale: e.Locale, Text: e.Text}
		}
		out[i] = candidateDTO{
			ID:        c.ID(),
			Kind:      string(c.Kind()),
			BaseScore: c.BaseScore(),
			Keyword:   c.Keyword(),
			Names:     names,
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]catalog.Candidate, error) {
	var dtos []candidateDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	out := make([]catalog.Candidate, 0, len(dtos))
	for _, d := range dtos {
		entries := make([]locale.Entry, len(d.Names))
		for j, n := range d.Names {
			entries[j] = locale.Entry{Locale: n.Locale, Text: n.Text}
		}
		name, err := locale.NewName(entries...)
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", d.ID, err)
		}
		c, err := catalog.NewCandidate(d.ID, name, catalog.Kind(d.Kind), d.BaseScore, d.Keyword)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
