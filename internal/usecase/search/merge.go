package search

import (
	"container/heap"
	"slices"

	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/domain/search/result"
)

// batch is the usable part of one fetch, sorted in result order.
type batch struct {
	kind document.Kind
	docs []document.Document
	pos  int
}

// prepare drops documents of another kind, at or before the resume key, and
// duplicate ids, then sorts the rest in result order.
func prepare(kind document.Kind, docs []document.Document, after *document.Key) *batch {
	out := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		if d.Kind() != kind {
			continue
		}
		if after != nil && d.Key().Compare(*after) <= 0 {
			continue
		}
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b document.Document) int { return document.Compare(&a, &b) })

	seen := make(map[string]struct{}, len(out))
	uniq := out[:0]
	for _, d := range out {
		if _, dup := seen[d.ID()]; dup {
			continue
		}
		seen[d.ID()] = struct{}{}
		uniq = append(uniq, d)
	}
	return &batch{kind: kind, docs: uniq}
}

func (b *batch) head() *document.Document { return &b.docs[b.pos] }

// mergeHeap orders batches by their current head document.
type mergeHeap []*batch

func (h mergeHeap) Len() int           { return len(h) }
func (h mergeHeap) Less(i, j int) bool { return document.Compare(h[i].head(), h[j].head()) < 0 }
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(*batch)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return b
}

// mergeOutcome is the page body plus the keys needed to resume after it.
type mergeOutcome struct {
	items []result.Item
	// last holds, per kind, the key of the last item of that kind on the page.
	last map[document.Kind]document.Key
	// more reports unconsumed candidates left over after the page.
	more bool
}

// merge takes the first limit documents of the union of batches in result order.
func merge(batches []*batch, limit int) mergeOutcome {
	h := make(mergeHeap, 0, len(batches))
	for _, b := range batches {
		if len(b.docs) > 0 {
			h = append(h, b)
		}
	}
	heap.Init(&h)

	out := mergeOutcome{
		items: make([]result.Item, 0, limit),
		last:  make(map[document.Kind]document.Key),
	}
	for len(out.items) < limit && h.Len() > 0 {
		b := h[0]
		d := *b.head()
		out.items = append(out.items, result.NewItem(d))
		out.last[b.kind] = d.Key()

		b.pos++
		if b.pos == len(b.docs) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	out.more = h.Len() > 0
	return out
}
