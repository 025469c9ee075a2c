package document

import "time"

// Key is the total result order: score desc, createdAt desc, id desc.
type Key struct {
	Score     float64
	CreatedAt time.Time
	ID        string
}

// Compare returns a negative number when k sorts before o in result order,
// a positive number when after, and zero when the keys are equal.
func (k Key) Compare(o Key) int {
	switch {
	case k.Score > o.Score:
		return -1
	case k.Score < o.Score:
		return 1
	}
	switch {
	case k.CreatedAt.After(o.CreatedAt):
		return -1
	case k.CreatedAt.Before(o.CreatedAt):
		return 1
	}
	switch {
	case k.ID > o.ID:
		return -1
	case k.ID < o.ID:
		return 1
	}
	return 0
}

// Before reports whether k sorts strictly before o.
func (k Key) Before(o Key) bool { return k.Compare(o) < 0 }

// Equal reports whether both keys denote the same position.
func (k Key) Equal(o Key) bool { return k.Compare(o) == 0 }

// Compare orders documents across kinds: by Key, then by kind rank.
func Compare(a, b *Document) int {
	if c := a.Key().Compare(b.Key()); c != 0 {
		return c
	}
	return a.kind.Rank() - b.kind.Rank()
}
