package content

import (
	"slices"
)

// SortByDateDesc returns a new slice ordered newest first. Documents sharing a
// date keep their input order.
func SortByDateDesc(docs []*Document) []*Document {
	out := slices.Clone(docs)
	slices.SortStableFunc(out, func(a, b *Document) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
