package scholar

import "sort"

// Cited is satisfied by any record carrying a citation count.
type Cited interface {
	Citations() int
}

// Citations returns the paper's citation count.
func (p Paper) Citations() int { return p.CitationCount }

// Citations returns the author's total citation count.
func (a Author) Citations() int { return a.CitationCount }

// SortByCitations orders records by citation count, most cited first. The
// sort is stable so equal counts keep their relevance order.
func SortByCitations[T Cited](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Citations() > items[j].Citations()
	})
}

// TopCited returns the n most cited records without mutating the input.
func TopCited[T Cited](items []T, n int) []T {
	out := make([]T, len(items))
	copy(out, items)
	SortByCitations(out)
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
