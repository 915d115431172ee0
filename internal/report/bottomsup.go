package report

import (
	"sort"

	"github.com/perfsnap/perfsnap/internal/frame"
	"github.com/perfsnap/perfsnap/internal/nodetree"
)

// BottomsUpEntry is the accumulated weight of one frame across every
// position it occupies in a subtree.
type BottomsUpEntry struct {
	Frame        *frame.Frame
	TotalWeight  uint64
	SelfWeight   uint64
	TotalPercent float64
	SelfPercent  float64
}

// BottomsUp flattens the subtrees under nodes into one entry per
// distinct frame identity, summing total and self weights across every
// occurrence regardless of call depth. Recursive calls and repeated
// call sites therefore roll up into a single entry, which can push a
// frame over the threshold even when no single occurrence reaches it.
// Entries whose accumulated self weight is below minSelfWeight are
// dropped after accumulation; the walk itself is never filtered.
func BottomsUp(nodes []*nodetree.Node, totalWeight, minSelfWeight uint64) []BottomsUpEntry {
	accumulated := make(map[*frame.Frame]*BottomsUpEntry)
	nodetree.Visit(nodes, func(n *nodetree.Node) {
		if e, ok := accumulated[n.Frame]; ok {
			e.TotalWeight += n.TotalWeight
			e.SelfWeight += n.SelfWeight
		} else {
			accumulated[n.Frame] = &BottomsUpEntry{
				Frame:       n.Frame,
				TotalWeight: n.TotalWeight,
				SelfWeight:  n.SelfWeight,
			}
		}
	})

	entries := make([]BottomsUpEntry, 0, len(accumulated))
	for _, e := range accumulated {
		if e.SelfWeight < minSelfWeight {
			continue
		}
		e.TotalPercent = percent(e.TotalWeight, totalWeight)
		e.SelfPercent = percent(e.SelfWeight, totalWeight)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.SelfWeight != b.SelfWeight {
			return a.SelfWeight > b.SelfWeight
		}
		if a.Frame.Name != b.Frame.Name {
			return a.Frame.Name < b.Frame.Name
		}
		return a.Frame.Location() < b.Frame.Location()
	})
	return entries
}
