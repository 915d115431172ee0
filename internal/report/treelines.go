package report

import (
	"sort"

	"github.com/perfsnap/perfsnap/internal/nodetree"
)

const (
	connectorTee    = "├─ "
	connectorCorner = "└─ "
	prefixContinue  = "│  "
	prefixBlank     = "   "
)

// TreeLine is one visible row of the call-tree view.
type TreeLine struct {
	Prefix       string
	Name         string
	Location     string
	TotalWeight  uint64
	SelfWeight   uint64
	TotalPercent float64
	SelfPercent  float64
}

// TreeLines renders nodes and their descendants as a depth-first,
// pre-order sequence of indented lines. The input nodes are treated as
// top-level siblings, which is how the synthetic root stays out of the
// output: callers pass its children, never the root itself. Children
// whose total weight is below minWeight are pruned along with their
// entire subtrees. totalWeight is the percentage denominator.
func TreeLines(nodes []*nodetree.Node, totalWeight, minWeight uint64) []TreeLine {
	var lines []TreeLine
	appendTreeLines(&lines, nodes, "", totalWeight, minWeight)
	return lines
}

func appendTreeLines(lines *[]TreeLine, nodes []*nodetree.Node, prefix string, totalWeight, minWeight uint64) {
	visible := make([]*nodetree.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.TotalWeight >= minWeight {
			visible = append(visible, n)
		}
	}
	sortNodesByTotalWeight(visible)
	for i, n := range visible {
		connector, childPrefix := connectorTee, prefix+prefixContinue
		if i == len(visible)-1 {
			connector, childPrefix = connectorCorner, prefix+prefixBlank
		}
		*lines = append(*lines, TreeLine{
			Prefix:       prefix + connector,
			Name:         n.Frame.DisplayName(),
			Location:     n.Frame.Location(),
			TotalWeight:  n.TotalWeight,
			SelfWeight:   n.SelfWeight,
			TotalPercent: percent(n.TotalWeight, totalWeight),
			SelfPercent:  percent(n.SelfWeight, totalWeight),
		})
		appendTreeLines(lines, n.Children, childPrefix, totalWeight, minWeight)
	}
}

// sortNodesByTotalWeight orders heaviest first. Frame name and location
// break ties so identical inputs always render identically. The input
// slice is owned by the renderer, the model's child order is untouched.
func sortNodesByTotalWeight(nodes []*nodetree.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.TotalWeight != b.TotalWeight {
			return a.TotalWeight > b.TotalWeight
		}
		if a.Frame.Name != b.Frame.Name {
			return a.Frame.Name < b.Frame.Name
		}
		return a.Frame.Location() < b.Frame.Location()
	})
}

func percent(v, total uint64) float64 {
	// An all-zero profile renders 0.0% everywhere rather than NaN.
	if total == 0 {
		return 0
	}
	return float64(v) / float64(total) * 100
}
