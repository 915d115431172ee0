package nodetree

import (
	"github.com/perfsnap/perfsnap/internal/frame"
)

type (
	// Node is a single call in a weighted call tree. TotalWeight covers
	// the node and all of its descendants, SelfWeight only the work
	// attributed to the node itself. Child order is not meaningful, the
	// renderer re-sorts on every walk.
	Node struct {
		Frame       *frame.Frame `json:"frame"`
		TotalWeight uint64       `json:"total"`
		SelfWeight  uint64       `json:"self"`
		Children    []*Node      `json:"children,omitempty"`
	}

	// Tree is the synthetic root of a call tree. It is deliberately not
	// a Node: the root carries no frame and never renders, only its
	// children do.
	Tree struct {
		Roots []*Node
	}
)

func NodeFromFrame(f *frame.Frame, total, self uint64) *Node {
	return &Node{
		Frame:       f,
		TotalWeight: total,
		SelfWeight:  self,
	}
}

// TotalWeight returns the summed total weight of the top-level calls.
func (t *Tree) TotalWeight() uint64 {
	var total uint64
	for _, n := range t.Roots {
		total += n.TotalWeight
	}
	return total
}

// FindByName returns the heaviest node whose frame has the given name,
// or nil when the name appears nowhere in the tree.
func (t *Tree) FindByName(name string) *Node {
	var best *Node
	Visit(t.Roots, func(n *Node) {
		if n.Frame.Name == name && (best == nil || n.TotalWeight > best.TotalWeight) {
			best = n
		}
	})
	return best
}

// Visit calls visit for every node of every subtree. Traversal is
// iterative so arbitrarily deep trees do not grow the call stack; no
// visit order is guaranteed.
func Visit(nodes []*Node, visit func(*Node)) {
	stack := make([]*Node, len(nodes))
	copy(stack, nodes)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		stack = append(stack, n.Children...)
	}
}
