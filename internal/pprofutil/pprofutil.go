package pprofutil

import (
	"fmt"
	"io"

	pprofile "github.com/google/pprof/profile"

	"github.com/perfsnap/perfsnap/internal/errorutil"
	"github.com/perfsnap/perfsnap/internal/frame"
	"github.com/perfsnap/perfsnap/internal/nodetree"
	"github.com/perfsnap/perfsnap/internal/profile"
)

// Parse reads a pprof protobuf profile, gzipped or not, and folds its
// samples into a weighted call tree.
func Parse(r io.Reader) (*profile.Profile, error) {
	p, err := pprofile.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromPprof(p)
}

// FromPprof builds a profile from already-parsed pprof data. The last
// sample value is used as the weight, which is the pprof convention for
// the default sample type, and the display unit follows that value's
// declared unit.
func FromPprof(p *pprofile.Profile) (*profile.Profile, error) {
	if len(p.SampleType) == 0 {
		return nil, fmt.Errorf("pprofutil: %w: profile carries no sample types", errorutil.ErrDataIntegrity)
	}
	valueIndex := len(p.SampleType) - 1

	frames := newFrameRegistry()
	root := newBuilderNode(nil)
	var totalWeight uint64
	for _, s := range p.Sample {
		if valueIndex >= len(s.Value) {
			return nil, fmt.Errorf("pprofutil: %w: sample carries %d values, want at least %d",
				errorutil.ErrDataIntegrity, len(s.Value), valueIndex+1)
		}
		weight := s.Value[valueIndex]
		if weight <= 0 {
			continue
		}
		totalWeight += uint64(weight)

		// Locations are leaf-first, as are the inlined lines within
		// one location; walk both backwards to go caller to callee.
		current := root
		for i := len(s.Location) - 1; i >= 0; i-- {
			loc := s.Location[i]
			if len(loc.Line) == 0 {
				current = current.advance(frames.frameFor(loc, pprofile.Line{}), uint64(weight))
				continue
			}
			for j := len(loc.Line) - 1; j >= 0; j-- {
				current = current.advance(frames.frameFor(loc, loc.Line[j]), uint64(weight))
			}
		}
		if current != root {
			current.node.SelfWeight += uint64(weight)
		}
	}

	unit := p.SampleType[valueIndex].Unit
	return &profile.Profile{
		Tree:        &nodetree.Tree{Roots: root.finish()},
		TotalWeight: totalWeight,
		Unit:        unit,
		FormatValue: profile.FormatterForUnit(unit),
	}, nil
}

// builderNode wraps a tree node with per-frame child lookup during
// construction. Keying children on the canonical *frame.Frame merges
// every stack that goes through the same function at the same depth.
type builderNode struct {
	node     *nodetree.Node
	children map[*frame.Frame]*builderNode
}

func newBuilderNode(n *nodetree.Node) *builderNode {
	return &builderNode{
		node:     n,
		children: make(map[*frame.Frame]*builderNode),
	}
}

func (b *builderNode) advance(f *frame.Frame, weight uint64) *builderNode {
	c, ok := b.children[f]
	if !ok {
		c = newBuilderNode(nodetree.NodeFromFrame(f, 0, 0))
		b.children[f] = c
		if b.node != nil {
			b.node.Children = append(b.node.Children, c.node)
		}
	}
	c.node.TotalWeight += weight
	return c
}

func (b *builderNode) finish() []*nodetree.Node {
	roots := make([]*nodetree.Node, 0, len(b.children))
	for _, c := range b.children {
		roots = append(roots, c.node)
	}
	return roots
}

// frameRegistry hands out one canonical *frame.Frame per pprof function
// so aggregation by identity holds across call sites and recursion.
// Locations without function information fall back to per-address
// identities.
type frameRegistry struct {
	byFunction map[uint64]*frame.Frame
	byAddress  map[uint64]*frame.Frame
}

func newFrameRegistry() *frameRegistry {
	return &frameRegistry{
		byFunction: make(map[uint64]*frame.Frame),
		byAddress:  make(map[uint64]*frame.Frame),
	}
}

func (r *frameRegistry) frameFor(loc *pprofile.Location, line pprofile.Line) *frame.Frame {
	if line.Function != nil {
		if f, ok := r.byFunction[line.Function.ID]; ok {
			return f
		}
		f := &frame.Frame{
			File: line.Function.Filename,
			Line: uint32(line.Line),
			Name: line.Function.Name,
		}
		r.byFunction[line.Function.ID] = f
		return f
	}
	if f, ok := r.byAddress[loc.Address]; ok {
		return f
	}
	f := &frame.Frame{Name: fmt.Sprintf("0x%x", loc.Address)}
	r.byAddress[loc.Address] = f
	return f
}
