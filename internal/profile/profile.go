package profile

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/perfsnap/perfsnap/internal/errorutil"
	"github.com/perfsnap/perfsnap/internal/frame"
	"github.com/perfsnap/perfsnap/internal/nodetree"
)

type (
	// ValueFormatter turns a raw weight into its display form, e.g. raw
	// nanoseconds into "12.3ms". Formatters must accept any finite value
	// and never fail.
	ValueFormatter func(uint64) string

	// Profile owns one grouped call tree and the total weight used as
	// the normalization denominator for all percentages. Profiles are
	// read-only to the report engine.
	Profile struct {
		Name        string
		Tree        *nodetree.Tree
		TotalWeight uint64
		Unit        string
		FormatValue ValueFormatter
	}

	// document is the on-disk/wire form of a profile: a shared frame
	// table plus node records referencing frames by index. Decoding
	// materializes one *frame.Frame per table entry, so every node
	// built from the same index shares the same identity object.
	document struct {
		Frames      []frame.Frame  `json:"frames"`
		Name        string         `json:"name,omitempty"`
		Nodes       []documentNode `json:"nodes"`
		TotalWeight uint64         `json:"total_weight,omitempty"`
		Unit        string         `json:"unit,omitempty"`
		Version     string         `json:"version"`
	}

	documentNode struct {
		Children []documentNode `json:"children,omitempty"`
		Frame    int            `json:"frame"`
		Self     uint64         `json:"self"`
		Total    uint64         `json:"total"`
	}

	version struct {
		Version string `json:"version"`
	}
)

func (p *Profile) UnmarshalJSON(b []byte) error {
	var v version
	err := json.Unmarshal(b, &v)
	if err != nil {
		return err
	}
	switch v.Version {
	case "", "1":
		var doc document
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		return p.fromDocument(doc)
	default:
		return fmt.Errorf("profile: %w: %q", errorutil.ErrUnknownVersion, v.Version)
	}
}

func (p Profile) MarshalJSON() ([]byte, error) {
	doc := document{
		Name:        p.Name,
		Nodes:       []documentNode{},
		TotalWeight: p.TotalWeight,
		Unit:        p.Unit,
		Version:     "1",
	}
	frameIndexes := make(map[*frame.Frame]int)
	if p.Tree != nil {
		for _, n := range p.Tree.Roots {
			doc.Nodes = append(doc.Nodes, newDocumentNode(n, frameIndexes, &doc.Frames))
		}
	}
	return json.Marshal(doc)
}

func (p *Profile) fromDocument(doc document) error {
	frames := make([]*frame.Frame, len(doc.Frames))
	for i := range doc.Frames {
		frames[i] = &doc.Frames[i]
	}
	roots := make([]*nodetree.Node, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		n, err := newTreeNode(&doc.Nodes[i], frames)
		if err != nil {
			return err
		}
		roots = append(roots, n)
	}
	p.Name = doc.Name
	p.Tree = &nodetree.Tree{Roots: roots}
	p.Unit = doc.Unit
	p.TotalWeight = doc.TotalWeight
	if p.TotalWeight == 0 {
		p.TotalWeight = p.Tree.TotalWeight()
	}
	p.FormatValue = FormatterForUnit(doc.Unit)
	return nil
}

func newTreeNode(dn *documentNode, frames []*frame.Frame) (*nodetree.Node, error) {
	if dn.Frame < 0 || dn.Frame >= len(frames) {
		return nil, fmt.Errorf("profile: %w: frame index %d out of range", errorutil.ErrDataIntegrity, dn.Frame)
	}
	n := nodetree.NodeFromFrame(frames[dn.Frame], dn.Total, dn.Self)
	for i := range dn.Children {
		c, err := newTreeNode(&dn.Children[i], frames)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func newDocumentNode(n *nodetree.Node, frameIndexes map[*frame.Frame]int, frames *[]frame.Frame) documentNode {
	i, ok := frameIndexes[n.Frame]
	if !ok {
		i = len(*frames)
		frameIndexes[n.Frame] = i
		*frames = append(*frames, *n.Frame)
	}
	dn := documentNode{
		Frame: i,
		Self:  n.SelfWeight,
		Total: n.TotalWeight,
	}
	for _, c := range n.Children {
		dn.Children = append(dn.Children, newDocumentNode(c, frameIndexes, frames))
	}
	return dn
}

// Formatter returns the profile's value formatter, falling back to plain
// numbers when none was supplied.
func (p *Profile) Formatter() ValueFormatter {
	if p.FormatValue != nil {
		return p.FormatValue
	}
	return formatCount
}
