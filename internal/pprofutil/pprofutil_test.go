package pprofutil

import (
	"errors"
	"testing"

	pprofile "github.com/google/pprof/profile"

	"github.com/perfsnap/perfsnap/internal/errorutil"
	"github.com/perfsnap/perfsnap/internal/frame"
	"github.com/perfsnap/perfsnap/internal/nodetree"
	"github.com/perfsnap/perfsnap/internal/testutil"
)

func cpuSampleTypes() []*pprofile.ValueType {
	return []*pprofile.ValueType{
		{Type: "samples", Unit: "count"},
		{Type: "cpu", Unit: "nanoseconds"},
	}
}

func TestFromPprof(t *testing.T) {
	fnMain := &pprofile.Function{ID: 1, Name: "main", Filename: "main.go"}
	fnFoo := &pprofile.Function{ID: 2, Name: "foo", Filename: "foo.go"}
	fnBar := &pprofile.Function{ID: 3, Name: "bar", Filename: "bar.go"}
	locMain := &pprofile.Location{ID: 1, Line: []pprofile.Line{{Function: fnMain, Line: 10}}}
	locFoo := &pprofile.Location{ID: 2, Line: []pprofile.Line{{Function: fnFoo, Line: 20}}}
	locBar := &pprofile.Location{ID: 3, Line: []pprofile.Line{{Function: fnBar, Line: 30}}}

	p := &pprofile.Profile{
		SampleType: cpuSampleTypes(),
		Function:   []*pprofile.Function{fnMain, fnFoo, fnBar},
		Location:   []*pprofile.Location{locMain, locFoo, locBar},
		Sample: []*pprofile.Sample{
			// Stacks are leaf-first.
			{Location: []*pprofile.Location{locBar, locFoo, locMain}, Value: []int64{9, 90}},
			{Location: []*pprofile.Location{locFoo, locMain}, Value: []int64{1, 10}},
		},
	}

	got, err := FromPprof(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mainFrame := &frame.Frame{Name: "main", File: "main.go", Line: 10}
	fooFrame := &frame.Frame{Name: "foo", File: "foo.go", Line: 20}
	barFrame := &frame.Frame{Name: "bar", File: "bar.go", Line: 30}
	wantTree := &nodetree.Tree{Roots: []*nodetree.Node{
		{Frame: mainFrame, TotalWeight: 100, Children: []*nodetree.Node{
			{Frame: fooFrame, TotalWeight: 100, SelfWeight: 10, Children: []*nodetree.Node{
				{Frame: barFrame, TotalWeight: 90, SelfWeight: 90},
			}},
		}},
	}}

	if diff := testutil.Diff(got.Tree, wantTree); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(got.TotalWeight, uint64(100)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(got.Unit, "nanoseconds"); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestFromPprofRecursionSharesFrameIdentity(t *testing.T) {
	fnMain := &pprofile.Function{ID: 1, Name: "main", Filename: "main.go"}
	locMain := &pprofile.Location{ID: 1, Line: []pprofile.Line{{Function: fnMain, Line: 10}}}

	p := &pprofile.Profile{
		SampleType: cpuSampleTypes(),
		Function:   []*pprofile.Function{fnMain},
		Location:   []*pprofile.Location{locMain},
		Sample: []*pprofile.Sample{
			{Location: []*pprofile.Location{locMain}, Value: []int64{1, 10}},
			{Location: []*pprofile.Location{locMain, locMain}, Value: []int64{2, 20}},
		},
	}

	got, err := FromPprof(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := got.Tree.Roots[0]
	if len(root.Children) != 1 {
		t.Fatalf("expected one recursive child, got %d", len(root.Children))
	}
	if root.Frame != root.Children[0].Frame {
		t.Fatal("recursive calls must share one frame identity")
	}
	if diff := testutil.Diff(root.TotalWeight, uint64(30)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(root.SelfWeight, uint64(10)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(root.Children[0].SelfWeight, uint64(20)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestFromPprofNoSampleTypes(t *testing.T) {
	_, err := FromPprof(&pprofile.Profile{})
	if !errors.Is(err, errorutil.ErrDataIntegrity) {
		t.Fatalf("expected %v, got %v", errorutil.ErrDataIntegrity, err)
	}
}

func TestFromPprofSkipsNonPositiveWeights(t *testing.T) {
	fnMain := &pprofile.Function{ID: 1, Name: "main", Filename: "main.go"}
	locMain := &pprofile.Location{ID: 1, Line: []pprofile.Line{{Function: fnMain, Line: 10}}}

	p := &pprofile.Profile{
		SampleType: cpuSampleTypes(),
		Function:   []*pprofile.Function{fnMain},
		Location:   []*pprofile.Location{locMain},
		Sample: []*pprofile.Sample{
			{Location: []*pprofile.Location{locMain}, Value: []int64{1, 0}},
			{Location: []*pprofile.Location{locMain}, Value: []int64{1, -5}},
		},
	}

	got, err := FromPprof(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := testutil.Diff(got.TotalWeight, uint64(0)); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
	if diff := testutil.Diff(len(got.Tree.Roots), 0); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}
