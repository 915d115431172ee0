package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/perfsnap/perfsnap/internal/nodetree"
	"github.com/perfsnap/perfsnap/internal/profile"
)

const (
	title          = "Performance Summary"
	noDataSentinel = "No data available"

	// defaultMinPercent is the weight floor applied to both report
	// sections, each against its own baseline: the whole profile for
	// the bottoms-up view, the selection for the call-tree view.
	defaultMinPercent = 1.0
)

var (
	ruleHeavy = strings.Repeat("=", 60)
	ruleLight = strings.Repeat("-", 60)
)

// NamedProfile pairs a profile with the display name used in
// multi-profile report sub-headers.
type NamedProfile struct {
	Name    string
	Profile *profile.Profile
}

// Summary produces the report for one profile at the default threshold.
// A nil selected node scopes the report to the whole tree; a non-nil
// one narrows it to that subtree and adds the selected-node block.
func Summary(p *profile.Profile, selected *nodetree.Node) string {
	return SummaryAt(p, selected, defaultMinPercent)
}

// SummaryAt is Summary with an explicit percentage threshold.
//
// The two sections deliberately use different baselines: bottoms-up
// entries filter against the whole profile's total weight, call-tree
// lines against the selection's own total weight, so a deep selection's
// children stay visible even when they are tiny relative to the whole
// profile. Percentages follow the same split.
func SummaryAt(p *profile.Profile, selected *nodetree.Node, minPercent float64) string {
	var scope, callees []*nodetree.Node
	selectionWeight := p.TotalWeight
	if selected != nil {
		scope = []*nodetree.Node{selected}
		callees = selected.Children
		selectionWeight = selected.TotalWeight
	} else if p.Tree != nil {
		scope = p.Tree.Roots
		callees = p.Tree.Roots
	}

	entries := BottomsUp(scope, p.TotalWeight, WeightFloor(p.TotalWeight, minPercent))
	lines := TreeLines(callees, selectionWeight, WeightFloor(selectionWeight, minPercent))
	if len(entries) == 0 && len(lines) == 0 {
		return noDataSentinel
	}

	fv := p.Formatter()
	out := make([]string, 0, 8+2*len(entries)+2*len(lines))
	out = append(out, title, ruleHeavy)

	if selected != nil {
		selectedRow := fmt.Sprintf("[Selected: %s]", selected.Frame.DisplayName())
		if loc := selected.Frame.Location(); loc != "" {
			selectedRow += fmt.Sprintf(" [Location: %s]", loc)
		}
		out = append(out,
			selectedRow,
			fmt.Sprintf("[Total: %s (%.1f%%)] [Self: %s (%.1f%%)]",
				fv(selected.TotalWeight), percent(selected.TotalWeight, p.TotalWeight),
				fv(selected.SelfWeight), percent(selected.SelfWeight, p.TotalWeight)),
		)
	}

	if len(entries) > 0 {
		out = append(out, fmt.Sprintf("Bottoms Up (by self time, >=%s of total):", percentLabel(minPercent)), ruleLight)
		for _, e := range entries {
			first, second := entryRows(fv, e)
			out = append(out, first, second)
		}
	}
	if len(lines) > 0 {
		out = append(out, fmt.Sprintf("Call Tree (callees, >=%s of selection):", percentLabel(minPercent)), ruleLight)
		for _, l := range lines {
			first, second := treeLineRows(fv, l)
			out = append(out, first, second)
		}
	}

	out = append(out, ruleLight, "Total weight of profile: "+fv(p.TotalWeight))
	return strings.Join(out, "\n")
}

// MultiSummary produces one combined report for an ordered list of
// profiles at the default threshold.
func MultiSummary(profiles []NamedProfile) string {
	return MultiSummaryAt(profiles, defaultMinPercent)
}

// MultiSummaryAt renders each profile's bottoms-up and call-tree
// sections in input order. There is no selection narrower than a whole
// profile here, so both sections filter and normalize against each
// profile's own total weight.
func MultiSummaryAt(profiles []NamedProfile, minPercent float64) string {
	if len(profiles) == 0 {
		return noDataSentinel
	}

	label := "profiles"
	if len(profiles) == 1 {
		label = "profile"
	}
	out := []string{fmt.Sprintf("%s (%d %s)", title, len(profiles), label), ruleHeavy}

	for i, np := range profiles {
		p := np.Profile
		fv := p.Formatter()
		if len(profiles) > 1 {
			out = append(out,
				fmt.Sprintf("Profile %d/%d: %s (total: %s)", i+1, len(profiles), np.Name, fv(p.TotalWeight)),
				ruleLight,
			)
		}

		var roots []*nodetree.Node
		if p.Tree != nil {
			roots = p.Tree.Roots
		}
		minWeight := WeightFloor(p.TotalWeight, minPercent)
		entries := BottomsUp(roots, p.TotalWeight, minWeight)
		lines := TreeLines(roots, p.TotalWeight, minWeight)
		if len(entries) == 0 && len(lines) == 0 {
			out = append(out, noDataSentinel)
			continue
		}

		if len(entries) > 0 {
			out = append(out, fmt.Sprintf("Bottoms Up (by self time, >=%s of total):", percentLabel(minPercent)), ruleLight)
			for _, e := range entries {
				first, second := entryRows(fv, e)
				out = append(out, first, second)
			}
		}
		if len(lines) > 0 {
			out = append(out, fmt.Sprintf("Call Tree (callees, >=%s of total):", percentLabel(minPercent)), ruleLight)
			for _, l := range lines {
				first, second := treeLineRows(fv, l)
				out = append(out, first, second)
			}
		}
	}

	return strings.Join(out, "\n")
}

// WeightFloor converts a percentage threshold into an absolute weight
// against the given baseline, rounding up so a strictly lighter node
// can never pass the filter.
func WeightFloor(baseline uint64, pct float64) uint64 {
	if pct <= 0 {
		return 0
	}
	return uint64(math.Ceil(float64(baseline) * pct / 100))
}

// treeLineRows renders one call-tree line as its two text rows: the
// indented name row, then a stats row aligned under it. Alignment is
// best-effort on rune count, wide characters will drift.
func treeLineRows(fv profile.ValueFormatter, l TreeLine) (string, string) {
	name := l.Name
	if l.Location != "" {
		name += " (" + l.Location + ")"
	}
	first := l.Prefix + name
	stats := fmt.Sprintf("[%s (%.1f%%), self: %s (%.1f%%)]",
		fv(l.TotalWeight), l.TotalPercent, fv(l.SelfWeight), l.SelfPercent)
	indent := strings.Repeat(" ", utf8.RuneCountInString(l.Prefix))
	return first, indent + rightPad(name, stats) + stats
}

// entryRows renders one bottoms-up entry as an independent two-row
// block, self weight first in the stats row.
func entryRows(fv profile.ValueFormatter, e BottomsUpEntry) (string, string) {
	first := e.Frame.DisplayName()
	if loc := e.Frame.Location(); loc != "" {
		first += " (" + loc + ")"
	}
	stats := fmt.Sprintf("[self: %s (%.1f%%), total: %s (%.1f%%)]",
		fv(e.SelfWeight), e.SelfPercent, fv(e.TotalWeight), e.TotalPercent)
	return first, rightPad(first, stats) + stats
}

// rightPad returns the spacing that right-aligns stats under name, or
// nothing when stats is the wider of the two.
func rightPad(name, stats string) string {
	pad := utf8.RuneCountInString(name) - utf8.RuneCountInString(stats)
	if pad <= 0 {
		return ""
	}
	return strings.Repeat(" ", pad)
}

func percentLabel(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
