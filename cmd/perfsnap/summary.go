package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/perfsnap/perfsnap/internal/delivery"
	"github.com/perfsnap/perfsnap/internal/nodetree"
	"github.com/perfsnap/perfsnap/internal/pprofutil"
	"github.com/perfsnap/perfsnap/internal/profile"
	"github.com/perfsnap/perfsnap/internal/report"
	"github.com/perfsnap/perfsnap/internal/storageutil"
)

type summaryOptions struct {
	copyText bool
	focus    string
	minPct   float64
	out      string
}

func newSummaryCommand() *cobra.Command {
	var opts summaryOptions
	cmd := &cobra.Command{
		Use:   "summary <profile>...",
		Short: "Render bottoms-up and call-tree summaries for one or more profiles",
		Long: `Render bottoms-up and call-tree summaries for one or more profiles.

Inputs ending in .json are read as profile documents, .lz4 as
lz4-compressed documents; anything else is parsed as a pprof profile.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSummary(args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.copyText, "copy", false, "copy the report to the system clipboard")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "narrow the report to the heaviest subtree with this function name")
	cmd.Flags().Float64Var(&opts.minPct, "min-pct", 1.0, "weight threshold in percent for both report sections")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the report to a file instead of stdout")
	return cmd
}

func runSummary(paths []string, opts summaryOptions) error {
	profiles := make([]report.NamedProfile, 0, len(paths))
	for _, path := range paths {
		p, err := loadProfile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		name := p.Name
		if name == "" {
			name = filepath.Base(path)
		}
		profiles = append(profiles, report.NamedProfile{Name: name, Profile: p})
	}

	var text string
	if len(profiles) == 1 {
		p := profiles[0].Profile
		var selected *nodetree.Node
		if opts.focus != "" {
			selected = p.Tree.FindByName(opts.focus)
			if selected == nil {
				return fmt.Errorf("no function named %q in %s", opts.focus, profiles[0].Name)
			}
		}
		text = report.SummaryAt(p, selected, opts.minPct)
	} else {
		if opts.focus != "" {
			return errors.New("--focus applies to a single profile only")
		}
		text = report.MultiSummaryAt(profiles, opts.minPct)
	}

	if opts.out != "" {
		if err := delivery.WriteFile(opts.out, text); err != nil {
			return err
		}
	} else {
		fmt.Println(text)
	}

	if opts.copyText && !delivery.CopyToClipboard(text) {
		log.Warn().Msg("report was generated but could not be copied")
	}
	return nil
}

func loadProfile(path string) (*profile.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".lz4"):
		var p profile.Profile
		if err := storageutil.UnmarshalCompressed(f, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case strings.HasSuffix(path, ".json"):
		var p profile.Profile
		if err := json.NewDecoder(f).Decode(&p); err != nil {
			return nil, err
		}
		return &p, nil
	default:
		return pprofutil.Parse(f)
	}
}
