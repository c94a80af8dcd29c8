package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elemdoc/internal/generate"
	"github.com/mesh-intelligence/elemdoc/pkg/sqlite"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

func newImagesCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "images [type...]",
		Short: "Render element and reference-frame images",
		Long: `Images renders, for every documented element type, a sample image of a
default instance with its apertures and a grid, a thumbnail, and one image
plus thumbnail per port showing the port's reference frame.

Naming types restricts the run to them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, func(cfg *types.Config) {
				if cmd.Flags().Changed("seed") {
					cfg.Seed = seed
				}
			}, (*generate.Generator).Images)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for sampled parameters (default: config seed)")
	return cmd
}

func newDocumentsCmd() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "documents [type...]",
		Short: "Write element reference pages and the index",
		Long: `Documents writes one Markdown reference page per documented element type
and the element index. With --html an HTML preview is written next to each page.

Naming types restricts the pages written; the index always lists every
documented type.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, func(cfg *types.Config) {
				if html {
					cfg.HTML = true
				}
			}, (*generate.Generator).Documents)
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "also write HTML previews")
	return cmd
}

// runFunc is a generation verb.
type runFunc func(*generate.Generator, context.Context) (*generate.Report, error)

// runGenerate loads configuration and the library, runs verb and reports
// the outcome. Element failures make the command fail after the run.
func runGenerate(cmd *cobra.Command, only []string, adjust func(*types.Config), verb runFunc) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	adjust(&cfg)

	lib, err := sqlite.NewLibrary(cfg)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}
	g, err := generate.New(cfg, lib, generate.Options{Only: only})
	if err != nil {
		return err
	}

	rep, err := verb(g, cmd.Context())
	if rep != nil {
		printReport(cmd, rep)
	}
	if err != nil {
		return err
	}
	if len(rep.Failed) > 0 {
		return fmt.Errorf("%w: %d of %d", errElementsFailed, len(rep.Failed), len(rep.Failed)+len(rep.Processed))
	}
	return nil
}

// reportJSON is the --json form of a report.
type reportJSON struct {
	RunID     string            `json:"run_id"`
	Processed []string          `json:"processed"`
	Failed    map[string]string `json:"failed,omitempty"`
}

func printReport(cmd *cobra.Command, rep *generate.Report) {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		r := reportJSON{RunID: rep.RunID, Processed: rep.Processed}
		if r.Processed == nil {
			r.Processed = []string{}
		}
		for _, f := range rep.Failed {
			if r.Failed == nil {
				r.Failed = make(map[string]string)
			}
			r.Failed[f.Element] = f.Err.Error()
		}
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(out, string(data))
		return
	}
	fmt.Fprintf(out, "run %s: %d element types processed\n", rep.RunID, len(rep.Processed))
	for _, f := range rep.Failed {
		fmt.Fprintf(out, "  failed %s: %v\n", f.Element, f.Err)
	}
}
