package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elemdoc/pkg/sqlite"
)

// typeEntry is one row of the list output.
type typeEntry struct {
	Name        string `json:"name"`
	Parent      string `json:"parent,omitempty"`
	Description string `json:"description"`
	Excluded    bool   `json:"excluded"`
	Error       string `json:"error,omitempty"`
}

func newListCmd() *cobra.Command {
	var exportPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered element types",
		Long: `List prints every registered element type in registration order.
Types excluded from documentation are marked.

With --export the effective catalog (built-in types plus the configured
extension) is written as JSONL instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, exportPath)
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "write the effective catalog to this JSONL file")
	return cmd
}

func runList(cmd *cobra.Command, exportPath string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	if exportPath != "" {
		if err := sqlite.ExportCatalog(cfg, exportPath); err != nil {
			return fmt.Errorf("export catalog: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported catalog to %s\n", exportPath)
		return nil
	}

	lib, err := sqlite.NewLibrary(cfg)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	var entries []typeEntry
	for _, name := range lib.ElementTypes() {
		e := typeEntry{Name: name, Excluded: cfg.IsSkipped(name)}
		f, err := lib.LookupFactory(name)
		if err != nil {
			e.Error = err.Error()
			entries = append(entries, e)
			continue
		}
		chain := f.Metadata()
		e.Description = chain.Leaf().Description
		if anc := chain.Ancestors(); len(anc) > 0 {
			e.Parent = anc[0].Name
		}
		entries = append(entries, e)
	}

	if flags.jsonMode {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal types: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPARENT\tDOCUMENTED")
	for _, e := range entries {
		documented := "yes"
		switch {
		case e.Error != "":
			documented = "unresolved"
		case e.Excluded:
			documented = "no"
		}
		parent := e.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, parent, documented)
	}
	return tw.Flush()
}
