package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the elemdoc release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/elemdoc"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the elemdoc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "elemdoc v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
