// Package cli implements the elemdoc command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elemdoc/internal/generate"
	"github.com/mesh-intelligence/elemdoc/internal/paths"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errElementsFailed reports a run that completed with per-element failures.
var errElementsFailed = errors.New("some element types failed")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	outputDir string
	verbose   bool
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "elemdoc" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "elemdoc",
		Short: "Generate reference documentation for optical element types",
		Long: "elemdoc renders a sample image and reference-frame images for every\n" +
			"registered optical element type and writes a Markdown reference page\n" +
			"per type plus an index.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			installLogger(cmd.ErrOrStderr(), flags.verbose)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.elemdoc or the platform config dir)")
	root.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "directory generated assets are written under (default: $(CWD))")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every generated asset")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newImagesCmd())
	root.AddCommand(newDocumentsCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps command errors to exit codes. Bad input and partial runs are
// user errors; everything else is a system error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrInvalidConfig),
		errors.Is(err, types.ErrUnknownElementType),
		errors.Is(err, types.ErrExcludedType),
		errors.Is(err, errElementsFailed):
		return exitUserError
	default:
		return exitSysError
	}
}

// installLogger routes generation logs to w at Info level, or Debug when
// verbose.
func installLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	generate.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flags.configDir)
}
