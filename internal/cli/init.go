package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/elemdoc/internal/paths"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// configHeader prefixes the generated config.yaml.
const configHeader = `# elemdoc configuration
# Every key may be overridden by an ELEMDOC_<KEY> environment variable.
# catalog names an optional JSONL file of extra element types, relative to
# this directory.

`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration",
		Long:  "Create the configuration directory and write config.yaml with the default settings.\nAn existing config.yaml is left untouched.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	// init creates a project-local directory unless one is named explicitly.
	configDir := paths.DefaultConfigDirName
	if flags.configDir != "" || os.Getenv(paths.EnvConfigDir) != "" {
		dir, err := resolveConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns false, nil.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := types.DefaultConfig()
	cfg.OutputDir = ""
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
