package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/elemdoc/internal/paths"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "ELEMDOC"
)

// setDefaults registers every configuration key so that environment
// overrides apply even when config.yaml omits the key.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("output_dir", "")
	v.SetDefault("image_dir", d.ImageDir)
	v.SetDefault("image_rel_dir", d.ImageRelDir)
	v.SetDefault("doc_dir", d.DocDir)
	v.SetDefault("index_file", d.IndexFile)
	v.SetDefault("render_width", d.RenderWidth)
	v.SetDefault("render_height", d.RenderHeight)
	v.SetDefault("thumb_width", d.ThumbWidth)
	v.SetDefault("thumb_height", d.ThumbHeight)
	v.SetDefault("port_thumb_size", d.PortThumbSize)
	v.SetDefault("skip", d.Skip)
	v.SetDefault("aperture_color", d.ApertureColor)
	v.SetDefault("grid_color", d.GridColor)
	v.SetDefault("grid_thickness", d.GridThickness)
	v.SetDefault("axes_zoom", d.AxesZoom)
	v.SetDefault("aperture_thickness", d.ApertureThickness)
	v.SetDefault("stl_example", d.STLExample)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("render_timeout", d.RenderTimeout)
	v.SetDefault("library_name", d.LibraryName)
	v.SetDefault("html", d.HTML)
}

// loadConfig reads config.yaml from configDir using Viper, applies
// ELEMDOC_* environment overrides and resolves the output directory with
// the precedence flag > output_dir > ELEMDOC_OUTPUT_DIR > $(CWD).
// A missing config.yaml is not an error. Relative catalog paths are taken
// relative to the config directory.
func loadConfig(configDir, outputFlag string) (types.Config, error) {
	v := viper.New()
	setDefaults(v, types.DefaultConfig())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("%w: read config: %v", types.ErrInvalidConfig, err)
		}
	}
	// output_dir comes from the file only; ELEMDOC_OUTPUT_DIR ranks below it
	// and is applied by paths.ResolveOutputDir.
	fileOutputDir := v.GetString("output_dir")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("%w: decode config: %v", types.ErrInvalidConfig, err)
	}

	out, err := paths.ResolveOutputDir(outputFlag, fileOutputDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve output dir: %w", err)
	}
	cfg.OutputDir = out
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(configDir, cfg.Catalog)
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// currentConfig loads the configuration for the running command.
func currentConfig() (types.Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	return loadConfig(configDir, flags.outputDir)
}
