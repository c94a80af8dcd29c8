package types

import (
	"fmt"
	"time"
)

// Config holds every setting of a generation run.
type Config struct {
	OutputDir   string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	ImageDir    string `json:"image_dir" yaml:"image_dir" mapstructure:"image_dir"`
	ImageRelDir string `json:"image_rel_dir" yaml:"image_rel_dir" mapstructure:"image_rel_dir"`
	DocDir      string `json:"doc_dir" yaml:"doc_dir" mapstructure:"doc_dir"`
	IndexFile   string `json:"index_file" yaml:"index_file" mapstructure:"index_file"`

	RenderWidth   int `json:"render_width" yaml:"render_width" mapstructure:"render_width"`
	RenderHeight  int `json:"render_height" yaml:"render_height" mapstructure:"render_height"`
	ThumbWidth    int `json:"thumb_width" yaml:"thumb_width" mapstructure:"thumb_width"`
	ThumbHeight   int `json:"thumb_height" yaml:"thumb_height" mapstructure:"thumb_height"`
	PortThumbSize int `json:"port_thumb_size" yaml:"port_thumb_size" mapstructure:"port_thumb_size"`

	// Skip lists element types that are never documented on their own.
	Skip []string `json:"skip" yaml:"skip" mapstructure:"skip"`

	ApertureColor     string  `json:"aperture_color" yaml:"aperture_color" mapstructure:"aperture_color"`
	GridColor         string  `json:"grid_color" yaml:"grid_color" mapstructure:"grid_color"`
	GridThickness     float64 `json:"grid_thickness" yaml:"grid_thickness" mapstructure:"grid_thickness"`
	AxesZoom          float64 `json:"axes_zoom" yaml:"axes_zoom" mapstructure:"axes_zoom"`
	ApertureThickness float64 `json:"aperture_thickness" yaml:"aperture_thickness" mapstructure:"aperture_thickness"`

	// STLExample is the mesh file given to mesh-importing elements.
	STLExample string `json:"stl_example" yaml:"stl_example" mapstructure:"stl_example"`

	// Catalog is an optional JSONL file of extra element-type definitions.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty" mapstructure:"catalog"`

	// Seed makes synthetic parameters reproducible. Zero means unseeded.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// RenderTimeout bounds each render call. Zero disables the limit.
	RenderTimeout time.Duration `json:"render_timeout" yaml:"render_timeout" mapstructure:"render_timeout"`

	// LibraryName is quoted in the index introduction when set.
	LibraryName string `json:"library_name,omitempty" yaml:"library_name,omitempty" mapstructure:"library_name"`

	// HTML also writes an HTML preview next to every document.
	HTML bool `json:"html" yaml:"html" mapstructure:"html"`
}

// DefaultSkip is the documentation-excluded base set.
var DefaultSkip = []string{"RayBeamElement", "Element", "OpticalElement"}

// DefaultConfig returns the settings used when no configuration is given.
func DefaultConfig() Config {
	return Config{
		OutputDir:         ".",
		ImageDir:          "doxygen/img",
		ImageRelDir:       "../img",
		DocDir:            "elements",
		IndexFile:         "elementRef.md",
		RenderWidth:       1024,
		RenderHeight:      1024,
		ThumbWidth:        256,
		ThumbHeight:       256,
		PortThumbSize:     200,
		Skip:              append([]string(nil), DefaultSkip...),
		ApertureColor:     "#00ff00",
		GridColor:         "#0000ff",
		GridThickness:     3,
		AxesZoom:          5,
		ApertureThickness: 5,
		STLExample:        "Utah_teapot_(solid)_smooth.stl",
	}
}

// Validate checks that the Config is usable. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{
		{"render_width", c.RenderWidth},
		{"render_height", c.RenderHeight},
		{"thumb_width", c.ThumbWidth},
		{"thumb_height", c.ThumbHeight},
		{"port_thumb_size", c.PortThumbSize},
	}
	for _, s := range sizes {
		if s.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, s.name, s.v)
		}
	}
	if _, err := ParseRGB(c.ApertureColor); err != nil {
		return err
	}
	if _, err := ParseRGB(c.GridColor); err != nil {
		return err
	}
	if c.GridThickness <= 0 || c.ApertureThickness <= 0 {
		return fmt.Errorf("%w: line thickness must be positive", ErrInvalidConfig)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("%w: render_timeout must not be negative", ErrInvalidConfig)
	}
	if c.IndexFile == "" || c.DocDir == "" || c.ImageDir == "" {
		return fmt.Errorf("%w: output locations must not be empty", ErrInvalidConfig)
	}
	return nil
}

// IsSkipped reports whether typeName is in the documentation-excluded set.
func (c Config) IsSkipped(typeName string) bool {
	for _, s := range c.Skip {
		if s == typeName {
			return true
		}
	}
	return false
}
