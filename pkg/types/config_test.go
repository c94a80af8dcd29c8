package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"zero render width", func(c *Config) { c.RenderWidth = 0 }, ErrInvalidConfig},
		{"negative thumb", func(c *Config) { c.ThumbHeight = -1 }, ErrInvalidConfig},
		{"bad aperture color", func(c *Config) { c.ApertureColor = "green" }, ErrInvalidConfig},
		{"bad grid color", func(c *Config) { c.GridColor = "#zzzzzz" }, ErrInvalidConfig},
		{"zero grid thickness", func(c *Config) { c.GridThickness = 0 }, ErrInvalidConfig},
		{"negative timeout", func(c *Config) { c.RenderTimeout = -time.Second }, ErrInvalidConfig},
		{"empty doc dir", func(c *Config) { c.DocDir = "" }, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range DefaultSkip {
		if !cfg.IsSkipped(name) {
			t.Errorf("IsSkipped(%q) = false, want true", name)
		}
	}
	if cfg.IsSkipped("Mirror") {
		t.Error("IsSkipped(\"Mirror\") = true, want false")
	}
}

func TestParseRGB(t *testing.T) {
	got, err := ParseRGB("#00ff00")
	if err != nil {
		t.Fatalf("ParseRGB: %v", err)
	}
	if got != (RGB{0, 1, 0}) {
		t.Errorf("ParseRGB(#00ff00) = %+v, want green", got)
	}
	if _, err := ParseRGB("0000ff"); err != nil {
		t.Errorf("ParseRGB without '#': %v", err)
	}
}
