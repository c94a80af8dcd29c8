package types

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Raster is an 8-bit RGBA pixel buffer, 4 bytes per pixel.
type Raster = *image.RGBA

// NewRaster allocates a transparent raster.
func NewRaster(width, height int) Raster {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// ParseRGB parses "#rrggbb" (the leading '#' is optional).
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: color %q must be #rrggbb", ErrInvalidConfig, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, s, err)
	}
	return RGB{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
	}, nil
}

// GridSpec configures a grid overlay.
type GridSpec struct {
	Step      float64 // distance between adjacent grid lines
	Divisions int     // number of steps spanned by the grid
	Color     RGB
	Thickness float64 // line width in pixels
}

// RenderPass is one independent rendering of a scene.
type RenderPass struct {
	ShowElements  bool
	ShowApertures bool

	// Frame is the frame the grid is drawn in. Nil selects the world frame.
	Frame Frame

	// Box is the region the camera is fitted to, in world coordinates.
	Box BoundingBox

	// GridBox sizes the grid. The zero box selects Box.
	GridBox BoundingBox

	// ExtraMargin enlarges the extent used for grid sizing by (1 + ExtraMargin).
	ExtraMargin float64
}
