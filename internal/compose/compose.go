// Package compose renders element scenes in independent passes and
// alpha-blends the passes into a single raster.
//
// The renderer can only toggle element and aperture visibility per pass, so
// showing both with different weights takes two renders and a blend.
package compose

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/elemdoc/internal/grid"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Blend weights and margins used for documentation images.
const (
	// OpticalOpacity is the opacity of the solid pass for optical elements.
	OpticalOpacity = 0.75

	// SolidOpacity is the opacity of the solid pass for other elements.
	SolidOpacity = 1.0

	// PortOpacity is the opacity of the solid pass in port-frame images.
	PortOpacity = 0.75

	// SampleMargin enlarges the grid extent of element sample images.
	SampleMargin = 1e-2
)

// Settings configures every renderer the Compositor creates.
type Settings struct {
	Width             int
	Height            int
	ApertureColor     types.RGB
	ApertureThickness float64
	GridColor         types.RGB
	GridThickness     float64
	AxesZoom          float64

	// Timeout bounds each Render call. Zero means no limit.
	Timeout time.Duration
}

// Compositor executes render passes against a renderer factory.
// A fresh renderer is created for every pass, so passes never share state.
type Compositor struct {
	newRenderer types.RendererFactory
	settings    Settings
}

// New returns a Compositor that builds renderers with factory.
func New(factory types.RendererFactory, settings Settings) *Compositor {
	return &Compositor{newRenderer: factory, settings: settings}
}

// Opacity returns the solid-pass opacity for an element.
func Opacity(optical bool) float64 {
	if optical {
		return OpticalOpacity
	}
	return SolidOpacity
}

// SamplePasses returns the front (apertures only) and back (elements and
// apertures) passes of an element's sample image.
func SamplePasses(box types.BoundingBox) []types.RenderPass {
	return []types.RenderPass{
		{ShowElements: false, ShowApertures: true, Box: box, ExtraMargin: SampleMargin},
		{ShowElements: true, ShowApertures: true, Box: box, ExtraMargin: SampleMargin},
	}
}

// PortPasses returns the front (grid only) and back (elements only) passes of
// a port-frame image. The camera fits box, which includes the port origin;
// the grid is drawn in the port frame and sized from the element's own box.
func PortPasses(frame types.Frame, box, elementBox types.BoundingBox) []types.RenderPass {
	return []types.RenderPass{
		{ShowElements: false, ShowApertures: false, Frame: frame, Box: box, GridBox: elementBox},
		{ShowElements: true, ShowApertures: false, Frame: frame, Box: box, GridBox: elementBox},
	}
}

// Render executes passes against model and composites them. A single pass is
// returned as is. Two passes are blended front over back with weight
// t = 1 - opacity.
func (c *Compositor) Render(ctx context.Context, model types.Model, passes []types.RenderPass, opacity float64) (types.Raster, error) {
	switch len(passes) {
	case 1:
		return c.RenderPass(ctx, model, passes[0])
	case 2:
		front, err := c.RenderPass(ctx, model, passes[0])
		if err != nil {
			return nil, fmt.Errorf("front pass: %w", err)
		}
		back, err := c.RenderPass(ctx, model, passes[1])
		if err != nil {
			return nil, fmt.Errorf("back pass: %w", err)
		}
		return Blend(front, back, 1-opacity)
	default:
		return nil, fmt.Errorf("compose: expected 1 or 2 passes, got %d", len(passes))
	}
}

// RenderPass configures a fresh renderer for pass and renders it.
func (c *Compositor) RenderPass(ctx context.Context, model types.Model, pass types.RenderPass) (types.Raster, error) {
	frame := pass.Frame
	if frame == nil {
		frame = model.World()
	}

	gridBox := pass.GridBox
	if gridBox == (types.BoundingBox{}) {
		gridBox = pass.Box
	}
	step, divs, err := grid.ForBox(frame, gridBox, pass.ExtraMargin)
	if err != nil {
		return nil, err
	}

	r, err := c.newRenderer(model, c.settings.Width, c.settings.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %v", types.ErrRenderFailure, err)
	}

	r.SetApertureThickness(c.settings.ApertureThickness)
	r.SetApertureColor(c.settings.ApertureColor)
	r.ZoomToBox(model.World(), pass.Box)
	r.SetShowApertures(pass.ShowApertures)
	r.SetShowElements(pass.ShowElements)
	r.AddGrid(frame, types.GridSpec{
		Step:      step,
		Divisions: divs,
		Color:     c.settings.GridColor,
		Thickness: c.settings.GridThickness,
	})
	r.SetAxesZoom(c.settings.AxesZoom)

	if c.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.Timeout)
		defer cancel()
	}
	if err := r.Render(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrRenderFailure, err)
	}
	return r.Image(), nil
}

// Blend interpolates every channel, alpha included, as
// t*front + (1-t)*back. t is clamped to [0, 1]. Both rasters must have the
// same bounds; the result is a new raster.
func Blend(front, back types.Raster, t float64) (types.Raster, error) {
	if front.Rect != back.Rect {
		return nil, fmt.Errorf("%w: %v vs %v", types.ErrRasterMismatch, front.Rect, back.Rect)
	}
	t = math.Max(0, math.Min(1, t))

	out := types.NewRaster(front.Rect.Dx(), front.Rect.Dy())
	out.Rect = front.Rect
	w := front.Rect.Dx() * 4
	for y := 0; y < front.Rect.Dy(); y++ {
		fo := y * front.Stride
		bo := y * back.Stride
		oo := y * out.Stride
		for i := 0; i < w; i++ {
			v := t*float64(front.Pix[fo+i]) + (1-t)*float64(back.Pix[bo+i])
			out.Pix[oo+i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
		}
	}
	return out, nil
}
