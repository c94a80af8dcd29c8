// Package render rasterizes compiled optics models with the gg software
// renderer. The camera is a fixed isometric orthographic view; solids are
// drawn shaded with the painter's algorithm, apertures as coloured rims and
// grids in the XY plane of their frame.
package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Element colours.
var (
	solidColor   = types.RGB{R: 0.62, G: 0.66, B: 0.74}
	outlineColor = types.RGB{R: 0.18, G: 0.2, B: 0.24}
	axisColors   = [3]types.RGB{{R: 0.85, G: 0.1, B: 0.1}, {R: 0.1, G: 0.7, B: 0.1}, {R: 0.1, G: 0.1, B: 0.85}}
)

const outlineWidth = 1.0

type grid struct {
	frame types.Frame
	spec  types.GridSpec
}

// Renderer draws one optics model. It implements types.Renderer.
type Renderer struct {
	model  *optics.Model
	width  int
	height int
	cam    camera

	apertureColor     types.RGB
	apertureThickness float64
	showElements      bool
	showApertures     bool
	grids             []grid
	axesZoom          float64

	img *image.RGBA
}

var _ types.Renderer = (*Renderer)(nil)

// New creates a renderer for model. Only models compiled by the optics
// package can be drawn. The signature matches types.RendererFactory.
func New(model types.Model, width, height int) (types.Renderer, error) {
	m, ok := model.(*optics.Model)
	if !ok {
		return nil, fmt.Errorf("%w: cannot draw model of type %T", types.ErrRenderFailure, model)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid image size %dx%d", types.ErrRenderFailure, width, height)
	}
	return &Renderer{
		model:             m,
		width:             width,
		height:            height,
		cam:               newCamera(width, height),
		apertureColor:     types.RGB{G: 1},
		apertureThickness: 1,
		showElements:      true,
		showApertures:     true,
		axesZoom:          1,
	}, nil
}

func (r *Renderer) SetApertureColor(c types.RGB)            { r.apertureColor = c }
func (r *Renderer) SetApertureThickness(px float64)         { r.apertureThickness = px }
func (r *Renderer) SetShowElements(show bool)               { r.showElements = show }
func (r *Renderer) SetShowApertures(show bool)              { r.showApertures = show }
func (r *Renderer) SetAxesZoom(zoom float64)                { r.axesZoom = zoom }
func (r *Renderer) AddGrid(f types.Frame, g types.GridSpec) { r.grids = append(r.grids, grid{frame: f, spec: g}) }

// ZoomToBox implements types.Renderer. A nil frame means world coordinates.
func (r *Renderer) ZoomToBox(frame types.Frame, box types.BoundingBox) {
	corners := box.Corners()
	points := corners[:]
	if frame != nil {
		points = make([]types.Vec3, len(corners))
		for i, p := range corners {
			points[i] = frame.FromRelative(p)
		}
	}
	r.cam.fit(points)
}

// Render implements types.Renderer.
func (r *Renderer) Render(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()
	dc.Clear()

	if r.showElements {
		if err := r.drawSolids(ctx, dc); err != nil {
			return err
		}
	}
	if r.showApertures {
		if err := r.drawApertures(ctx, dc); err != nil {
			return err
		}
	}
	for _, g := range r.grids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.drawGrid(dc, g); err != nil {
			return err
		}
	}

	r.img = toRGBA(dc.Image())
	return nil
}

// Image implements types.Renderer. Before the first Render the image is
// fully transparent.
func (r *Renderer) Image() types.Raster {
	out := types.NewRaster(r.width, r.height)
	if r.img != nil {
		copy(out.Pix, r.img.Pix)
	}
	return out
}

func (r *Renderer) drawSolids(ctx context.Context, dc *gg.Context) error {
	var faces []face
	for _, e := range r.model.Elements() {
		if s, ok := e.Solid(); ok {
			faces = append(faces, solidFaces(s)...)
		}
	}
	sortFaces(faces)

	dc.SetLineWidth(outlineWidth)
	for _, f := range faces {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.polygon(dc, f.points, true)
		dc.SetRGBA(solidColor.R*f.shade, solidColor.G*f.shade, solidColor.B*f.shade, 1)
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("fill face: %w", err)
		}
		dc.SetRGBA(outlineColor.R, outlineColor.G, outlineColor.B, 1)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("outline face: %w", err)
		}
	}
	return nil
}

func (r *Renderer) drawApertures(ctx context.Context, dc *gg.Context) error {
	c := r.apertureColor
	dc.SetRGBA(c.R, c.G, c.B, 1)
	dc.SetLineWidth(r.apertureThickness)
	for _, e := range r.model.Elements() {
		for _, a := range e.Apertures() {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.polygon(dc, a.Outline(), true)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("aperture %s: %w", a.Surface, err)
			}
		}
	}
	return nil
}

// drawGrid draws a square grid centred on the frame origin, followed by the
// frame axes.
func (r *Renderer) drawGrid(dc *gg.Context, g grid) error {
	frame := g.frame
	if frame == nil {
		frame = r.model.World()
	}
	s := g.spec
	half := float64(s.Divisions) * s.Step / 2

	dc.SetRGBA(s.Color.R, s.Color.G, s.Color.B, 1)
	dc.SetLineWidth(s.Thickness)
	for i := 0; i <= s.Divisions; i++ {
		v := -half + float64(i)*s.Step
		r.line(dc, frame.FromRelative(types.Vec3{X: v, Y: -half}), frame.FromRelative(types.Vec3{X: v, Y: half}))
		r.line(dc, frame.FromRelative(types.Vec3{X: -half, Y: v}), frame.FromRelative(types.Vec3{X: half, Y: v}))
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	length := s.Step * r.axesZoom
	o := frame.Center()
	for i, tip := range []types.Vec3{{X: length}, {Y: length}, {Z: length}} {
		c := axisColors[i]
		dc.SetRGBA(c.R, c.G, c.B, 1)
		dc.SetLineWidth(2 * s.Thickness)
		r.line(dc, o, frame.FromRelative(tip))
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("axis: %w", err)
		}
	}
	return nil
}

func (r *Renderer) polygon(dc *gg.Context, points []types.Vec3, closed bool) {
	for i, p := range points {
		x, y := r.cam.project(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	if closed {
		dc.ClosePath()
	}
}

func (r *Renderer) line(dc *gg.Context, a, b types.Vec3) {
	r.polygon(dc, []types.Vec3{a, b}, false)
}

// toRGBA returns img as *image.RGBA, converting only when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
