package compose

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elemdoc/internal/grid"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

type worldFrame struct{}

func (worldFrame) Name() string                          { return "world" }
func (worldFrame) Center() types.Vec3                    { return types.Vec3{} }
func (worldFrame) ToRelativeVec(v types.Vec3) types.Vec3 { return v }
func (worldFrame) FromRelative(p types.Vec3) types.Vec3  { return p }

type fakeModel struct{}

func (fakeModel) LookupElement(string) (types.Element, bool) { return nil, false }
func (fakeModel) World() types.Frame                         { return worldFrame{} }

// fakeRenderer fills the raster with a color derived from its visibility
// flags so blends can be checked numerically.
type fakeRenderer struct {
	w, h          int
	showElements  bool
	showApertures bool
	grid          types.GridSpec
	gridFrame     types.Frame
	zoomBox       types.BoundingBox
	renderErr     error
	block         bool
	img           types.Raster
}

func (r *fakeRenderer) SetApertureColor(types.RGB)   {}
func (r *fakeRenderer) SetApertureThickness(float64) {}
func (r *fakeRenderer) SetShowElements(show bool)    { r.showElements = show }
func (r *fakeRenderer) SetShowApertures(show bool)   { r.showApertures = show }
func (r *fakeRenderer) SetAxesZoom(float64)          {}
func (r *fakeRenderer) Image() types.Raster          { return r.img }
func (r *fakeRenderer) AddGrid(f types.Frame, g types.GridSpec) {
	r.gridFrame, r.grid = f, g
}
func (r *fakeRenderer) ZoomToBox(_ types.Frame, b types.BoundingBox) { r.zoomBox = b }

func (r *fakeRenderer) Render(ctx context.Context) error {
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if r.renderErr != nil {
		return r.renderErr
	}
	r.img = types.NewRaster(r.w, r.h)
	c := color.RGBA{A: 255}
	if r.showElements {
		c.R = 200
	}
	if r.showApertures {
		c.G = 100
	}
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			r.img.SetRGBA(x, y, c)
		}
	}
	return nil
}

type factoryLog struct {
	renderers []*fakeRenderer
	renderErr error
	block     bool
}

func (f *factoryLog) factory(_ types.Model, w, h int) (types.Renderer, error) {
	r := &fakeRenderer{w: w, h: h, renderErr: f.renderErr, block: f.block}
	f.renderers = append(f.renderers, r)
	return r, nil
}

func testSettings() Settings {
	return Settings{
		Width:             4,
		Height:            3,
		ApertureColor:     types.RGB{G: 1},
		ApertureThickness: 5,
		GridColor:         types.RGB{B: 1},
		GridThickness:     3,
		AxesZoom:          5,
	}
}

var unitBox = types.BoundingBox{Max: types.Vec3{X: 50, Y: 20, Z: 1}}

func filled(w, h int, c color.RGBA) types.Raster {
	img := types.NewRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBlendExtremes(t *testing.T) {
	a := filled(3, 2, color.RGBA{R: 10, G: 20, B: 30, A: 40})
	b := filled(3, 2, color.RGBA{R: 200, G: 150, B: 100, A: 255})

	got, err := Blend(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, b.Pix, got.Pix)

	got, err = Blend(a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, got.Pix)
}

func TestBlendIsLinearInEveryChannel(t *testing.T) {
	a := filled(2, 2, color.RGBA{R: 0, G: 100, B: 255, A: 0})
	b := filled(2, 2, color.RGBA{R: 255, G: 0, B: 55, A: 255})

	for _, tt := range []float64{0.1, 0.25, 0.5, 0.9} {
		got, err := Blend(a, b, tt)
		require.NoError(t, err)
		for i := range got.Pix {
			want := tt*float64(a.Pix[i]) + (1-tt)*float64(b.Pix[i])
			assert.InDelta(t, want, float64(got.Pix[i]), 0.5, "t=%g channel %d", tt, i%4)
		}
	}
}

func TestBlendDoesNotAlias(t *testing.T) {
	a := filled(1, 1, color.RGBA{A: 255})
	b := filled(1, 1, color.RGBA{R: 1, A: 255})
	got, err := Blend(a, b, 0)
	require.NoError(t, err)
	got.Pix[0] = 99
	assert.Equal(t, uint8(1), b.Pix[0])
}

func TestBlendRejectsMismatchedRasters(t *testing.T) {
	_, err := Blend(types.NewRaster(2, 2), types.NewRaster(3, 2), 0.5)
	assert.ErrorIs(t, err, types.ErrRasterMismatch)
}

func TestRenderSamplePasses(t *testing.T) {
	log := &factoryLog{}
	c := New(log.factory, testSettings())

	img, err := c.Render(context.Background(), fakeModel{}, SamplePasses(unitBox), OpticalOpacity)
	require.NoError(t, err)
	require.Len(t, log.renderers, 2, "each pass needs a fresh renderer")

	front, back := log.renderers[0], log.renderers[1]
	assert.False(t, front.showElements)
	assert.True(t, front.showApertures)
	assert.True(t, back.showElements)
	assert.True(t, back.showApertures)
	assert.Equal(t, unitBox, front.zoomBox)

	// Extent 50 * 1.01 -> step 1, 100 divisions.
	assert.InDelta(t, 1.0, back.grid.Step, 1e-12)
	assert.Equal(t, 100, back.grid.Divisions)
	assert.Equal(t, types.RGB{B: 1}, back.grid.Color)

	// t = 0.25: R = 0.75*200, G = 100.
	r, g, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(150), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(255), a>>8)
}

func TestRenderOpaqueReturnsBackPass(t *testing.T) {
	log := &factoryLog{}
	c := New(log.factory, testSettings())

	img, err := c.Render(context.Background(), fakeModel{}, SamplePasses(unitBox), Opacity(false))
	require.NoError(t, err)
	assert.Equal(t, log.renderers[1].img.Pix, img.Pix)
}

func TestRenderPortPassesUsePortFrame(t *testing.T) {
	log := &factoryLog{}
	c := New(log.factory, testSettings())
	port := worldFrame{}

	_, err := c.Render(context.Background(), fakeModel{}, PortPasses(port, unitBox, unitBox), PortOpacity)
	require.NoError(t, err)
	front, back := log.renderers[0], log.renderers[1]
	assert.False(t, front.showElements || front.showApertures)
	assert.True(t, back.showElements)
	assert.False(t, back.showApertures)
	assert.Equal(t, port, back.gridFrame)
}

func TestRenderPortPassesSizeGridFromElementBox(t *testing.T) {
	log := &factoryLog{}
	c := New(log.factory, testSettings())
	port := worldFrame{}
	expanded := unitBox.ExpandByPoint(types.Vec3{X: 5000})

	_, err := c.Render(context.Background(), fakeModel{}, PortPasses(port, expanded, unitBox), PortOpacity)
	require.NoError(t, err)

	step, divs, err := grid.ForBox(port, unitBox, 0)
	require.NoError(t, err)
	for _, r := range log.renderers {
		assert.Equal(t, expanded, r.zoomBox)
		assert.Equal(t, step, r.grid.Step)
		assert.Equal(t, divs, r.grid.Divisions)
	}
}

func TestRenderFailure(t *testing.T) {
	log := &factoryLog{renderErr: errors.New("gpu on fire")}
	c := New(log.factory, testSettings())

	_, err := c.Render(context.Background(), fakeModel{}, SamplePasses(unitBox), 1)
	assert.ErrorIs(t, err, types.ErrRenderFailure)
}

func TestRenderTimeout(t *testing.T) {
	log := &factoryLog{block: true}
	s := testSettings()
	s.Timeout = 10 * time.Millisecond
	c := New(log.factory, s)

	_, err := c.Render(context.Background(), fakeModel{}, SamplePasses(unitBox), 1)
	assert.ErrorIs(t, err, types.ErrRenderFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRenderDegenerateBox(t *testing.T) {
	log := &factoryLog{}
	c := New(log.factory, testSettings())

	_, err := c.Render(context.Background(), fakeModel{}, SamplePasses(types.BoundingBox{}), 1)
	assert.ErrorIs(t, err, types.ErrDegenerateExtent)
	assert.Empty(t, log.renderers)
}

func TestRenderPassCount(t *testing.T) {
	c := New((&factoryLog{}).factory, testSettings())
	_, err := c.Render(context.Background(), fakeModel{}, nil, 1)
	assert.Error(t, err)
}
