package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

func TestBestGrid(t *testing.T) {
	tests := []struct {
		extent   float64
		wantStep float64
		wantDivs int
	}{
		{50, 1, 100},
		{100, 10, 10},
		{0.025, 0.001, 100},
		{3, 0.1, 100},
		{1000, 100, 10},
		{12, 1, 100},
	}
	for _, tt := range tests {
		step, divs, err := BestGrid(tt.extent, 0)
		require.NoError(t, err)
		assert.InDelta(t, tt.wantStep, step, tt.wantStep*1e-9, "extent %g", tt.extent)
		assert.Equal(t, tt.wantDivs, divs, "extent %g", tt.extent)
	}
}

func TestBestGridMajorDivisionRange(t *testing.T) {
	for _, e := range []float64{1e-3, 0.0137, 0.42, 1, 7.5, 19.9, 250, 4321, 9.99e5} {
		step, divs, err := BestGrid(e, 0)
		require.NoError(t, err)

		major := e / (10 * step)
		assert.GreaterOrEqual(t, major, 1-1e-9, "extent %g", e)
		assert.Less(t, major, 10.0, "extent %g", e)

		// Division count is ceil(e/step) rounded up to a power of ten.
		assert.GreaterOrEqual(t, float64(divs)*step, e*(1-1e-9), "extent %g", e)
		p := math.Log10(float64(divs))
		assert.InDelta(t, math.Round(p), p, 1e-12, "divisions %d not a power of ten", divs)
		assert.Less(t, float64(divs)/10, math.Ceil(e/step)+1e-9, "extent %g", e)
	}
}

func TestBestGridMargin(t *testing.T) {
	step, divs, err := BestGrid(99, 0.02)
	require.NoError(t, err)
	assert.InDelta(t, 10, step, 1e-9)
	assert.Equal(t, 100, divs)
}

func TestBestGridDegenerate(t *testing.T) {
	for _, e := range []float64{0, -1, MinExtent / 2, math.NaN(), math.Inf(1)} {
		_, _, err := BestGrid(e, 0)
		assert.ErrorIs(t, err, types.ErrDegenerateExtent, "extent %g", e)
	}
}

type swapFrame struct{}

func (swapFrame) Name() string                         { return "swap" }
func (swapFrame) Center() types.Vec3                   { return types.Vec3{} }
func (swapFrame) FromRelative(p types.Vec3) types.Vec3 { return p }
func (swapFrame) ToRelativeVec(v types.Vec3) types.Vec3 {
	return types.Vec3{X: v.Z, Y: v.Y, Z: v.X}
}

func TestExtent(t *testing.T) {
	box := types.BoundingBox{Max: types.Vec3{X: 4, Y: 2, Z: 30}}

	assert.Equal(t, 4.0, Extent(nil, box))
	assert.Equal(t, 30.0, Extent(swapFrame{}, box))

	_, _, err := ForBox(nil, types.BoundingBox{}, 0)
	assert.ErrorIs(t, err, types.ErrDegenerateExtent)
}
