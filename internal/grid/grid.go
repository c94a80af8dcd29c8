// Package grid picks grid overlay parameters for a framed scene.
//
// The step is the largest power of ten not exceeding a tenth of the extent,
// and the division count is the next power of ten covering the extent. The
// grid therefore always shows between 1 and 10 major divisions (ten steps
// each), whatever the absolute scale of the element.
package grid

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// MinExtent is the smallest extent BestGrid accepts, in model units.
const MinExtent = 1e-9

// logTolerance absorbs rounding in log10 at exact powers of ten.
const logTolerance = 1e-9

// Extent returns the larger of the x and y magnitudes of box's size expressed
// in frame. A nil frame leaves the size in world axes.
func Extent(frame types.Frame, box types.BoundingBox) float64 {
	size := box.Size()
	if frame != nil {
		size = frame.ToRelativeVec(size)
	}
	return math.Max(math.Abs(size.X), math.Abs(size.Y))
}

// BestGrid returns the grid step and division count for extent enlarged by
// (1 + margin). Returns ErrDegenerateExtent when the enlarged extent is below
// MinExtent or not finite.
func BestGrid(extent, margin float64) (step float64, divisions int, err error) {
	e := extent * (1 + margin)
	if math.IsNaN(e) || math.IsInf(e, 0) || e < MinExtent {
		return 0, 0, fmt.Errorf("%w: %g (minimum %g)", types.ErrDegenerateExtent, e, MinExtent)
	}

	step = math.Pow(10, math.Floor(math.Log10(e/10)+logTolerance))
	divisions = int(math.Pow(10, math.Ceil(math.Log10(e/step)-logTolerance)))
	return step, divisions, nil
}

// ForBox combines Extent and BestGrid.
func ForBox(frame types.Frame, box types.BoundingBox, margin float64) (float64, int, error) {
	return BestGrid(Extent(frame, box), margin)
}
