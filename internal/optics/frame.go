package optics

import (
	"math"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Frame is a reference frame: an origin and three orthonormal axes, both in
// world coordinates. Frames are immutable.
type Frame struct {
	name   string
	origin types.Vec3
	axes   [3]types.Vec3 // x, y, z axes in world coordinates
}

var _ types.Frame = (*Frame)(nil)

// NewWorldFrame returns an identity frame.
func NewWorldFrame(name string) *Frame {
	return &Frame{
		name: name,
		axes: [3]types.Vec3{{X: 1}, {Y: 1}, {Z: 1}},
	}
}

// Name implements types.Frame.
func (f *Frame) Name() string { return f.name }

// Center implements types.Frame.
func (f *Frame) Center() types.Vec3 { return f.origin }

// Axis returns axis i (0 = x, 1 = y, 2 = z) in world coordinates.
func (f *Frame) Axis(i int) types.Vec3 { return f.axes[i] }

// ToRelativeVec implements types.Frame.
func (f *Frame) ToRelativeVec(v types.Vec3) types.Vec3 {
	return types.Vec3{X: v.Dot(f.axes[0]), Y: v.Dot(f.axes[1]), Z: v.Dot(f.axes[2])}
}

// FromRelativeVec maps a direction given in this frame to world axes.
func (f *Frame) FromRelativeVec(v types.Vec3) types.Vec3 {
	return f.axes[0].Scale(v.X).Add(f.axes[1].Scale(v.Y)).Add(f.axes[2].Scale(v.Z))
}

// FromRelative implements types.Frame.
func (f *Frame) FromRelative(p types.Vec3) types.Vec3 {
	return f.origin.Add(f.FromRelativeVec(p))
}

// Child returns a frame displaced by offset (in this frame's axes) and
// rotated by the Euler angles rot, in degrees, applied about x, then y,
// then z of this frame.
func (f *Frame) Child(name string, offset types.Vec3, rot [3]float64) *Frame {
	local := eulerAxes(rot)
	c := &Frame{name: name, origin: f.FromRelative(offset)}
	for i := range local {
		c.axes[i] = f.FromRelativeVec(local[i])
	}
	return c
}

// eulerAxes returns the columns of Rz * Ry * Rx for angles in degrees.
func eulerAxes(rot [3]float64) [3]types.Vec3 {
	ax, ay, az := rad(rot[0]), rad(rot[1]), rad(rot[2])
	sx, cx := math.Sincos(ax)
	sy, cy := math.Sincos(ay)
	sz, cz := math.Sincos(az)

	// Rows of R = Rz*Ry*Rx.
	r := [3][3]float64{
		{cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx},
		{sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx},
		{-sy, cy * sx, cy * cx},
	}
	var axes [3]types.Vec3
	for i := 0; i < 3; i++ {
		axes[i] = types.Vec3{X: r[0][i], Y: r[1][i], Z: r[2][i]}
	}
	return axes
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
