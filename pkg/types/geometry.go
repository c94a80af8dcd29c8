package types

import "math"

// Vec3 is a point or direction in three-dimensional space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the scalar product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// BoundingBox is an axis-aligned box given by its minimum and maximum
// corners. The zero value is the degenerate box at the origin.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// NewBoundingBox returns the box spanned by two arbitrary corners, ordering
// the components so that Min <= Max.
func NewBoundingBox(p1, p2 Vec3) BoundingBox {
	return BoundingBox{
		Min: Vec3{math.Min(p1.X, p2.X), math.Min(p1.Y, p2.Y), math.Min(p1.Z, p2.Z)},
		Max: Vec3{math.Max(p1.X, p2.X), math.Max(p1.Y, p2.Y), math.Max(p1.Z, p2.Z)},
	}
}

// ExpandByPoint returns the smallest box containing b and p. The receiver is
// not modified.
func (b BoundingBox) ExpandByPoint(p Vec3) BoundingBox {
	return BoundingBox{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns Max - Min.
func (b BoundingBox) Size() Vec3 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := range c {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		c[i] = p
	}
	return c
}

// Frame is a named reference frame: an origin and an orientation relative to
// the world.
type Frame interface {
	// Name identifies the frame within its model.
	Name() string

	// Center returns the frame origin in world coordinates.
	Center() Vec3

	// ToRelativeVec expresses a world-space direction in this frame's axes.
	ToRelativeVec(v Vec3) Vec3

	// FromRelative maps a point given in this frame to world coordinates.
	FromRelative(p Vec3) Vec3
}
