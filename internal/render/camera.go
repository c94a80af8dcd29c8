package render

import (
	"math"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// fillRatio is the share of the smaller image dimension a zoomed box spans.
const fillRatio = 0.9

// Isometric camera basis. toward points from the scene to the viewer.
var (
	camRight  = types.Vec3{X: -1, Y: 1}.Scale(1 / math.Sqrt2)
	camUp     = types.Vec3{X: -1, Y: -1, Z: 2}.Scale(1 / math.Sqrt(6))
	camToward = types.Vec3{X: 1, Y: 1, Z: 1}.Scale(1 / math.Sqrt(3))
)

// camera is an orthographic projection from world space to pixels.
type camera struct {
	width, height int
	center        types.Vec3 // world point mapped to the image center
	scale         float64    // pixels per world unit
}

func newCamera(width, height int) camera {
	return camera{width: width, height: height, scale: 1}
}

// project maps a world point to pixel coordinates, y down.
func (c camera) project(p types.Vec3) (x, y float64) {
	d := p.Sub(c.center)
	x = float64(c.width)/2 + c.scale*d.Dot(camRight)
	y = float64(c.height)/2 - c.scale*d.Dot(camUp)
	return x, y
}

// depth grows towards the viewer.
func depth(p types.Vec3) float64 { return p.Dot(camToward) }

// fit centres and scales the camera on world points.
func (c *camera) fit(points []types.Vec3) {
	if len(points) == 0 {
		return
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		x, y := p.Dot(camRight), p.Dot(camUp)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	// Recover the world point whose projection is the 2D centre; the
	// component along the view direction does not matter.
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	c.center = camRight.Scale(cx).Add(camUp.Scale(cy))

	w, h := maxX-minX, maxY-minY
	sx, sy := math.Inf(1), math.Inf(1)
	if w > 0 {
		sx = float64(c.width) * fillRatio / w
	}
	if h > 0 {
		sy = float64(c.height) * fillRatio / h
	}
	s := math.Min(sx, sy)
	if math.IsInf(s, 1) {
		s = 1
	}
	c.scale = s
}
