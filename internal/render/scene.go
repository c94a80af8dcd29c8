package render

import (
	"math"
	"sort"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// face is one planar polygon of a solid, in world space.
type face struct {
	points []types.Vec3
	shade  float64
	depth  float64
}

var lightDir = types.Vec3{X: 0.3, Y: 0.5, Z: 1}.Scale(1 / math.Sqrt(0.34+1))

// solidFaces returns the viewer-facing faces of a solid, far to near.
func solidFaces(s optics.Solid) []face {
	outline := s.Outline()
	var polys [][]types.Vec3
	switch s.Shape {
	case optics.ShapeCylinder:
		// Outline alternates bottom and top rim vertices.
		n := len(outline) / 2
		bottom := make([]types.Vec3, n)
		top := make([]types.Vec3, n)
		for i := 0; i < n; i++ {
			bottom[i], top[i] = outline[2*i], outline[2*i+1]
		}
		polys = append(polys, bottom, top)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			polys = append(polys, []types.Vec3{bottom[i], bottom[j], top[j], top[i]})
		}
	default:
		// Corner bits: 1 = x max, 2 = y max, 4 = z max.
		for _, q := range [6][4]int{
			{0, 2, 6, 4}, {1, 3, 7, 5}, // x faces
			{0, 1, 5, 4}, {2, 3, 7, 6}, // y faces
			{0, 1, 3, 2}, {4, 5, 7, 6}, // z faces
		} {
			polys = append(polys, []types.Vec3{outline[q[0]], outline[q[1]], outline[q[2]], outline[q[3]]})
		}
	}

	center := centroid(outline)
	var faces []face
	for _, poly := range polys {
		fc := centroid(poly)
		n := fc.Sub(center)
		if l := n.Norm(); l > 0 {
			n = n.Scale(1 / l)
		}
		if n.Dot(camToward) < -1e-9 {
			continue
		}
		faces = append(faces, face{
			points: poly,
			shade:  0.45 + 0.5*math.Abs(n.Dot(lightDir)),
			depth:  depth(fc),
		})
	}
	return faces
}

// sortFaces orders faces for the painter's algorithm.
func sortFaces(faces []face) {
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth < faces[j].depth })
}

func centroid(points []types.Vec3) types.Vec3 {
	var c types.Vec3
	for _, p := range points {
		c = c.Add(p)
	}
	if len(points) == 0 {
		return c
	}
	return c.Scale(1 / float64(len(points)))
}
