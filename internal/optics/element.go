package optics

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// OpticalMarker is the property whose presence makes an element optical.
const OpticalMarker = "optical"

// apertureSegments is the polygon resolution of round solids and apertures.
const apertureSegments = 48

// Element is an instantiated element.
type Element struct {
	name     string
	typeName string
	frame    *Frame
	props    map[string]types.Value
	optical  bool

	ports    []string
	portDefs map[string]PortDef
	geometry *GeometryDef
	surfaces []SurfaceDef
}

var _ types.Element = (*Element)(nil)

// Solid is an element's rendered volume.
type Solid struct {
	Shape  string
	Frame  *Frame
	Width  float64
	Height float64
	Radius float64
	Length float64
}

// Aperture is a circular opening on an optical surface, lying in the XY
// plane of Frame.
type Aperture struct {
	Surface string
	Frame   *Frame
	Radius  float64
}

// newElement instantiates a type from its lineage (most-derived first) with
// explicit parameter overrides. Declared instances must set every required
// property; factory-made instances keep their defaults.
func newElement(name string, lineage []TypeDef, frame *Frame, params []Param, declared bool) (*Element, error) {
	e := &Element{
		name:     name,
		typeName: lineage[0].Name,
		props:    make(map[string]types.Value),
		portDefs: make(map[string]PortDef),
	}

	kinds := make(map[string]types.ValueKind)
	for i := len(lineage) - 1; i >= 0; i-- {
		for _, p := range lineage[i].Properties {
			v, err := Coerce(p.Kind, p.Default)
			if err != nil {
				return nil, fmt.Errorf("type %s: default of %q: %w", lineage[i].Name, p.Name, err)
			}
			e.props[p.Name] = v
			kinds[p.Name] = p.Kind
			if p.Name == OpticalMarker {
				e.optical = true
			}
		}
	}

	set := make(map[string]bool, len(params))
	for _, prm := range params {
		kind, ok := kinds[prm.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no property %q", types.ErrUnknownProperty, e.typeName, prm.Name)
		}
		v, err := Coerce(kind, prm.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, prm.Name, err)
		}
		e.props[prm.Name] = v
		set[prm.Name] = true
	}
	if declared {
		for _, def := range lineage {
			if err := e.checkRequired(def.Required, set); err != nil {
				return nil, err
			}
		}
	}

	for _, def := range lineage {
		if e.geometry == nil && def.Geometry != nil {
			g := *def.Geometry
			e.geometry = &g
		}
		if e.ports == nil && len(def.Ports) > 0 {
			for _, p := range def.Ports {
				e.ports = append(e.ports, p.Name)
				e.portDefs[p.Name] = p
			}
		}
		if e.surfaces == nil && len(def.Surfaces) > 0 {
			e.surfaces = append([]SurfaceDef(nil), def.Surfaces...)
		}
	}

	if err := e.place(frame); err != nil {
		return nil, err
	}
	return e, nil
}

// place sets the element frame, turning the element around when its
// geometry asks to be flipped.
func (e *Element) place(parent *Frame) error {
	e.frame = parent.Child(e.name, types.Vec3{}, [3]float64{})
	if e.geometry == nil {
		return nil
	}
	flip, err := e.geometry.Flip.Eval(e.props)
	if err != nil {
		return fmt.Errorf("%s: flip: %w", e.name, err)
	}
	if flip != 0 {
		e.frame = parent.Child(e.name, types.Vec3{}, [3]float64{0, 180, 0})
	}
	return nil
}

// checkRequired reports the first required property left unset.
func (e *Element) checkRequired(required []string, set map[string]bool) error {
	for _, r := range required {
		if !set[r] {
			return fmt.Errorf("%w: %s %s requires %q", types.ErrInvalidDeclaration, e.typeName, e.name, r)
		}
	}
	return nil
}

// Name implements types.Element.
func (e *Element) Name() string { return e.name }

// TypeName implements types.Element.
func (e *Element) TypeName() string { return e.typeName }

// Frame returns the element frame.
func (e *Element) Frame() *Frame { return e.frame }

// Property implements types.Element.
func (e *Element) Property(name string) types.Value {
	if v, ok := e.props[name]; ok {
		return v
	}
	return types.Undefined{}
}

// IsOptical implements types.Element.
func (e *Element) IsOptical() bool { return e.optical }

// Ports implements types.Element.
func (e *Element) Ports() []string {
	return append([]string(nil), e.ports...)
}

// PortFrame implements types.Element.
func (e *Element) PortFrame(port string) (types.Frame, error) {
	f, err := e.portFrame(port)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (e *Element) portFrame(port string) (*Frame, error) {
	def, ok := e.portDefs[port]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no port %q", types.ErrUnknownPort, e.name, port)
	}
	var offset [3]float64
	for i, expr := range def.Origin {
		v, err := expr.Eval(e.props)
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", port, err)
		}
		offset[i] = v
	}
	return e.frame.Child(port, types.Vec3{X: offset[0], Y: offset[1], Z: offset[2]}, def.Rotation), nil
}

// Solid resolves the element volume. Elements without geometry report false.
func (e *Element) Solid() (Solid, bool) {
	if e.geometry == nil {
		return Solid{}, false
	}
	s := Solid{Shape: e.geometry.Shape, Frame: e.frame}
	s.Width, _ = e.geometry.Width.Eval(e.props)
	s.Height, _ = e.geometry.Height.Eval(e.props)
	s.Radius, _ = e.geometry.Radius.Eval(e.props)
	s.Length, _ = e.geometry.Length.Eval(e.props)
	return s, true
}

// Apertures resolves the apertures of every optical surface, in path order.
func (e *Element) Apertures() []Aperture {
	var out []Aperture
	for _, s := range e.surfaces {
		z, err := s.Z.Eval(e.props)
		if err != nil {
			continue
		}
		r, err := s.Radius.Eval(e.props)
		if err != nil || r <= 0 {
			continue
		}
		out = append(out, Aperture{
			Surface: s.Name,
			Frame:   e.frame.Child(s.Name, types.Vec3{Z: z}, [3]float64{}),
			Radius:  r,
		})
	}
	return out
}

// BoundingBox implements types.Element. The box covers the solid and every
// aperture; an element without geometry collapses to its origin.
func (e *Element) BoundingBox() types.BoundingBox {
	box := types.BoundingBox{Min: e.frame.Center(), Max: e.frame.Center()}
	if s, ok := e.Solid(); ok {
		for _, p := range s.Outline() {
			box = box.ExpandByPoint(p)
		}
	}
	for _, a := range e.Apertures() {
		for _, p := range a.Outline() {
			box = box.ExpandByPoint(p)
		}
	}
	return box
}

// OpticalPath implements types.Element.
func (e *Element) OpticalPath() types.OpticalPath {
	return opticalPath(e.surfaces)
}

// Outline returns the world-space vertices of the solid: the corners of a
// box, or both rims of a cylinder.
func (s Solid) Outline() []types.Vec3 {
	var local []types.Vec3
	switch s.Shape {
	case ShapeCylinder:
		for i := 0; i < apertureSegments; i++ {
			x, y := circle(s.Radius, i)
			local = append(local, types.Vec3{X: x, Y: y}, types.Vec3{X: x, Y: y, Z: s.Length})
		}
	default:
		box := types.BoundingBox{
			Min: types.Vec3{X: -s.Width / 2, Y: -s.Height / 2},
			Max: types.Vec3{X: s.Width / 2, Y: s.Height / 2, Z: s.Length},
		}
		corners := box.Corners()
		local = corners[:]
	}
	out := make([]types.Vec3, len(local))
	for i, p := range local {
		out[i] = s.Frame.FromRelative(p)
	}
	return out
}

// Outline returns the aperture rim as a closed polygon in world space.
func (a Aperture) Outline() []types.Vec3 {
	out := make([]types.Vec3, apertureSegments)
	for i := range out {
		x, y := circle(a.Radius, i)
		out[i] = a.Frame.FromRelative(types.Vec3{X: x, Y: y})
	}
	return out
}

func circle(r float64, i int) (float64, float64) {
	s, c := math.Sincos(2 * math.Pi * float64(i) / apertureSegments)
	return r * c, r * s
}

// opticalPath is the ordered surface list of an element.
type opticalPath []SurfaceDef

func (p opticalPath) Surfaces() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

func (p opticalPath) Surface(name string) (types.Surface, bool) {
	for _, s := range p {
		if s.Name == name {
			return types.Surface{Name: s.Name, Shape: s.Shape, Processor: s.Processor}, true
		}
	}
	return types.Surface{}, false
}
