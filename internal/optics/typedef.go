package optics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// TypeDef declares an element type. Definitions form a tree through Parent;
// an element inherits every property of its ancestors, and the nearest
// definition that declares a geometry, ports or surfaces supplies them.
type TypeDef struct {
	Name        string        `json:"name"`
	Parent      string        `json:"parent,omitempty"`
	Description string        `json:"description"`
	Properties  []PropertyDef `json:"properties,omitempty"`

	// Order optionally lists property names in display order.
	Order []string `json:"order,omitempty"`

	// Required names properties a declaration must set explicitly.
	Required []string `json:"required,omitempty"`

	Ports    []PortDef    `json:"ports,omitempty"`
	Geometry *GeometryDef `json:"geometry,omitempty"`
	Surfaces []SurfaceDef `json:"surfaces,omitempty"`
}

// PropertyDef declares one property. Default is a JSON scalar or nil for an
// unset property.
type PropertyDef struct {
	Name        string          `json:"name"`
	Kind        types.ValueKind `json:"kind"`
	Default     any             `json:"default"`
	Description string          `json:"description"`
}

// PortDef places a named port frame relative to the element frame.
type PortDef struct {
	Name     string     `json:"name"`
	Origin   [3]Expr    `json:"origin"`
	Rotation [3]float64 `json:"rotation,omitempty"`
}

// Geometry shapes.
const (
	ShapeBox      = "box"
	ShapeCylinder = "cylinder"
)

// GeometryDef sizes the element solid. Boxes use Width (x), Height (y) and
// Length (z); cylinders use Radius and Length. Solids are centred on the z
// axis and extend from z = 0 to z = Length.
type GeometryDef struct {
	Shape  string `json:"shape"`
	Width  Expr   `json:"width,omitempty"`
	Height Expr   `json:"height,omitempty"`
	Radius Expr   `json:"radius,omitempty"`
	Length Expr   `json:"length,omitempty"`

	// Flip turns the element around to face the camera when it evaluates
	// to a non-zero value.
	Flip Expr `json:"flip,omitempty"`
}

// SurfaceDef declares one surface of the optical path, at height Z on the
// element axis with a circular aperture of the given radius.
type SurfaceDef struct {
	Name      string `json:"name"`
	Shape     string `json:"shape"`
	Processor string `json:"processor"`
	Z         Expr   `json:"z,omitempty"`
	Radius    Expr   `json:"radius,omitempty"`
}

// Expr is a number literal or the name of a numeric property.
type Expr string

// Eval resolves the expression against property values. The empty
// expression evaluates to 0.
func (e Expr) Eval(props map[string]types.Value) (float64, error) {
	s := strings.TrimSpace(string(e))
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	neg := strings.HasPrefix(s, "-")
	name := strings.TrimPrefix(s, "-")
	v, ok := props[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", types.ErrUnknownProperty, name)
	}
	f, ok := types.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("property %q of kind %s is not numeric", name, v.Kind())
	}
	if neg {
		f = -f
	}
	return f, nil
}

// Validate checks a definition in isolation.
func (d TypeDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("type definition without a name")
	}
	seen := make(map[string]bool, len(d.Properties))
	for _, p := range d.Properties {
		if p.Name == "" {
			return fmt.Errorf("type %s: property without a name", d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("type %s: duplicate property %q", d.Name, p.Name)
		}
		seen[p.Name] = true
		if !types.IsValidKind(p.Kind) {
			return fmt.Errorf("type %s: property %q has unknown kind %q", d.Name, p.Name, p.Kind)
		}
	}
	if d.Geometry != nil && d.Geometry.Shape != ShapeBox && d.Geometry.Shape != ShapeCylinder {
		return fmt.Errorf("type %s: unknown shape %q", d.Name, d.Geometry.Shape)
	}
	return nil
}
