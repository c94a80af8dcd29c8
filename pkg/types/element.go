package types

import "context"

// Element is an instantiated element inside a model.
type Element interface {
	// Name is the instance name given in the declaration.
	Name() string

	// TypeName is the factory name the element was built from.
	TypeName() string

	// BoundingBox returns the element bounds in world coordinates.
	BoundingBox() BoundingBox

	// Ports lists the element's port names in declaration order.
	Ports() []string

	// PortFrame returns the reference frame of a port.
	// Returns ErrUnknownPort if the element has no such port.
	PortFrame(port string) (Frame, error)

	// Property reads the live value of a property. Properties that exist
	// but were never set, and unknown names, yield Undefined.
	Property(name string) Value

	// IsOptical reports whether the element carries an optical path.
	IsOptical() bool

	// OpticalPath returns the ordered surfaces light traverses. It is only
	// meaningful when IsOptical is true.
	OpticalPath() OpticalPath
}

// Surface describes one surface of an optical path.
type Surface struct {
	Name      string
	Shape     string // shape kind, e.g. "CircularFlat"
	Processor string // processing behaviour kind, e.g. "FlatMirror"
}

// OpticalPath is an ordered list of surfaces.
type OpticalPath interface {
	// Surfaces lists the surface names in path order.
	Surfaces() []string

	// Surface looks up a surface by name.
	Surface(name string) (Surface, bool)
}

// Model is a constructed scene of elements.
type Model interface {
	// LookupElement finds an element instance by name.
	LookupElement(name string) (Element, bool)

	// World returns the model's world frame.
	World() Frame
}

// Compiler builds models from element-declaration snippets of the form
// `Type name(param = value, ...);`.
type Compiler interface {
	Compile(code string) (Model, error)
}

// Factory builds standalone elements of one type and exposes the type's
// resolved metadata chain.
type Factory interface {
	// Metadata returns the type's metadata chain, most-derived first.
	Metadata() MetadataChain

	// Make instantiates an element with default parameters in the given frame.
	// A nil frame places it in a fresh world frame.
	Make(name string, frame Frame) (Element, error)
}

// Registry enumerates and resolves element types.
type Registry interface {
	// ElementTypes returns every registered type name in registration order.
	ElementTypes() []string

	// LookupFactory resolves a type name.
	// Returns ErrUnknownElementType if the type is not registered.
	LookupFactory(typeName string) (Factory, error)
}

// Library bundles the capabilities the generator consumes from the optical
// library.
type Library interface {
	Registry
	Compiler
}

// RendererFactory builds a renderer for a model at a given pixel size.
type RendererFactory func(model Model, width, height int) (Renderer, error)

// Renderer draws a model. A renderer is configured per pass and then asked to
// render synchronously.
type Renderer interface {
	SetApertureColor(c RGB)
	SetApertureThickness(px float64)
	SetShowElements(show bool)
	SetShowApertures(show bool)

	// ZoomToBox frames the camera on a box given in frame coordinates.
	ZoomToBox(frame Frame, box BoundingBox)

	// AddGrid overlays a grid on the XY plane of frame.
	AddGrid(frame Frame, grid GridSpec)

	// SetAxesZoom scales the frame-axis glyphs drawn with each grid.
	SetAxesZoom(zoom float64)

	// Render draws the scene. It returns early with ctx.Err() if the
	// context is cancelled.
	Render(ctx context.Context) error

	// Image returns a fresh copy of the last rendered raster.
	Image() Raster
}
