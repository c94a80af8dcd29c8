// Package optics is a compact optical-element library: element-type
// definitions with inheritance, a declaration language for building models,
// reference frames, ports and optical paths. It provides the registry,
// factory and model capabilities the documentation generator consumes.
package optics

import (
	"fmt"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// WorldFrameName names the world frame of compiled models.
const WorldFrameName = "world"

// Source supplies element-type definitions.
type Source interface {
	// TypeNames lists every type in registration order.
	TypeNames() ([]string, error)

	// Lineage returns a type followed by its ancestors, most-derived first.
	// Returns types.ErrUnknownElementType for unregistered names.
	Lineage(typeName string) ([]TypeDef, error)
}

// Library resolves every type of a Source once, at construction, and serves
// registry lookups and model compilation from memory. A type whose lineage
// cannot be resolved stays registered; looking it up fails.
type Library struct {
	names    []string
	lineages map[string][]TypeDef
	chains   map[string]types.MetadataChain
	broken   map[string]error
}

var _ types.Library = (*Library)(nil)

// NewLibrary loads and resolves all definitions of src. Only a failure to
// list the types is an error.
func NewLibrary(src Source) (*Library, error) {
	names, err := src.TypeNames()
	if err != nil {
		return nil, fmt.Errorf("list element types: %w", err)
	}
	l := &Library{
		names:    names,
		lineages: make(map[string][]TypeDef, len(names)),
		chains:   make(map[string]types.MetadataChain, len(names)),
		broken:   make(map[string]error),
	}
	for _, name := range names {
		lineage, err := src.Lineage(name)
		if err != nil {
			l.broken[name] = err
			continue
		}
		l.lineages[name] = lineage
		l.chains[name] = metadataChain(lineage)
	}
	return l, nil
}

// metadataChain projects a lineage onto documentation records.
func metadataChain(lineage []TypeDef) types.MetadataChain {
	chain := make(types.MetadataChain, len(lineage))
	for i, def := range lineage {
		props := make(map[string]types.PropertyDescriptor, len(def.Properties))
		for _, p := range def.Properties {
			props[p.Name] = types.PropertyDescriptor{Name: p.Name, Kind: p.Kind, Description: p.Description}
		}
		chain[i] = types.ElementMetadata{
			Name:        def.Name,
			Description: def.Description,
			Properties:  props,
			Sorted:      append([]string(nil), def.Order...),
		}
	}
	return chain
}

// ElementTypes implements types.Registry.
func (l *Library) ElementTypes() []string {
	return append([]string(nil), l.names...)
}

// Unresolved returns the lineage error of every registered type that could
// not be resolved.
func (l *Library) Unresolved() map[string]error {
	out := make(map[string]error, len(l.broken))
	for name, err := range l.broken {
		out[name] = err
	}
	return out
}

// LookupFactory implements types.Registry. Registered types with an
// unresolvable lineage fail with types.ErrUnknownElementType wrapping the
// cause.
func (l *Library) LookupFactory(typeName string) (types.Factory, error) {
	if err, ok := l.broken[typeName]; ok {
		return nil, fmt.Errorf("%w: resolve %s: %w", types.ErrUnknownElementType, typeName, err)
	}
	lineage, ok := l.lineages[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownElementType, typeName)
	}
	return &factory{lineage: lineage, chain: l.chains[typeName]}, nil
}

// Compile implements types.Compiler.
func (l *Library) Compile(code string) (types.Model, error) {
	decls, err := ParseDeclarations(code)
	if err != nil {
		return nil, err
	}
	m := &Model{
		world:  NewWorldFrame(WorldFrameName),
		byName: make(map[string]*Element, len(decls)),
	}
	for _, d := range decls {
		lineage, ok := l.lineages[d.Type]
		if !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownElementType, d.Type)
		}
		if _, dup := m.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate element name %q", types.ErrInvalidDeclaration, d.Name)
		}
		e, err := newElement(d.Name, lineage, m.world, d.Params, true)
		if err != nil {
			return nil, err
		}
		m.elements = append(m.elements, e)
		m.byName[d.Name] = e
	}
	return m, nil
}

type factory struct {
	lineage []TypeDef
	chain   types.MetadataChain
}

func (f *factory) Metadata() types.MetadataChain { return f.chain }

func (f *factory) Make(name string, frame types.Frame) (types.Element, error) {
	e, err := newElement(name, f.lineage, asFrame(frame), nil, false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// asFrame adapts a foreign frame by sampling its origin and axes.
func asFrame(f types.Frame) *Frame {
	if f == nil {
		return NewWorldFrame(WorldFrameName)
	}
	if of, ok := f.(*Frame); ok {
		return of
	}
	o := f.Center()
	return &Frame{
		name:   f.Name(),
		origin: o,
		axes: [3]types.Vec3{
			f.FromRelative(types.Vec3{X: 1}).Sub(o),
			f.FromRelative(types.Vec3{Y: 1}).Sub(o),
			f.FromRelative(types.Vec3{Z: 1}).Sub(o),
		},
	}
}

// Model is a compiled set of elements sharing one world frame.
type Model struct {
	world    *Frame
	elements []*Element
	byName   map[string]*Element
}

var _ types.Model = (*Model)(nil)

// LookupElement implements types.Model.
func (m *Model) LookupElement(name string) (types.Element, bool) {
	e, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return e, true
}

// World implements types.Model.
func (m *Model) World() types.Frame { return m.world }

// Elements returns the model's elements in declaration order.
func (m *Model) Elements() []*Element {
	return append([]*Element(nil), m.elements...)
}

// DefSource serves definitions from memory, in slice order.
type DefSource []TypeDef

// TypeNames implements Source.
func (s DefSource) TypeNames() ([]string, error) {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name
	}
	return names, nil
}

// Lineage implements Source.
func (s DefSource) Lineage(typeName string) ([]TypeDef, error) {
	byName := make(map[string]TypeDef, len(s))
	for _, d := range s {
		byName[d.Name] = d
	}
	var lineage []TypeDef
	seen := make(map[string]bool)
	for name := typeName; name != ""; {
		d, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownElementType, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("inheritance cycle at %q", name)
		}
		seen[name] = true
		lineage = append(lineage, d)
		name = d.Parent
	}
	return lineage, nil
}
