// Package scene builds single-element models for documentation renders.
package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// ElementName is the instance name used in every synthetic model.
const ElementName = "elem"

// Scene is a model holding exactly one instance of an element type.
type Scene struct {
	TypeName string
	Code     string // declaration the model was compiled from
	Model    types.Model
	Element  types.Element
	Chain    types.MetadataChain

	// Box is the element's bounding box in world coordinates.
	Box types.BoundingBox
}

// Builder builds scenes from a library and a parameter policy table.
type Builder struct {
	lib      types.Library
	policies *Policies
	env      Env
}

// Options configures a Builder.
type Options struct {
	// Seed seeds sampled parameters. Zero draws a random seed.
	Seed uint64

	STLExample string
}

// NewBuilder returns a Builder. A nil policies table selects
// DefaultPolicies.
func NewBuilder(lib types.Library, policies *Policies, opts Options) *Builder {
	if policies == nil {
		policies = DefaultPolicies()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Builder{
		lib:      lib,
		policies: policies,
		env: Env{
			Rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
			STLExample: opts.STLExample,
		},
	}
}

// Build compiles a model with one instance of typeName.
// Returns types.ErrUnknownElementType for unregistered types.
func (b *Builder) Build(typeName string) (*Scene, error) {
	f, err := b.lib.LookupFactory(typeName)
	if err != nil {
		return nil, err
	}

	code := optics.FormatDeclaration(optics.Declaration{
		Type:   typeName,
		Name:   ElementName,
		Params: b.policies.Params(typeName, b.env),
	})
	model, err := b.lib.Compile(code)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", code, err)
	}
	elem, ok := model.LookupElement(ElementName)
	if !ok {
		return nil, fmt.Errorf("compiled model has no element %q", ElementName)
	}

	return &Scene{
		TypeName: typeName,
		Code:     code,
		Model:    model,
		Element:  elem,
		Chain:    f.Metadata(),
		Box:      elem.BoundingBox(),
	}, nil
}

// Ports lists the element's ports in declaration order.
func (s *Scene) Ports() []string { return s.Element.Ports() }

// PortFrame returns the local frame of a port.
func (s *Scene) PortFrame(port string) (types.Frame, error) {
	return s.Element.PortFrame(port)
}

// PortBox returns a port's frame and the element box grown to include the
// frame origin, so the camera never clips the port axes.
func (s *Scene) PortBox(port string) (types.Frame, types.BoundingBox, error) {
	f, err := s.Element.PortFrame(port)
	if err != nil {
		return nil, types.BoundingBox{}, err
	}
	return f, s.Box.ExpandByPoint(f.Center()), nil
}
