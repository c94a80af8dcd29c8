package scene

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
)

// Env carries what parameter policies may draw on.
type Env struct {
	// Rand is the source for sampled parameters. It is seeded when the run
	// asks for reproducible output.
	Rand *rand.Rand

	// STLExample is the mesh file used for mesh-importing elements.
	STLExample string
}

// ParamFunc returns the non-default declaration parameters a type needs to
// render meaningfully.
type ParamFunc func(env Env) []optics.Param

// Policies maps element type names to parameter functions. It is safe for
// concurrent use.
type Policies struct {
	mu    sync.RWMutex
	funcs map[string]ParamFunc
}

// NewPolicies returns an empty table.
func NewPolicies() *Policies {
	return &Policies{funcs: make(map[string]ParamFunc)}
}

// DefaultPolicies returns the table for the built-in catalog: detectors are
// flipped to face the camera, meshes load the example file and phase screens
// get normally distributed Zernike coefficients.
func DefaultPolicies() *Policies {
	p := NewPolicies()
	p.Register("Detector", func(Env) []optics.Param {
		return []optics.Param{{Name: "flip", Value: true}}
	})
	p.Register("StlMesh", func(env Env) []optics.Param {
		return []optics.Param{{Name: "file", Value: env.STLExample}}
	})
	p.Register("PhaseScreen", zernikeParams(28))
	return p
}

// Register sets the parameter function for a type, replacing any previous
// one.
func (p *Policies) Register(typeName string, fn ParamFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.funcs[typeName] = fn
}

// Params returns the parameters for a type; types without a policy use
// their defaults.
func (p *Policies) Params(typeName string, env Env) []optics.Param {
	p.mu.RLock()
	fn, ok := p.funcs[typeName]
	p.mu.RUnlock()
	if !ok {
		return nil
	}
	return fn(env)
}

// zernikeParams samples coefficients Z0..Z(n-1) from a standard normal
// distribution.
func zernikeParams(n int) ParamFunc {
	return func(env Env) []optics.Param {
		params := make([]optics.Param, n)
		for i := range params {
			params[i] = optics.Param{Name: fmt.Sprintf("Z%d", i), Value: env.Rand.NormFloat64()}
		}
		return params
	}
}
