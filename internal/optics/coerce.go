package optics

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Coerce converts a raw scalar (int64, float64, bool, string or nil) to a
// value of the declared kind. Numbers convert between integer and real
// (reals truncate towards zero), and booleans accept numbers as non-zero
// tests. nil always yields Undefined.
func Coerce(kind types.ValueKind, raw any) (types.Value, error) {
	if raw == nil {
		return types.Undefined{}, nil
	}
	switch kind {
	case types.KindInteger:
		switch x := raw.(type) {
		case int64:
			return types.Integer(x), nil
		case int:
			return types.Integer(x), nil
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				break
			}
			return types.Integer(int64(x)), nil
		case bool:
			if x {
				return types.Integer(1), nil
			}
			return types.Integer(0), nil
		}
	case types.KindReal:
		switch x := raw.(type) {
		case int64:
			return types.Real(x), nil
		case int:
			return types.Real(x), nil
		case float64:
			return types.Real(x), nil
		}
	case types.KindBoolean:
		switch x := raw.(type) {
		case bool:
			return types.Boolean(x), nil
		case int64:
			return types.Boolean(x != 0), nil
		case int:
			return types.Boolean(x != 0), nil
		case float64:
			return types.Boolean(x != 0), nil
		}
	case types.KindString:
		if s, ok := raw.(string); ok {
			return types.String(s), nil
		}
	case types.KindUndefined:
		return natural(raw)
	}
	return nil, fmt.Errorf("%w: cannot use %v (%T) as %s", types.ErrInvalidDeclaration, raw, raw, kind)
}

// natural maps a raw scalar to the value kind it most naturally denotes.
func natural(raw any) (types.Value, error) {
	switch x := raw.(type) {
	case int64:
		return types.Integer(x), nil
	case int:
		return types.Integer(x), nil
	case float64:
		return types.Real(x), nil
	case bool:
		return types.Boolean(x), nil
	case string:
		return types.String(x), nil
	}
	return nil, fmt.Errorf("%w: unsupported value %v (%T)", types.ErrInvalidDeclaration, raw, raw)
}
