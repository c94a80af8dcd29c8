package types

import "errors"

// Generator errors. Callers match them with errors.Is.
var (
	ErrUnknownElementType = errors.New("unknown element type")
	ErrDegenerateExtent   = errors.New("degenerate extent")
	ErrRenderFailure      = errors.New("render failure")
	ErrRasterMismatch     = errors.New("raster dimensions differ")
	ErrUnknownPort        = errors.New("unknown port")
	ErrUnknownProperty    = errors.New("unknown property")
	ErrInvalidDeclaration = errors.New("invalid element declaration")
	ErrCatalogDetached    = errors.New("catalog is detached")
	ErrAlreadyAttached    = errors.New("catalog is already attached")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrExcludedType       = errors.New("element type is excluded from documentation")
)
