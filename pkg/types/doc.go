// Package types defines the boundary between the documentation generator and
// the optical-element library it documents: geometry, element metadata,
// property values, models, renderers, the generator Config, and the standard
// error values shared by every package.
package types
