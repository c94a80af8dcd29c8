// Package sqlite exposes the SQLite element-type catalog as a ready-to-use
// optical library while keeping the catalog internals private.
package sqlite

import (
	"errors"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/internal/sqlite"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// NewLibrary loads the built-in catalog plus the extension named by
// config.Catalog and returns a library resolved from it. The catalog is
// released before returning; the library serves everything from memory.
//
// Example:
//
//	lib, err := sqlite.NewLibrary(types.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, name := range lib.ElementTypes() {
//	    fmt.Println(name)
//	}
func NewLibrary(config types.Config) (types.Library, error) {
	c := sqlite.NewCatalog()
	if err := c.Attach(config); err != nil {
		return nil, err
	}
	lib, err := optics.NewLibrary(c)
	if derr := c.Detach(); err == nil && derr != nil {
		err = derr
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// ExportCatalog writes the effective catalog (built-ins plus extension) to
// path as JSONL.
func ExportCatalog(config types.Config, path string) (err error) {
	c := sqlite.NewCatalog()
	if err := c.Attach(config); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, c.Detach()) }()
	return c.Export(path)
}
