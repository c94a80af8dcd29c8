// Package sqlite implements the element-type catalog on an in-memory SQLite
// database. The built-in catalog is seeded on attach, an optional JSONL
// extension is layered on top, and ancestor chains are resolved with a
// recursive query.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// Catalog stores element-type definitions and implements optics.Source.
type Catalog struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

var _ optics.Source = (*Catalog)(nil)

// NewCatalog creates a catalog. It is not attached; call Attach first.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Attach opens the database, seeds the built-in catalog and loads the JSONL
// extension named by config.Catalog, if any.
// Returns ErrAlreadyAttached if already attached.
func (c *Catalog) Attach(config types.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return types.ErrAlreadyAttached
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	if err := seedBuiltInTypes(db); err != nil {
		db.Close()
		return err
	}
	if config.Catalog != "" {
		if _, err := loadCatalogJSONL(db, config.Catalog); err != nil {
			db.Close()
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	c.db = db
	c.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (c *Catalog) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.attached {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.attached = false
	return err
}

// TypeNames implements optics.Source.
func (c *Catalog) TypeNames() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return nil, types.ErrCatalogDetached
	}

	rows, err := c.db.Query("SELECT name FROM element_types ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing element types: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning element type: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Lineage implements optics.Source.
func (c *Catalog) Lineage(typeName string) ([]optics.TypeDef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return nil, types.ErrCatalogDetached
	}

	rows, err := c.db.Query(lineageSQL, typeName, maxLineageDepth)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", typeName, err)
	}
	defer rows.Close()

	var lineage []optics.TypeDef
	var parent sql.NullString
	for rows.Next() {
		var name, definition string
		var depth int
		if err := rows.Scan(&name, &parent, &definition, &depth); err != nil {
			return nil, fmt.Errorf("scanning lineage of %s: %w", typeName, err)
		}
		var def optics.TypeDef
		if err := json.Unmarshal([]byte(definition), &def); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		lineage = append(lineage, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(lineage) == 0:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownElementType, typeName)
	case len(lineage) > maxLineageDepth:
		return nil, fmt.Errorf("%s: %w", typeName, errInheritanceCycle)
	case parent.Valid && parent.String != "":
		return nil, fmt.Errorf("%w: %q (parent of %s)", types.ErrUnknownElementType, parent.String, lineage[len(lineage)-1].Name)
	}
	return lineage, nil
}

// Export writes every definition to path as JSONL, in registration order.
// The file can be edited and fed back as a catalog extension.
func (c *Catalog) Export(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.attached {
		return types.ErrCatalogDetached
	}

	rows, err := c.db.Query("SELECT definition FROM element_types ORDER BY seq")
	if err != nil {
		return fmt.Errorf("querying definitions: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var definition string
		if err := rows.Scan(&definition); err != nil {
			return fmt.Errorf("scanning definition: %w", err)
		}
		records = append(records, json.RawMessage(definition))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	return writeJSONL(path, records)
}

var errInheritanceCycle = errors.New("inheritance cycle")
