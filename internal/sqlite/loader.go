// This file loads catalog extensions from JSONL.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/elemdoc/internal/optics"
	"github.com/mesh-intelligence/elemdoc/pkg/types"
)

// loadCatalogJSONL reads one type definition per line from path and upserts
// each into element_types. A definition whose name is already registered
// replaces it in place; new names are appended. Loading is transactional:
// either every line is applied or none is.
func loadCatalogJSONL(db *sql.DB, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var def optics.TypeDef
		if err := json.Unmarshal(rec.data, &def); err != nil {
			return 0, fmt.Errorf("%w: %s:%d: %w", types.ErrInvalidConfig, path, rec.line, err)
		}
		if err := def.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %s:%d: %w", types.ErrInvalidConfig, path, rec.line, err)
		}
		if err := upsertTypeDef(stmt, def); err != nil {
			return 0, fmt.Errorf("%s:%d: %w", path, rec.line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return len(records), nil
}

// upsertTypeDef stores def as compact JSON under its name.
func upsertTypeDef(stmt *sql.Stmt, def optics.TypeDef) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", def.Name, err)
	}
	var parent any
	if def.Parent != "" {
		parent = def.Parent
	}
	if _, err := stmt.Exec(def.Name, parent, string(data)); err != nil {
		return fmt.Errorf("storing %s: %w", def.Name, err)
	}
	return nil
}
