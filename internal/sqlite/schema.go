package sqlite

// Schema DDL. seq fixes registration order: seeded types first, then catalog
// extensions in file order. Overrides update a row in place and keep its seq.
const (
	createElementTypes = `CREATE TABLE element_types (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    parent TEXT,
    definition TEXT NOT NULL
);`

	idxElementTypesParent = `CREATE INDEX idx_element_types_parent ON element_types(parent);`
)

// schemaDDL lists all statements run on attach, in order.
var schemaDDL = []string{
	createElementTypes,
	idxElementTypesParent,
}

// maxLineageDepth bounds ancestor resolution so a cyclic catalog terminates.
const maxLineageDepth = 64

// lineageSQL walks from a type to the root through parent links.
const lineageSQL = `WITH RECURSIVE lineage(name, parent, definition, depth) AS (
    SELECT name, parent, definition, 0 FROM element_types WHERE name = ?
    UNION ALL
    SELECT t.name, t.parent, t.definition, l.depth + 1
    FROM element_types t JOIN lineage l ON t.name = l.parent
    WHERE l.depth < ?
)
SELECT name, parent, definition, depth FROM lineage ORDER BY depth`

const upsertSQL = `INSERT INTO element_types (name, parent, definition) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET parent = excluded.parent, definition = excluded.definition`
