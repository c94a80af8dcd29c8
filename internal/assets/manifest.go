package assets

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ManifestFile is the manifest name inside the output root.
const ManifestFile = "manifest.jsonl"

// Kind classifies an artifact.
type Kind string

// Artifact kinds.
const (
	KindElementImage Kind = "element_image"
	KindElementThumb Kind = "element_thumbnail"
	KindPortImage    Kind = "port_image"
	KindPortThumb    Kind = "port_thumbnail"
	KindDocument     Kind = "document"
	KindPreview      Kind = "preview"
	KindIndex        Kind = "index"
)

// Entry is one manifest line.
type Entry struct {
	RunID     string    `json:"run_id"`
	Element   string    `json:"element,omitempty"`
	Kind      Kind      `json:"kind"`
	Path      string    `json:"path"`
	WrittenAt time.Time `json:"written_at"`
}

// Manifest collects the artifacts written during one run.
type Manifest struct {
	mu      sync.Mutex
	runID   string
	entries []Entry
	now     func() time.Time
}

// NewManifest starts a manifest with a fresh UUID v7 run id.
func NewManifest() *Manifest {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Manifest{runID: id.String(), now: time.Now}
}

// RunID returns the run identifier.
func (m *Manifest) RunID() string { return m.runID }

// Record appends an entry.
func (m *Manifest) Record(element string, kind Kind, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		RunID:     m.runID,
		Element:   element,
		Kind:      kind,
		Path:      path,
		WrittenAt: m.now().UTC(),
	})
}

// Entries returns a copy of the recorded entries in write order.
func (m *Manifest) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Save writes the manifest as JSONL to root/ManifestFile, replacing any
// previous one.
func (m *Manifest) Save(root string) error {
	var buf []byte
	for _, e := range m.Entries() {
		line, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal manifest entry: %w", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	path := filepath.Join(root, ManifestFile)
	if err := writeAtomic(path, buf); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
