package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// WriteError reports a failed file write. Write failures end the run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// Writer writes artifacts under a root directory and records each one in a
// manifest.
type Writer struct {
	root     string
	manifest *Manifest
}

// NewWriter returns a Writer rooted at root. A nil manifest disables
// recording.
func NewWriter(root string, manifest *Manifest) *Writer {
	return &Writer{root: root, manifest: manifest}
}

// Root returns the output root.
func (w *Writer) Root() string { return w.root }

// Write stores data at rel, relative to the root, and records it under
// element and kind. The file is replaced atomically.
func (w *Writer) Write(element string, kind Kind, rel string, data []byte) error {
	path := filepath.Join(w.root, rel)
	if err := writeAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if w.manifest != nil {
		w.manifest.Record(element, kind, filepath.ToSlash(rel))
	}
	return nil
}

// WritePNG encodes img and writes it like Write.
func (w *Writer) WritePNG(element string, kind Kind, rel string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return w.Write(element, kind, rel, data)
}

// writeAtomic writes through a temp file in the target directory and renames
// it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
