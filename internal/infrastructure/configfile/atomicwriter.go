package configfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriter publishes configuration files so that readers only ever
// see a complete old version or a complete new version, never a partial
// write. Content is staged in a temp file in the target directory and
// moved into place with rename.
type AtomicWriter struct{}

func NewAtomicWriter() *AtomicWriter {
	return &AtomicWriter{}
}

// Write publishes content to path atomically. path must be absolute.
// On any failure the target file is left untouched and the staged temp
// file is removed.
func (w *AtomicWriter) Write(path string, content []byte) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("config file path must be absolute, got %q", path)
	}

	dir := filepath.Dir(path)
	// Staging in the same directory keeps the rename on one filesystem,
	// which is what makes it atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file %s: %w", tmpName, err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file %s: %w", tmpName, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}

	return nil
}
