// Package source provides project-root detection and bounded file access.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RootMarker is the manifest file whose presence marks a project root.
const RootMarker = "package.json"

// ErrNoRoot is returned when no directory up the chain contains a RootMarker.
var ErrNoRoot = errors.New("source: project root not found")

// FindRoot walks upward from start (a file or directory) and returns the
// first directory containing a RootMarker.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		marker := filepath.Join(dir, RootMarker)
		if info, err := os.Stat(marker); err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

// ReadFileCapped reads path, refusing files larger than max bytes.
// A max of zero or less means no limit.
func ReadFileCapped(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if max > 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if info.Size() > max {
			return nil, fmt.Errorf("source: %s exceeds %d bytes", path, max)
		}
	}

	return io.ReadAll(f)
}
