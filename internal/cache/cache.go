// Package cache manages the build directory, which doubles as the change
// detection cache across runs.
//
// Every compilation unit owns one object artifact named from the source base
// name plus an FNV-1a fingerprint of the source path. Before a unit is
// recompiled its previous artifact is read (Probe); afterwards the fresh bytes
// are compared against it (Changed). No metadata is stored besides the
// artifacts themselves and the linked output.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache wraps a build directory and the linked output inside it
type Cache struct {
	root   string // Build directory
	output string // Linked output file name
}

// Stats describes the contents of a build directory
type Stats struct {
	Objects      int
	ObjectBytes  int64
	OutputExists bool
	OutputBytes  int64
}

// New creates a cache for buildDir. The directory is not created until EnsureDir.
func New(buildDir, output string) *Cache {
	return &Cache{root: buildDir, output: output}
}

// Root returns the build directory
func (c *Cache) Root() string {
	return c.root
}

// OutputPath returns the linked output artifact path
func (c *Cache) OutputPath() string {
	return filepath.Join(c.root, c.output)
}

// ObjectPath returns the object artifact path for a source file
func (c *Cache) ObjectPath(source string) string {
	return ObjectPath(c.root, source)
}

// EnsureDir creates the build directory recursively
func (c *Cache) EnsureDir() error {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	return nil
}

// OutputExists reports whether a linked output is present
func (c *Cache) OutputExists() bool {
	return Exists(c.OutputPath())
}

// Clear removes all object artifacts and the linked output
func (c *Cache) Clear() error {
	objects, err := CollectObjects(c.root)
	if err != nil {
		return err
	}

	for _, name := range objects {
		if err := os.Remove(filepath.Join(c.root, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}

	if err := os.Remove(c.OutputPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove output: %w", err)
	}

	return nil
}

// Stats returns build directory statistics
func (c *Cache) Stats() (Stats, error) {
	var stats Stats

	objects, err := CollectObjects(c.root)
	if err != nil {
		return stats, err
	}

	for _, name := range objects {
		info, err := os.Stat(filepath.Join(c.root, name))
		if err != nil {
			continue // Removed while scanning
		}

		stats.Objects++
		stats.ObjectBytes += info.Size()
	}

	if info, err := os.Stat(c.OutputPath()); err == nil && !info.IsDir() {
		stats.OutputExists = true
		stats.OutputBytes = info.Size()
	}

	return stats, nil
}
