package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ObjectExt is the extension of every object artifact
const ObjectExt = ".o"

// objectName matches artifact names produced by ObjectPath
var objectName = regexp.MustCompile(`^.+-[0-9a-f]{8}\.o$`)

// ObjectPath derives the object artifact path for a source file. The name is
// the source base name plus its path fingerprint, so the same source always
// maps to the same slot in the build directory.
func ObjectPath(buildDir, source string) string {
	base := filepath.Base(source)

	// a dotfile without extension keeps its whole name
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}

	stem := strings.TrimSuffix(base, ext)

	return filepath.Join(buildDir, stem+"-"+FingerprintHex(source)+ObjectExt)
}

// Probe reads the artifact at path. A missing file is not an error and
// yields a nil snapshot.
func Probe(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	return &Snapshot{Path: path, Data: data}, nil
}

// IsObjectName reports whether name has the form ObjectPath gives artifacts
func IsObjectName(name string) bool {
	return objectName.MatchString(name)
}

// CollectObjects scans a build directory and returns the object artifacts in
// it. Other files, including foreign .o files, are left out.
func CollectObjects(dir string) ([]string, error) {
	var objects []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No outputs yet
		}

		return nil, fmt.Errorf("failed to read build directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if IsObjectName(entry.Name()) {
			objects = append(objects, entry.Name())
		}
	}

	return objects, nil
}

// Exists reports whether a regular file exists at path
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
