package utils

import (
	"strings"
)

// Supported WebAssembly architectures
var targets = []string{"wasm32", "wasm64"}

// ParseTarget normalizes a target selector (e.g., "wasm32", "WASM64",
// "wasm32-unknown-unknown") to its architecture name.
// Returns an empty string if the target is not supported.
func ParseTarget(t string) string {
	arch := strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(arch, '-'); i >= 0 {
		arch = arch[:i]
	}

	for _, s := range targets {
		if arch == s {
			return s
		}
	}

	return ""
}

// Targets returns the supported target architectures
func Targets() []string {
	out := make([]string, len(targets))
	copy(out, targets)

	return out
}
