// Package cfgutil holds the small path/CLI helpers shared by the node and
// authority launcher packages, so each one doesn't carry its own copy of
// datadir resolution and home-directory guessing.
package cfgutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (and parents) if it doesn't already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cfgutil: create directory %s: %w", dir, err)
	}
	return nil
}

// ResolvePath expands a leading "~" to the user's home directory and makes
// relative paths absolute against the working directory; absolute paths
// pass through unchanged.
func ResolvePath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

// GuessWorkDir returns the current working directory, or "." if it can't be
// determined.
func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// GuessHomeDir returns the invoking user's home directory, or "." if it
// can't be determined.
func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
