// # internal/shared/util/util.go
package util

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// NormalizePatternPath cleans a path for glob matching: forward slashes, no
// leading `./`, empty for the current directory.
func NormalizePatternPath(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	if trimmed == "" {
		return ""
	}
	clean := path.Clean(trimmed)
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(fsys afero.Fs, name string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(name)
	if dir != "" && dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fsys, name, data, perm)
}

// OpenAppend opens name for appending, creating it and its parent
// directories as needed.
func OpenAppend(fsys afero.Fs, name string) (afero.File, error) {
	if dir := filepath.Dir(name); dir != "" && dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}
