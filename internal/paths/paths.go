// Package paths normalizes file paths to repo-relative, forward-slash form.
// Every cross-file comparison in grouping and relationship logic operates on
// canonical paths; absolute or OS-specific paths must not leak past this
// boundary.
package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a repo-relative canonical path
// with forward slashes. Paths that escape the root are rejected.
func Canonicalize(absolutePath, repoRoot string) (string, error) {
	rel, err := filepath.Rel(repoRoot, absolutePath)
	if err != nil {
		return "", err
	}
	canonical := filepath.ToSlash(rel)
	if !IsWithin(canonical) {
		return "", fmt.Errorf("path %s escapes root %s", absolutePath, repoRoot)
	}
	return canonical, nil
}

// Normalize converts separators to forward slashes and cleans the path.
func Normalize(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// ParentDir returns the immediate parent directory of a canonical path, or
// "" for root-level files.
func ParentDir(canonical string) string {
	dir := path.Dir(canonical)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Basename returns the file name without its extension.
func Basename(canonical string) string {
	base := path.Base(canonical)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// IsWithin reports whether a canonical relative path stays inside the root
// (does not escape via "..").
func IsWithin(canonical string) bool {
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}
