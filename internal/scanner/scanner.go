// Package scanner walks a repository tree and selects candidate source files.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repolens/internal/logging"
)

// Options configures a scan.
type Options struct {
	// Extensions lists allowed file extensions, including the leading dot.
	Extensions []string
	// Ignore lists directory names or path substrings to prune. A matching
	// directory's subtree is never visited.
	Ignore []string
	// MaxFileSizeBytes excludes files above this size. Oversize files are
	// skipped silently, not errored.
	MaxFileSizeBytes int64
}

// Scanner lists source files under a root directory.
type Scanner struct {
	opts   Options
	logger *logging.Logger
}

// New creates a Scanner.
func New(opts Options, logger *logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Scanner{opts: opts, logger: logger}
}

// Scan returns the absolute paths of all files under root that pass the
// extension, ignore, and size filters. Traversal is depth-first; a visited
// set over resolved directory paths guards against symlink cycles.
func (s *Scanner) Scan(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	var files []string

	var walk func(dir string) error
	walk = func(dir string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			real = dir
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("unreadable directory skipped", map[string]interface{}{
				"dir":   dir,
				"error": err.Error(),
			})
			return nil
		}

		// Stable order keeps runs deterministic.
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, e := range entries {
			full := filepath.Join(dir, e.Name())

			if e.IsDir() || isDirSymlink(full, e) {
				rel, err := filepath.Rel(absRoot, full)
				if err != nil {
					rel = e.Name()
				}
				if s.ignored(e.Name(), filepath.ToSlash(rel)) {
					continue
				}
				if err := walk(full); err != nil {
					return err
				}
				continue
			}

			if !s.allowedExtension(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				s.logger.Warn("unreadable file skipped", map[string]interface{}{
					"path":  full,
					"error": err.Error(),
				})
				continue
			}
			if s.opts.MaxFileSizeBytes > 0 && info.Size() > s.opts.MaxFileSizeBytes {
				continue
			}
			files = append(files, full)
		}
		return nil
	}

	if err := walk(absRoot); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Scanner) allowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.opts.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// ignored matches a directory against the ignore list by bare name or by
// substring of its path relative to the scan root. Components above the root
// never participate, so a repository checked out under an ignored-looking
// directory still scans.
func (s *Scanner) ignored(name, relPath string) bool {
	for _, pattern := range s.opts.Ignore {
		if name == pattern || strings.Contains(relPath, pattern) {
			return true
		}
	}
	return false
}

func isDirSymlink(full string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}
