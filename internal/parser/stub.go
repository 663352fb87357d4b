//go:build !cgo

package parser

import (
	"context"
	"errors"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("source parsing requires CGO (tree-sitter)")

// Extractor builds FileRecords from source files.
// This is a stub implementation for non-CGO builds.
type Extractor struct{}

// NewExtractor creates a new extractor.
// Returns a stub when CGO is disabled.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile is unavailable without CGO.
func (e *Extractor) ExtractFile(ctx context.Context, absPath, canonicalPath string) (*FileRecord, error) {
	return nil, ErrNoCGO
}

// ExtractSource is unavailable without CGO.
func (e *Extractor) ExtractSource(ctx context.Context, canonicalPath string, source []byte, dialect Dialect) (*FileRecord, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether tree-sitter parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
