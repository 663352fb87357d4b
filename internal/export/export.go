// Package export serializes analysis results for downstream tooling.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"repolens/internal/insights"
)

// Format selects the serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected json or yaml)", s)
	}
}

// Write serializes the analysis to w in the given format.
func Write(w io.Writer, analysis *insights.RepositoryAnalysis, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(analysis)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile serializes the analysis to path. A ".zst" suffix on path enables
// zstd compression of the encoded output.
func WriteFile(path string, analysis *insights.RepositoryAnalysis, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}

	var w io.Writer = f
	var zw *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("cannot initialize compressor: %w", err)
		}
		w = zw
	}

	werr := Write(w, analysis, format)
	if zw != nil {
		if cerr := zw.Close(); werr == nil {
			werr = cerr
		}
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("export failed: %w", werr)
	}
	return nil
}

// ReadFile loads a previously exported analysis. Format is inferred from the
// extension; a ".zst" suffix is stripped first.
func ReadFile(path string) (*insights.RepositoryAnalysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open export file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	name := path
	if strings.HasSuffix(name, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("cannot initialize decompressor: %w", err)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(name, ".zst")
	}

	var analysis insights.RepositoryAnalysis
	switch {
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		if err := yaml.NewDecoder(r).Decode(&analysis); err != nil {
			return nil, fmt.Errorf("cannot decode export: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&analysis); err != nil {
			return nil, fmt.Errorf("cannot decode export: %w", err)
		}
	}
	return &analysis, nil
}
