package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"repolens/internal/graph"
	"repolens/internal/insights"
	"repolens/internal/parser"
)

func sample() *insights.RepositoryAnalysis {
	return &insights.RepositoryAnalysis{
		ID:         "run-1",
		Repository: "https://example.com/repo.git",
		Files: []parser.FileRecord{
			{Path: "src/app.ts", Language: "typescript", Lines: 120},
		},
		Architecture: graph.Architecture{
			Components: []graph.Component{{Name: "src", Type: graph.TypeComponent}},
		},
		Metrics:   insights.RepositoryMetrics{TotalFiles: 1, TotalLines: 120},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("expected json, got %v %v", f, err)
	}
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("expected yaml for yml alias, got %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"repository": "https://example.com/repo.git"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		file   string
		format Format
	}{
		{"json", "out.json", FormatJSON},
		{"yaml", "out.yaml", FormatYAML},
		{"json compressed", "out.json.zst", FormatJSON},
		{"yaml compressed", "out.yaml.zst", FormatYAML},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			want := sample()

			if err := WriteFile(path, want, tc.format); err != nil {
				t.Fatalf("write failed: %v", err)
			}

			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if got.ID != want.ID || got.Repository != want.Repository {
				t.Errorf("identity mismatch: %+v", got)
			}
			if len(got.Files) != 1 || got.Files[0].Path != "src/app.ts" {
				t.Errorf("files mismatch: %+v", got.Files)
			}
			if got.Metrics.TotalLines != 120 {
				t.Errorf("metrics mismatch: %+v", got.Metrics)
			}
		})
	}
}
