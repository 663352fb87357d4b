package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("debug msg", nil)
	logger.Info("info msg", nil)
	logger.Warn("warn msg", nil)
	logger.Error("error msg", nil)

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("below-threshold messages leaked: %q", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("expected warn and error messages: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("file skipped", map[string]interface{}{"path": "src/app.ts", "code": "PARSE_FAILED"})

	var entry struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "info" || entry.Message != "file skipped" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["path"] != "src/app.ts" {
		t.Errorf("expected path field, got %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("expected a timestamp")
	}
}

func TestHumanFormatSortedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Info("scan done", map[string]interface{}{"zeta": 1, "alpha": 2})

	out := buf.String()
	if strings.Index(out, "alpha=") > strings.Index(out, "zeta=") {
		t.Errorf("expected sorted field keys: %q", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	child := logger.With(map[string]interface{}{"component": "scanner"})
	child.Info("started", map[string]interface{}{"root": "/tmp/repo"})

	out := buf.String()
	if !strings.Contains(out, "component=scanner") || !strings.Contains(out, "root=/tmp/repo") {
		t.Errorf("expected inherited and call-site fields: %q", out)
	}

	// The parent must not inherit the child's fields.
	buf.Reset()
	logger.Info("parent", nil)
	if strings.Contains(buf.String(), "component=scanner") {
		t.Errorf("parent logger polluted: %q", buf.String())
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseLevel("warn") != WarnLevel {
		t.Error("expected warn")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("expected info fallback")
	}
	if ParseFormat("json") != JSONFormat {
		t.Error("expected json")
	}
	if ParseFormat("nonsense") != HumanFormat {
		t.Error("expected human fallback")
	}
}
