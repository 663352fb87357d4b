package paths

import (
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	root := filepath.FromSlash("/repo")
	abs := filepath.FromSlash("/repo/src/app.ts")

	got, err := Canonicalize(abs, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "src/app.ts" {
		t.Errorf("expected src/app.ts, got %s", got)
	}
}

func TestCanonicalize_OutsideRoot(t *testing.T) {
	root := filepath.FromSlash("/repo")
	abs := filepath.FromSlash("/elsewhere/app.ts")

	if got, err := Canonicalize(abs, root); err == nil {
		t.Errorf("expected rejection for path outside root, got %q", got)
	}
}

func TestParentDir(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"src/app.ts", "src"},
		{"src/pages/home.tsx", "src/pages"},
		{"main.ts", ""},
		{"a/b/c/d.js", "a/b/c"},
	}
	for _, tc := range cases {
		if got := ParentDir(tc.in); got != tc.want {
			t.Errorf("ParentDir(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBasename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"src/app.ts", "app"},
		{"src/index.test.ts", "index.test"},
		{"Makefile", "Makefile"},
	}
	for _, tc := range cases {
		if got := Basename(tc.in); got != tc.want {
			t.Errorf("Basename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("src//pages/../api/users.ts"); got != "src/api/users.ts" {
		t.Errorf("unexpected normalization: %s", got)
	}
}

func TestIsWithin(t *testing.T) {
	if !IsWithin("src/app.ts") {
		t.Error("in-repo path must be within")
	}
	if IsWithin("../outside.ts") || IsWithin("..") {
		t.Error("escaping paths must not be within")
	}
}
