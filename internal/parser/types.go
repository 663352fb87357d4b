// Package parser extracts per-file AST facts (functions, classes, imports,
// exports) from JavaScript/TypeScript sources via tree-sitter.
package parser

import (
	"strings"

	"repolens/internal/complexity"
)

// Dialect identifies a supported parser dialect. Dispatch over dialects is a
// closed enum; unsupported extensions never reach the parser.
type Dialect string

const (
	DialectJS  Dialect = "javascript"
	DialectJSX Dialect = "jsx"
	DialectTS  Dialect = "typescript"
	DialectTSX Dialect = "tsx"
)

// DialectFromExtension returns the Dialect for a file extension.
func DialectFromExtension(ext string) (Dialect, bool) {
	switch strings.ToLower(ext) {
	case ".js", ".mjs", ".cjs":
		return DialectJS, true
	case ".jsx":
		return DialectJSX, true
	case ".ts", ".mts", ".cts":
		return DialectTS, true
	case ".tsx":
		return DialectTSX, true
	default:
		return "", false
	}
}

// Language returns the language tag reported in file records.
func (d Dialect) Language() string {
	switch d {
	case DialectTS, DialectTSX:
		return "typescript"
	default:
		return "javascript"
	}
}

// FileRecord is the parsed representation of one source file. It is created
// once during extraction and immutable afterwards, except CommitCount which
// is patched in after git-history analysis.
type FileRecord struct {
	// Path is the repo-relative path with forward slashes. It is the unique
	// key for the file across the whole analysis.
	Path      string `json:"path"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"sizeBytes"`

	// Lines comes from the parser's end-of-program location, not from
	// counting newlines.
	Lines int `json:"lines"`

	Functions []FunctionRecord `json:"functions"`
	Classes   []ClassRecord    `json:"classes"`
	Imports   []ImportRecord   `json:"imports"`
	Exports   []ExportRecord   `json:"exports"`

	Complexity complexity.Score `json:"complexity"`

	// Dependencies holds the raw module specifiers of all imports, internal
	// or external, for display purposes.
	Dependencies []string `json:"dependencies"`

	// CommitCount is the number of commits touching this file, filled by the
	// history provider. Zero when history is unavailable.
	CommitCount int `json:"commitCount"`
}

// FunctionRecord describes a named function or class method.
type FunctionRecord struct {
	Name       string   `json:"name"`
	StartLine  int      `json:"startLine"`
	EndLine    int      `json:"endLine"`
	Params     []string `json:"params"`
	Complexity int      `json:"complexity"`

	// Visibility is set for class methods only; defaults to "public".
	Visibility string `json:"visibility,omitempty"`

	// Calls and CalledBy are call-graph extension points. No static
	// heuristic populates them; they serialize as empty lists so consumers
	// do not mistake them for resolved data.
	Calls    []string `json:"calls"`
	CalledBy []string `json:"calledBy"`
}

// ClassRecord describes a class declaration.
type ClassRecord struct {
	Name      string           `json:"name"`
	StartLine int              `json:"startLine"`
	EndLine   int              `json:"endLine"`
	Methods   []FunctionRecord `json:"methods"`
	Properties []PropertyRecord `json:"properties"`

	// SuperClass is the raw identifier after "extends"; it is not resolved
	// to a file here.
	SuperClass string `json:"superClass,omitempty"`

	// Complexity is the sum of the method complexities.
	Complexity int `json:"complexity"`
}

// PropertyRecord describes a class property.
type PropertyRecord struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
	Static     bool   `json:"static"`
}

// ImportRecord describes one import statement.
type ImportRecord struct {
	// Module is the specifier as written (relative path or package name).
	Module string `json:"module"`
	// Names are the locally bound imported names.
	Names []string `json:"names"`
	// Default is true when the statement binds a default import.
	Default bool `json:"default"`
	Line    int  `json:"line"`
}

// ExportKind classifies an export.
type ExportKind string

const (
	ExportFunction ExportKind = "function"
	ExportClass    ExportKind = "class"
	ExportVariable ExportKind = "variable"
	ExportDefault  ExportKind = "default"
)

// ExportRecord describes one exported name.
type ExportRecord struct {
	Name string     `json:"name"`
	Line int        `json:"line"`
	Kind ExportKind `json:"kind"`
}

// AnonymousName is the sentinel recorded for unnamed callables that still
// qualify for extraction.
const AnonymousName = "anonymous"
