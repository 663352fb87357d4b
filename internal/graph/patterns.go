package graph

import (
	"strings"
	"unicode"

	"repolens/internal/parser"
)

// PatternDetector tags a component when its files match a structural or
// naming convention. Detectors are optional strategies; the builder works
// with an empty list.
type PatternDetector interface {
	// Detect returns the pattern tag and true when the group matches.
	Detect(group []parser.FileRecord) (string, bool)
}

// DefaultDetectors returns the built-in detector set.
func DefaultDetectors() []PatternDetector {
	return []PatternDetector{
		hookNamingDetector{},
		contextProviderDetector{},
	}
}

// hookNamingDetector matches groups exporting hook-style functions
// ("use" prefix followed by an uppercase letter).
type hookNamingDetector struct{}

func (hookNamingDetector) Detect(group []parser.FileRecord) (string, bool) {
	for _, f := range group {
		for _, fn := range f.Functions {
			if isHookName(fn.Name) {
				return "hook-style naming convention", true
			}
		}
	}
	return "", false
}

func isHookName(name string) bool {
	if !strings.HasPrefix(name, "use") || len(name) < 4 {
		return false
	}
	return unicode.IsUpper(rune(name[3]))
}

// contextProviderDetector matches groups pairing a Context export with a
// Provider export.
type contextProviderDetector struct{}

func (contextProviderDetector) Detect(group []parser.FileRecord) (string, bool) {
	hasContext, hasProvider := false, false
	for _, f := range group {
		for _, exp := range f.Exports {
			if strings.Contains(exp.Name, "Context") {
				hasContext = true
			}
			if strings.Contains(exp.Name, "Provider") {
				hasProvider = true
			}
		}
	}
	if hasContext && hasProvider {
		return "context/provider pairing", true
	}
	return "", false
}
