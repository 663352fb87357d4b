package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"repolens/internal/parser"
	"repolens/internal/paths"
)

// Builder constructs the component graph from parsed file records.
type Builder struct {
	detectors []PatternDetector
}

// NewBuilder creates a Builder with the given pattern detectors. An empty
// detector list disables pattern tagging without affecting the pipeline.
func NewBuilder(detectors []PatternDetector) *Builder {
	return &Builder{detectors: detectors}
}

// Build groups files into components keyed by their immediate parent
// directory, infers component types, and resolves import and superclass
// references into deduplicated component-to-component edges.
func (b *Builder) Build(files []parser.FileRecord) *Architecture {
	arch := &Architecture{
		Components:    []Component{},
		Relationships: []Relationship{},
	}
	if len(files) == 0 {
		return arch
	}

	groups := make(map[string][]parser.FileRecord)
	for _, f := range files {
		groups[componentKey(f.Path)] = append(groups[componentKey(f.Path)], f)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	owner := make(map[string]string, len(files)) // canonical path -> component name
	for _, name := range names {
		group := groups[name]
		comp := b.component(name, group)
		arch.Components = append(arch.Components, comp)
		for _, f := range group {
			owner[f.Path] = name
		}
	}

	resolver := newResolver(files)
	seen := make(map[string]bool)

	addEdge := func(fromFile, toFile string, kind RelationKind) {
		from, to := owner[fromFile], owner[toFile]
		if from == "" || to == "" || from == to {
			return
		}
		key := from + "\x00" + to + "\x00" + string(kind)
		if seen[key] {
			return
		}
		seen[key] = true
		arch.Relationships = append(arch.Relationships, Relationship{
			From:     from,
			To:       to,
			Kind:     kind,
			Strength: relationStrength[kind],
		})
	}

	for _, f := range files {
		for _, imp := range f.Imports {
			if target := resolver.resolve(imp.Module, f.Path); target != "" {
				addEdge(f.Path, target, RelationImports)
			}
		}
		for _, cls := range f.Classes {
			if cls.SuperClass == "" {
				continue
			}
			if target := resolver.resolve(cls.SuperClass, f.Path); target != "" {
				addEdge(f.Path, target, RelationExtends)
			}
		}
	}

	return arch
}

func (b *Builder) component(name string, group []parser.FileRecord) Component {
	comp := Component{
		Name:     name,
		Type:     inferType(group),
		Files:    make([]string, 0, len(group)),
		Patterns: []string{},
	}

	depSeen := make(map[string]bool)
	deps := []string{}
	for _, f := range group {
		comp.Files = append(comp.Files, f.Path)
		comp.Complexity += f.Complexity.Cyclomatic
		for _, d := range f.Dependencies {
			if !depSeen[d] {
				depSeen[d] = true
				deps = append(deps, d)
			}
		}
	}
	sort.Strings(comp.Files)
	sort.Strings(deps)
	comp.Dependencies = deps
	comp.Description = fmt.Sprintf("%s grouping %d file(s) under %s", comp.Type, len(group), name)

	for _, d := range b.detectors {
		if tag, ok := d.Detect(group); ok {
			comp.Patterns = append(comp.Patterns, tag)
		}
	}

	return comp
}

// componentKey is the immediate parent directory of the file; root-level
// files group under "root".
func componentKey(canonical string) string {
	dir := paths.ParentDir(canonical)
	if dir == "" {
		return "root"
	}
	return dir
}

// inferType inspects path substrings across the group's files. First
// matching rule wins; rules are checked in api > page > service precedence
// and never combined.
func inferType(group []parser.FileRecord) ComponentType {
	match := func(markers ...string) bool {
		for _, f := range group {
			lower := strings.ToLower(f.Path)
			for _, m := range markers {
				if strings.Contains(lower, m) {
					return true
				}
			}
		}
		return false
	}

	switch {
	case match("/api/", "api/", "/routes/", "routes/", "route.", "controller"):
		return TypeAPI
	case match("/pages/", "pages/", "/views/", "views/", "/components/", "components/", "/screens/", "screens/"):
		return TypePage
	case match("/services/", "services/", "/utils/", "utils/", "/lib/", "lib/", "/helpers/", "helpers/", "service.", "util"):
		return TypeService
	default:
		return TypeComponent
	}
}

// resolver matches import specifiers against the in-repo file set.
type resolver struct {
	byPath     map[string]bool
	byBasename map[string][]string
	all        []string
}

func newResolver(files []parser.FileRecord) *resolver {
	r := &resolver{
		byPath:     make(map[string]bool, len(files)),
		byBasename: make(map[string][]string),
		all:        make([]string, 0, len(files)),
	}
	for _, f := range files {
		r.byPath[f.Path] = true
		r.all = append(r.all, f.Path)
		base := paths.Basename(f.Path)
		r.byBasename[base] = append(r.byBasename[base], f.Path)
	}
	sort.Strings(r.all)
	return r
}

// extension candidates tried when a specifier omits the extension.
var resolveSuffixes = []string{
	"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts",
	"/index.ts", "/index.tsx", "/index.js", "/index.jsx",
}

// resolve maps a module specifier (or raw superclass identifier) to the
// canonical path of an in-repo file, or "" when the reference is external.
// Matching is heuristic: relative/absolute specifiers resolve against the
// importing file's directory, then suffix, substring, and same-basename
// comparisons are tried in that order.
func (r *resolver) resolve(specifier, fromPath string) string {
	if specifier == "" {
		return ""
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		joined := paths.Normalize(path.Join(path.Dir(fromPath), specifier))
		if target := r.withSuffixes(joined); target != "" {
			return target
		}
	}
	if strings.HasPrefix(specifier, "/") {
		if target := r.withSuffixes(strings.TrimPrefix(specifier, "/")); target != "" {
			return target
		}
	}

	cleaned := paths.Normalize(strings.TrimPrefix(specifier, "/"))

	// Suffix match with extension candidates.
	for _, suffix := range resolveSuffixes {
		candidate := cleaned + suffix
		for _, p := range r.all {
			if p != fromPath && strings.HasSuffix(p, candidate) {
				return p
			}
		}
	}

	// Substring match.
	for _, p := range r.all {
		if p != fromPath && strings.Contains(p, cleaned) {
			return p
		}
	}

	// Same-basename match.
	base := paths.Basename(cleaned)
	for _, p := range r.byBasename[base] {
		if p != fromPath {
			return p
		}
	}

	return ""
}

func (r *resolver) withSuffixes(base string) string {
	for _, suffix := range resolveSuffixes {
		if candidate := base + suffix; r.byPath[candidate] {
			return candidate
		}
	}
	return ""
}
