//go:build cgo

package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"repolens/internal/complexity"
	"repolens/internal/errors"
)

// Extractor builds FileRecords from source files.
type Extractor struct {
	parser *Parser
}

// NewExtractor creates a new extractor.
func NewExtractor() *Extractor {
	return &Extractor{parser: NewParser()}
}

// ExtractFile reads and parses one file. canonicalPath is the repo-relative
// forward-slash path recorded on the result; absPath locates the file on
// disk. Read failures return FILE_READ_FAILED, parse failures PARSE_FAILED;
// both are recoverable per-file conditions.
func (e *Extractor) ExtractFile(ctx context.Context, absPath, canonicalPath string) (*FileRecord, error) {
	dialect, ok := DialectFromExtension(filepath.Ext(absPath))
	if !ok {
		return nil, errors.Newf(errors.ParseFailed, nil, "unsupported extension %q", filepath.Ext(absPath))
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Newf(errors.FileReadFailed, err, "cannot read %s", canonicalPath)
	}

	return e.ExtractSource(ctx, canonicalPath, source, dialect)
}

// ExtractSource parses source bytes and extracts the file record.
func (e *Extractor) ExtractSource(ctx context.Context, canonicalPath string, source []byte, dialect Dialect) (*FileRecord, error) {
	root, err := e.parser.Parse(ctx, source, dialect)
	if err != nil {
		return nil, errors.Newf(errors.ParseFailed, err, "cannot parse %s", canonicalPath)
	}
	if root.HasError() {
		return nil, errors.Newf(errors.ParseFailed, nil, "syntax errors in %s", canonicalPath)
	}

	rec := &FileRecord{
		Path:      canonicalPath,
		Language:  dialect.Language(),
		SizeBytes: int64(len(source)),
		Lines:     lineCount(root),
		Functions: []FunctionRecord{},
		Classes:   []ClassRecord{},
		Imports:   []ImportRecord{},
		Exports:   []ExportRecord{},
	}

	e.walk(root, source, rec)

	total := 0
	for _, f := range rec.Functions {
		total += f.Complexity
	}
	for _, c := range rec.Classes {
		total += c.Complexity
	}
	rec.Complexity = complexity.NewScore(total, rec.Lines)
	rec.Dependencies = dependencyList(rec.Imports)

	return rec, nil
}

// walk collects functions, classes, imports and exports. It descends into
// function and class bodies so nested declarations are recorded with their
// own independent complexity scores.
func (e *Extractor) walk(n *sitter.Node, source []byte, rec *FileRecord) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		if fn := e.namedFunction(n, source); fn != nil {
			rec.Functions = append(rec.Functions, *fn)
		}

	case "variable_declarator":
		if fn := e.boundFunction(n, source); fn != nil {
			rec.Functions = append(rec.Functions, *fn)
		}

	case "class_declaration":
		if cls := e.class(n, source); cls != nil {
			rec.Classes = append(rec.Classes, *cls)
		}

	case "import_statement":
		if imp := e.importStatement(n, source); imp != nil {
			rec.Imports = append(rec.Imports, *imp)
		}
		return

	case "export_statement":
		rec.Exports = append(rec.Exports, e.exportStatement(n, source)...)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			e.walk(child, source, rec)
		}
	}
}

// namedFunction records a function declaration with an explicit name.
func (e *Extractor) namedFunction(n *sitter.Node, source []byte) *FunctionRecord {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	return e.function(n, source, text(name, source))
}

// boundFunction records a function or arrow expression only when it is the
// right-hand side of a variable binding with a plain identifier name.
// Function expressions assigned elsewhere are dropped.
func (e *Extractor) boundFunction(n *sitter.Node, source []byte) *FunctionRecord {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil || value == nil || name.Type() != "identifier" {
		return nil
	}
	if !isCallableExpression(value.Type()) {
		return nil
	}
	return e.function(value, source, text(name, source))
}

func (e *Extractor) function(n *sitter.Node, source []byte, name string) *FunctionRecord {
	if name == "" {
		name = AnonymousName
	}
	return &FunctionRecord{
		Name:       name,
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		Params:     paramNames(n.ChildByFieldName("parameters"), source),
		Complexity: complexity.Cyclomatic(n, source),
		Calls:      []string{},
		CalledBy:   []string{},
	}
}

func (e *Extractor) class(n *sitter.Node, source []byte) *ClassRecord {
	name := n.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	cls := &ClassRecord{
		Name:       text(name, source),
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		Methods:    []FunctionRecord{},
		Properties: []PropertyRecord{},
		SuperClass: superclassName(n, source),
	}

	body := n.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			switch member.Type() {
			case "method_definition":
				m := e.method(member, source)
				cls.Methods = append(cls.Methods, m)
				cls.Complexity += m.Complexity
			case "field_definition", "public_field_definition":
				cls.Properties = append(cls.Properties, property(member, source))
			}
		}
	}

	return cls
}

// method extracts a class method. Visibility defaults to public; getters and
// setters are always public regardless of declared accessibility.
func (e *Extractor) method(n *sitter.Node, source []byte) FunctionRecord {
	name := AnonymousName
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = text(nn, source)
	}

	visibility := "public"
	accessor := false
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "accessibility_modifier":
			visibility = text(n.Child(i), source)
		case "get", "set":
			accessor = true
		}
	}
	if accessor {
		visibility = "public"
	}

	return FunctionRecord{
		Name:       name,
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		Params:     paramNames(n.ChildByFieldName("parameters"), source),
		Complexity: complexity.Cyclomatic(n, source),
		Visibility: visibility,
		Calls:      []string{},
		CalledBy:   []string{},
	}
}

func property(n *sitter.Node, source []byte) PropertyRecord {
	p := PropertyRecord{Visibility: "public"}

	nameNode := n.ChildByFieldName("property")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("name")
	}
	if nameNode != nil {
		p.Name = text(nameNode, source)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "static":
			p.Static = true
		case "accessibility_modifier":
			p.Visibility = text(n.Child(i), source)
		}
	}
	return p
}

// superclassName returns the raw identifier after "extends", unresolved.
// The javascript grammar puts the expression directly in class_heritage; the
// typescript grammars wrap it in an extends_clause.
func superclassName(classNode *sitter.Node, source []byte) string {
	var heritage *sitter.Node
	for i := 0; i < int(classNode.ChildCount()); i++ {
		if classNode.Child(i).Type() == "class_heritage" {
			heritage = classNode.Child(i)
			break
		}
	}
	if heritage == nil {
		return ""
	}

	for i := 0; i < int(heritage.NamedChildCount()); i++ {
		child := heritage.NamedChild(i)
		switch child.Type() {
		case "extends_clause":
			if v := child.ChildByFieldName("value"); v != nil {
				return text(v, source)
			}
			if child.NamedChildCount() > 0 {
				return text(child.NamedChild(0), source)
			}
		case "identifier", "member_expression", "call_expression":
			return text(child, source)
		}
	}
	return ""
}

func (e *Extractor) importStatement(n *sitter.Node, source []byte) *ImportRecord {
	src := n.ChildByFieldName("source")
	if src == nil {
		return nil
	}

	imp := &ImportRecord{
		Module: trimQuotes(text(src, source)),
		Names:  []string{},
		Line:   int(n.StartPoint().Row) + 1,
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			binding := child.NamedChild(j)
			switch binding.Type() {
			case "identifier":
				imp.Default = true
				imp.Names = append(imp.Names, text(binding, source))
			case "named_imports":
				for k := 0; k < int(binding.NamedChildCount()); k++ {
					spec := binding.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						imp.Names = append(imp.Names, text(alias, source))
					} else if nn := spec.ChildByFieldName("name"); nn != nil {
						imp.Names = append(imp.Names, text(nn, source))
					}
				}
			case "namespace_import":
				for k := 0; k < int(binding.NamedChildCount()); k++ {
					if binding.NamedChild(k).Type() == "identifier" {
						imp.Names = append(imp.Names, text(binding.NamedChild(k), source))
					}
				}
			}
		}
	}

	return imp
}

func (e *Extractor) exportStatement(n *sitter.Node, source []byte) []ExportRecord {
	line := int(n.StartPoint().Row) + 1
	isDefault := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "default" {
			isDefault = true
			break
		}
	}

	var out []ExportRecord

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "function_declaration", "generator_function_declaration":
			out = append(out, ExportRecord{
				Name: declaredName(decl, source),
				Line: line,
				Kind: exportKind(ExportFunction, isDefault),
			})
		case "class_declaration":
			out = append(out, ExportRecord{
				Name: declaredName(decl, source),
				Line: line,
				Kind: exportKind(ExportClass, isDefault),
			})
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < int(decl.NamedChildCount()); i++ {
				d := decl.NamedChild(i)
				if d.Type() != "variable_declarator" {
					continue
				}
				if name := d.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
					out = append(out, ExportRecord{
						Name: text(name, source),
						Line: line,
						Kind: ExportVariable,
					})
				}
			}
		}
		return out
	}

	// export default <expression>
	if value := n.ChildByFieldName("value"); value != nil {
		name := "default"
		if isCallableExpression(value.Type()) || value.Type() == "class" {
			if nn := value.ChildByFieldName("name"); nn != nil {
				name = text(nn, source)
			}
		} else if value.Type() == "identifier" {
			name = text(value, source)
		}
		return []ExportRecord{{Name: name, Line: line, Kind: ExportDefault}}
	}

	// export { a, b as c }
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec.Type() != "export_specifier" {
				continue
			}
			name := ""
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				name = text(alias, source)
			} else if nn := spec.ChildByFieldName("name"); nn != nil {
				name = text(nn, source)
			}
			if name != "" {
				out = append(out, ExportRecord{Name: name, Line: line, Kind: ExportVariable})
			}
		}
	}

	return out
}

func declaredName(decl *sitter.Node, source []byte) string {
	if nn := decl.ChildByFieldName("name"); nn != nil {
		return text(nn, source)
	}
	return "default"
}

func exportKind(kind ExportKind, isDefault bool) ExportKind {
	if isDefault {
		return ExportDefault
	}
	return kind
}

func isCallableExpression(nodeType string) bool {
	switch nodeType {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// paramNames extracts parameter names from a formal_parameters node. Simple
// identifiers yield their name; patterns yield their raw source text.
func paramNames(params *sitter.Node, source []byte) []string {
	names := []string{}
	if params == nil {
		return names
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			names = append(names, text(p, source))
		case "required_parameter", "optional_parameter":
			if pattern := p.ChildByFieldName("pattern"); pattern != nil {
				names = append(names, text(pattern, source))
			}
		case "assignment_pattern":
			if left := p.ChildByFieldName("left"); left != nil {
				names = append(names, text(left, source))
			}
		default:
			names = append(names, text(p, source))
		}
	}
	return names
}

// lineCount derives the line count from the root node's end position rather
// than counting newlines.
func lineCount(root *sitter.Node) int {
	end := root.EndPoint()
	lines := int(end.Row)
	if end.Column > 0 {
		lines++
	}
	return lines
}

func dependencyList(imports []ImportRecord) []string {
	seen := make(map[string]bool, len(imports))
	deps := []string{}
	for _, imp := range imports {
		if !seen[imp.Module] {
			seen[imp.Module] = true
			deps = append(deps, imp.Module)
		}
	}
	return deps
}

func text(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

func trimQuotes(s string) string {
	return strings.Trim(s, `"'`+"`")
}
