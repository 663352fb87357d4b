//go:build cgo

package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// decisionTypes lists the AST node types that count as decision points in
// the JavaScript/TypeScript grammars. for_in_statement covers both for-in
// and for-of; switch_default is deliberately absent.
var decisionTypes = map[string]bool{
	"if_statement":       true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
	"switch_case":        true,
	"catch_clause":       true,
	"ternary_expression": true,
}

// callableTypes lists node types whose bodies are scored independently.
// The walk never descends into them, so a nested function's decision points
// are counted exactly once.
var callableTypes = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
	"class_declaration":              true,
	"class":                          true,
}

// Cyclomatic computes the cyclomatic complexity of a single function or
// method node: 1 + one per decision point in its body, excluding nested
// callable and class bodies.
func Cyclomatic(node *sitter.Node, source []byte) int {
	count := 1

	var walk func(n *sitter.Node, root bool)
	walk = func(n *sitter.Node, root bool) {
		if n == nil {
			return
		}
		if !root && callableTypes[n.Type()] {
			return
		}

		switch {
		case decisionTypes[n.Type()]:
			count++
		case n.Type() == "binary_expression" && isShortCircuit(n, source):
			count++
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), false)
		}
	}

	walk(node, true)
	return count
}

// isShortCircuit reports whether a binary_expression is a logical AND/OR.
// Other binary operators do not contribute to complexity.
func isShortCircuit(node *sitter.Node, source []byte) bool {
	op := node.ChildByFieldName("operator")
	if op == nil {
		return false
	}
	text := string(source[op.StartByte():op.EndByte()])
	return text == "&&" || text == "||"
}
