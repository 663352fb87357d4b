//go:build cgo

package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps tree-sitter for dialect-aware parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// Parse parses source code and returns the AST root node.
func (p *Parser) Parse(ctx context.Context, source []byte, dialect Dialect) (*sitter.Node, error) {
	lang, err := grammar(dialect)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(lang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return tree.RootNode(), nil
}

// grammar returns the tree-sitter grammar for a dialect. JSX shares the
// javascript grammar; TSX has its own.
func grammar(dialect Dialect) (*sitter.Language, error) {
	switch dialect {
	case DialectJS, DialectJSX:
		return javascript.GetLanguage(), nil
	case DialectTS:
		return typescript.GetLanguage(), nil
	case DialectTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// IsAvailable returns whether tree-sitter parsing is available.
// Returns true when CGO is enabled.
func IsAvailable() bool {
	return true
}
