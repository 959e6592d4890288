// Package parser turns JavaScript source text into the module-level facts
// the bundler core needs: import sites, export sites, dynamic import sites,
// and the imported-bindings table, each carrying byte ranges into the
// original source. The syntax tree itself is produced by tree-sitter; this
// package only extracts from it (spec.md §1 treats "third-party ES-module
// parsing" as an external collaborator assumed available).
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Parser wraps a tree-sitter JavaScript parser.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new JavaScript parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: p}
}

// Close frees the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseFile parses source text and extracts the module facts for filename.
// Every range in the result is a byte offset pair into source.
func (p *Parser) ParseFile(filename string, source []byte) (*Extracted, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	ex := newExtractor(filename, source)
	if err := ex.walkProgram(root); err != nil {
		return nil, err
	}
	return ex.result(), nil
}
