package transformer

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/ludo-technologies/bundler/domain"
)

// identifierRef is one free-reference occurrence of an imported name,
// located by byte range, carrying enough context to decide whether the
// call-site `this`-preservation wrapping applies (spec.md §4.5).
type identifierRef struct {
	Range        domain.Range
	Binding      domain.ImportedBinding
	IsCallCallee bool
}

// findIdentifierRefs walks source looking for every occurrence of a name
// present in bindings, skipping occurrences whose immediate parent context
// marks them as a binding/declaration/key/property/parameter/label rather
// than a free reference (spec.md §4.5 "Scope-aware identifier rewriting").
//
// This re-parses the module's own source rather than reusing the facts
// collected by internal/parser: import/export extraction only needs
// top-level declaration shapes, but free-identifier classification needs an
// ancestor-stack walk of the whole tree, so the two concerns are kept
// separate passes grounded on the same tree-sitter grammar.
func findIdentifierRefs(source []byte, bindings map[string]domain.ImportedBinding) ([]identifierRef, error) {
	if len(bindings) == 0 {
		return nil, nil
	}

	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	defer p.Close()

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, err
	}
	defer tree.Close()

	var refs []identifierRef
	var walk func(n, parent *sitter.Node, fieldName string)
	walk = func(n, parent *sitter.Node, fieldName string) {
		if n == nil {
			return
		}
		if n.Type() == "identifier" {
			name := string(source[n.StartByte():n.EndByte()])
			if binding, ok := bindings[name]; ok && !isBindingContext(parent, fieldName) {
				refs = append(refs, identifierRef{
					Range:        domain.Range{Start: int(n.StartByte()), End: int(n.EndByte())},
					Binding:      binding,
					IsCallCallee: isCallCallee(parent, fieldName),
				})
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i), n, n.FieldNameForChild(i))
		}
	}
	walk(tree.RootNode(), nil, "")

	return refs, nil
}

// isBindingContext reports whether an identifier whose immediate parent is
// parent, reached via fieldName, is a binding/declaration/key/property/
// parameter/label occurrence rather than a free reference.
func isBindingContext(parent *sitter.Node, fieldName string) bool {
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "pair":
		// Non-computed object-literal key: `{ key: value }`. The value side
		// (fieldName == "value") is still a free reference.
		return fieldName == "key"
	case "member_expression":
		// Non-computed property access: `obj.prop`. Computed access uses a
		// distinct "subscript_expression" node and is never skipped.
		return fieldName == "property"
	case "variable_declarator":
		return fieldName == "name"
	case "function_declaration", "generator_function_declaration",
		"function_expression", "generator_function_expression",
		"class_declaration", "class_expression", "method_definition":
		return fieldName == "name"
	case "formal_parameters":
		return true
	case "required_parameter", "optional_parameter":
		return true
	case "labeled_statement":
		return fieldName == "label"
	case "break_statement", "continue_statement":
		return true
	case "array_pattern", "object_pattern", "assignment_pattern", "rest_pattern", "catch_clause":
		return true
	case "shorthand_property_identifier_pattern":
		return true
	case "import_clause", "namespace_import", "import_specifier", "export_specifier":
		// Names inside import/export declarations, which the transformer
		// deletes whole.
		return true
	default:
		return false
	}
}

// isCallCallee reports whether an identifier is the callee of a call
// expression, or the tag of a tagged template (`tag\`...\``), either of
// which requires the `(0, <replacement>)` wrapping to keep the call's
// receiver unset (spec.md §4.5 "Call-site this preservation").
func isCallCallee(parent *sitter.Node, fieldName string) bool {
	if parent == nil {
		return false
	}
	if fieldName != "function" {
		return false
	}
	return parent.Type() == "call_expression" || parent.Type() == "tagged_template"
}
