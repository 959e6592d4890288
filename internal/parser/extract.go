package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/bundler/domain"
)

// Tree-sitter grammar node type constants for the JavaScript grammar. These
// are defined by the grammar, not by us; grounded on the node-type-constant
// style of internal/parser/ast.go.
const (
	nodeImportStatement = "import_statement"
	nodeExportStatement = "export_statement"
	nodeImportClause    = "import_clause"
	nodeNamespaceImport = "namespace_import"
	nodeNamedImports    = "named_imports"
	nodeImportSpecifier = "import_specifier"
	nodeExportClause    = "export_clause"
	nodeExportSpecifier = "export_specifier"
	nodeCallExpression  = "call_expression"
	nodeImportKeyword   = "import"
	nodeIdentifier      = "identifier"
	nodeString          = "string"
	nodeDefaultKeyword  = "default"
	nodeWildcard        = "*"
)

// Extracted is everything the parser contributes to a Module record.
type Extracted struct {
	Imports          []domain.Import
	NamedExports     []domain.NamedExport
	DefaultExport    *domain.DefaultExport
	DynamicImports   []domain.DynamicImport
	ImportedBindings map[string]domain.ImportedBinding
}

type extractor struct {
	filename string
	source   []byte

	imports        []domain.Import
	namedExports   []domain.NamedExport
	defaultExport  *domain.DefaultExport
	dynamicImports []domain.DynamicImport
}

func newExtractor(filename string, source []byte) *extractor {
	return &extractor{filename: filename, source: source}
}

func (e *extractor) result() *Extracted {
	bindings := make(map[string]domain.ImportedBinding, len(e.imports))
	for _, imp := range e.imports {
		for _, spec := range imp.Specifiers {
			bindings[spec.LocalName] = domain.ImportedBinding{
				ModuleSpecifier: imp.RawSpecifier,
				ImportedName:    spec.ImportedName,
			}
		}
	}
	return &Extracted{
		Imports:          e.imports,
		NamedExports:     e.namedExports,
		DefaultExport:    e.defaultExport,
		DynamicImports:   e.dynamicImports,
		ImportedBindings: bindings,
	}
}

func (e *extractor) walkProgram(root *sitter.Node) error {
	for i := 0; i < childCount(root); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeImportStatement:
			e.handleImport(child)
		case nodeExportStatement:
			e.handleExport(child)
		}
	}
	e.walkForDynamicImports(root)
	return nil
}

// walkForDynamicImports finds import(...) call expressions anywhere in the
// tree — unlike static import/export declarations, they are not restricted
// to the top level.
func (e *extractor) walkForDynamicImports(n *sitter.Node) {
	if n == nil {
		return
	}
	if n.Type() == nodeCallExpression {
		if fn := childByField(n, "function"); fn != nil && fn.Type() == nodeImportKeyword {
			e.handleDynamicImport(n)
		}
	}
	for i := 0; i < childCount(n); i++ {
		e.walkForDynamicImports(n.Child(i))
	}
}

func (e *extractor) handleImport(node *sitter.Node) {
	imp := domain.Import{
		Range: byteRange(node),
	}
	if sourceNode := childByField(node, "source"); sourceNode != nil {
		imp.RawSpecifier = unquote(content(e.source, sourceNode))
	}

	for i := 0; i < childCount(node); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeImportClause:
			e.extractImportClause(child, &imp.Specifiers)
		case nodeNamespaceImport:
			if spec, ok := e.namespaceSpecifier(child); ok {
				imp.Specifiers = append(imp.Specifiers, spec)
			}
		case nodeNamedImports:
			e.extractNamedImports(child, &imp.Specifiers)
		}
	}

	e.imports = append(e.imports, imp)
}

func (e *extractor) extractImportClause(clause *sitter.Node, specifiers *[]domain.ImportSpecifier) {
	for i := 0; i < childCount(clause); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeIdentifier:
			*specifiers = append(*specifiers, domain.ImportSpecifier{
				LocalName:    content(e.source, child),
				ImportedName: domain.ImportedDefault,
			})
		case nodeNamespaceImport:
			if spec, ok := e.namespaceSpecifier(child); ok {
				*specifiers = append(*specifiers, spec)
			}
		case nodeNamedImports:
			e.extractNamedImports(child, specifiers)
		}
	}
}

func (e *extractor) namespaceSpecifier(node *sitter.Node) (domain.ImportSpecifier, bool) {
	for i := 0; i < childCount(node); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == nodeIdentifier {
			return domain.ImportSpecifier{
				LocalName:    content(e.source, child),
				ImportedName: domain.ImportedNamespace,
			}, true
		}
	}
	return domain.ImportSpecifier{}, false
}

func (e *extractor) extractNamedImports(named *sitter.Node, specifiers *[]domain.ImportSpecifier) {
	for i := 0; i < childCount(named); i++ {
		child := named.Child(i)
		if child != nil && child.Type() == nodeImportSpecifier {
			*specifiers = append(*specifiers, e.importSpecifier(child))
		}
	}
}

// importSpecifier handles `{ foo }` (same imported/local name) and
// `{ foo as bar }` (imported name first, local alias second).
func (e *extractor) importSpecifier(node *sitter.Node) domain.ImportSpecifier {
	idents := identifierChildren(node)
	switch len(idents) {
	case 1:
		name := content(e.source, idents[0])
		return domain.ImportSpecifier{LocalName: name, ImportedName: domain.ImportedName(name)}
	case 2:
		return domain.ImportSpecifier{
			ImportedName: domain.ImportedName(content(e.source, idents[0])),
			LocalName:    content(e.source, idents[1]),
		}
	default:
		return domain.ImportSpecifier{}
	}
}

func (e *extractor) handleExport(node *sitter.Node) {
	stmtRange := byteRange(node)

	hasDefault := false
	var exportClause *sitter.Node
	for i := 0; i < childCount(node); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeDefaultKeyword:
			hasDefault = true
		case nodeExportClause:
			exportClause = child
		}
	}

	declarationField := childByField(node, "declaration")
	valueField := childByField(node, "value")
	sourceField := childByField(node, "source")

	if hasDefault {
		e.handleDefaultExport(declarationField, valueField, stmtRange)
		return
	}

	if sourceField != nil {
		raw := unquote(content(e.source, sourceField))
		if exportClause != nil {
			for _, spec := range e.exportClauseSpecifiers(exportClause) {
				e.namedExports = append(e.namedExports, domain.NamedExport{
					LocalName:      spec.local,
					ExportedName:   spec.exported,
					StatementRange: stmtRange,
					ReexportSource: raw,
				})
			}
		}
		// Re-export creates an implicit dependency on the re-exported module;
		// enter it into Imports so the graph traversal reaches it (spec.md §9:
		// "Treat re-exports as import-plus-define"). This also covers
		// `export * from "./x"`, which contributes no named-export records
		// because the set of re-exported names is unknown without evaluating
		// the target module.
		e.imports = append(e.imports, domain.Import{RawSpecifier: raw, Range: stmtRange})
		return
	}

	if exportClause != nil {
		for _, spec := range e.exportClauseSpecifiers(exportClause) {
			e.namedExports = append(e.namedExports, domain.NamedExport{
				LocalName:      spec.local,
				ExportedName:   spec.exported,
				StatementRange: stmtRange,
			})
		}
		return
	}

	if declarationField != nil {
		declRange := byteRange(declarationField)
		for _, name := range e.declaredNames(declarationField) {
			e.namedExports = append(e.namedExports, domain.NamedExport{
				LocalName:        name,
				ExportedName:     name,
				DeclarationRange: declRange,
				StatementRange:   stmtRange,
			})
		}
	}
}

type exportSpec struct{ local, exported string }

func (e *extractor) exportClauseSpecifiers(clause *sitter.Node) []exportSpec {
	var out []exportSpec
	for i := 0; i < childCount(clause); i++ {
		child := clause.Child(i)
		if child == nil || child.Type() != nodeExportSpecifier {
			continue
		}
		idents := identifierChildren(child)
		switch len(idents) {
		case 1:
			name := content(e.source, idents[0])
			out = append(out, exportSpec{local: name, exported: name})
		case 2:
			out = append(out, exportSpec{
				local:    content(e.source, idents[0]),
				exported: content(e.source, idents[1]),
			})
		}
	}
	return out
}

// declaredNames returns every name introduced by an inline export
// declaration: the single name of a function/class declaration, or every
// identifier bound by a var/let/const declaration (including destructured
// patterns, collected leaf-identifier-first).
func (e *extractor) declaredNames(decl *sitter.Node) []string {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		if name := childByField(decl, "name"); name != nil {
			return []string{content(e.source, name)}
		}
		return nil
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < childCount(decl); i++ {
			child := decl.Child(i)
			if child == nil || child.Type() != "variable_declarator" {
				continue
			}
			if nameNode := childByField(child, "name"); nameNode != nil {
				names = append(names, e.collectBoundNames(nameNode)...)
			}
		}
		return names
	default:
		return nil
	}
}

// collectBoundNames flattens an identifier or a destructuring pattern into
// the list of local names it binds.
func (e *extractor) collectBoundNames(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	if n.Type() == nodeIdentifier || n.Type() == "shorthand_property_identifier_pattern" {
		return []string{content(e.source, n)}
	}
	var names []string
	for i := 0; i < childCount(n); i++ {
		names = append(names, e.collectBoundNames(n.Child(i))...)
	}
	return names
}

func (e *extractor) handleDefaultExport(declaration, value *sitter.Node, stmtRange domain.Range) {
	if declaration != nil {
		switch declaration.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if name := childByField(declaration, "name"); name != nil {
				e.defaultExport = &domain.DefaultExport{
					Kind:       domain.DefaultExportDeclaration,
					Range:      stmtRange,
					InnerRange: byteRange(declaration),
					InnerName:  content(e.source, name),
				}
				return
			}
			e.defaultExport = &domain.DefaultExport{
				Kind:       domain.DefaultExportExpression,
				Range:      stmtRange,
				InnerRange: byteRange(declaration),
			}
			return
		}
	}
	// Plain expression (`export default 42`, `export default someCall()`).
	inner := stmtRange
	if value != nil {
		inner = byteRange(value)
	}
	e.defaultExport = &domain.DefaultExport{Kind: domain.DefaultExportExpression, Range: stmtRange, InnerRange: inner}
}

func (e *extractor) handleDynamicImport(call *sitter.Node) {
	dyn := domain.DynamicImport{Range: byteRange(call)}

	if args := childByField(call, "arguments"); args != nil {
		for i := 0; i < childCount(args); i++ {
			arg := args.Child(i)
			if arg == nil {
				continue
			}
			if arg.Type() == nodeString {
				dyn.Specifier = unquote(content(e.source, arg))
				dyn.IsStatic = true
				break
			}
			if isTrivia(arg) {
				continue
			}
			// First real argument is not a string literal: non-static site.
			break
		}
	}

	e.dynamicImports = append(e.dynamicImports, dyn)
}

// --- small tree-sitter helpers, grounded on ast_builder.go's
// getChildByFieldName/isTrivia idiom ---

func childCount(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.ChildCount())
}

func childByField(n *sitter.Node, field string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < childCount(n); i++ {
		if n.FieldNameForChild(i) == field {
			return n.Child(i)
		}
	}
	return nil
}

func identifierChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < childCount(n); i++ {
		child := n.Child(i)
		if child != nil && child.Type() == nodeIdentifier {
			out = append(out, child)
		}
	}
	return out
}

func isTrivia(n *sitter.Node) bool {
	switch n.Type() {
	case "(", ")", ",", "comment":
		return true
	}
	return false
}

func byteRange(n *sitter.Node) domain.Range {
	return domain.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func content(source []byte, n *sitter.Node) string {
	return string(source[n.StartByte():n.EndByte()])
}

// unquote strips the surrounding quote characters from a tree-sitter
// `string` node's raw text (tree-sitter keeps them as part of the token).
func unquote(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
