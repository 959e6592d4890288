// Package domain holds the bundler's core data model: module records,
// chunks, the module graph, and the error/progress contracts shared by
// every pipeline stage.
package domain

// Range is a half-open byte interval [Start, End) into a Module's Source.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range carries no span (the zero value).
func (r Range) Empty() bool {
	return r.Start == 0 && r.End == 0
}

// ImportedName identifies what is being imported from a module: a named
// export's name, or one of the two sentinels below.
type ImportedName string

const (
	// ImportedDefault is the sentinel for `import x from "y"`.
	ImportedDefault ImportedName = "default"
	// ImportedNamespace is the sentinel for `import * as x from "y"`.
	ImportedNamespace ImportedName = "*"
)

// ImportSpecifier binds one local identifier to a name imported from the
// source module of the enclosing Import.
type ImportSpecifier struct {
	LocalName    string
	ImportedName ImportedName
}

// Import is one `import ... from "..."` declaration.
type Import struct {
	RawSpecifier string
	ResolvedPath string // absolute path; empty until the graph builder resolves it
	Range        Range  // the full ImportDeclaration, deleted by the transformer
	Specifiers   []ImportSpecifier
}

// NamedExport is one named export record: `export { a, b as c }`,
// `export const/let/var/function/class ...`, or a re-export specifier.
type NamedExport struct {
	LocalName       string
	ExportedName    string
	DeclarationRange Range // zero if this export has no inline declaration
	StatementRange  Range  // the enclosing export statement
	ReexportSource  string // non-empty if this forwards to another module
}

// DefaultExportKind distinguishes the two default-export shapes.
type DefaultExportKind int

const (
	// DefaultExportDeclaration is `export default function/class name() {}`.
	DefaultExportDeclaration DefaultExportKind = iota
	// DefaultExportExpression is any other `export default <expr>`.
	DefaultExportExpression
)

// DefaultExport is a module's (at most one) default export.
type DefaultExport struct {
	Kind      DefaultExportKind
	Range     Range // the export default ... statement
	InnerRange Range // the declaration/expression node, i.e. Range with the "export default " prefix stripped
	InnerName string // the declared identifier, when Kind == DefaultExportDeclaration
}

// DynamicImport is one `import(...)` call expression.
type DynamicImport struct {
	Specifier    string // empty when the argument is not a string literal
	ResolvedPath string // empty until resolved; also empty for non-literal sites
	Range        Range  // the whole `import(...)` call expression
	IsStatic     bool   // true when Specifier was a string literal
}

// ImportedBinding is one entry of a module's local-name -> origin table,
// the authoritative source for free-identifier rewriting.
type ImportedBinding struct {
	ModuleSpecifier string
	ImportedName    ImportedName
}

// Module is one record per absolute file path reached from the entry.
type Module struct {
	AbsolutePath string
	ModuleID     string // project-relative, POSIX, "./"-prefixed
	Source       []byte

	Imports         []Import
	NamedExports    []NamedExport
	DefaultExport   *DefaultExport
	DynamicImports  []DynamicImport
	ImportedBindings map[string]ImportedBinding
}
