package transformer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/names"
)

// ModuleIDLookup resolves an absolute path to its module id, as recorded by
// the graph builder.
type ModuleIDLookup func(absolutePath string) string

// ChunkIDLookup resolves an absolute path (a dynamic-import target) to the
// id of the lazy chunk whose entry module it is.
type ChunkIDLookup func(absolutePath string) string

const defaultExportVarBase = "__default_export__"

// Transform produces the body text of module's factory function: the
// mark-ES-module call, the define-exports call, one loader-variable
// declaration per distinct import source, and the module's original source
// with every edit from spec.md §4.5 applied.
//
// Grounded on internal/analyzer/module_analyzer.go's per-file, per-import
// loop structure, retargeted from metadata collection to source rewriting.
func Transform(module *domain.Module, moduleIDOf ModuleIDLookup, chunkIDOf ChunkIDLookup) (string, error) {
	buf := NewPatchBuffer(module.Source)

	sourceByRawSpecifier := map[string]string{} // raw specifier -> module id
	var loaderVars []loaderVar
	seenModuleIDs := map[string]bool{}

	for _, imp := range module.Imports {
		buf.Delete(imp.Range)

		id := moduleIDOf(imp.ResolvedPath)
		sourceByRawSpecifier[imp.RawSpecifier] = id
		if !seenModuleIDs[id] {
			seenModuleIDs[id] = true
			loaderVars = append(loaderVars, loaderVar{moduleID: id, varName: names.VarName(id)})
		}
	}

	defaultExportVar := freshDefaultExportVar(module.Source)

	getters, err := buildGetters(module, sourceByRawSpecifier, defaultExportVar)
	if err != nil {
		return "", err
	}

	applyExportEdits(buf, module, defaultExportVar)

	refs, err := findIdentifierRefs(module.Source, module.ImportedBindings)
	if err != nil {
		return "", domain.NewParseError("<identifier scan>", err)
	}
	for _, ref := range refs {
		replacement := propertyAccess(ref.Binding, sourceByRawSpecifier)
		if ref.IsCallCallee {
			replacement = "(0, " + replacement + ")"
		}
		buf.Replace(ref.Range, replacement)
	}

	for i := range module.DynamicImports {
		di := module.DynamicImports[i]
		if !di.IsStatic || di.ResolvedPath == "" {
			continue
		}
		targetModuleID := moduleIDOf(di.ResolvedPath)
		chunkID := chunkIDOf(di.ResolvedPath)
		replacement := fmt.Sprintf(
			`loadChunk(%s).then(loadModule.bind(loadModule, %s))`,
			jsString(chunkID), jsString(targetModuleID),
		)
		buf.Replace(di.Range, replacement)
	}

	patched, err := buf.Apply()
	if err != nil {
		return "", err
	}

	var body strings.Builder
	body.WriteString("loadModule.markESModule(exports);\n")
	body.WriteString(getters)
	for _, lv := range loaderVars {
		fmt.Fprintf(&body, "var %s = loadModule(%s);\n", lv.varName, jsString(lv.moduleID))
	}
	body.WriteString(patched)

	return body.String(), nil
}

type loaderVar struct {
	moduleID string
	varName  string
}

// buildGetters renders the loadModule.defineExports(exports, { ... }) call.
func buildGetters(module *domain.Module, sourceByRawSpecifier map[string]string, defaultExportVar string) (string, error) {
	var entries []string

	for _, ne := range module.NamedExports {
		if ne.ReexportSource != "" {
			sourceModuleID := sourceByRawSpecifier[ne.ReexportSource]
			sourceVar := names.VarName(sourceModuleID)
			entries = append(entries, fmt.Sprintf(
				"%s: function() { return %s.%s; }", propertyKey(ne.ExportedName), sourceVar, ne.LocalName,
			))
			continue
		}
		valueExpr := resolveLocalName(ne.LocalName, module.ImportedBindings, sourceByRawSpecifier)
		entries = append(entries, fmt.Sprintf(
			"%s: function() { return %s; }", propertyKey(ne.ExportedName), valueExpr,
		))
	}

	if module.DefaultExport != nil {
		var valueExpr string
		switch module.DefaultExport.Kind {
		case domain.DefaultExportDeclaration:
			valueExpr = resolveLocalName(module.DefaultExport.InnerName, module.ImportedBindings, sourceByRawSpecifier)
		case domain.DefaultExportExpression:
			valueExpr = defaultExportVar
		}
		entries = append(entries, fmt.Sprintf(
			"%s: function() { return %s; }", propertyKey("default"), valueExpr,
		))
	}

	if len(entries) == 0 {
		return "loadModule.defineExports(exports, {});\n", nil
	}

	var b strings.Builder
	b.WriteString("loadModule.defineExports(exports, {\n")
	for _, e := range entries {
		b.WriteString("  ")
		b.WriteString(e)
		b.WriteString(",\n")
	}
	b.WriteString("});\n")
	return b.String(), nil
}

// resolveLocalName renders a reference to a module-local name. If the name
// is itself just an imported binding with no local declaration of its own
// (a transparent re-export via `import { x } from "./a"; export { x };`),
// it resolves through the same property access a free reference to it would
// get, rather than emitting a bare identifier that no longer exists once the
// import declaration is deleted.
func resolveLocalName(localName string, bindings map[string]domain.ImportedBinding, sourceByRawSpecifier map[string]string) string {
	if binding, ok := bindings[localName]; ok {
		return propertyAccess(binding, sourceByRawSpecifier)
	}
	return localName
}

func propertyAccess(binding domain.ImportedBinding, sourceByRawSpecifier map[string]string) string {
	varName := names.VarName(sourceByRawSpecifier[binding.ModuleSpecifier])
	switch binding.ImportedName {
	case domain.ImportedNamespace:
		return varName
	case domain.ImportedDefault:
		return varName + `["default"]`
	default:
		return varName + "." + string(binding.ImportedName)
	}
}

// applyExportEdits queues the deletions/rewrites for export syntax
// (spec.md §4.5, 4th bullet list).
func applyExportEdits(buf *PatchBuffer, module *domain.Module, defaultExportVar string) {
	for _, ne := range module.NamedExports {
		if ne.ReexportSource != "" {
			buf.Delete(ne.StatementRange)
			continue
		}
		if !ne.DeclarationRange.Empty() {
			// Inline declaration form: delete just the "export " prefix, up
			// to where the declaration itself begins.
			buf.Replace(domain.Range{Start: ne.StatementRange.Start, End: ne.DeclarationRange.Start}, "")
		} else {
			// Specifier form, no source: delete the whole statement.
			buf.Delete(ne.StatementRange)
		}
	}

	if de := module.DefaultExport; de != nil {
		switch de.Kind {
		case domain.DefaultExportDeclaration:
			buf.Replace(domain.Range{Start: de.Range.Start, End: de.InnerRange.Start}, "")
		case domain.DefaultExportExpression:
			buf.Replace(domain.Range{Start: de.Range.Start, End: de.InnerRange.Start}, "var "+defaultExportVar+" = ")
		}
	}
}

// freshDefaultExportVar picks a name for the anonymous-default-export
// variable guaranteed not to collide with any identifier already present in
// source (spec.md §9: "pick a guaranteed-unused name... suffix with a fresh
// counter per module").
func freshDefaultExportVar(source []byte) string {
	name := defaultExportVarBase
	text := string(source)
	for i := 1; strings.Contains(text, name); i++ {
		name = fmt.Sprintf("__default_export_%d__", i)
	}
	return name
}

func propertyKey(name string) string {
	if isValidIdentifier(name) {
		return name
	}
	return jsString(name)
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}

func jsString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
