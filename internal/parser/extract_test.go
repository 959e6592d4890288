package parser

import (
	"testing"

	"github.com/ludo-technologies/bundler/domain"
)

func mustParse(t *testing.T, source string) *Extracted {
	t.Helper()
	p := NewParser()
	defer p.Close()
	ex, err := p.ParseFile("test.js", []byte(source))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return ex
}

func TestParseFile_StaticImports(t *testing.T) {
	ex := mustParse(t, `
import defaultThing from "./a.js";
import * as ns from "./b.js";
import { foo, bar as baz } from "./c.js";
import "./side-effect.js";
`)

	if len(ex.Imports) != 4 {
		t.Fatalf("expected 4 imports, got %d", len(ex.Imports))
	}

	if ex.Imports[0].RawSpecifier != "./a.js" || len(ex.Imports[0].Specifiers) != 1 ||
		ex.Imports[0].Specifiers[0].ImportedName != domain.ImportedDefault {
		t.Errorf("default import not extracted correctly: %+v", ex.Imports[0])
	}

	if ex.Imports[1].RawSpecifier != "./b.js" || len(ex.Imports[1].Specifiers) != 1 ||
		ex.Imports[1].Specifiers[0].ImportedName != domain.ImportedNamespace {
		t.Errorf("namespace import not extracted correctly: %+v", ex.Imports[1])
	}

	if ex.Imports[2].RawSpecifier != "./c.js" || len(ex.Imports[2].Specifiers) != 2 {
		t.Fatalf("named import not extracted correctly: %+v", ex.Imports[2])
	}
	if ex.Imports[2].Specifiers[0].LocalName != "foo" || ex.Imports[2].Specifiers[0].ImportedName != "foo" {
		t.Errorf("plain named specifier wrong: %+v", ex.Imports[2].Specifiers[0])
	}
	if ex.Imports[2].Specifiers[1].LocalName != "baz" || ex.Imports[2].Specifiers[1].ImportedName != "bar" {
		t.Errorf("aliased named specifier wrong: %+v", ex.Imports[2].Specifiers[1])
	}

	if ex.Imports[3].RawSpecifier != "./side-effect.js" || len(ex.Imports[3].Specifiers) != 0 {
		t.Errorf("side-effect import not extracted correctly: %+v", ex.Imports[3])
	}

	if ex.ImportedBindings["defaultThing"].ModuleSpecifier != "./a.js" {
		t.Errorf("imported binding for defaultThing missing")
	}
	if ex.ImportedBindings["baz"].ImportedName != "bar" {
		t.Errorf("imported binding for baz wrong: %+v", ex.ImportedBindings["baz"])
	}
}

func TestParseFile_NamedExports(t *testing.T) {
	ex := mustParse(t, `
export const x = 1, y = 2;
export function greet() {}
class Widget {}
export { Widget };
export { x as renamedX };
`)

	var names []string
	for _, ne := range ex.NamedExports {
		names = append(names, ne.ExportedName)
	}

	want := map[string]bool{"x": true, "y": true, "greet": true, "Widget": true, "renamedX": true}
	if len(names) != len(want) {
		t.Fatalf("expected %d named exports, got %d: %v", len(want), len(names), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected export name %q", n)
		}
	}
}

func TestParseFile_ReexportFrom(t *testing.T) {
	ex := mustParse(t, `export { helper, other as renamed } from "./util.js";`)

	if len(ex.NamedExports) != 2 {
		t.Fatalf("expected 2 re-exports, got %d", len(ex.NamedExports))
	}
	for _, ne := range ex.NamedExports {
		if ne.ReexportSource != "./util.js" {
			t.Errorf("expected reexport source ./util.js, got %q", ne.ReexportSource)
		}
	}

	found := false
	for _, imp := range ex.Imports {
		if imp.RawSpecifier == "./util.js" {
			found = true
		}
	}
	if !found {
		t.Error("re-export did not register an import-plus-define dependency")
	}
}

func TestParseFile_DefaultExport(t *testing.T) {
	ex := mustParse(t, `export default function compute() { return 1; }`)
	if ex.DefaultExport == nil {
		t.Fatal("expected a default export")
	}
	if ex.DefaultExport.Kind != domain.DefaultExportDeclaration || ex.DefaultExport.InnerName != "compute" {
		t.Errorf("default export wrong: %+v", ex.DefaultExport)
	}
}

func TestParseFile_DefaultExportExpression(t *testing.T) {
	ex := mustParse(t, `export default 42;`)
	if ex.DefaultExport == nil || ex.DefaultExport.Kind != domain.DefaultExportExpression {
		t.Fatalf("expected default export expression, got %+v", ex.DefaultExport)
	}
}

func TestParseFile_DynamicImport(t *testing.T) {
	ex := mustParse(t, `
function load() {
  return import("./lazy.js").then(m => m.run());
}
`)
	if len(ex.DynamicImports) != 1 {
		t.Fatalf("expected 1 dynamic import, got %d", len(ex.DynamicImports))
	}
	di := ex.DynamicImports[0]
	if !di.IsStatic || di.Specifier != "./lazy.js" {
		t.Errorf("dynamic import not extracted correctly: %+v", di)
	}
}

func TestParseFile_DynamicImportNonLiteral(t *testing.T) {
	ex := mustParse(t, `
function load(name) {
  return import(name);
}
`)
	if len(ex.DynamicImports) != 1 {
		t.Fatalf("expected 1 dynamic import, got %d", len(ex.DynamicImports))
	}
	if ex.DynamicImports[0].IsStatic {
		t.Error("expected non-static dynamic import for a non-literal argument")
	}
}
