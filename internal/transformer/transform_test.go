package transformer

import (
	"strings"
	"testing"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/parser"
)

func parseModule(t *testing.T, absolutePath, source string) *domain.Module {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()
	ex, err := p.ParseFile(absolutePath, []byte(source))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return &domain.Module{
		AbsolutePath:     absolutePath,
		ModuleID:         "./" + absolutePath,
		Source:           []byte(source),
		Imports:          ex.Imports,
		NamedExports:     ex.NamedExports,
		DefaultExport:    ex.DefaultExport,
		DynamicImports:   ex.DynamicImports,
		ImportedBindings: ex.ImportedBindings,
	}
}

func idLookup(path string) string { return "./" + path }

func TestTransform_NoImportExportKeywordsSurvive(t *testing.T) {
	module := parseModule(t, "math.js", `
export function add(a, b) {
  return a + b;
}
export const PI = 3.14159;
`)
	for i := range module.Imports {
		module.Imports[i].ResolvedPath = module.Imports[i].RawSpecifier
	}

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if strings.Contains(body, "export ") || strings.Contains(body, "import ") {
		t.Errorf("export/import keyword survived:\n%s", body)
	}
	if !strings.Contains(body, "loadModule.markESModule(exports)") {
		t.Errorf("missing markESModule call:\n%s", body)
	}
	if !strings.Contains(body, "add: function()") || !strings.Contains(body, "PI: function()") {
		t.Errorf("missing expected getters:\n%s", body)
	}
}

func TestTransform_ImportRewrittenToPropertyAccess(t *testing.T) {
	module := parseModule(t, "main.js", `
import { add } from "./math.js";
console.log(add(1, 2));
`)
	module.Imports[0].ResolvedPath = "math.js"

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if strings.Contains(body, "import ") {
		t.Errorf("import keyword survived:\n%s", body)
	}
	if !strings.Contains(body, `var _math_ = loadModule("./math.js");`) {
		t.Errorf("missing loader var declaration:\n%s", body)
	}
	if !strings.Contains(body, "(0, _math_.add)(1, 2)") {
		t.Errorf("expected call-site wrapped property access, got:\n%s", body)
	}
}

func TestTransform_TaggedTemplateTagRewritten(t *testing.T) {
	module := parseModule(t, "main.js", "import { html } from \"./html.js\";\nconst out = html`<p>${1}</p>`;\n")
	module.Imports[0].ResolvedPath = "html.js"

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !strings.Contains(body, "(0, _html_.html)`<p>${1}</p>`") {
		t.Errorf("expected tagged template tag wrapped as a call callee, got:\n%s", body)
	}
}

func TestTransform_DefaultExportDeclaration(t *testing.T) {
	module := parseModule(t, "widget.js", `export default function build() { return 1; }`)

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if strings.Contains(body, "export default") {
		t.Errorf("export default survived:\n%s", body)
	}
	if !strings.Contains(body, "function build()") {
		t.Errorf("expected named function declaration to survive:\n%s", body)
	}
	if !strings.Contains(body, "return build;") {
		t.Errorf("expected default getter to target build:\n%s", body)
	}
}

func TestTransform_DefaultExportExpression(t *testing.T) {
	module := parseModule(t, "value.js", `export default 42;`)

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !strings.Contains(body, "var __default_export__ = 42;") {
		t.Errorf("expected synthesized default export var:\n%s", body)
	}
	if !strings.Contains(body, "return __default_export__;") {
		t.Errorf("expected default getter to target __default_export__:\n%s", body)
	}
}

func TestTransform_DynamicImportRewritten(t *testing.T) {
	module := parseModule(t, "main.js", `
async function run() {
  const m = await import("./feature.js");
  m.start();
}
`)
	module.DynamicImports[0].ResolvedPath = "feature.js"

	body, err := Transform(module, idLookup, func(string) string { return "feature_js" })
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := `loadChunk("feature_js").then(loadModule.bind(loadModule, "./feature.js"))`
	if !strings.Contains(body, want) {
		t.Errorf("expected dynamic import rewrite, got:\n%s", body)
	}
}

func TestTransform_ReexportFromAnotherModule(t *testing.T) {
	module := parseModule(t, "index.js", `export { helper } from "./util.js";`)
	module.Imports[0].ResolvedPath = "util.js"

	body, err := Transform(module, idLookup, idLookup)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if strings.Contains(body, "export ") || strings.Contains(body, " from ") {
		t.Errorf("re-export syntax survived:\n%s", body)
	}
	if !strings.Contains(body, "return _util_.helper;") {
		t.Errorf("expected re-export getter to read from source module, got:\n%s", body)
	}
}
