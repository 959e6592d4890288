package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuild_StaticGraph(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.js"), `
import { add } from "./math.js";
console.log(add(1, 2));
`)
	writeFile(t, filepath.Join(dir, "math.js"), `export function add(a, b) { return a + b; }`)

	g, err := Build(filepath.Join(dir, "main.js"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d: %v", len(g.Modules), g.Order)
	}
	entry := g.Entry()
	if entry == nil {
		t.Fatal("entry module missing")
	}
	if entry.ModuleID != "./main.js" {
		t.Errorf("expected entry module id ./main.js, got %q", entry.ModuleID)
	}

	mathAbs := filepath.Join(dir, "math.js")
	math, ok := g.Get(mathAbs)
	if !ok {
		t.Fatalf("math.js module missing from graph")
	}
	if math.ModuleID != "./math.js" {
		t.Errorf("expected ./math.js, got %q", math.ModuleID)
	}
}

func TestBuild_DynamicImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.js"), `
async function run() {
  const mod = await import("./feature.js");
  mod.start();
}
run();
`)
	writeFile(t, filepath.Join(dir, "feature.js"), `export function start() {}`)

	g, err := Build(filepath.Join(dir, "main.js"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(g.Modules))
	}
	if _, ok := g.Get(filepath.Join(dir, "feature.js")); !ok {
		t.Error("dynamically imported module was not reached")
	}
}

func TestBuild_EntryMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Build(filepath.Join(dir, "missing.js")); err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestBuild_UnresolvedImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.js"), `import { x } from "./nope.js";`)
	if _, err := Build(filepath.Join(dir, "main.js")); err == nil {
		t.Fatal("expected error for unresolved import")
	}
}
