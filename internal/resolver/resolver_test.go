package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/bundler/domain"
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

func TestResolve_ExactFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.js"), "export const PI = 3.14159;")

	got, err := Resolve("./math.js", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "math.js")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve_ImpliedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.js"), "export const PI = 3.14159;")

	got, err := Resolve("./math", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "math.js")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve_DirectoryIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "feature", "index.js"), "export default 1;")

	got, err := Resolve("./feature", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "feature", "index.js")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve_JSONFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.json"), "{}")

	got, err := Resolve("./data", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "data.json")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve_BareSpecifierRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve("lodash", dir)
	if err == nil {
		t.Fatal("expected error for bare specifier")
	}
	de, ok := err.(domain.DomainError)
	if !ok || de.Code != domain.ErrCodeBareSpecifier {
		t.Errorf("expected bare-specifier error, got %v", err)
	}
}

func TestResolve_Unresolved(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve("./missing", dir)
	if err == nil {
		t.Fatal("expected error for unresolved module")
	}
	de, ok := err.(domain.DomainError)
	if !ok || de.Code != domain.ErrCodeUnresolvedModule {
		t.Errorf("expected unresolved-module error, got %v", err)
	}
}
