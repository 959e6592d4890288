package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/bundler/domain"
)

func TestBuildCmd_FlagsExist(t *testing.T) {
	cmd := buildCmd()

	for _, name := range []string{"entry", "output", "public-path", "config", "no-progress", "max-concurrency"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing expected flag: --%s", name)
		}
	}
}

func TestDepsCmd_FlagsExist(t *testing.T) {
	cmd := depsCmd()

	for _, name := range []string{"entry", "format", "output"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing expected flag: --%s", name)
		}
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	for _, name := range []string{"config", "force", "interactive"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing expected flag: --%s", name)
		}
	}
}

func TestRunBuild_MissingEntryAndOutput(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	buildEntry, buildOutput, buildConfigPath = "", "", ""
	err := runBuild(buildCmd(), nil)
	if err == nil {
		t.Fatal("expected usage error when --entry/--output are missing")
	}
	de, ok := err.(domain.DomainError)
	if !ok || de.Code != domain.ErrCodeUsage {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestRunBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte(`
import { add } from "./math.js";
console.log(add(1, 2));
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "math.js"), []byte(
		`export function add(a, b) { return a + b; }`,
	), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "dist")
	buildEntry = filepath.Join(dir, "main.js")
	buildOutput = outDir
	buildConfigPath = ""
	buildNoProgress = true
	buildMaxConcurrency = 0
	defer func() {
		buildEntry, buildOutput, buildConfigPath = "", "", ""
		buildNoProgress, buildMaxConcurrency = false, 0
	}()

	if err := runBuild(buildCmd(), nil); err != nil {
		t.Fatalf("runBuild: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "main.js")); err != nil {
		t.Errorf("expected main.js to be written: %v", err)
	}
}

func TestRunDeps_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte(
		`import { add } from "./math.js";`,
	), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "math.js"), []byte(
		`export function add(a, b) { return a + b; }`,
	), 0o644); err != nil {
		t.Fatal(err)
	}

	depsEntry = filepath.Join(dir, "main.js")
	depsOutputFormat = "text"
	depsOutputPath = ""
	defer func() {
		depsEntry, depsOutputFormat, depsOutputPath = "", "text", ""
	}()

	var buf bytes.Buffer
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	err := runDeps(depsCmd(), nil)
	w.Close()
	os.Stdout = old
	if err != nil {
		t.Fatalf("runDeps: %v", err)
	}
	buf.ReadFrom(r)
	if !bytes.Contains(buf.Bytes(), []byte("./main.js")) {
		t.Errorf("expected report to mention entry module, got:\n%s", buf.String())
	}
}

func TestExitCodeFor(t *testing.T) {
	cases := map[string]int{
		domain.ErrCodeUsage:             64,
		domain.ErrCodeEntryMissing:      66,
		domain.ErrCodeUnresolvedModule:  67,
		domain.ErrCodeBareSpecifier:     67,
		domain.ErrCodeParseError:        65,
		domain.ErrCodeInternalInvariant: 70,
		"UNKNOWN":                      1,
	}
	for code, want := range cases {
		if got := exitCodeFor(code); got != want {
			t.Errorf("exitCodeFor(%s) = %d, want %d", code, got, want)
		}
	}
}
