// Package graph builds the module graph by following relative static and
// literal-dynamic imports out from an entry file (spec.md §4.3). Grounded on
// internal/analyzer/dependency_graph.go's BuildGraph traversal and
// internal/analyzer/circular_detector.go's visited-set BFS, adapted from
// "walk pre-parsed ASTs" to "parse on first encounter, resolve, enqueue".
package graph

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/parser"
	"github.com/ludo-technologies/bundler/internal/resolver"
)

// Build reads entryPath and every module reachable from it via relative
// static or literal-dynamic imports, returning the populated module graph.
func Build(entryPath string) (*domain.ModuleGraph, error) {
	entryAbs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, domain.NewEntryMissingError(entryPath, err)
	}
	entryAbs = filepath.Clean(entryAbs)
	if _, err := os.Stat(entryAbs); err != nil {
		return nil, domain.NewEntryMissingError(entryPath, err)
	}

	root := filepath.Dir(entryAbs)
	p := parser.NewParser()
	defer p.Close()

	g := domain.NewModuleGraph()
	g.EntryPath = entryAbs

	queue := []string{entryAbs}
	queued := map[string]bool{entryAbs: true}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		module, err := loadModule(p, root, path)
		if err != nil {
			return nil, err
		}
		g.Add(module)

		dir := filepath.Dir(path)

		for i := range module.Imports {
			resolved, err := resolver.Resolve(module.Imports[i].RawSpecifier, dir)
			if err != nil {
				return nil, err
			}
			module.Imports[i].ResolvedPath = resolved
			if !queued[resolved] {
				queued[resolved] = true
				queue = append(queue, resolved)
			}
		}

		for i := range module.DynamicImports {
			if !module.DynamicImports[i].IsStatic {
				continue
			}
			resolved, err := resolver.Resolve(module.DynamicImports[i].Specifier, dir)
			if err != nil {
				return nil, err
			}
			module.DynamicImports[i].ResolvedPath = resolved
			if !queued[resolved] {
				queued[resolved] = true
				queue = append(queue, resolved)
			}
		}
	}

	return g, nil
}

func loadModule(p *parser.Parser, root, absolutePath string) (*domain.Module, error) {
	source, err := os.ReadFile(absolutePath)
	if err != nil {
		return nil, domain.NewEntryMissingError(absolutePath, err)
	}

	extracted, err := p.ParseFile(absolutePath, source)
	if err != nil {
		return nil, domain.NewParseError(absolutePath, err)
	}

	return &domain.Module{
		AbsolutePath:     absolutePath,
		ModuleID:         moduleID(root, absolutePath),
		Source:           source,
		Imports:          extracted.Imports,
		NamedExports:     extracted.NamedExports,
		DefaultExport:    extracted.DefaultExport,
		DynamicImports:   extracted.DynamicImports,
		ImportedBindings: extracted.ImportedBindings,
	}, nil
}

// moduleID derives the project-relative, POSIX-style, "./"-prefixed id used
// as the registry key (spec.md §3).
func moduleID(root, absolutePath string) string {
	rel, err := filepath.Rel(root, absolutePath)
	if err != nil {
		rel = absolutePath
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}
