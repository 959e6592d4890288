package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ludo-technologies/bundler/domain"
)

// DependencyReportFormat selects the dependency/chunk-plan report's shape.
type DependencyReportFormat string

const (
	ReportFormatText DependencyReportFormat = "text"
	ReportFormatJSON DependencyReportFormat = "json"
)

// dependencyReport is the JSON-serializable shape of `bundler deps` output.
// Grounded on domain.DependencyGraphResponse's field naming, scaled down to
// what this bundler's graph/plan actually carry (no coupling metrics, no
// cycle detection — the bundler's graph building fails loudly on cycles'
// dual, unresolved imports, rather than reporting them).
type dependencyReport struct {
	EntryModuleID string           `json:"entry_module_id"`
	Modules       []moduleSummary  `json:"modules"`
	MainChunk     chunkSummary     `json:"main_chunk"`
	LazyChunks    []chunkSummary   `json:"lazy_chunks"`
	SharedChunks  []chunkSummary   `json:"shared_chunks"`
}

type moduleSummary struct {
	ModuleID string   `json:"module_id"`
	Imports  []string `json:"imports"`
}

type chunkSummary struct {
	ChunkID string   `json:"chunk_id"`
	Members []string `json:"members"`
}

// WriteDependencyReport renders graph and plan to w in the given format.
// Grounded on service/output_formatter.go's WriteDependencyGraph branching
// on domain.OutputFormat, trimmed to this bundler's two formats (no DOT —
// see DESIGN.md for why).
func WriteDependencyReport(g *domain.ModuleGraph, plan domain.ChunkPlan, format DependencyReportFormat, w io.Writer) error {
	report := buildReport(g, plan)

	switch format {
	case ReportFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return writeTextReport(report, w)
	}
}

func buildReport(g *domain.ModuleGraph, plan domain.ChunkPlan) dependencyReport {
	var modules []moduleSummary
	for _, path := range g.Order {
		m := g.Modules[path]
		var imports []string
		for _, imp := range m.Imports {
			if target, ok := g.Get(imp.ResolvedPath); ok {
				imports = append(imports, target.ModuleID)
			}
		}
		modules = append(modules, moduleSummary{ModuleID: m.ModuleID, Imports: imports})
	}

	toSummary := func(c domain.Chunk) chunkSummary {
		return chunkSummary{ChunkID: c.ChunkID, Members: c.MemberModuleIDs}
	}

	lazy := make([]chunkSummary, 0, len(plan.Lazy))
	for _, c := range plan.Lazy {
		lazy = append(lazy, toSummary(c))
	}
	sort.Slice(lazy, func(i, j int) bool { return lazy[i].ChunkID < lazy[j].ChunkID })

	shared := make([]chunkSummary, 0, len(plan.Shared))
	for _, c := range plan.Shared {
		shared = append(shared, toSummary(c))
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].ChunkID < shared[j].ChunkID })

	return dependencyReport{
		EntryModuleID: plan.Main.EntryModuleID,
		Modules:       modules,
		MainChunk:     toSummary(plan.Main),
		LazyChunks:    lazy,
		SharedChunks:  shared,
	}
}

func writeTextReport(r dependencyReport, w io.Writer) error {
	fmt.Fprintf(w, "entry: %s\n\n", r.EntryModuleID)

	fmt.Fprintf(w, "modules (%d):\n", len(r.Modules))
	for _, m := range r.Modules {
		fmt.Fprintf(w, "  %s\n", m.ModuleID)
		for _, imp := range m.Imports {
			fmt.Fprintf(w, "    -> %s\n", imp)
		}
	}

	fmt.Fprintf(w, "\nmain chunk (%d members):\n", len(r.MainChunk.Members))
	for _, id := range r.MainChunk.Members {
		fmt.Fprintf(w, "  %s\n", id)
	}

	if len(r.LazyChunks) > 0 {
		fmt.Fprintf(w, "\nlazy chunks (%d):\n", len(r.LazyChunks))
		for _, c := range r.LazyChunks {
			fmt.Fprintf(w, "  %s (%d members):\n", c.ChunkID, len(c.Members))
			for _, id := range c.Members {
				fmt.Fprintf(w, "    %s\n", id)
			}
		}
	}

	if len(r.SharedChunks) > 0 {
		fmt.Fprintf(w, "\nshared chunks (%d):\n", len(r.SharedChunks))
		for _, c := range r.SharedChunks {
			fmt.Fprintf(w, "  %s (%d members):\n", c.ChunkID, len(c.Members))
			for _, id := range c.Members {
				fmt.Fprintf(w, "    %s\n", id)
			}
		}
	}

	return nil
}
