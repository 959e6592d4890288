package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/codegen"
	"github.com/ludo-technologies/bundler/internal/graph"
	"github.com/ludo-technologies/bundler/internal/names"
	"github.com/ludo-technologies/bundler/internal/planner"
	"github.com/ludo-technologies/bundler/internal/transformer"
	"github.com/ludo-technologies/bundler/internal/version"
)

// BundleServiceImpl runs the full pipeline: resolve/parse/graph, plan,
// transform, generate, write. Grounded on
// service/dependency_graph_service.go's Request-in, Response-out shape
// (Analyze here becomes Build), retargeted from a read-only analysis report
// to a pipeline that also writes files.
type BundleServiceImpl struct {
	writer   *ChunkWriter
	progress domain.ProgressManager
}

// NewBundleService creates a bundle service backed by writer for output and
// pm for progress reporting.
func NewBundleService(writer *ChunkWriter, pm domain.ProgressManager) *BundleServiceImpl {
	if pm == nil {
		pm = domain.NoOpProgressManager{}
	}
	return &BundleServiceImpl{writer: writer, progress: pm}
}

// Build runs the pipeline for req and writes every output file to
// req.OutputDir, returning the response (also useful standalone, e.g. for
// `bundler deps`, which calls Plan() directly instead).
func (s *BundleServiceImpl) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildResponse, error) {
	task := s.progress.StartTask("Building module graph", 0)
	g, err := graph.Build(req.EntryPath)
	task.Complete()
	if err != nil {
		return nil, err
	}

	plan := planner.Plan(g)

	moduleIDOf := func(absolutePath string) string {
		if m, ok := g.Get(absolutePath); ok {
			return m.ModuleID
		}
		return absolutePath
	}
	chunkIDOf := func(absolutePath string) string {
		if m, ok := g.Get(absolutePath); ok {
			return names.ChunkID(m.ModuleID)
		}
		return absolutePath
	}

	transformTask := s.progress.StartTask("Transforming modules", len(g.Order))
	factoryBodies := make(map[string]string, len(g.Order))
	for _, path := range g.Order {
		select {
		case <-ctx.Done():
			transformTask.Complete()
			return nil, ctx.Err()
		default:
		}
		m := g.Modules[path]
		body, err := transformer.Transform(m, moduleIDOf, chunkIDOf)
		if err != nil {
			transformTask.Complete()
			return nil, err
		}
		factoryBodies[m.ModuleID] = body
		transformTask.Increment(1)
	}
	transformTask.Complete()

	var files []domain.OutputFile
	files = append(files, domain.OutputFile{
		Name:     "main.js",
		Contents: codegen.Entry(plan, factoryBodies, req.PublicPath),
	})
	for _, chunk := range plan.Lazy {
		files = append(files, domain.OutputFile{
			Name:     chunk.ChunkID + ".js",
			Contents: codegen.Chunk(chunk, factoryBodies),
		})
	}
	for _, chunk := range plan.Shared {
		files = append(files, domain.OutputFile{
			Name:     chunk.ChunkID + ".js",
			Contents: codegen.Chunk(chunk, factoryBodies),
		})
	}

	if s.writer != nil {
		if err := s.writer.Write(ctx, req.OutputDir, files); err != nil {
			return nil, err
		}
	}

	return &domain.BuildResponse{Files: files, Plan: plan, Graph: g}, nil
}

// BuildSummary renders a one-line human summary of a completed build,
// grounded on cmd/jscan/deps.go's post-analysis duration line.
func BuildSummary(resp *domain.BuildResponse, elapsed time.Duration) string {
	return fmt.Sprintf(
		"bundler %s: %d module(s), %d chunk(s) (%d lazy, %d shared), %d file(s) written in %dms",
		version.GetVersion(), len(resp.Graph.Order), 1+len(resp.Plan.Lazy)+len(resp.Plan.Shared),
		len(resp.Plan.Lazy), len(resp.Plan.Shared), len(resp.Files), elapsed.Milliseconds(),
	)
}
