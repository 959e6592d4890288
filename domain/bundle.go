package domain

// BuildRequest is the input to a full bundler run (spec.md §6).
type BuildRequest struct {
	EntryPath      string // absolute or cwd-relative path to the entry file
	OutputDir      string
	PublicPath     string // URL prefix for chunk loads, default ""
	ProgressEnabled bool
	MaxConcurrency int // bound on concurrent chunk writes, 0 = default
}

// OutputFile is one emitted bundle file, ready to be written to OutputDir.
type OutputFile struct {
	Name     string // e.g. "main.js" or "src_feature-a_js.js"
	Contents string
}

// BuildResponse is the result of a full bundler run.
type BuildResponse struct {
	Files []OutputFile
	Plan  ChunkPlan
	Graph *ModuleGraph
}
