package domain

// ModuleGraph is the path-keyed set of modules reached by BFS from the
// entry (spec.md §4.3). Grounded on dependency_graph.go's node map idiom.
type ModuleGraph struct {
	EntryPath string
	Modules   map[string]*Module // keyed by AbsolutePath
	Order     []string           // BFS discovery order, absolute paths
}

// NewModuleGraph creates an empty graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{Modules: make(map[string]*Module)}
}

// Add registers a module the first time its path is encountered. It is a
// no-op if the path is already present (BFS never mutates a visited node).
func (g *ModuleGraph) Add(m *Module) {
	if _, ok := g.Modules[m.AbsolutePath]; ok {
		return
	}
	g.Modules[m.AbsolutePath] = m
	g.Order = append(g.Order, m.AbsolutePath)
}

// Get looks up a module by absolute path.
func (g *ModuleGraph) Get(absolutePath string) (*Module, bool) {
	m, ok := g.Modules[absolutePath]
	return m, ok
}

// Entry returns the entry module.
func (g *ModuleGraph) Entry() *Module {
	return g.Modules[g.EntryPath]
}
