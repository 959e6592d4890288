// Package planner computes the chunk plan from a built module graph
// (spec.md §4.4). Grounded on internal/analyzer/grouping_strategy.go's
// group-by-shared-key approach, applied here to grouping shared modules by
// their exact referencing-lazy-chunk set, and on
// internal/analyzer/circular_detector.go's BFS-with-visited-set for the
// static-edge-only traversals.
package planner

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/names"
)

// Plan computes the main/lazy/shared chunks and the chunk-group map for g.
func Plan(g *domain.ModuleGraph) domain.ChunkPlan {
	mainMembers := staticBFS(g, g.EntryPath)
	mainSet := toSet(mainMembers)

	main := domain.Chunk{
		ChunkID:         "main",
		Kind:            domain.ChunkEntry,
		MemberModuleIDs: idsOf(g, mainMembers),
		EntryModuleID:   g.Entry().ModuleID,
	}

	lazyTargets := collectLazyTargets(g)
	lazy := make([]domain.Chunk, 0, len(lazyTargets))
	for _, target := range lazyTargets {
		members := staticBFS(g, target)
		var filtered []string
		for _, path := range members {
			if !mainSet[path] {
				filtered = append(filtered, path)
			}
		}
		lazy = append(lazy, domain.Chunk{
			ChunkID:         names.ChunkID(g.Modules[target].ModuleID),
			Kind:            domain.ChunkLazy,
			MemberModuleIDs: idsOf(g, filtered),
			EntryModuleID:   g.Modules[target].ModuleID,
		})
	}

	shared, lazy, sharedRefs := extractShared(g, lazy)

	groups := buildChunkGroups(lazy, shared, sharedRefs)

	return domain.ChunkPlan{
		Main:        main,
		Lazy:        lazy,
		Shared:      shared,
		ChunkGroups: groups,
	}
}

// staticBFS walks only static import edges starting from startAbsolutePath,
// returning visited absolute paths in discovery order.
func staticBFS(g *domain.ModuleGraph, startAbsolutePath string) []string {
	visited := map[string]bool{startAbsolutePath: true}
	order := []string{startAbsolutePath}
	queue := []string{startAbsolutePath}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		module, ok := g.Get(path)
		if !ok {
			continue
		}
		for _, imp := range module.Imports {
			if imp.ResolvedPath == "" || visited[imp.ResolvedPath] {
				continue
			}
			visited[imp.ResolvedPath] = true
			order = append(order, imp.ResolvedPath)
			queue = append(queue, imp.ResolvedPath)
		}
	}
	return order
}

// collectLazyTargets returns the distinct dynamic-import target paths across
// the whole graph, in first-encounter order (graph BFS order, then per-module
// dynamic-import order).
func collectLazyTargets(g *domain.ModuleGraph) []string {
	seen := map[string]bool{}
	var targets []string
	for _, path := range g.Order {
		module := g.Modules[path]
		for _, di := range module.DynamicImports {
			if !di.IsStatic || di.ResolvedPath == "" {
				continue
			}
			if !seen[di.ResolvedPath] {
				seen[di.ResolvedPath] = true
				targets = append(targets, di.ResolvedPath)
			}
		}
	}
	return targets
}

// extractShared moves every module referenced by two or more lazy chunks
// into shared chunks, grouped by the exact set of lazy chunks referencing
// them, and strips those modules out of the lazy chunks that held them.
func extractShared(g *domain.ModuleGraph, lazy []domain.Chunk) ([]domain.Chunk, []domain.Chunk, map[string][]string) {
	refCount := map[string]int{}
	refChunks := map[string][]string{} // module absolute path -> lazy chunk ids referencing it
	memberIndex := map[string]int{}     // absolute path -> index in g.Order, for deterministic ordering

	for i, path := range g.Order {
		memberIndex[path] = i
	}

	for _, chunk := range lazy {
		for _, moduleID := range chunk.MemberModuleIDs {
			path := pathForModuleID(g, moduleID)
			refCount[path]++
			refChunks[path] = append(refChunks[path], chunk.ChunkID)
		}
	}

	// Group shared paths by their exact reference-set key.
	groupMembers := map[string][]string{}
	var groupOrder []string

	for path, count := range refCount {
		if count < 2 {
			continue
		}
		ids := append([]string(nil), refChunks[path]...)
		sort.Strings(ids)
		key := strings.Join(ids, ",")
		if _, ok := groupMembers[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groupMembers[key] = append(groupMembers[key], path)
	}

	sort.Slice(groupOrder, func(i, j int) bool { return groupOrder[i] < groupOrder[j] })

	var shared []domain.Chunk
	sharedPaths := map[string]bool{}
	sharedRefs := map[string][]string{} // shared chunk id -> referencing lazy chunk ids
	for _, key := range groupOrder {
		members := groupMembers[key]
		sort.Slice(members, func(i, j int) bool {
			return g.Modules[members[i]].ModuleID < g.Modules[members[j]].ModuleID
		})
		first := members[0]
		chunkID := names.SharedChunkID(g.Modules[first].ModuleID)
		chunk := domain.Chunk{
			ChunkID:         chunkID,
			Kind:            domain.ChunkShared,
			MemberModuleIDs: idsOf(g, sortByDiscovery(members, memberIndex)),
		}
		shared = append(shared, chunk)
		sharedRefs[chunkID] = strings.Split(key, ",")
		for _, m := range members {
			sharedPaths[m] = true
		}
	}

	// Strip shared members out of the lazy chunks.
	filteredLazy := make([]domain.Chunk, len(lazy))
	for i, chunk := range lazy {
		var kept []string
		for _, moduleID := range chunk.MemberModuleIDs {
			path := pathForModuleID(g, moduleID)
			if !sharedPaths[path] {
				kept = append(kept, moduleID)
			}
		}
		chunk.MemberModuleIDs = kept
		filteredLazy[i] = chunk
	}

	return shared, filteredLazy, sharedRefs
}

// buildChunkGroups maps each lazy chunk to the ordered list of shared chunks
// (in shared-chunk-id order) plus itself, last.
func buildChunkGroups(lazy, shared []domain.Chunk, sharedRefs map[string][]string) map[string]domain.ChunkGroup {
	sortedShared := append([]domain.Chunk(nil), shared...)
	sort.Slice(sortedShared, func(i, j int) bool { return sortedShared[i].ChunkID < sortedShared[j].ChunkID })

	groups := make(map[string]domain.ChunkGroup, len(lazy))
	for _, chunk := range lazy {
		var ids []string
		for _, s := range sortedShared {
			if containsString(sharedRefs[s.ChunkID], chunk.ChunkID) {
				ids = append(ids, s.ChunkID)
			}
		}
		ids = append(ids, chunk.ChunkID)
		groups[chunk.ChunkID] = domain.ChunkGroup{LazyChunkID: chunk.ChunkID, ChunkIDs: ids}
	}
	return groups
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func idsOf(g *domain.ModuleGraph, paths []string) []string {
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, g.Modules[p].ModuleID)
	}
	return ids
}

func sortByDiscovery(paths []string, index map[string]int) []string {
	out := append([]string(nil), paths...)
	sort.Slice(out, func(i, j int) bool { return index[out[i]] < index[out[j]] })
	return out
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func pathForModuleID(g *domain.ModuleGraph, moduleID string) string {
	for _, path := range g.Order {
		if g.Modules[path].ModuleID == moduleID {
			return path
		}
	}
	return ""
}
