// Package names derives the deterministic identifiers the bundler uses for
// chunks and per-import loader variables (spec.md §3, §4.5). Centralized
// here so the planner (chunk ids) and the transformer (loader variable
// names) can't drift apart on the derivation rules.
package names

import "strings"

// ChunkID derives a chunk id from a module id: strip the leading "./",
// replace path separators and dots with "_", preserving a trailing "_js"
// (e.g. "./src/feature-a.js" -> "src_feature-a_js").
func ChunkID(moduleID string) string {
	id := strings.TrimPrefix(moduleID, "./")
	id = strings.ReplaceAll(id, "/", "_")
	id = strings.ReplaceAll(id, ".", "_")
	return id
}

// SharedChunkID derives a shared chunk's id: "shared_" plus the derived id
// of its lexicographically-first member.
func SharedChunkID(firstMemberModuleID string) string {
	return "shared_" + ChunkID(firstMemberModuleID)
}

// VarName derives the per-import-source loader variable name: strip the
// leading "./", trim a trailing ".js", replace every non-alphanumeric with
// "_", and wrap the result in leading/trailing underscores. Derived from the
// resolved module id rather than the raw specifier text, so two different
// spellings that resolve to the same file (e.g. "./math" and "./math.js")
// still share one loader variable.
func VarName(moduleID string) string {
	s := strings.TrimPrefix(moduleID, "./")
	s = strings.TrimSuffix(s, ".js")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return "_" + b.String() + "_"
}
