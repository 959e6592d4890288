// Package transformer rewrites one module's original source into the body
// of its factory function (spec.md §4.5). New relative to the teacher,
// which only reads ASTs and never rewrites source; grounded directly on
// spec.md §9's own design note ("represent edits as an ordered buffer of
// (start, end, replacement) records over an immutable source slice; apply
// in reverse").
package transformer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
)

// edit is one (start, end, replacement) patch over the original source.
type edit struct {
	start, end  int
	replacement string
}

// PatchBuffer accumulates edits over an immutable source slice and applies
// them in one pass. Edits must not overlap; overlap is a transformer bug
// (spec.md §4.5 "Ordering and tie-breaks").
type PatchBuffer struct {
	source []byte
	edits  []edit
	seen   map[domain.Range]bool
}

// NewPatchBuffer creates an empty buffer over source.
func NewPatchBuffer(source []byte) *PatchBuffer {
	return &PatchBuffer{source: source, seen: map[domain.Range]bool{}}
}

// Delete removes the byte range [r.Start, r.End). Safe to call more than
// once with the same range (e.g. several export specifiers sharing one
// statement range, spec.md §9); only the first call has any effect.
func (b *PatchBuffer) Delete(r domain.Range) {
	b.Replace(r, "")
}

// Replace overwrites the byte range [r.Start, r.End) with replacement.
// Duplicate calls with an identical range are deduplicated rather than
// treated as an overlap.
func (b *PatchBuffer) Replace(r domain.Range, replacement string) {
	if b.seen[r] {
		return
	}
	b.seen[r] = true
	b.edits = append(b.edits, edit{start: r.Start, end: r.End, replacement: replacement})
}

// Apply produces the patched source. Edits are logically applied in
// descending-offset order (spec.md §4.5) so that earlier offsets stay
// valid; here that is realized as a single ascending pass over a builder,
// which has the same effect without repeated slice splicing.
func (b *PatchBuffer) Apply() (string, error) {
	edits := append([]edit(nil), b.edits...)
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	for i := 1; i < len(edits); i++ {
		if edits[i].start < edits[i-1].end {
			return "", domain.NewInternalInvariantError("patchbuffer", fmt.Sprintf(
				"overlapping edits at [%d,%d) and [%d,%d)",
				edits[i-1].start, edits[i-1].end, edits[i].start, edits[i].end,
			))
		}
	}

	var out strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.start < cursor || e.end > len(b.source) {
			return "", domain.NewInternalInvariantError("patchbuffer", fmt.Sprintf(
				"edit [%d,%d) out of bounds (source length %d, cursor %d)", e.start, e.end, len(b.source), cursor,
			))
		}
		out.Write(b.source[cursor:e.start])
		out.WriteString(e.replacement)
		cursor = e.end
	}
	out.Write(b.source[cursor:])
	return out.String(), nil
}
