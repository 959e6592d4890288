// Package resolver maps a relative specifier and a referrer directory to an
// absolute file path (spec.md §4.1). Grounded on
// internal/analyzer/dependency_graph.go's candidate-extension-list
// resolution, generalized from "best-effort id guess" to an authoritative,
// filesystem-backed resolution that fails loudly when nothing matches.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
)

// candidateSuffixes are tried, in order, against the specifier joined to the
// referrer directory.
var candidateSuffixes = []string{"", ".js", ".json", "/index.js"}

// Resolve resolves specifier relative to fromDir. Only specifiers beginning
// with "." are accepted.
func Resolve(specifier, fromDir string) (string, error) {
	if !strings.HasPrefix(specifier, ".") {
		return "", domain.NewBareSpecifierError(fromDir, specifier)
	}

	base := filepath.Clean(filepath.Join(fromDir, specifier))

	candidates := make([]string, 0, len(candidateSuffixes))
	for _, suffix := range candidateSuffixes {
		candidate := base + suffix
		candidates = append(candidates, candidate)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	return "", domain.NewUnresolvedModuleError(fromDir, specifier, candidates)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
