// Package metadata extracts per-chunk metadata (symbol names, dependency
// module paths, complexity and control-flow flags, import internality, and
// API endpoint descriptors) from already-parsed chunks.
package metadata

import (
	"regexp"
	"strings"
)

// APIType is one of the API contract families the extractor recognizes.
type APIType string

const (
	APITypeREST    APIType = "rest"
	APITypeGraphQL APIType = "graphql"
	APITypeGRPC    APIType = "grpc"
)

// Endpoint describes a single API endpoint found in source text.
type Endpoint struct {
	Method  string
	Path    string
	Line    int
	APIType APIType
}

// ChunkMetadata is the structured metadata attached to a persisted chunk.
type ChunkMetadata struct {
	FunctionNames    []string
	ClassNames       []string
	ImportedSymbols  []string
	ExportedSymbols  []string
	DependencyPaths  []string
	TotalComplexity  int
	HasAsync         bool
	HasLoops         bool
	HasConditionals  bool
	IsInternalImport *bool // nil when the chunk has no imports
	APIEndpoints     []Endpoint
}

var (
	asyncPattern       = regexp.MustCompile(`\b(async|await|goroutine|go\s+func|Task<|Promise<|async def)\b`)
	loopPattern        = regexp.MustCompile(`\b(for|while|foreach|loop)\b`)
	conditionalPattern = regexp.MustCompile(`\b(if|else|switch|case|match|when)\b`)

	relativeImportPattern = regexp.MustCompile(`^\s*['"]?\.{1,2}/`)
	scopedImportPattern   = regexp.MustCompile(`@[\w-]+/`)
)

// ExtractFlags pattern-matches source text for async/loop/conditional usage.
func ExtractFlags(source string) (hasAsync, hasLoops, hasConditionals bool) {
	return asyncPattern.MatchString(source), loopPattern.MatchString(source), conditionalPattern.MatchString(source)
}

// ClassifyImportInternality reports whether any import in the list matches
// a workspace pattern, a relative prefix, or an @-scoped pattern. Returns
// nil if imports is empty (tri-state null per spec).
func ClassifyImportInternality(imports []string, workspacePatterns []string) *bool {
	if len(imports) == 0 {
		return nil
	}

	for _, imp := range imports {
		if relativeImportPattern.MatchString(imp) || scopedImportPattern.MatchString(imp) {
			internal := true
			return &internal
		}
		for _, pattern := range workspacePatterns {
			if pattern != "" && strings.Contains(imp, pattern) {
				internal := true
				return &internal
			}
		}
	}

	external := false
	return &external
}

// DedupNonEmpty removes empty strings and duplicates, preserving first-seen order.
func DedupNonEmpty(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ComplexityFloor enforces the floor-of-1 invariant on summed complexity.
func ComplexityFloor(total int) int {
	if total < 1 {
		return 1
	}
	return total
}
