package retrieval

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aman-cerp/semindex/internal/query"
	"github.com/aman-cerp/semindex/internal/store"
)

// metadataImportedSymbolsKey is the Chunk.Metadata key the indexer stores a
// JSON-encoded []string of imported symbol names under.
const metadataImportedSymbolsKey = "imported_symbols"

// Options bundles the per-query knobs for Search beyond scope.
type Options struct {
	Vector         VectorOptions
	Import         ImportOptions
	DedupThreshold float64
	TokenBudget    int
}

// Search runs the full retrieval pipeline (§4.11-§4.16): classify and embed
// the query, resolve scope, run the two-level vector retriever, resolve
// symbols and expand imports, enrich with API context, deduplicate, and
// assemble a token-budgeted SearchResult.
func Search(ctx context.Context, s *store.Store, qp *query.Processor, scopeIn ScopeInput, queryText string, opts Options) (SearchResult, error) {
	start := time.Now()

	processed, err := qp.Process(ctx, queryText)
	if err != nil {
		return SearchResult{}, err
	}

	scope, err := ResolveScope(ctx, s, scopeIn)
	if err != nil {
		return SearchResult{}, err
	}

	files, chunkMatches, err := SearchVectors(ctx, s, processed.Vector, scope, opts.Vector)
	if err != nil {
		return SearchResult{}, err
	}
	if len(files) == 0 {
		return SearchResult{
			QueryEmbedding: QueryEmbedding{Text: queryText, Type: string(processed.Classification), Dim: len(processed.Vector)},
			Metadata:       ResultMetadata{QueryTimeMS: time.Since(start).Milliseconds()},
		}, nil
	}

	locations, duplicateOf := Dedup(chunkMatches, opts.DedupThreshold)

	repoID := ""
	if len(scope.RepoIDs) > 0 {
		repoID = scope.RepoIDs[0]
	} else if len(files) > 0 {
		repoID = files[0].RepoID
	}

	roots := make([]string, 0, len(files))
	for _, f := range files {
		roots = append(roots, f.FilePath)
	}

	var imports []ImportChain
	if len(chunkMatches) > 0 {
		imports, err = ExpandImports(ctx, s, repoID, roots, opts.Import)
		if err != nil {
			return SearchResult{}, err
		}
	}

	symbolNames := collectImportedSymbolNames(locations)
	symbols, err := ResolveSymbols(ctx, s, scope, symbolNames)
	if err != nil {
		return SearchResult{}, err
	}

	chunks := make([]store.Chunk, len(locations))
	for i, l := range locations {
		chunks[i] = l.Chunk
	}
	services, err := servicesForScope(ctx, s, scope)
	if err != nil {
		return SearchResult{}, err
	}
	apiCtx := EnrichAPI(chunks, services, scope)

	trimmedLocations, trimmedImports, totalTokens, partial := EnforceTokenBudget(locations, imports, opts.TokenBudget)

	var warnings []Warning
	warnings = append(warnings, apiWarnings(apiCtx.Warnings)...)
	if partial {
		warnings = append(warnings, Warning{Kind: "partial_results", Message: "token budget exceeded; lowest-similarity chunks and deepest import chains were dropped"})
	}

	maxDepth := 0
	for _, c := range trimmedImports {
		if len(c.Chain) > maxDepth {
			maxDepth = len(c.Chain)
		}
	}

	return SearchResult{
		QueryEmbedding: QueryEmbedding{Text: queryText, Type: string(processed.Classification), Dim: len(processed.Vector)},
		RelevantFiles:  files,
		CodeLocations:  trimmedLocations,
		Symbols:        symbols,
		Imports:        trimmedImports,
		APIContext:     apiCtx,
		Metadata: ResultMetadata{
			FilesRetrieved:     len(files),
			ChunksRetrieved:    len(chunkMatches),
			ChunksAfterDedup:   len(locations),
			SymbolsResolved:    len(symbols),
			ImportDepthReached: maxDepth,
			TotalTokens:        totalTokens,
			QueryTimeMS:        time.Since(start).Milliseconds(),
		},
		Warnings:    warnings,
		DuplicateOf: duplicateOf,
	}, nil
}

func collectImportedSymbolNames(locations []CodeLocation) []string {
	var names []string
	for _, l := range locations {
		raw, ok := l.Chunk.Metadata[metadataImportedSymbolsKey]
		if !ok || raw == "" {
			continue
		}
		var fromChunk []string
		if err := json.Unmarshal([]byte(raw), &fromChunk); err != nil {
			continue
		}
		names = append(names, fromChunk...)
	}
	return names
}

func servicesForScope(ctx context.Context, s *store.Store, scope Scope) ([]store.Service, error) {
	var out []store.Service
	for _, repoID := range scope.RepoIDs {
		svcs, err := s.ServicesByRepo(ctx, repoID)
		if err != nil {
			return nil, err
		}
		out = append(out, svcs...)
	}
	return out, nil
}

func apiWarnings(msgs []string) []Warning {
	out := make([]Warning, len(msgs))
	for i, m := range msgs {
		out[i] = Warning{Kind: "api_enrichment", Message: m}
	}
	return out
}
