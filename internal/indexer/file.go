package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aman-cerp/semindex/internal/chunk"
	"github.com/aman-cerp/semindex/internal/embed"
	"github.com/aman-cerp/semindex/internal/incremental"
	"github.com/aman-cerp/semindex/internal/metadata"
	"github.com/aman-cerp/semindex/internal/store"
)

// fileOutcome is one file's result from the concurrent processing stage.
type fileOutcome struct {
	path     string
	chunks   int
	symbols  int
	warnings []string
	err      error
}

// processFile runs one file through parse/chunk, metadata extraction,
// summarization, embedding, and persistence, committing its hash only after
// chunks and symbols have landed (§4.8).
func (ix *Indexer) processFile(ctx context.Context, repoID, path string, data []byte, language string, prevHash string, owners pathOwnership, opts Options) fileOutcome {
	newHash := incremental.HashContent(data)

	workspaceID, packageName := owners.workspaceFor(path)
	serviceID, _ := owners.serviceFor(path)

	chunker := ix.codeChunker
	if language == "markdown" {
		chunker = ix.markdownChunker
	}

	input := &chunk.FileInput{Path: path, Content: data, Language: language}

	var (
		rawChunks []*chunk.Chunk
		warnings  []string
	)
	if cc, ok := chunker.(*chunk.CodeChunker); ok {
		result, err := cc.CreateChunks(ctx, input)
		if err != nil {
			return fileOutcome{path: path, err: err}
		}
		if result != nil {
			rawChunks = result.Chunks
			warnings = result.Warnings
		}
	} else {
		chunks, err := chunker.Chunk(ctx, input)
		if err != nil {
			return fileOutcome{path: path, err: err}
		}
		rawChunks = chunks
	}

	text := string(data)
	imports := metadata.ExtractImportPaths(language, text)
	exports := metadata.ExtractExports(language, text)

	summary := ix.summarizer.Summarize(ctx, path, text, language)

	file := store.File{
		RepoID:      repoID,
		FilePath:    path,
		Language:    language,
		LineCount:   countLines(data),
		FileHash:    prevHash, // committed last via CommitFileHash (§4.8)
		FileSummary: summary.Text,
		Exports:     exports,
		Imports:     imports,
		WorkspaceID: workspaceID,
		PackageName: packageName,
		ServiceID:   serviceID,
	}
	if err := ix.store.UpsertFile(ctx, file); err != nil {
		return fileOutcome{path: path, err: err}
	}

	if len(rawChunks) == 0 {
		if err := incremental.CommitFileHash(ctx, ix.store, repoID, path, newHash); err != nil {
			return fileOutcome{path: path, err: err}
		}
		return fileOutcome{path: path, warnings: warnings}
	}

	storeChunks, storeSymbols, chunkWarnings, err := ix.buildChunksAndSymbols(ctx, repoID, path, language, workspaceID, packageName, serviceID, rawChunks, summary.Text, exports, opts)
	if err != nil {
		return fileOutcome{path: path, err: err}
	}
	warnings = append(warnings, chunkWarnings...)

	if err := ix.store.InsertChunks(ctx, storeChunks); err != nil {
		return fileOutcome{path: path, err: err}
	}
	if err := ix.store.InsertSymbols(ctx, storeSymbols); err != nil {
		return fileOutcome{path: path, err: err}
	}

	if err := incremental.CommitFileHash(ctx, ix.store, repoID, path, newHash); err != nil {
		return fileOutcome{path: path, err: err}
	}

	return fileOutcome{path: path, chunks: len(storeChunks), symbols: len(storeSymbols), warnings: warnings}
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	return strings.Count(string(data), "\n") + 1
}

// buildChunksAndSymbols converts chunker output into store rows: embeds
// every chunk (enhanced with the file summary and its own symbol names),
// attaches per-chunk metadata (imports, endpoints, complexity flags), and
// resolves every chunk symbol into a store.Symbol carrying its chunk's
// embedding.
func (ix *Indexer) buildChunksAndSymbols(
	ctx context.Context,
	repoID, path, language, workspaceID, packageName, serviceID string,
	chunks []*chunk.Chunk,
	fileSummary string,
	fileExports []string,
	opts Options,
) ([]store.Chunk, []store.Symbol, []string, error) {
	var warnings []string

	inputs := make([]embed.ChunkInput, len(chunks))
	for i, c := range chunks {
		inputs[i] = embed.ChunkInput{
			ID:            c.ID,
			Content:       c.Content,
			FunctionNames: symbolNames(c.Symbols, chunk.SymbolTypeFunction, chunk.SymbolTypeMethod),
			ClassNames:    symbolNames(c.Symbols, chunk.SymbolTypeClass),
		}
	}

	concurrency := opts.BatchConcurrency
	if concurrency <= 0 {
		concurrency = embed.DefaultBatchConcurrency
	}
	embeddings, err := ix.embedder.EmbedBatch(ctx, inputs, concurrency, fileSummary)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("embed chunks: %w", err)
	}
	vectorByID := make(map[string][]float32, len(embeddings))
	for _, e := range embeddings {
		if e.Err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: embedding failed for chunk %s: %v", path, e.ChunkID, e.Err))
			continue
		}
		vectorByID[e.ChunkID] = e.Vector
	}

	storeChunks := make([]store.Chunk, 0, len(chunks))
	var storeSymbols []store.Symbol

	for _, c := range chunks {
		flagsAsync, flagsLoops, flagsConditionals := metadata.ExtractFlags(c.Content)
		chunkImports := metadata.ExtractImportPaths(language, c.Content)
		internal := metadata.ClassifyImportInternality(chunkImports, opts.WorkspacePatterns)

		meta := map[string]string{
			"language":         language,
			"has_async":        boolString(flagsAsync),
			"has_loops":        boolString(flagsLoops),
			"has_conditionals": boolString(flagsConditionals),
		}
		if internal != nil {
			meta["is_internal_import"] = boolString(*internal)
		}
		if len(chunkImports) > 0 {
			if raw, err := json.Marshal(chunkImports); err == nil {
				meta["imported_symbols"] = string(raw)
			}
		}
		if opts.EnableAPIEndpointDetection {
			endpoints := metadata.ExtractEndpoints(c.Content)
			if len(endpoints) > 0 {
				if raw, err := json.Marshal(endpoints); err == nil {
					meta["api_endpoints"] = string(raw)
				}
			}
		}

		storeChunks = append(storeChunks, store.Chunk{
			ChunkID:     c.ID,
			FilePath:    path,
			RepoID:      repoID,
			ChunkType:   store.ChunkType(c.Kind),
			StartLine:   c.StartLine,
			EndLine:     c.EndLine,
			Content:     c.Content,
			TokenCount:  c.TokenCount,
			Metadata:    meta,
			Embedding:   vectorByID[c.ID],
			WorkspaceID: workspaceID,
			PackageName: packageName,
			ServiceID:   serviceID,
		})

		for _, sym := range c.Symbols {
			def := metadata.BuildDefinition(sym, c.RawContent)
			scope := metadata.ResolveScope(sym.Name, fileExports)

			var symEmbedding []float32
			if vec, ok := vectorByID[c.ID]; ok {
				symEmbedding = vec
			}

			storeSymbols = append(storeSymbols, store.Symbol{
				SymbolID:   uuid.NewString(),
				SymbolName: sym.Name,
				SymbolType: store.SymbolType(sym.Type),
				FilePath:   path,
				RepoID:     repoID,
				LineNumber: sym.StartLine,
				Definition: def,
				Embedding:  symEmbedding,
				Scope:      scope,
			})
		}
	}

	return storeChunks, storeSymbols, warnings, nil
}

func symbolNames(symbols []*chunk.Symbol, types ...chunk.SymbolType) []string {
	want := make(map[chunk.SymbolType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var names []string
	for _, s := range symbols {
		if want[s.Type] {
			names = append(names, s.Name)
		}
	}
	return names
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
