package retrieval

import (
	"context"

	"github.com/aman-cerp/semindex/internal/store"
)

// SearchVectors runs the two-level vector retriever (§4.13): Stage A
// searches file-summary embeddings within scope; Stage B searches chunk
// embeddings restricted to the files Stage A returned. Either stage
// returning empty short-circuits with the files found so far.
func SearchVectors(ctx context.Context, s *store.Store, queryVec []float32, scope Scope, opts VectorOptions) ([]store.FileMatch, []store.ChunkMatch, error) {
	opts = opts.withDefaults()

	files, err := s.SearchFiles(ctx, queryVec, scope.RepoIDs, opts.MaxFiles, opts.SimilarityThreshold)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, nil
	}

	filePaths := make([]string, len(files))
	for i, f := range files {
		filePaths[i] = f.FilePath
	}

	chunks, err := s.SearchChunks(ctx, queryVec, filePaths, opts.MaxSnippets*4, opts.ChunkThreshold)
	if err != nil {
		return nil, nil, err
	}
	return files, chunks, nil
}
