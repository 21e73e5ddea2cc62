// Package embed generates vector embeddings for chunk and file content by
// calling a model host's HTTP embedding API, with retry, batching, and
// dimension validation at every boundary.
package embed

import (
	"context"
	"time"
)

// Default batching and timeout constants.
const (
	DefaultBatchConcurrency   = 5
	DefaultSummaryConcurrency = 3
	DefaultRequestTimeout     = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultDimensions         = 768

	// maxSymbolsTextLen bounds the "Symbols: ..." suffix appended to enhanced text.
	maxSymbolsTextLen = 200
)

// ChunkEmbedding is the result of embedding a single chunk.
type ChunkEmbedding struct {
	ChunkID      string
	Vector       []float32
	Model        string
	Dimension    int
	DurationMS   int64
	EnhancedText string
	Err          error
}

// ChunkInput is the minimal shape the embedder needs from a chunk to build
// enhanced embedding text; callers fill it from a chunk.Chunk.
type ChunkInput struct {
	ID            string
	Content       string
	FunctionNames []string
	ClassNames    []string
}

// Embedder generates vector embeddings for text via a model host.
type Embedder interface {
	// Embed generates an embedding for a single chunk.
	Embed(ctx context.Context, chunk ChunkInput, fileSummary string) (ChunkEmbedding, error)

	// EmbedBatch generates embeddings for multiple chunks with bounded
	// concurrency. A per-item failure is recorded in that item's Err field
	// and does not stop the batch.
	EmbedBatch(ctx context.Context, chunks []ChunkInput, concurrency int, fileSummary string) ([]ChunkEmbedding, error)

	// EmbedText embeds a raw string (used for queries and file summaries).
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier in use.
	ModelName() string

	// Available checks whether the model host is reachable.
	Available(ctx context.Context) bool

	// Close releases client resources.
	Close() error
}

// buildEnhancedText constructs the text handed to the model for embedding:
// file_summary + chunk_content + a truncated symbol list, each segment
// omitted when absent.
func buildEnhancedText(chunk ChunkInput, fileSummary string) string {
	var parts []string
	if fileSummary != "" {
		parts = append(parts, fileSummary)
	}
	parts = append(parts, chunk.Content)

	symbols := dedupSymbols(chunk.FunctionNames, chunk.ClassNames)
	if len(symbols) > 0 {
		list := joinTruncated(symbols, maxSymbolsTextLen)
		parts = append(parts, "Symbols: "+list)
	}

	return joinNonEmpty(parts, "\n\n")
}

func dedupSymbols(functionNames, classNames []string) []string {
	seen := make(map[string]bool, len(functionNames)+len(classNames))
	var out []string
	for _, n := range functionNames {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range classNames {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func joinTruncated(items []string, maxLen int) string {
	joined := ""
	for i, item := range items {
		sep := ""
		if i > 0 {
			sep = ", "
		}
		if len(joined)+len(sep)+len(item) > maxLen {
			if len(joined) == 0 {
				return item[:min(len(item), maxLen)]
			}
			return joined
		}
		joined += sep + item
	}
	return joined
}

func joinNonEmpty(parts []string, sep string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out == "" {
			out = p
		} else {
			out += sep + p
		}
	}
	return out
}

