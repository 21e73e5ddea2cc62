// Package indexer wires the walker, incremental engine, chunkers, metadata
// extractors, summarizer, embedder, and store into the end-to-end indexing
// pipeline (C1-C9): scan, detect changes, chunk, enrich, embed, persist, and
// optionally detect workspaces and services.
package indexer

import (
	"fmt"

	"github.com/aman-cerp/semindex/internal/chunk"
	"github.com/aman-cerp/semindex/internal/embed"
	"github.com/aman-cerp/semindex/internal/store"
	"github.com/aman-cerp/semindex/internal/summarize"
)

// Dependencies are the injected collaborators an Indexer needs. All fields
// are required except the chunkers, which default when nil.
type Dependencies struct {
	Store      *store.Store
	Embedder   embed.Embedder
	Summarizer *summarize.Summarizer

	CodeChunker     chunk.Chunker
	MarkdownChunker chunk.Chunker
}

// Indexer executes indexing runs against a fixed set of dependencies. A
// single Indexer is reused across repositories.
type Indexer struct {
	store      *store.Store
	embedder   embed.Embedder
	summarizer *summarize.Summarizer

	codeChunker     chunk.Chunker
	markdownChunker chunk.Chunker
}

// New constructs an Indexer, defaulting the chunkers when not supplied.
func New(deps Dependencies) (*Indexer, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("indexer: store is required")
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("indexer: embedder is required")
	}
	if deps.Summarizer == nil {
		return nil, fmt.Errorf("indexer: summarizer is required")
	}

	codeChunker := deps.CodeChunker
	if codeChunker == nil {
		codeChunker = chunk.NewCodeChunker()
	}
	markdownChunker := deps.MarkdownChunker
	if markdownChunker == nil {
		markdownChunker = chunk.NewMarkdownChunker()
	}

	return &Indexer{
		store:           deps.Store,
		embedder:        deps.Embedder,
		summarizer:      deps.Summarizer,
		codeChunker:     codeChunker,
		markdownChunker: markdownChunker,
	}, nil
}

// closer is satisfied by chunkers that hold tree-sitter parser resources.
type closer interface {
	Close()
}

// Close releases chunker resources.
func (ix *Indexer) Close() {
	if c, ok := ix.codeChunker.(closer); ok {
		c.Close()
	}
	if c, ok := ix.markdownChunker.(closer); ok {
		c.Close()
	}
}
