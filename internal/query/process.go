package query

import (
	"context"

	"github.com/aman-cerp/semindex/internal/embed"
)

// Processor classifies, embeds, and caches queries.
type Processor struct {
	embedder embed.Embedder
	cache    *Cache
}

// NewProcessor creates a Processor backed by embedder that caches query
// embeddings in the given cache.
func NewProcessor(embedder embed.Embedder, cache *Cache) *Processor {
	return &Processor{embedder: embedder, cache: cache}
}

// Process classifies text and returns its embedding, serving from cache
// when a (text, classification) entry is still live.
func (p *Processor) Process(ctx context.Context, text string) (Processed, error) {
	classification := Classify(text)

	if vec, ok := p.cache.Get(text, classification); ok {
		return Processed{Text: text, Classification: classification, Vector: vec, CacheHit: true}, nil
	}

	vec, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return Processed{}, err
	}

	p.cache.Put(text, classification, vec)
	return Processed{Text: text, Classification: classification, Vector: vec}, nil
}
