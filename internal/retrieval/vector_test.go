package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorOptions_WithDefaults(t *testing.T) {
	opts := VectorOptions{}.withDefaults()
	assert.Equal(t, 15, opts.MaxFiles)
	assert.Equal(t, 25, opts.MaxSnippets)
	assert.Equal(t, 0.5, opts.SimilarityThreshold)
	assert.Equal(t, 0.75, opts.ChunkThreshold)
}

func TestVectorOptions_WithDefaults_PreservesSetValues(t *testing.T) {
	opts := VectorOptions{MaxFiles: 5, MaxSnippets: 10, SimilarityThreshold: 0.6, ChunkThreshold: 0.8}.withDefaults()
	assert.Equal(t, 5, opts.MaxFiles)
	assert.Equal(t, 10, opts.MaxSnippets)
	assert.Equal(t, 0.6, opts.SimilarityThreshold)
	assert.Equal(t, 0.8, opts.ChunkThreshold)
}
