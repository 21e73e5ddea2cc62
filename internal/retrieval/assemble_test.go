package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aman-cerp/semindex/internal/store"
)

func chunkMatch(id, filePath string, similarity float64, embedding []float32) store.ChunkMatch {
	return store.ChunkMatch{
		Chunk: store.Chunk{
			ChunkID:    id,
			FilePath:   filePath,
			Content:    "content-" + id,
			Embedding:  embedding,
			TokenCount: 10,
		},
		Similarity: similarity,
	}
}

func TestDedup_KeepsHigherScoringOfNearDuplicates(t *testing.T) {
	matches := []store.ChunkMatch{
		chunkMatch("a", "file.go", 0.95, []float32{1, 0, 0}),
		chunkMatch("b", "file.go", 0.80, []float32{1, 0, 0.001}),
	}

	kept, dupOf := Dedup(matches, 0.9)

	assert.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].Chunk.ChunkID)
	assert.Equal(t, "a", dupOf["b"])
}

func TestDedup_KeepsDistinctChunks(t *testing.T) {
	matches := []store.ChunkMatch{
		chunkMatch("a", "file.go", 0.95, []float32{1, 0, 0}),
		chunkMatch("b", "file.go", 0.80, []float32{0, 1, 0}),
	}

	kept, dupOf := Dedup(matches, 0.9)

	assert.Len(t, kept, 2)
	assert.Empty(t, dupOf)
}

func TestDedup_OrdersByDescendingSimilarityThenChunkID(t *testing.T) {
	matches := []store.ChunkMatch{
		chunkMatch("z", "a.go", 0.7, []float32{1, 0}),
		chunkMatch("a", "b.go", 0.9, []float32{0, 1}),
		chunkMatch("m", "c.go", 0.9, []float32{1, 1}),
	}

	kept, _ := Dedup(matches, 0.9)

	assert.Equal(t, []string{"a", "m", "z"}, []string{kept[0].Chunk.ChunkID, kept[1].Chunk.ChunkID, kept[2].Chunk.ChunkID})
}

func TestEnforceTokenBudget_DropsLowestSimilarityFirst(t *testing.T) {
	locs := []CodeLocation{
		{Chunk: store.Chunk{ChunkID: "a", TokenCount: 100}, Similarity: 0.9},
		{Chunk: store.Chunk{ChunkID: "b", TokenCount: 100}, Similarity: 0.5},
	}

	kept, _, total, partial := EnforceTokenBudget(locs, nil, 150)

	assert.True(t, partial)
	assert.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].Chunk.ChunkID)
	assert.Equal(t, 100, total)
}

func TestEnforceTokenBudget_NoTrimWhenWithinBudget(t *testing.T) {
	locs := []CodeLocation{
		{Chunk: store.Chunk{ChunkID: "a", TokenCount: 50}, Similarity: 0.9},
	}

	kept, _, total, partial := EnforceTokenBudget(locs, nil, 1000)

	assert.False(t, partial)
	assert.Len(t, kept, 1)
	assert.Equal(t, 50, total)
}

func TestEnforceTokenBudget_DropsDeepestImportChainAfterChunksExhausted(t *testing.T) {
	chains := []ImportChain{
		{Root: "a.go", Chain: []string{"a.go", "b.go"}},
		{Root: "a.go", Chain: []string{"a.go", "b.go", "c.go", "d.go"}},
	}

	_, kept, _, partial := EnforceTokenBudget(nil, chains, 3)

	assert.True(t, partial)
	assert.Len(t, kept, 1)
	assert.Equal(t, []string{"a.go", "b.go"}, kept[0].Chain)
}

func TestFilterByRepoIDs_IntersectsAndWarns(t *testing.T) {
	result := SearchResult{
		RelevantFiles: []store.FileMatch{{RepoID: "r1"}, {RepoID: "r2"}},
		CodeLocations: []CodeLocation{{Chunk: store.Chunk{RepoID: "r1"}}, {Chunk: store.Chunk{RepoID: "r2"}}},
	}

	filtered := FilterByRepoIDs(result, []string{"r1"})

	assert.Len(t, filtered.RelevantFiles, 1)
	assert.Len(t, filtered.CodeLocations, 1)
	assert.Len(t, filtered.Warnings, 1)
	assert.Equal(t, "filtered", filtered.Warnings[0].Kind)
}
