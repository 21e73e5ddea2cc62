package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/semindex/internal/embed"
)

func TestClassify_ErrorCode(t *testing.T) {
	assert.Equal(t, ClassificationCodeSnippet, Classify("ERR_CONNECTION_REFUSED"))
}

func TestClassify_CamelCaseIdentifier(t *testing.T) {
	assert.Equal(t, ClassificationCodeSnippet, Classify("getUserById"))
}

func TestClassify_FilePath(t *testing.T) {
	assert.Equal(t, ClassificationCodeSnippet, Classify("src/auth/handler.go"))
}

func TestClassify_QuotedPhrase(t *testing.T) {
	assert.Equal(t, ClassificationCodeSnippet, Classify(`"exact match"`))
}

func TestClassify_Punctuation(t *testing.T) {
	assert.Equal(t, ClassificationCodeSnippet, Classify("handler.go:42 func(ctx context.Context)"))
}

func TestClassify_NaturalLanguage(t *testing.T) {
	assert.Equal(t, ClassificationNaturalLanguage, Classify("how does authentication work"))
	assert.Equal(t, ClassificationNaturalLanguage, Classify("explain the retrieval pipeline"))
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c, err := NewCache(10, time.Minute)
	require.NoError(t, err)

	c.Put("getUserById", ClassificationCodeSnippet, []float32{1, 2, 3})
	vec, ok := c.Get("getUserById", ClassificationCodeSnippet)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestCache_MissOnDifferentClassification(t *testing.T) {
	c, err := NewCache(10, time.Minute)
	require.NoError(t, err)

	c.Put("auth", ClassificationCodeSnippet, []float32{1})
	_, ok := c.Get("auth", ClassificationNaturalLanguage)
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c, err := NewCache(10, 1*time.Millisecond)
	require.NoError(t, err)

	c.Put("auth", ClassificationNaturalLanguage, []float32{1})
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("auth", ClassificationNaturalLanguage)
	assert.False(t, ok)
}

type stubEmbedder struct {
	calls int
	vec   []float32
}

func (s *stubEmbedder) Embed(ctx context.Context, chunk embed.ChunkInput, fileSummary string) (embed.ChunkEmbedding, error) {
	return embed.ChunkEmbedding{}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, chunks []embed.ChunkInput, concurrency int, fileSummary string) ([]embed.ChunkEmbedding, error) {
	return nil, nil
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.vec, nil
}

func (s *stubEmbedder) Dimensions() int                { return len(s.vec) }
func (s *stubEmbedder) ModelName() string              { return "stub" }
func (s *stubEmbedder) Available(context.Context) bool { return true }
func (s *stubEmbedder) Close() error                   { return nil }

func TestProcessor_CachesAfterFirstEmbed(t *testing.T) {
	cache, err := NewCache(10, time.Minute)
	require.NoError(t, err)

	embedder := &stubEmbedder{vec: []float32{0.1, 0.2}}
	p := NewProcessor(embedder, cache)

	first, err := p.Process(context.Background(), "how does auth work")
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, embedder.calls)

	second, err := p.Process(context.Background(), "how does auth work")
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, first.Vector, second.Vector)
}
