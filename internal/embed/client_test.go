package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeModelHost(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed":
			var req embedRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			vec := make([]float32, dims)
			for i := range vec {
				vec[i] = 0.1
			}
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: vec})
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewClient_DetectsDimensions(t *testing.T) {
	srv := fakeModelHost(t, 384)
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{Host: srv.URL, Model: "test-model"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 384, c.Dimensions())
}

func TestClient_Embed_BuildsEnhancedTextAndValidatesDimension(t *testing.T) {
	srv := fakeModelHost(t, 8)
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{Host: srv.URL, Model: "test-model", Dimensions: 8})
	require.NoError(t, err)
	defer c.Close()

	chunk := ChunkInput{ID: "c1", Content: "func Foo() {}", FunctionNames: []string{"Foo"}}
	result, err := c.Embed(context.Background(), chunk, "This file contains utilities.")
	require.NoError(t, err)
	assert.Equal(t, 8, result.Dimension)
	assert.Contains(t, result.EnhancedText, "This file contains utilities.")
	assert.Contains(t, result.EnhancedText, "func Foo() {}")
	assert.Contains(t, result.EnhancedText, "Symbols: Foo")
}

func TestClient_Embed_DimensionMismatchReturnsVectorDimensionError(t *testing.T) {
	srv := fakeModelHost(t, 4) // host returns 4 dims but client configured for 8
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{Host: srv.URL, Model: "test-model", Dimensions: 8})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Embed(context.Background(), ChunkInput{ID: "c1", Content: "x"}, "")
	require.Error(t, err)
}

func TestClient_EmbedBatch_ReturnsResultForEveryItem(t *testing.T) {
	srv := fakeModelHost(t, 4)
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{Host: srv.URL, Model: "test-model", Dimensions: 4, MaxRetries: 1})
	require.NoError(t, err)
	defer c.Close()

	chunks := []ChunkInput{
		{ID: "a", Content: "alpha"},
		{ID: "b", Content: "beta"},
		{ID: "c", Content: "gamma"},
	}

	results, err := c.EmbedBatch(context.Background(), chunks, 2, "")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Len(t, r.Vector, 4)
	}
}

func TestClient_Available(t *testing.T) {
	srv := fakeModelHost(t, 4)
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{Host: srv.URL, Model: "test-model", Dimensions: 4})
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Available(context.Background()))
}

func TestBuildEnhancedText_OmitsAbsentSegments(t *testing.T) {
	text := buildEnhancedText(ChunkInput{Content: "body"}, "")
	assert.Equal(t, "body", text)
}

func TestClient_NewClient_UnreachableHostReturnsError(t *testing.T) {
	_, err := NewClient(context.Background(), Config{
		Host:           "http://127.0.0.1:1",
		Model:          "test-model",
		RequestTimeout: 200 * time.Millisecond,
		MaxRetries:     1,
	})
	require.Error(t, err)
}
