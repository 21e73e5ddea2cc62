package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// Config configures the model-host embedding client.
type Config struct {
	// Host is the model host's base URL (e.g. http://localhost:8000).
	Host string

	// Model is the embedding model identifier.
	Model string

	// SummaryModel is the text-generation model used by the rule-based
	// summarizer's model-backed path (internal/summarize).
	SummaryModel string

	// Dimensions overrides auto-detection when non-zero.
	Dimensions int

	// BatchConcurrency bounds in-flight embed calls per EmbedBatch round.
	BatchConcurrency int

	// RequestTimeout bounds each HTTP call.
	RequestTimeout time.Duration

	// MaxRetries bounds retry attempts before a call surfaces as an error.
	MaxRetries int

	// SkipHealthCheck skips the startup dimension-detection call (for tests).
	SkipHealthCheck bool
}

// Client is the generic HTTP/JSON embedding client for a model host exposing
// a single-text /embed endpoint; batches are issued as rounds of /embed calls.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport
	cfg        Config
	dims       int

	mu     sync.RWMutex
	closed bool
}

var _ Embedder = (*Client)(nil)

// NewClient creates a model-host embedding client, auto-detecting dimensions
// from a probe call unless cfg.Dimensions is set or SkipHealthCheck is true.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, amanerrors.ConfigError("embeddings.host is required", nil)
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = DefaultBatchConcurrency
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.BatchConcurrency * 2,
		MaxIdleConnsPerHost: cfg.BatchConcurrency * 2,
		MaxConnsPerHost:     cfg.BatchConcurrency * 4,
		IdleConnTimeout:     10 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{Transport: transport},
		transport:  transport,
		cfg:        cfg,
		dims:       cfg.Dimensions,
	}

	if !cfg.SkipHealthCheck {
		checkCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()

		if cfg.Dimensions == 0 {
			vec, err := c.doEmbed(checkCtx, "dimension probe")
			if err != nil {
				transport.CloseIdleConnections()
				return nil, amanerrors.ExternalDependencyError(
					"EMBED_HOST_UNREACHABLE",
					"failed to reach model host for dimension detection",
					"verify embeddings.host is running and reachable",
					err,
				)
			}
			c.dims = len(vec)
		}
	}

	if c.dims == 0 {
		c.dims = DefaultDimensions
	}

	return c, nil
}

// Embed generates an embedding for a single chunk using its enhanced text.
func (c *Client) Embed(ctx context.Context, chunk ChunkInput, fileSummary string) (ChunkEmbedding, error) {
	enhanced := buildEnhancedText(chunk, fileSummary)
	start := time.Now()

	vec, err := c.embedWithRetry(ctx, enhanced)
	result := ChunkEmbedding{
		ChunkID:      chunk.ID,
		Model:        c.cfg.Model,
		EnhancedText: enhanced,
		DurationMS:   time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Err = err
		return result, err
	}
	if len(vec) != c.dims {
		dimErr := amanerrors.VectorDimensionError(c.dims, len(vec))
		result.Err = dimErr
		return result, dimErr
	}

	result.Vector = vec
	result.Dimension = len(vec)
	return result, nil
}

// EmbedText embeds a raw string, used for query embedding and file summaries.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vec, err := c.embedWithRetry(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != c.dims {
		return nil, amanerrors.VectorDimensionError(c.dims, len(vec))
	}
	return vec, nil
}

// EmbedBatch embeds chunks in rounds of `concurrency` in-flight calls,
// waiting for each round before starting the next. A per-item failure is
// recorded on that item and does not abort the batch.
func (c *Client) EmbedBatch(ctx context.Context, chunks []ChunkInput, concurrency int, fileSummary string) ([]ChunkEmbedding, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = c.cfg.BatchConcurrency
	}

	results := make([]ChunkEmbedding, len(chunks))

	for start := 0; start < len(chunks); start += concurrency {
		end := start + concurrency
		if end > len(chunks) {
			end = len(chunks)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				res, err := c.Embed(gctx, chunks[i], fileSummary)
				if err != nil {
					res.Err = err
				}
				results[i] = res
				return nil // per-item errors don't abort the batch
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}

		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
	}

	return results, nil
}

// Dimensions returns the embedding dimension in use.
func (c *Client) Dimensions() int { return c.dims }

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string { return c.cfg.Model }

// Available checks whether the model host responds to a lightweight probe.
func (c *Client) Available(ctx context.Context) bool {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false
	}
	c.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Host+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Close releases client resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}

// embedWithRetry issues a single-text embed call with exponential backoff.
func (c *Client) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	retryCfg := amanerrors.RetryConfig{
		MaxRetries:   c.cfg.MaxRetries,
		InitialDelay: 1 * time.Second,
		MaxDelay:     16 * time.Second,
		Multiplier:   2.0,
	}

	return amanerrors.RetryWithResult(ctx, retryCfg, func() ([]float32, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
		return c.doEmbed(reqCtx, text)
	})
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// doEmbed performs a single embedding HTTP call against the model host.
func (c *Client) doEmbed(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, c.dims), nil
	}

	body, err := json.Marshal(embedRequest{Model: c.cfg.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Host+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, amanerrors.NetworkError("embed request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return result.Embedding, nil
}
