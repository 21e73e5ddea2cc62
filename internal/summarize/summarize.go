package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// promptTemplate mirrors the teacher's LLM context-generation prompt,
// generalized from per-chunk context to a whole-file summary.
const promptTemplate = `You are analyzing a source file. Generate a 1-2 sentence summary of this file.

Language: %s
File: %s

First lines:
%s

Instructions:
- Begin the summary with "This file"
- Describe the file's overall purpose
- Keep it under 200 characters
- Output ONLY the summary, no preamble

Summary:`

// Summarizer produces whole-file summaries via a model-backed path with a
// rule-based fallback.
type Summarizer struct {
	cfg    Config
	client *http.Client
}

// New creates a Summarizer. An empty cfg.Host disables the model-backed path.
func New(cfg Config) *Summarizer {
	cfg = cfg.withDefaults()
	return &Summarizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Summarize produces a Summary for filePath's content, trying the
// model-backed path first and falling back to rule-based on any failure.
func (s *Summarizer) Summarize(ctx context.Context, filePath, content, language string) Summary {
	start := time.Now()

	if s.cfg.Host != "" {
		if text, err := s.generateModelSummary(ctx, filePath, content, language); err == nil {
			return Summary{
				Text:       postProcess(text),
				Method:     MethodLLM,
				ModelUsed:  s.cfg.Model,
				DurationMS: time.Since(start).Milliseconds(),
			}
		}
	}

	text := ruleBasedSummary(content, language)
	return Summary{
		Text:       postProcess(text),
		Method:     MethodRuleBased,
		DurationMS: time.Since(start).Milliseconds(),
	}
}

// Available reports whether the model host responds to a lightweight probe.
func (s *Summarizer) Available(ctx context.Context) bool {
	if s.cfg.Host == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Host+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

func (s *Summarizer) generateModelSummary(ctx context.Context, filePath, content, language string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, language, filePath, firstNLines(content, s.cfg.PromptLines))

	retryCfg := amanerrors.RetryConfig{
		MaxRetries:   s.cfg.MaxRetries,
		InitialDelay: 1 * time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
	}

	return amanerrors.RetryWithResult(ctx, retryCfg, func() (string, error) {
		reqCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
		return s.doGenerate(reqCtx, prompt)
	})
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *Summarizer) doGenerate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: s.cfg.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("marshal generate-text request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Host+"/generate-text", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", amanerrors.NetworkError("generate-text request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate-text request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate-text response: %w", err)
	}

	response := strings.TrimSpace(out.Response)
	response = strings.TrimPrefix(response, "Summary:")
	return strings.TrimSpace(response), nil
}

func firstNLines(content string, n int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
