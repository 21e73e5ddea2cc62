// Package summarize produces whole-file summaries: a model-backed path that
// calls the model host's generate-text endpoint, falling back on any failure
// to a rule-based path grounded in leading doc-comment extraction and
// function/class counting.
package summarize

import "time"

// Method records which path produced a Summary.
type Method string

const (
	MethodLLM       Method = "llm"
	MethodRuleBased Method = "rule_based"
)

const (
	minSummaryLen = 50
	maxSummaryLen = 200

	// DefaultPromptLines is the number of leading lines fed to the
	// model-backed prompt when Config.PromptLines is unset.
	DefaultPromptLines = 40

	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 2
)

// Summary is the result of summarizing a single file.
type Summary struct {
	Text       string
	Method     Method
	ModelUsed  string
	DurationMS int64
}

// Config configures a Summarizer.
type Config struct {
	// Host is the model host's base URL. Empty disables the model-backed
	// path entirely; every call falls back to rule-based.
	Host string

	// Model is the text-generation model identifier.
	Model string

	// PromptLines bounds how many leading lines of a file are included in
	// the model-backed prompt.
	PromptLines int

	Timeout    time.Duration
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.PromptLines <= 0 {
		c.PromptLines = DefaultPromptLines
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}
