package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostProcess_AddsPrefixAndPeriod(t *testing.T) {
	got := postProcess("contains a handful of helpers used across the package for request routing")
	assert.True(t, strings.HasPrefix(got, "This file"))
	assert.True(t, strings.HasSuffix(got, "."))
}

func TestPostProcess_TruncatesLongText(t *testing.T) {
	long := "This file " + strings.Repeat("does many important things ", 20)
	got := postProcess(long)
	assert.LessOrEqual(t, len(got), maxSummaryLen)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestPostProcess_PadsShortText(t *testing.T) {
	got := postProcess("This file is small.")
	assert.GreaterOrEqual(t, len(got), minSummaryLen)
	assert.True(t, strings.HasPrefix(got, "This file"))
}

func TestRuleBasedSummary_UsesLeadingGoComment(t *testing.T) {
	content := "// Package math provides arithmetic helpers.\n// Additional detail line.\npackage math\n"
	got := ruleBasedSummary(content, "go")
	assert.Contains(t, got, "Package math provides arithmetic helpers")
}

func TestRuleBasedSummary_UsesLeadingPythonDocstring(t *testing.T) {
	content := "\"\"\"Utility helpers for parsing config files.\"\"\"\nimport os\n"
	got := ruleBasedSummary(content, "python")
	assert.Contains(t, got, "Utility helpers for parsing config files")
}

func TestRuleBasedSummary_FallsBackToCounts(t *testing.T) {
	content := "func A() {}\nfunc B() {}\ntype T struct{}\n"
	got := ruleBasedSummary(content, "go")
	assert.Contains(t, got, "functions")
	assert.Contains(t, got, "classes")
}

func TestSummarize_RuleBasedWhenNoHost(t *testing.T) {
	s := New(Config{})
	summary := s.Summarize(context.Background(), "pkg/math.go", "func Add() {}\n", "go")
	assert.Equal(t, MethodRuleBased, summary.Method)
	assert.True(t, strings.HasPrefix(summary.Text, "This file"))
}

func TestSummarize_ModelBackedSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-text", r.URL.Path)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "This file implements the arithmetic helper package."})
	}))
	defer server.Close()

	s := New(Config{Host: server.URL, Model: "qwen3:0.6b", MaxRetries: 1})
	summary := s.Summarize(context.Background(), "pkg/math.go", "func Add() {}\n", "go")
	require.Equal(t, MethodLLM, summary.Method)
	assert.Contains(t, summary.Text, "arithmetic helper package")
	assert.Equal(t, "qwen3:0.6b", summary.ModelUsed)
}

func TestSummarize_FallsBackOnModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(Config{Host: server.URL, Model: "qwen3:0.6b", MaxRetries: 1})
	summary := s.Summarize(context.Background(), "pkg/math.go", "func Add() {}\n", "go")
	assert.Equal(t, MethodRuleBased, summary.Method)
}

func TestAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(Config{Host: server.URL})
	assert.True(t, s.Available(context.Background()))
}
