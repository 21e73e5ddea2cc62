package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aman-cerp/semindex/internal/indexer"
	"github.com/aman-cerp/semindex/internal/reindex"
	"github.com/aman-cerp/semindex/internal/retrieval"
	"github.com/aman-cerp/semindex/internal/store"
)

// IndexRepositoryInput is the index_repository tool's parameter set.
type IndexRepositoryInput struct {
	RepoPath                   string `json:"repo_path" jsonschema:"absolute path to the repository root"`
	RepoType                   string `json:"repo_type,omitempty" jsonschema:"monolithic, monorepo, microservice, library, reference, or documentation"`
	RepoID                     string `json:"repo_id,omitempty" jsonschema:"override the derived repository identifier"`
	Version                    string `json:"version,omitempty" jsonschema:"version to compare against the stored version for reindex decisions"`
	ForceReindex               bool   `json:"force_reindex,omitempty" jsonschema:"unconditionally clear and rebuild the repository's index"`
	IncludeMarkdown            bool   `json:"include_markdown,omitempty" jsonschema:"index markdown documentation alongside code"`
	EnableWorkspaceDetection   bool   `json:"enable_workspace_detection,omitempty" jsonschema:"detect monorepo packages and link files to them"`
	EnableServiceDetection     bool   `json:"enable_service_detection,omitempty" jsonschema:"detect microservice boundaries and link files to them"`
	EnableAPIEndpointDetection bool   `json:"enable_api_endpoint_detection,omitempty" jsonschema:"extract HTTP/RPC endpoint declarations into chunk metadata"`
}

// IndexRepositoryOutput is the index_repository tool's result.
type IndexRepositoryOutput struct {
	Message            string   `json:"message" jsonschema:"human-readable completion summary"`
	RepoID             string   `json:"repo_id"`
	Reindexed          bool     `json:"reindexed"`
	Reason             string   `json:"reason"`
	FilesScanned       int      `json:"files_scanned"`
	FilesNew           int      `json:"files_new"`
	FilesModified      int      `json:"files_modified"`
	FilesUnchanged     int      `json:"files_unchanged"`
	FilesDeleted       int      `json:"files_deleted"`
	ChunksIndexed      int      `json:"chunks_indexed"`
	SymbolsIndexed     int      `json:"symbols_indexed"`
	WorkspacesDetected int      `json:"workspaces_detected"`
	ServicesDetected   int      `json:"services_detected"`
	Warnings           []string `json:"warnings,omitempty"`
}

func (s *Server) handleIndexRepository(ctx context.Context, _ *mcp.CallToolRequest, input IndexRepositoryInput) (
	*mcp.CallToolResult, IndexRepositoryOutput, error,
) {
	if input.RepoPath == "" {
		return nil, IndexRepositoryOutput{}, NewInvalidParamsError("repo_path is required")
	}
	if !filepath.IsAbs(input.RepoPath) {
		return nil, IndexRepositoryOutput{}, NewInvalidParamsError("repo_path must be an absolute path")
	}

	repoType := store.RepoType(input.RepoType)
	if repoType == "" {
		repoType = store.RepoTypeMonolithic
	}

	opts := indexer.Options{
		RepoID:                     input.RepoID,
		IncludeMarkdown:            input.IncludeMarkdown,
		EnableWorkspaceDetection:   input.EnableWorkspaceDetection,
		EnableServiceDetection:     input.EnableServiceDetection,
		EnableAPIEndpointDetection: input.EnableAPIEndpointDetection,
		RespectGitignore:           true,
		Reindex: reindex.Options{
			Force:          input.ForceReindex,
			Version:        input.Version,
			CompareVersion: input.Version != "",
		},
	}

	result, err := s.indexer.Index(ctx, input.RepoPath, repoType, opts)
	if err != nil {
		return nil, IndexRepositoryOutput{}, MapError(err)
	}

	output := IndexRepositoryOutput{
		Message:            fmt.Sprintf("Repository Indexing Complete: %d files scanned, %d chunks indexed.", result.FilesScanned, result.ChunksIndexed),
		RepoID:             result.RepoID,
		Reindexed:          result.Reindex,
		Reason:             result.Reason,
		FilesScanned:       result.FilesScanned,
		FilesNew:           result.FilesNew,
		FilesModified:      result.FilesModified,
		FilesUnchanged:     result.FilesUnchanged,
		FilesDeleted:       result.FilesDeleted,
		ChunksIndexed:      result.ChunksIndexed,
		SymbolsIndexed:     result.SymbolsIndexed,
		WorkspacesDetected: result.WorkspacesDetected,
		ServicesDetected:   result.ServicesDetected,
		Warnings:           result.Warnings,
	}
	return nil, output, nil
}

// ListIndexedReposInput takes no parameters; it is a struct so the SDK can
// generate an (empty) input schema.
type ListIndexedReposInput struct{}

// IndexedRepoSummary describes one repository row for the list_indexed_repos
// tool, with a derived file_count (§8 scenario 1).
type IndexedRepoSummary struct {
	RepoID      string `json:"repo_id"`
	RepoType    string `json:"repo_type"`
	Root        string `json:"root"`
	Version     string `json:"version,omitempty"`
	FileCount   int    `json:"file_count"`
	LastIndexed string `json:"last_indexed"`
}

// ListIndexedReposOutput is the list_indexed_repos tool's result.
type ListIndexedReposOutput struct {
	Repos []IndexedRepoSummary `json:"repos"`
}

func (s *Server) handleListIndexedRepos(ctx context.Context, _ *mcp.CallToolRequest, _ ListIndexedReposInput) (
	*mcp.CallToolResult, ListIndexedReposOutput, error,
) {
	repos, err := s.store.ListRepositories(ctx)
	if err != nil {
		return nil, ListIndexedReposOutput{}, MapError(err)
	}

	output := ListIndexedReposOutput{Repos: make([]IndexedRepoSummary, 0, len(repos))}
	for _, r := range repos {
		hashes, err := s.store.FileHashes(ctx, r.RepoID)
		if err != nil {
			return nil, ListIndexedReposOutput{}, MapError(err)
		}
		output.Repos = append(output.Repos, IndexedRepoSummary{
			RepoID:      r.RepoID,
			RepoType:    string(r.RepoType),
			Root:        r.Root,
			Version:     r.Version,
			FileCount:   len(hashes),
			LastIndexed: r.LastIndexed.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return nil, output, nil
}

// SearchCodebaseInput is the search_codebase tool's parameter set, with
// every field validated against the ranges named in §6.
type SearchCodebaseInput struct {
	Query               string   `json:"query" jsonschema:"the search query, at least 2 characters"`
	RepoIDs             []string `json:"repo_ids,omitempty" jsonschema:"restrict the search to these repository IDs"`
	ServiceIDs          []string `json:"service_ids,omitempty" jsonschema:"restrict the search to these service IDs"`
	CrossRepo           bool     `json:"cross_repo,omitempty" jsonschema:"allow results from multiple repositories"`
	SimilarityThreshold float64  `json:"similarity_threshold,omitempty" jsonschema:"minimum file-level cosine similarity, in [0,1], default 0.5"`
	MaxFiles            int      `json:"max_files,omitempty" jsonschema:"maximum files to retrieve, in [1,50], default 15"`
	MaxSnippets         int      `json:"max_snippets,omitempty" jsonschema:"maximum chunk snippets to retrieve, in [1,100], default 25"`
	ImportDepth         int      `json:"import_depth,omitempty" jsonschema:"import-chain expansion depth, in [1,3], default 2"`
	DependencyDepth     int      `json:"dependency_depth,omitempty" jsonschema:"workspace/service dependency expansion depth, in [1,5]; aliases import_depth when import_depth is unset"`
}

// SearchCodebaseOutput is the search_codebase tool's result, a thin
// JSON-friendly projection of retrieval.SearchResult.
type SearchCodebaseOutput struct {
	RelevantFiles []store.FileMatch     `json:"relevant_files"`
	CodeLocations []retrieval.CodeLocation `json:"code_locations"`
	Symbols       []store.Symbol         `json:"symbols"`
	Imports       []retrieval.ImportChain `json:"imports"`
	Warnings      []string               `json:"warnings,omitempty"`
	FilesRetrieved  int `json:"files_retrieved"`
	ChunksRetrieved int `json:"chunks_retrieved"`
	QueryTimeMS     int64 `json:"query_time_ms"`
}

// validateSearchInput enforces the parameter ranges §6 names for
// search_codebase. It returns the first violation found.
func validateSearchInput(input SearchCodebaseInput) error {
	if len(strings.TrimSpace(input.Query)) < 2 {
		return &ValidationError{Parameter: "query", Message: "must be at least 2 characters"}
	}
	if input.SimilarityThreshold != 0 && (input.SimilarityThreshold < 0 || input.SimilarityThreshold > 1) {
		return &ValidationError{Parameter: "similarity_threshold", Message: "must be within [0,1]"}
	}
	if input.MaxFiles != 0 && (input.MaxFiles < 1 || input.MaxFiles > 50) {
		return &ValidationError{Parameter: "max_files", Message: "must be within [1,50]"}
	}
	if input.MaxSnippets != 0 && (input.MaxSnippets < 1 || input.MaxSnippets > 100) {
		return &ValidationError{Parameter: "max_snippets", Message: "must be within [1,100]"}
	}
	if input.ImportDepth != 0 && (input.ImportDepth < 1 || input.ImportDepth > 3) {
		return &ValidationError{Parameter: "import_depth", Message: "must be within [1,3]"}
	}
	if input.DependencyDepth != 0 && (input.DependencyDepth < 1 || input.DependencyDepth > 5) {
		return &ValidationError{Parameter: "dependency_depth", Message: "must be within [1,5]"}
	}
	return nil
}

func (s *Server) handleSearchCodebase(ctx context.Context, _ *mcp.CallToolRequest, input SearchCodebaseInput) (
	*mcp.CallToolResult, SearchCodebaseOutput, error,
) {
	if err := validateSearchInput(input); err != nil {
		return nil, SearchCodebaseOutput{}, MapError(err)
	}

	depth := input.ImportDepth
	if depth == 0 {
		depth = input.DependencyDepth
	}

	mode := retrieval.ModeRepository
	if input.CrossRepo || len(input.RepoIDs) == 0 {
		mode = retrieval.ModeGlobal
	}

	scopeIn := retrieval.ScopeInput{
		Mode:       mode,
		RepoIDs:    input.RepoIDs,
		ServiceIDs: input.ServiceIDs,
		CrossRepo:  input.CrossRepo,
	}

	opts := retrieval.Options{
		Vector: retrieval.VectorOptions{
			MaxFiles:            input.MaxFiles,
			MaxSnippets:         input.MaxSnippets,
			SimilarityThreshold: input.SimilarityThreshold,
		},
		Import: retrieval.ImportOptions{
			Depth: depth,
		},
	}

	result, err := retrieval.Search(ctx, s.store, s.query, scopeIn, input.Query, opts)
	if err != nil {
		return nil, SearchCodebaseOutput{}, MapError(err)
	}

	warnings := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Kind, w.Message))
	}

	output := SearchCodebaseOutput{
		RelevantFiles:   result.RelevantFiles,
		CodeLocations:   result.CodeLocations,
		Symbols:         result.Symbols,
		Imports:         result.Imports,
		Warnings:        warnings,
		FilesRetrieved:  result.Metadata.FilesRetrieved,
		ChunksRetrieved: result.Metadata.ChunksRetrieved,
		QueryTimeMS:     result.Metadata.QueryTimeMS,
	}
	return nil, output, nil
}
