// Package retrieval implements the query-time pipeline: scope resolution,
// two-level vector search, symbol resolution, import-chain expansion, API
// enrichment, deduplication, and context assembly.
package retrieval

import "github.com/aman-cerp/semindex/internal/store"

// Mode selects the granularity at which a query is scoped.
type Mode string

const (
	ModeGlobal     Mode = "global"
	ModeRepository Mode = "repository"
	ModeService    Mode = "service"
)

// ScopeInput is the caller-supplied scope request (§4.12).
type ScopeInput struct {
	Mode Mode

	RepoIDs           []string
	ExcludeRepos      []string
	ServiceIDs        []string
	ExcludeServices   []string
	WorkspaceIDs      []string
	ExcludeWorkspaces []string

	CrossRepo            bool
	IncludeReferences    bool
	IncludeDocumentation bool

	ExcludeRepoTypes []store.RepoType
}

// Scope is the resolved query scope (§4.12 output).
type Scope struct {
	Mode         Mode
	RepoIDs      []string
	ServiceIDs   []string
	WorkspaceIDs []string
}

// VectorOptions configures the two-level vector retriever (§4.13).
type VectorOptions struct {
	MaxFiles            int
	MaxSnippets         int
	SimilarityThreshold float64
	ChunkThreshold      float64
}

func (o VectorOptions) withDefaults() VectorOptions {
	if o.MaxFiles <= 0 {
		o.MaxFiles = 15
	}
	if o.MaxSnippets <= 0 {
		o.MaxSnippets = 25
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = 0.5
	}
	if o.ChunkThreshold <= 0 {
		o.ChunkThreshold = 0.75
	}
	return o
}

// ImportOptions configures the import-chain expander's boundary behavior
// (§4.14).
type ImportOptions struct {
	Depth int

	IncludeWorkspaceOnly       bool
	IncludeServiceOnly         bool
	RespectWorkspaceBoundaries bool
	RespectServiceBoundaries   bool
}

func (o ImportOptions) withDefaults() ImportOptions {
	if o.Depth <= 0 {
		o.Depth = 2
	}
	if o.Depth > 3 {
		o.Depth = 3
	}
	return o
}

// ImportChain is one expanded import path rooted at a retrieved file.
type ImportChain struct {
	Root  string
	Chain []string
	Cycle bool
}

// QueryEmbedding describes the query's embedding for citation in results.
type QueryEmbedding struct {
	Text string
	Type string
	Dim  int
}

// CodeLocation is a deduplicated chunk ready for context assembly.
type CodeLocation struct {
	Chunk      store.Chunk
	Similarity float64
}

// CrossServiceCall is a caller/callee pairing discovered by the API enricher.
type CrossServiceCall struct {
	CallerServiceID string
	CalleeServiceID string
	Method          string
	Path            string
}

// APIContext holds the API enricher's output (§4.15).
type APIContext struct {
	Endpoints         []EndpointRef
	CrossServiceCalls []CrossServiceCall
	Warnings          []string
}

// EndpointRef attaches an endpoint descriptor to the chunk it was found in.
type EndpointRef struct {
	ChunkID string
	Method  string
	Path    string
	Line    int
	APIType string
}

// Warning is one entry in a SearchResult's warnings list.
type Warning struct {
	Kind    string
	Message string
}

// ResultMetadata is the §4.16 metadata block.
type ResultMetadata struct {
	FilesRetrieved     int
	ChunksRetrieved    int
	ChunksAfterDedup   int
	SymbolsResolved    int
	ImportDepthReached int
	TotalTokens        int
	QueryTimeMS        int64
}

// SearchResult is the fully assembled retrieval context (§4.16).
type SearchResult struct {
	QueryEmbedding QueryEmbedding
	RelevantFiles  []store.FileMatch
	CodeLocations  []CodeLocation
	Symbols        []store.Symbol
	Imports        []ImportChain
	APIContext     APIContext
	Metadata       ResultMetadata
	Warnings       []Warning

	// DuplicateOf maps a dropped chunk_id to the surviving chunk_id it was
	// merged into, so callers can merge citations.
	DuplicateOf map[string]string
}
