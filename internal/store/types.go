// Package store persists the indexed repository graph — repositories,
// files, chunks, symbols, workspaces, services, and their dependency edges —
// to a Postgres database with the pgvector extension, and answers the
// retrieval pipeline's scoped vector queries.
package store

import "time"

// RepoType classifies a repository's shape.
type RepoType string

const (
	RepoTypeMonolithic    RepoType = "monolithic"
	RepoTypeMonorepo      RepoType = "monorepo"
	RepoTypeMicroservice  RepoType = "microservice"
	RepoTypeLibrary       RepoType = "library"
	RepoTypeReference     RepoType = "reference"
	RepoTypeDocumentation RepoType = "documentation"
)

// ChunkType is one of the five chunk kinds the chunker produces.
type ChunkType string

const (
	ChunkTypeFileSummary ChunkType = "file_summary"
	ChunkTypeImportBlock ChunkType = "import_block"
	ChunkTypeFunction    ChunkType = "function"
	ChunkTypeClass       ChunkType = "class"
	ChunkTypeBlock       ChunkType = "block"
)

// SymbolType is one of the symbol kinds the metadata extractor produces.
type SymbolType string

const (
	SymbolTypeFunction  SymbolType = "function"
	SymbolTypeClass     SymbolType = "class"
	SymbolTypeVariable  SymbolType = "variable"
	SymbolTypeType      SymbolType = "type"
	SymbolTypeInterface SymbolType = "interface"
)

// SymbolScope distinguishes exported from internal symbols for resolution.
type SymbolScope string

const (
	ScopeExported SymbolScope = "exported"
	ScopeInternal SymbolScope = "internal"
)

// ServiceType classifies a detected service (§4.10 classification order).
type ServiceType string

const (
	ServiceTypeREST       ServiceType = "rest"
	ServiceTypeGraphQL    ServiceType = "graphql"
	ServiceTypeGRPC       ServiceType = "grpc"
	ServiceTypeLibrary    ServiceType = "library"
	ServiceTypeDocker     ServiceType = "docker_service"
	ServiceTypeServerless ServiceType = "serverless"
	ServiceTypeMobile     ServiceType = "mobile"
	ServiceTypeUnknown    ServiceType = "unknown"
)

// Repository is a top-level indexed codebase.
type Repository struct {
	RepoID      string
	RepoType    RepoType
	Root        string
	Version     string
	UpstreamURL string
	IndexedAt   time.Time
	LastIndexed time.Time
}

// File is a single indexed source file.
type File struct {
	RepoID      string
	FilePath    string
	Language    string
	LineCount   int
	FileHash    string
	FileSummary string
	Exports     []string
	Imports     []string
	WorkspaceID string
	PackageName string
	ServiceID   string
}

// Chunk is a retrievable unit of file content with its embedding.
type Chunk struct {
	ChunkID     string
	FilePath    string
	RepoID      string
	ChunkType   ChunkType
	StartLine   int
	EndLine     int
	Content     string
	TokenCount  int
	Metadata    map[string]string
	Embedding   []float32
	WorkspaceID string
	PackageName string
	ServiceID   string
}

// Symbol is a named code entity extracted during chunking.
type Symbol struct {
	SymbolID   string
	SymbolName string
	SymbolType SymbolType
	FilePath   string
	RepoID     string
	LineNumber int
	Definition string
	Embedding  []float32
	Scope      SymbolScope
}

// Workspace is a monorepo package.
type Workspace struct {
	WorkspaceID  string
	RepoID       string
	PackageName  string
	Path         string
	ManifestInfo map[string]string
}

// WorkspaceDependency is a directed workspace->workspace edge.
type WorkspaceDependency struct {
	RepoID string
	From   string
	To     string
}

// WorkspaceAlias is a resolved path-alias entry for a workspace.
type WorkspaceAlias struct {
	RepoID      string
	WorkspaceID string
	Alias       string
	Target      string
	Internal    bool
}

// Service is a microservice or serverless unit.
type Service struct {
	ServiceID string
	RepoID    string
	Name      string
	Type      ServiceType
	Path      string
	Ports     []int
	Contracts map[string]string
}

// CrossRepoDependency is a directed edge, possibly spanning repositories.
type CrossRepoDependency struct {
	SourceRepoID    string
	SourceServiceID string
	TargetRepoID    string
	TargetServiceID string
}

// FileHash is the minimal (path, hash) pair the incremental engine diffs against.
type FileHash struct {
	FilePath string
	FileHash string
}
