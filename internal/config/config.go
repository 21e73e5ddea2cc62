package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the type of project detected from marker files.
type ProjectType string

const (
	ProjectTypeGo      ProjectType = "go"
	ProjectTypeNode    ProjectType = "node"
	ProjectTypePython  ProjectType = "python"
	ProjectTypeUnknown ProjectType = "unknown"
)

// Config is the complete configuration for the indexing and retrieval
// pipelines. It is loaded from YAML with environment-variable overrides
// and validated before use.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Indexing    IndexingConfig    `yaml:"indexing" json:"indexing"`
	Search      SearchConfig      `yaml:"search" json:"search"`
	Embeddings  EmbeddingsConfig  `yaml:"embeddings" json:"embeddings"`
	Database    DatabaseConfig    `yaml:"database" json:"database"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
	Server      ServerConfig      `yaml:"server" json:"server"`
}

// PathsConfig configures which paths the walker includes or excludes.
type PathsConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// IndexingConfig holds the recognized indexing options.
type IndexingConfig struct {
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// IncludeMarkdown indexes markdown files beyond the root README.
	IncludeMarkdown bool `yaml:"include_markdown" json:"include_markdown"`
	// MaxFileSize is the maximum line count for a file to be indexed.
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
	// ChunkSizeMin is the minimum block size for block chunks.
	ChunkSizeMin int `yaml:"chunk_size_min" json:"chunk_size_min"`
	// ChunkSizeMax is the size above which a function/class chunk is kept
	// as-is with a warning rather than split.
	ChunkSizeMax int `yaml:"chunk_size_max" json:"chunk_size_max"`
	// EnableWorkspaceDetection discovers monorepo packages.
	EnableWorkspaceDetection bool `yaml:"enable_workspace_detection" json:"enable_workspace_detection"`
	// EnableServiceDetection discovers microservices/serverless/mobile units.
	EnableServiceDetection bool `yaml:"enable_service_detection" json:"enable_service_detection"`
	// EnableMultiRepo allows cross-repo dependency edges to be recorded.
	EnableMultiRepo bool `yaml:"enable_multi_repo" json:"enable_multi_repo"`
	// EnableAPIEndpointDetection extracts REST/GraphQL/gRPC endpoints.
	EnableAPIEndpointDetection bool `yaml:"enable_api_endpoint_detection" json:"enable_api_endpoint_detection"`
	// RepoID pins the repository identifier; empty derives one from the path.
	RepoID string `yaml:"repo_id" json:"repo_id"`
}

// SearchConfig holds the recognized search options and their defaults.
type SearchConfig struct {
	MaxFiles    int `yaml:"max_files" json:"max_files"`
	MaxSnippets int `yaml:"max_snippets" json:"max_snippets"`

	IncludeImports bool `yaml:"include_imports" json:"include_imports"`
	ImportDepth    int  `yaml:"import_depth" json:"import_depth"`

	DedupThreshold       float64 `yaml:"dedup_threshold" json:"dedup_threshold"`
	SimilarityThreshold  float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	ChunkSimilarityFloor float64 `yaml:"chunk_similarity_floor" json:"chunk_similarity_floor"`

	RepoFilter      []string `yaml:"repo_filter" json:"repo_filter"`
	ExcludeRepos    []string `yaml:"exclude_repos" json:"exclude_repos"`
	ServiceFilter   []string `yaml:"service_filter" json:"service_filter"`
	ExcludeServices []string `yaml:"exclude_services" json:"exclude_services"`
	WorkspaceFilter []string `yaml:"workspace_filter" json:"workspace_filter"`
	ExcludeWorkspaces []string `yaml:"exclude_workspaces" json:"exclude_workspaces"`
	ExcludeRepoTypes  []string `yaml:"exclude_repo_types" json:"exclude_repo_types"`

	CrossRepo                  bool `yaml:"cross_repo" json:"cross_repo"`
	IncludeReferences          bool `yaml:"include_references" json:"include_references"`
	IncludeDocumentation       bool `yaml:"include_documentation" json:"include_documentation"`
	RespectWorkspaceBoundaries bool `yaml:"respect_workspace_boundaries" json:"respect_workspace_boundaries"`
	RespectServiceBoundaries   bool `yaml:"respect_service_boundaries" json:"respect_service_boundaries"`

	// TokenBudget bounds the assembled context (§4.16).
	TokenBudget int `yaml:"token_budget" json:"token_budget"`
}

// EmbeddingsConfig configures the embedding-model host client (C6).
type EmbeddingsConfig struct {
	// Host is the base URL of the embedding-model host (list-models,
	// single-embed, batch-embed, generate-text endpoints).
	Host string `yaml:"host" json:"host"`
	// Model is the embedding model name.
	Model string `yaml:"model" json:"model"`
	// SummaryModel is the model used for per-file summaries (C5); empty
	// reuses Model.
	SummaryModel string `yaml:"summary_model" json:"summary_model"`
	// Dimensions is the expected embedding length. 0 auto-detects from the
	// first successful embed call.
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	// BatchConcurrency bounds in-flight embed requests per batch round.
	BatchConcurrency int `yaml:"batch_concurrency" json:"batch_concurrency"`
	// SummaryConcurrency bounds in-flight summary requests.
	SummaryConcurrency int `yaml:"summary_concurrency" json:"summary_concurrency"`
	// RequestTimeout bounds a single model-host call.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	// MaxRetries bounds exponential-backoff retry attempts on transient
	// failures (timeouts, connection resets).
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// DatabaseConfig configures the vector-capable relational store (C7).
type DatabaseConfig struct {
	// DSN is the connection string for the pooled connection.
	DSN string `yaml:"dsn" json:"dsn"`
	// DatabaseName is the expected current database; verified after
	// connect, mismatch is a hard failure.
	DatabaseName string `yaml:"database_name" json:"database_name"`
	// MaxConns bounds the connection pool size.
	MaxConns int32 `yaml:"max_conns" json:"max_conns"`
	// StatementTimeout bounds a single query.
	StatementTimeout time.Duration `yaml:"statement_timeout" json:"statement_timeout"`
}

// PerformanceConfig configures concurrency caps and cache sizing.
type PerformanceConfig struct {
	MaxFiles     int `yaml:"max_files" json:"max_files"`
	IndexWorkers int `yaml:"index_workers" json:"index_workers"`

	QueryCacheSize int           `yaml:"query_cache_size" json:"query_cache_size"`
	QueryCacheTTL  time.Duration `yaml:"query_cache_ttl" json:"query_cache_ttl"`

	ResultCacheSize int           `yaml:"result_cache_size" json:"result_cache_size"`
	ResultCacheTTL  time.Duration `yaml:"result_cache_ttl" json:"result_cache_ttl"`

	EndpointCacheSize int           `yaml:"endpoint_cache_size" json:"endpoint_cache_size"`
	EndpointCacheTTL  time.Duration `yaml:"endpoint_cache_ttl" json:"endpoint_cache_ttl"`

	CallTimeout time.Duration `yaml:"call_timeout" json:"call_timeout"`
}

// ServerConfig configures the tool-call server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// defaultExcludePatterns are always excluded from the walk.
var defaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/dist/**",
	"**/build/**",
	"**/*.min.js",
	"**/*.min.css",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/go.sum",
}

// NewConfig returns a Config populated with the defaults named in this
// system's recognized indexing and search options.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Indexing: IndexingConfig{
			Paths: PathsConfig{
				Include: []string{},
				Exclude: defaultExcludePatterns,
			},
			IncludeMarkdown:            false,
			MaxFileSize:                5000,
			ChunkSizeMin:               50,
			ChunkSizeMax:               500,
			EnableWorkspaceDetection:   true,
			EnableServiceDetection:     true,
			EnableMultiRepo:            false,
			EnableAPIEndpointDetection: true,
		},
		Search: SearchConfig{
			MaxFiles:                   15,
			MaxSnippets:                25,
			IncludeImports:             true,
			ImportDepth:                2,
			DedupThreshold:             0.9,
			SimilarityThreshold:        0.5,
			ChunkSimilarityFloor:       0.75,
			CrossRepo:                  false,
			IncludeReferences:          false,
			IncludeDocumentation:       false,
			RespectWorkspaceBoundaries: true,
			RespectServiceBoundaries:   true,
			TokenBudget:                8000,
		},
		Embeddings: EmbeddingsConfig{
			Host:               "http://localhost:11434",
			Model:              "qwen3-embedding:8b",
			SummaryModel:       "qwen3:0.6b",
			Dimensions:         0,
			BatchConcurrency:   5,
			SummaryConcurrency: 3,
			RequestTimeout:     30 * time.Second,
			MaxRetries:         3,
		},
		Database: DatabaseConfig{
			DSN:              "postgres://localhost:5432/codeindex?sslmode=disable",
			DatabaseName:     "codeindex",
			MaxConns:         10,
			StatementTimeout: 30 * time.Second,
		},
		Performance: PerformanceConfig{
			MaxFiles:          100000,
			IndexWorkers:      runtime.NumCPU(),
			QueryCacheSize:    500,
			QueryCacheTTL:     30 * time.Minute,
			ResultCacheSize:   200,
			ResultCacheTTL:    10 * time.Minute,
			EndpointCacheSize: 500,
			EndpointCacheTTL:  30 * time.Minute,
			CallTimeout:       30 * time.Second,
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8765,
			LogLevel:  "info",
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file,
// following the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/codeindex/config.yaml (if set)
//   - ~/.config/codeindex/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeindex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "codeindex", "config.yaml")
	}
	return filepath.Join(home, ".config", "codeindex", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// LoadUserConfig loads the user configuration file. Returns nil config and
// nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	return loadUserConfig()
}

// Load loads configuration from the specified directory, applying
// precedence in increasing order:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/codeindex/config.yaml)
//  3. Project config (.codeindex.yaml in dir)
//  4. Environment variables (CODEINDEX_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".codeindex.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".codeindex.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c for the fields listed
// below; the indexing booleans are OR-ed, so a later layer cannot turn one
// off. The search filter lists, include_imports, include_references,
// include_documentation, cross_repo, the respect_*_boundaries flags,
// chunk_similarity_floor, and the result-cache, endpoint-cache and
// call-timeout settings are not merged and keep their defaults.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if len(other.Indexing.Paths.Include) > 0 {
		c.Indexing.Paths.Include = other.Indexing.Paths.Include
	}
	if len(other.Indexing.Paths.Exclude) > 0 {
		c.Indexing.Paths.Exclude = append(c.Indexing.Paths.Exclude, other.Indexing.Paths.Exclude...)
	}
	if other.Indexing.MaxFileSize != 0 {
		c.Indexing.MaxFileSize = other.Indexing.MaxFileSize
	}
	if other.Indexing.ChunkSizeMin != 0 {
		c.Indexing.ChunkSizeMin = other.Indexing.ChunkSizeMin
	}
	if other.Indexing.ChunkSizeMax != 0 {
		c.Indexing.ChunkSizeMax = other.Indexing.ChunkSizeMax
	}
	if other.Indexing.RepoID != "" {
		c.Indexing.RepoID = other.Indexing.RepoID
	}
	c.Indexing.IncludeMarkdown = other.Indexing.IncludeMarkdown || c.Indexing.IncludeMarkdown
	c.Indexing.EnableWorkspaceDetection = other.Indexing.EnableWorkspaceDetection || c.Indexing.EnableWorkspaceDetection
	c.Indexing.EnableServiceDetection = other.Indexing.EnableServiceDetection || c.Indexing.EnableServiceDetection
	c.Indexing.EnableMultiRepo = other.Indexing.EnableMultiRepo || c.Indexing.EnableMultiRepo
	c.Indexing.EnableAPIEndpointDetection = other.Indexing.EnableAPIEndpointDetection || c.Indexing.EnableAPIEndpointDetection

	if other.Search.MaxFiles != 0 {
		c.Search.MaxFiles = other.Search.MaxFiles
	}
	if other.Search.MaxSnippets != 0 {
		c.Search.MaxSnippets = other.Search.MaxSnippets
	}
	if other.Search.ImportDepth != 0 {
		c.Search.ImportDepth = other.Search.ImportDepth
	}
	if other.Search.DedupThreshold != 0 {
		c.Search.DedupThreshold = other.Search.DedupThreshold
	}
	if other.Search.SimilarityThreshold != 0 {
		c.Search.SimilarityThreshold = other.Search.SimilarityThreshold
	}
	if other.Search.TokenBudget != 0 {
		c.Search.TokenBudget = other.Search.TokenBudget
	}

	if other.Embeddings.Host != "" {
		c.Embeddings.Host = other.Embeddings.Host
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.SummaryModel != "" {
		c.Embeddings.SummaryModel = other.Embeddings.SummaryModel
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.BatchConcurrency != 0 {
		c.Embeddings.BatchConcurrency = other.Embeddings.BatchConcurrency
	}
	if other.Embeddings.SummaryConcurrency != 0 {
		c.Embeddings.SummaryConcurrency = other.Embeddings.SummaryConcurrency
	}
	if other.Embeddings.RequestTimeout != 0 {
		c.Embeddings.RequestTimeout = other.Embeddings.RequestTimeout
	}
	if other.Embeddings.MaxRetries != 0 {
		c.Embeddings.MaxRetries = other.Embeddings.MaxRetries
	}

	if other.Database.DSN != "" {
		c.Database.DSN = other.Database.DSN
	}
	if other.Database.DatabaseName != "" {
		c.Database.DatabaseName = other.Database.DatabaseName
	}
	if other.Database.MaxConns != 0 {
		c.Database.MaxConns = other.Database.MaxConns
	}
	if other.Database.StatementTimeout != 0 {
		c.Database.StatementTimeout = other.Database.StatementTimeout
	}

	if other.Performance.MaxFiles != 0 {
		c.Performance.MaxFiles = other.Performance.MaxFiles
	}
	if other.Performance.IndexWorkers != 0 {
		c.Performance.IndexWorkers = other.Performance.IndexWorkers
	}
	if other.Performance.QueryCacheSize != 0 {
		c.Performance.QueryCacheSize = other.Performance.QueryCacheSize
	}
	if other.Performance.QueryCacheTTL != 0 {
		c.Performance.QueryCacheTTL = other.Performance.QueryCacheTTL
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides applies CODEINDEX_* environment variable overrides,
// the highest-precedence configuration layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CODEINDEX_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("CODEINDEX_DATABASE_NAME"); v != "" {
		c.Database.DatabaseName = v
	}
	if v := os.Getenv("CODEINDEX_EMBEDDINGS_HOST"); v != "" {
		c.Embeddings.Host = v
	}
	if v := os.Getenv("CODEINDEX_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("CODEINDEX_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("CODEINDEX_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("CODEINDEX_SIMILARITY_THRESHOLD"); v != "" {
		if f, err := parseFloat64(v); err == nil && f >= 0 && f <= 1 {
			c.Search.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("CODEINDEX_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxFiles = n
		}
	}
}

func parseFloat64(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &f)
	return f, err
}

// DetectProjectType detects the project type based on marker files.
// Priority: go.mod > package.json > pyproject.toml/requirements.txt.
func DetectProjectType(dir string) ProjectType {
	if fileExists(filepath.Join(dir, "go.mod")) {
		return ProjectTypeGo
	}
	if fileExists(filepath.Join(dir, "package.json")) {
		return ProjectTypeNode
	}
	if fileExists(filepath.Join(dir, "pyproject.toml")) ||
		fileExists(filepath.Join(dir, "requirements.txt")) {
		return ProjectTypePython
	}
	return ProjectTypeUnknown
}

// FindProjectRoot walks up from startDir looking for a .git directory or a
// .codeindex.yaml/.yml file.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		if fileExists(filepath.Join(currentDir, ".codeindex.yaml")) ||
			fileExists(filepath.Join(currentDir, ".codeindex.yml")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// String returns a string representation of ProjectType.
func (p ProjectType) String() string {
	return string(p)
}

// IsKnown returns true if the project type is known (not unknown).
func (p ProjectType) IsKnown() bool {
	return p != ProjectTypeUnknown
}

// Validate validates the configuration, enforcing the validation rules of
// the tool-call boundary (§6) wherever they have a static configuration
// counterpart.
func (c *Config) Validate() error {
	if c.Search.SimilarityThreshold < 0 || c.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("search.similarity_threshold must be within [0,1], got %f", c.Search.SimilarityThreshold)
	}
	if c.Search.MaxFiles < 1 || c.Search.MaxFiles > 50 {
		return fmt.Errorf("search.max_files must be within [1,50], got %d", c.Search.MaxFiles)
	}
	if c.Search.MaxSnippets < 1 || c.Search.MaxSnippets > 100 {
		return fmt.Errorf("search.max_snippets must be within [1,100], got %d", c.Search.MaxSnippets)
	}
	if c.Search.ImportDepth < 1 || c.Search.ImportDepth > 3 {
		return fmt.Errorf("search.import_depth must be within [1,3], got %d", c.Search.ImportDepth)
	}
	if c.Search.DedupThreshold < 0 || c.Search.DedupThreshold > 1 {
		return fmt.Errorf("search.dedup_threshold must be within [0,1], got %f", c.Search.DedupThreshold)
	}
	if math.IsNaN(c.Search.ChunkSimilarityFloor) {
		return fmt.Errorf("search.chunk_similarity_floor must be a number")
	}
	if c.Indexing.ChunkSizeMin <= 0 {
		return fmt.Errorf("indexing.chunk_size_min must be positive, got %d", c.Indexing.ChunkSizeMin)
	}
	if c.Indexing.ChunkSizeMax <= c.Indexing.ChunkSizeMin {
		return fmt.Errorf("indexing.chunk_size_max (%d) must exceed chunk_size_min (%d)", c.Indexing.ChunkSizeMax, c.Indexing.ChunkSizeMin)
	}

	validTransports := map[string]bool{"stdio": true, "sse": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio' or 'sse', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
