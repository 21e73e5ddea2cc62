package indexer

import (
	"github.com/aman-cerp/semindex/internal/config"
	"github.com/aman-cerp/semindex/internal/reindex"
)

// Options configures a single Index run. A zero IndexWorkers runs 4
// workers and a zero BatchConcurrency uses embed.DefaultBatchConcurrency.
type Options struct {
	// RepoID pins the repository identifier; empty derives one from the
	// repo root path.
	RepoID string

	IncludePatterns []string
	ExcludePatterns []string
	RespectGitignore bool
	IncludeMarkdown  bool
	MaxFileSize      int64

	EnableWorkspaceDetection   bool
	EnableServiceDetection     bool
	EnableAPIEndpointDetection bool
	WorkspacePatterns          []string

	IndexWorkers     int
	BatchConcurrency int

	Reindex reindex.Options
}

// FromConfig builds indexer Options from a loaded Config, the bridge
// between the YAML-configured defaults and a single indexing run.
func FromConfig(cfg *config.Config) Options {
	opts := Options{
		RepoID:                     cfg.Indexing.RepoID,
		IncludePatterns:            cfg.Indexing.Paths.Include,
		ExcludePatterns:            cfg.Indexing.Paths.Exclude,
		RespectGitignore:           true,
		IncludeMarkdown:            cfg.Indexing.IncludeMarkdown,
		EnableWorkspaceDetection:   cfg.Indexing.EnableWorkspaceDetection,
		EnableServiceDetection:     cfg.Indexing.EnableServiceDetection,
		EnableAPIEndpointDetection: cfg.Indexing.EnableAPIEndpointDetection,
		IndexWorkers:               cfg.Performance.IndexWorkers,
		BatchConcurrency:           cfg.Embeddings.BatchConcurrency,
	}
	if cfg.Indexing.MaxFileSize > 0 {
		opts.MaxFileSize = int64(cfg.Indexing.MaxFileSize)
	}
	return opts
}
