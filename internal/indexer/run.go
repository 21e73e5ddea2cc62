package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aman-cerp/semindex/internal/incremental"
	"github.com/aman-cerp/semindex/internal/reindex"
	"github.com/aman-cerp/semindex/internal/scanner"
	"github.com/aman-cerp/semindex/internal/service"
	"github.com/aman-cerp/semindex/internal/store"
	"github.com/aman-cerp/semindex/internal/workspace"
)

// stageTiming tracks duration for each indexing stage, reported back so a
// caller can surface where time went.
type stageTiming struct {
	Scan      time.Duration
	Detect    time.Duration
	Workspace time.Duration
	Service   time.Duration
	Process   time.Duration
}

// Result summarizes the outcome of a single Index run.
type Result struct {
	RepoID   string
	Reindex  bool
	Reason   string

	FilesScanned   int
	FilesNew       int
	FilesModified  int
	FilesUnchanged int
	FilesDeleted   int

	ChunksIndexed  int
	SymbolsIndexed int

	WorkspacesDetected int
	ServicesDetected   int

	Warnings []string
	Duration time.Duration
	Timing   stageTiming
}

// deriveRepoID hashes the absolute repo root into a stable 16-hex-char
// identifier, the same scheme the teacher's runner uses for project IDs.
func deriveRepoID(root string) string {
	h := sha256.Sum256([]byte(root))
	return hex.EncodeToString(h[:])[:16]
}

// Index runs the full pipeline against repoRoot: decide reindex-vs-
// incremental, scan, detect changes, chunk/enrich/embed/persist every
// changed file, commit hashes last, and optionally detect workspaces and
// services (§4.8-§4.10).
func (ix *Indexer) Index(ctx context.Context, repoRoot string, repoType store.RepoType, opts Options) (*Result, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("indexer: resolve repo root: %w", err)
	}

	repoID := opts.RepoID
	if repoID == "" {
		repoID = deriveRepoID(absRoot)
	}

	result := &Result{RepoID: repoID}

	decision, err := reindex.Decide(ctx, ix.store, repoID, opts.Reindex)
	if err != nil {
		return nil, fmt.Errorf("indexer: reindex decision: %w", err)
	}
	result.Reindex = decision.Reindex
	result.Reason = decision.Reason

	if decision.Reindex {
		if err := reindex.ClearOwnedRows(ctx, ix.store, repoID); err != nil {
			return nil, fmt.Errorf("indexer: clear owned rows: %w", err)
		}
	}

	now := time.Now()
	version := opts.Reindex.Version
	if err := ix.store.UpsertRepository(ctx, store.Repository{
		RepoID:      repoID,
		RepoType:    repoType,
		Root:        absRoot,
		Version:     version,
		IndexedAt:   now,
		LastIndexed: now,
	}); err != nil {
		return nil, fmt.Errorf("indexer: upsert repository: %w", err)
	}

	scanStart := time.Now()
	discovered, scanWarnings, err := ix.scanRepo(ctx, absRoot, opts)
	if err != nil {
		return nil, fmt.Errorf("indexer: scan: %w", err)
	}
	result.Timing.Scan = time.Since(scanStart)
	result.FilesScanned = len(discovered)
	result.Warnings = append(result.Warnings, scanWarnings...)

	detectStart := time.Now()
	changes, stats, err := incremental.DetectChanges(ctx, ix.store, repoID, discovered)
	if err != nil {
		return nil, fmt.Errorf("indexer: detect changes: %w", err)
	}
	result.Timing.Detect = time.Since(detectStart)
	result.FilesNew = stats.New
	result.FilesModified = stats.Modified
	result.FilesUnchanged = stats.Unchanged
	result.FilesDeleted = stats.Deleted

	if err := incremental.PrepareForReinsert(ctx, ix.store, repoID, changes); err != nil {
		return nil, fmt.Errorf("indexer: prepare for reinsert: %w", err)
	}

	content := make(map[string][]byte, len(discovered))
	for _, f := range discovered {
		content[f.Path] = f.Content
	}
	languages := make(map[string]string, len(discovered))
	for path := range content {
		languages[path] = scanner.DetectLanguage(path)
	}

	storedHashes, err := ix.store.FileHashes(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("indexer: load stored hashes: %w", err)
	}
	previousHash := make(map[string]string, len(storedHashes))
	for _, fh := range storedHashes {
		previousHash[fh.FilePath] = fh.FileHash
	}

	// Workspace/service detection runs before file processing so each
	// file's workspace_id/service_id can be assigned by path prefix as it
	// is indexed, rather than backfilled in a second pass.
	pathOwner := pathOwnership{}

	if opts.EnableWorkspaceDetection {
		wsStart := time.Now()
		packages, err := workspace.DetectPackages(absRoot)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("workspace detection: %v", err))
		} else if len(packages) > 0 {
			ids, err := workspace.Persist(ctx, ix.store, repoID, packages, nil)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("workspace persist: %v", err))
			} else {
				result.WorkspacesDetected = len(packages)
				for _, pkg := range packages {
					pathOwner.workspaces = append(pathOwner.workspaces, prefixOwner{prefix: pkg.Path, id: ids[pkg.Name], name: pkg.Name})
				}
			}
		}
		result.Timing.Workspace = time.Since(wsStart)
	}

	if opts.EnableServiceDetection {
		svcStart := time.Now()
		detected, err := service.DetectAndPersist(ctx, ix.store, absRoot, repoID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("service detection: %v", err))
		} else {
			result.ServicesDetected = len(detected)
			svcRows, svcErr := ix.store.ServicesByRepo(ctx, repoID)
			if svcErr == nil {
				byPath := make(map[string]string, len(svcRows))
				for _, s := range svcRows {
					byPath[s.Path] = s.ServiceID
				}
				for _, d := range detected {
					pathOwner.services = append(pathOwner.services, prefixOwner{prefix: d.Path, id: byPath[d.Path], name: d.Name})
				}
			}
		}
		result.Timing.Service = time.Since(svcStart)
	}

	processStart := time.Now()

	toProcess := changes.FilesToProcess()
	workers := opts.IndexWorkers
	if workers <= 0 {
		workers = 4
	}

	var (
		chunkTotal, symbolTotal int
		warnings                []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make(chan fileOutcome, len(toProcess))

	for _, path := range toProcess {
		path := path
		g.Go(func() error {
			outcome := ix.processFile(gctx, repoID, path, content[path], languages[path], previousHash[path], pathOwner, opts)
			select {
			case results <- outcome:
			case <-gctx.Done():
				return gctx.Err()
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for outcome := range results {
		if outcome.err != nil {
			slog.Warn("failed to index file", slog.String("path", outcome.path), slog.String("error", outcome.err.Error()))
			warnings = append(warnings, fmt.Sprintf("%s: %v", outcome.path, outcome.err))
			continue
		}
		chunkTotal += outcome.chunks
		symbolTotal += outcome.symbols
		warnings = append(warnings, outcome.warnings...)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("indexer: process files: %w", err)
	}
	result.Timing.Process = time.Since(processStart)

	result.ChunksIndexed = chunkTotal
	result.SymbolsIndexed = symbolTotal
	result.Warnings = append(result.Warnings, warnings...)

	result.Duration = time.Since(start)
	return result, nil
}

// prefixOwner is a path-prefix-owned entity (a workspace package or a
// detected service) that a file under its directory inherits the ID of.
type prefixOwner struct {
	prefix string
	id     string
	name   string
}

// pathOwnership resolves a file path to the workspace/service that owns it,
// by longest-matching directory prefix.
type pathOwnership struct {
	workspaces []prefixOwner
	services   []prefixOwner
}

func (p pathOwnership) workspaceFor(path string) (id, name string) {
	return longestPrefixMatch(p.workspaces, path)
}

func (p pathOwnership) serviceFor(path string) (id, name string) {
	return longestPrefixMatch(p.services, path)
}

func longestPrefixMatch(owners []prefixOwner, path string) (id, name string) {
	bestLen := -1
	for _, o := range owners {
		prefix := o.prefix
		if prefix == "" || prefix == "." {
			continue
		}
		if path != prefix && !strings.HasPrefix(path, prefix+"/") {
			continue
		}
		if len(prefix) > bestLen {
			bestLen = len(prefix)
			id, name = o.id, o.name
		}
	}
	return id, name
}

// scanRepo walks the repository and loads every included file's content,
// honoring the markdown root-README carve-out (§4.1).
func (ix *Indexer) scanRepo(ctx context.Context, absRoot string, opts Options) ([]incremental.DiscoveredFile, []string, error) {
	sc, err := scanner.New()
	if err != nil {
		return nil, nil, err
	}

	scanOpts := &scanner.ScanOptions{
		RootDir:          absRoot,
		IncludePatterns:  opts.IncludePatterns,
		ExcludePatterns:  opts.ExcludePatterns,
		RespectGitignore: opts.RespectGitignore,
		IncludeMarkdown:  opts.IncludeMarkdown,
		MaxFileSize:      opts.MaxFileSize,
	}

	ch, err := sc.Scan(ctx, scanOpts)
	if err != nil {
		return nil, nil, err
	}

	var (
		discovered []incremental.DiscoveredFile
		warnings   []string
	)
	for res := range ch {
		if res.Error != nil {
			warnings = append(warnings, res.Error.Error())
			continue
		}
		f := res.File
		if f.ContentType != scanner.ContentTypeCode && f.ContentType != scanner.ContentTypeMarkdown {
			continue
		}
		if f.ContentType == scanner.ContentTypeMarkdown && !opts.IncludeMarkdown && !scanner.IsRootReadme(f.Path) {
			continue
		}
		data, err := os.ReadFile(f.AbsPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", f.Path, err))
			continue
		}
		discovered = append(discovered, incremental.DiscoveredFile{Path: f.Path, Content: data})
	}

	return discovered, warnings, nil
}
