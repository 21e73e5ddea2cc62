// Package incremental detects which discovered files are new, modified,
// unchanged, or deleted relative to a repository's last indexed state, and
// applies the resulting change set against persistence.
package incremental

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/aman-cerp/semindex/internal/store"
)

// DiscoveredFile is a file found by the current filesystem walk.
type DiscoveredFile struct {
	Path    string
	Content []byte
}

// Changes partitions discovered files against the stored (path, hash) state.
type Changes struct {
	New       []string
	Modified  []string
	Unchanged []string
	Deleted   []string
}

// Stats summarizes a Changes set for reporting.
type Stats struct {
	New       int
	Modified  int
	Unchanged int
	Deleted   int
}

// HashContent returns the hex SHA256 digest of file content, used as the
// stored per-file fingerprint.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// DetectChanges fetches the repository's stored (path, hash) pairs and
// classifies each discovered file as new, modified, or unchanged; any stored
// path absent from discovered is deleted.
func DetectChanges(ctx context.Context, s *store.Store, repoID string, discovered []DiscoveredFile) (Changes, Stats, error) {
	stored, err := s.FileHashes(ctx, repoID)
	if err != nil {
		return Changes{}, Stats{}, err
	}

	storedHashes := make(map[string]string, len(stored))
	for _, fh := range stored {
		storedHashes[fh.FilePath] = fh.FileHash
	}

	changes := classify(storedHashes, discovered)
	stats := Stats{
		New:       len(changes.New),
		Modified:  len(changes.Modified),
		Unchanged: len(changes.Unchanged),
		Deleted:   len(changes.Deleted),
	}

	return changes, stats, nil
}

// classify is the pure diff: given stored (path -> hash) state and the
// current discovery, partitions paths into new/modified/unchanged/deleted.
func classify(storedHashes map[string]string, discovered []DiscoveredFile) Changes {
	discoveredPaths := make(map[string]bool, len(discovered))
	var changes Changes

	for _, f := range discovered {
		discoveredPaths[f.Path] = true
		hash := HashContent(f.Content)

		storedHash, exists := storedHashes[f.Path]
		switch {
		case !exists:
			changes.New = append(changes.New, f.Path)
		case storedHash != hash:
			changes.Modified = append(changes.Modified, f.Path)
		default:
			changes.Unchanged = append(changes.Unchanged, f.Path)
		}
	}

	for path := range storedHashes {
		if !discoveredPaths[path] {
			changes.Deleted = append(changes.Deleted, path)
		}
	}

	sort.Strings(changes.New)
	sort.Strings(changes.Modified)
	sort.Strings(changes.Unchanged)
	sort.Strings(changes.Deleted)

	return changes
}

// PrepareForReinsert deletes chunks and symbols for modified and deleted
// paths (in FK-safe order: chunks/symbols before files), and removes file
// rows for deleted paths. It must run before any new chunks/symbols are
// inserted for modified files.
func PrepareForReinsert(ctx context.Context, s *store.Store, repoID string, changes Changes) error {
	staleOrGone := append(append([]string{}, changes.Modified...), changes.Deleted...)
	if len(staleOrGone) > 0 {
		if err := s.DeleteChunksAndSymbolsForFiles(ctx, repoID, staleOrGone); err != nil {
			return err
		}
	}

	if len(changes.Deleted) > 0 {
		if err := s.DeleteFiles(ctx, repoID, changes.Deleted); err != nil {
			return err
		}
	}

	return nil
}

// FilesToProcess returns the paths that must be (re-)parsed, chunked,
// embedded, and persisted: new union modified. Unchanged files are skipped
// entirely.
func (c Changes) FilesToProcess() []string {
	out := make([]string, 0, len(c.New)+len(c.Modified))
	out = append(out, c.New...)
	out = append(out, c.Modified...)
	sort.Strings(out)
	return out
}

// CommitFileHash updates a file's stored hash only after its chunks and
// symbols have been committed, so that a run interrupted mid-file is seen
// as still-modified (not unchanged) on the next pass.
func CommitFileHash(ctx context.Context, s *store.Store, repoID, filePath, hash string) error {
	return s.UpdateFileHash(ctx, repoID, filePath, hash)
}
