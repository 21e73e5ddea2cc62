// Package reindex decides whether a repository needs a full reindex versus
// an incremental update, and carries out the dependency-safe row wipe a full
// reindex requires.
package reindex

import (
	"context"
	"time"

	"github.com/aman-cerp/semindex/internal/store"
)

// DefaultMaxAgeDays is the staleness threshold used when options don't
// override it.
const DefaultMaxAgeDays = 30

// Options carries the caller's reindex request.
type Options struct {
	// Force unconditionally triggers a reindex.
	Force bool

	// Version is the caller-supplied version to compare against the stored
	// repository version (e.g. a git commit SHA or package version).
	Version string

	// CompareVersion enables version comparison; when false, Version is
	// ignored and only Force/previously-indexed/default-incremental apply.
	CompareVersion bool

	// MaxAgeDays overrides DefaultMaxAgeDays for IsOutdated.
	MaxAgeDays int
}

// Decision is the result of Decide.
type Decision struct {
	Reindex        bool
	Reason         string
	VersionChanged bool
	Force          bool
}

// Decide implements the five-step reindex decision procedure: force, never
// previously indexed, version mismatch, version match, default incremental.
func Decide(ctx context.Context, s *store.Store, repoID string, opts Options) (Decision, error) {
	if opts.Force {
		return Decision{Reindex: true, Reason: "force requested", Force: true}, nil
	}

	repo, found, err := s.GetRepository(ctx, repoID)
	if err != nil {
		return Decision{}, err
	}
	if !found {
		return Decision{Reindex: true, Reason: "repository not previously indexed"}, nil
	}

	if opts.CompareVersion && opts.Version != "" {
		if opts.Version != repo.Version {
			return Decision{Reindex: true, Reason: "version changed", VersionChanged: true}, nil
		}
		return Decision{Reindex: false, Reason: "version unchanged"}, nil
	}

	return Decision{Reindex: false, Reason: "default incremental"}, nil
}

// IsOutdated reports whether repo's last_indexed is older than maxAgeDays
// (DefaultMaxAgeDays when maxAgeDays <= 0).
func IsOutdated(repo store.Repository, maxAgeDays int, now time.Time) bool {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}
	if repo.LastIndexed.IsZero() {
		return true
	}
	return now.Sub(repo.LastIndexed) > time.Duration(maxAgeDays)*24*time.Hour
}

// ClearOwnedRows wipes every row owned by repoID in dependency-safe order,
// preserving the repository row itself. Used when Decide reports Reindex.
func ClearOwnedRows(ctx context.Context, s *store.Store, repoID string) error {
	return s.ClearRepositoryOwnedRows(ctx, repoID)
}

// DeleteRepository removes the repository row and every row it owns.
func DeleteRepository(ctx context.Context, s *store.Store, repoID string) error {
	return s.DeleteRepository(ctx, repoID)
}
