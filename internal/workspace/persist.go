package workspace

import (
	"context"

	"github.com/google/uuid"

	"github.com/aman-cerp/semindex/internal/store"
)

// Persist upserts each detected package as a workspace row, records a
// dependency edge for every dependency that resolves to another workspace
// package, and records alias resolutions against the supplied alias rules.
// It returns the workspace_id assigned to each package, keyed by name.
func Persist(ctx context.Context, s *store.Store, repoID string, packages []Package, aliases []AliasRule) (map[string]string, error) {
	ids := make(map[string]string, len(packages))
	for _, pkg := range packages {
		id := uuid.NewString()
		ids[pkg.Name] = id

		manifestInfo := map[string]string{"version": pkg.Version}
		if err := s.UpsertWorkspace(ctx, store.Workspace{
			WorkspaceID:  id,
			RepoID:       repoID,
			PackageName:  pkg.Name,
			Path:         pkg.Path,
			ManifestInfo: manifestInfo,
		}); err != nil {
			return nil, err
		}
	}

	for _, pkg := range packages {
		fromID := ids[pkg.Name]
		for _, dep := range pkg.Dependencies {
			toID, internal := ids[dep]
			if !internal {
				continue
			}
			if err := s.InsertWorkspaceDependency(ctx, store.WorkspaceDependency{
				RepoID: repoID,
				From:   fromID,
				To:     toID,
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, pkg := range packages {
		workspaceID := ids[pkg.Name]
		for _, rule := range aliases {
			if len(rule.Targets) == 0 {
				continue
			}
			resolved := ResolveAlias(rule.Pattern, packages, aliases)
			if err := s.InsertWorkspaceAlias(ctx, store.WorkspaceAlias{
				RepoID:      repoID,
				WorkspaceID: workspaceID,
				Alias:       rule.Pattern,
				Target:      resolved.Target,
				Internal:    resolved.Internal,
			}); err != nil {
				return nil, err
			}
		}
	}

	return ids, nil
}
