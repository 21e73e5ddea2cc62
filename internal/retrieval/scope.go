package retrieval

import (
	"context"
	"sort"

	"github.com/aman-cerp/semindex/internal/store"
)

// ResolveScope applies the §4.12 resolution order: apply include-set, then
// remove exclude-set, then prune by excluded repo_type, then drop reference
// and documentation repositories unless explicitly included.
func ResolveScope(ctx context.Context, s *store.Store, in ScopeInput) (Scope, error) {
	repos, err := s.ListRepositories(ctx)
	if err != nil {
		return Scope{}, err
	}

	byID := make(map[string]store.Repository, len(repos))
	for _, r := range repos {
		byID[r.RepoID] = r
	}

	repoIDs := resolveIDSet(allRepoIDs(repos), in.RepoIDs, in.ExcludeRepos)
	excludedTypes := make(map[store.RepoType]bool, len(in.ExcludeRepoTypes))
	for _, t := range in.ExcludeRepoTypes {
		excludedTypes[t] = true
	}

	explicitlyIncluded := make(map[string]bool, len(in.RepoIDs))
	for _, id := range in.RepoIDs {
		explicitlyIncluded[id] = true
	}

	kept := repoIDs[:0]
	for _, id := range repoIDs {
		repo, ok := byID[id]
		if !ok {
			continue
		}
		if excludedTypes[repo.RepoType] {
			continue
		}
		if !explicitlyIncluded[id] {
			if repo.RepoType == store.RepoTypeReference && !in.IncludeReferences {
				continue
			}
			if repo.RepoType == store.RepoTypeDocumentation && !in.IncludeDocumentation {
				continue
			}
		}
		kept = append(kept, id)
	}
	sort.Strings(kept)

	serviceIDs := applyIncludeExclude(in.ServiceIDs, in.ExcludeServices)
	workspaceIDs := applyIncludeExclude(in.WorkspaceIDs, in.ExcludeWorkspaces)

	return Scope{
		Mode:         in.Mode,
		RepoIDs:      kept,
		ServiceIDs:   serviceIDs,
		WorkspaceIDs: workspaceIDs,
	}, nil
}

func allRepoIDs(repos []store.Repository) []string {
	ids := make([]string, 0, len(repos))
	for _, r := range repos {
		ids = append(ids, r.RepoID)
	}
	return ids
}

// resolveIDSet applies include (or "all" when empty) then removes excludes.
func resolveIDSet(all, include, exclude []string) []string {
	base := include
	if len(base) == 0 {
		base = all
	}
	return applyIncludeExclude(base, exclude)
}

func applyIncludeExclude(include, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	out := make([]string, 0, len(include))
	for _, id := range include {
		if !excluded[id] {
			out = append(out, id)
		}
	}
	return out
}
