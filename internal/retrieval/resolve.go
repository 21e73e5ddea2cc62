package retrieval

import (
	"context"
	"sort"

	"github.com/aman-cerp/semindex/internal/store"
)

const maxImportExpanderRoots = 10

// ResolveSymbols finds the best-matching exported symbol for each name,
// within scope. Names that don't resolve are omitted.
func ResolveSymbols(ctx context.Context, s *store.Store, scope Scope, names []string) ([]store.Symbol, error) {
	seen := make(map[string]bool, len(names))
	var out []store.Symbol
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sym, ok, err := s.ResolveSymbol(ctx, scope.RepoIDs, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, sym)
		}
	}
	return out, nil
}

// fileNode identifies a file for BFS traversal within a repository.
type fileNode struct {
	FilePath    string
	WorkspaceID string
	ServiceID   string
}

type bfsEntry struct {
	node  fileNode
	path  []string
	depth int
}

// ExpandImports performs the bounded BFS import-chain expansion (§4.14)
// rooted at up to the top-10 retrieved files.
func ExpandImports(ctx context.Context, s *store.Store, repoID string, roots []string, opts ImportOptions) ([]ImportChain, error) {
	opts = opts.withDefaults()

	limitedRoots := roots
	if len(limitedRoots) > maxImportExpanderRoots {
		limitedRoots = limitedRoots[:maxImportExpanderRoots]
	}

	var chains []ImportChain
	for _, root := range limitedRoots {
		chain, err := expandFromRoot(ctx, s, repoID, root, opts)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain...)
	}
	return chains, nil
}

func lookupNode(ctx context.Context, s *store.Store, repoID, path string) (fileNode, []string, error) {
	imports, workspaceID, serviceID, err := s.FileImports(ctx, repoID, path)
	if err != nil {
		return fileNode{}, nil, err
	}
	return fileNode{FilePath: path, WorkspaceID: workspaceID, ServiceID: serviceID}, imports, nil
}

func expandFromRoot(ctx context.Context, s *store.Store, repoID, root string, opts ImportOptions) ([]ImportChain, error) {
	rootNode, rootImports, err := lookupNode(ctx, s, repoID, root)
	if err != nil {
		return nil, err
	}

	var chains []ImportChain
	visited := map[string]bool{root: true}
	queue := []bfsEntry{{node: rootNode, path: []string{root}, depth: 0}}
	imports := map[string][]string{root: rootImports}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= opts.Depth {
			continue
		}

		for _, target := range sortedUnique(imports[cur.node.FilePath]) {
			if visited[target] {
				chains = append(chains, ImportChain{Root: root, Chain: append(append([]string{}, cur.path...), target), Cycle: true})
				continue
			}

			targetNode, targetImports, err := lookupNode(ctx, s, repoID, target)
			if err != nil {
				return nil, err
			}
			if !boundaryAllows(opts, cur.node, targetNode) {
				continue
			}

			visited[target] = true
			imports[target] = targetImports
			newPath := append(append([]string{}, cur.path...), target)
			chains = append(chains, ImportChain{Root: root, Chain: newPath})
			queue = append(queue, bfsEntry{node: targetNode, path: newPath, depth: cur.depth + 1})
		}
	}

	return chains, nil
}

// boundaryAllows reports whether target may be enqueued from source, given
// the requested boundary options. Targets with unknown (empty) workspace or
// service IDs are assumed external and always kept.
func boundaryAllows(opts ImportOptions, source, target fileNode) bool {
	if (opts.RespectWorkspaceBoundaries || opts.IncludeWorkspaceOnly) && target.WorkspaceID != "" {
		if target.WorkspaceID != source.WorkspaceID {
			return false
		}
	}
	if (opts.RespectServiceBoundaries || opts.IncludeServiceOnly) && target.ServiceID != "" {
		if target.ServiceID != source.ServiceID {
			return false
		}
	}
	return true
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
