package store

import (
	"context"
	"encoding/json"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// UpsertWorkspace inserts or updates a monorepo package row.
func (s *Store) UpsertWorkspace(ctx context.Context, w Workspace) error {
	manifestJSON, err := json.Marshal(w.ManifestInfo)
	if err != nil {
		return amanerrors.InternalError("failed to marshal workspace manifest info", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO workspaces (workspace_id, repo_id, package_name, path, manifest_info)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workspace_id) DO UPDATE SET
			package_name = EXCLUDED.package_name,
			path = EXCLUDED.path,
			manifest_info = EXCLUDED.manifest_info`,
		w.WorkspaceID, w.RepoID, w.PackageName, w.Path, manifestJSON)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_UPSERT_WORKSPACE_FAILED", "failed to upsert workspace", "", err)
	}
	return nil
}

// InsertWorkspaceDependency records a workspace->workspace edge.
func (s *Store) InsertWorkspaceDependency(ctx context.Context, d WorkspaceDependency) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO workspace_dependencies (repo_id, from_workspace_id, to_workspace_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`, d.RepoID, d.From, d.To)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_INSERT_WS_DEP_FAILED", "failed to insert workspace dependency", "", err)
	}
	return nil
}

// InsertWorkspaceAlias records a resolved path-alias entry.
func (s *Store) InsertWorkspaceAlias(ctx context.Context, a WorkspaceAlias) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO workspace_aliases (repo_id, workspace_id, alias, target, internal)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (repo_id, workspace_id, alias) DO UPDATE SET target = EXCLUDED.target, internal = EXCLUDED.internal`,
		a.RepoID, a.WorkspaceID, a.Alias, a.Target, a.Internal)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_INSERT_WS_ALIAS_FAILED", "failed to insert workspace alias", "", err)
	}
	return nil
}

// UpsertService inserts or updates a detected service row.
func (s *Store) UpsertService(ctx context.Context, svc Service) error {
	contractsJSON, err := json.Marshal(svc.Contracts)
	if err != nil {
		return amanerrors.InternalError("failed to marshal service contracts", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO services (service_id, repo_id, name, type, path, ports, contracts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (service_id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			path = EXCLUDED.path,
			ports = EXCLUDED.ports,
			contracts = EXCLUDED.contracts`,
		svc.ServiceID, svc.RepoID, svc.Name, svc.Type, svc.Path, svc.Ports, contractsJSON)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_UPSERT_SERVICE_FAILED", "failed to upsert service", "", err)
	}
	return nil
}

// InsertCrossRepoDependency records a directed edge, possibly spanning repositories.
func (s *Store) InsertCrossRepoDependency(ctx context.Context, d CrossRepoDependency) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cross_repo_dependencies (source_repo_id, source_service_id, target_repo_id, target_service_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		d.SourceRepoID, nullIfEmpty(d.SourceServiceID), d.TargetRepoID, nullIfEmpty(d.TargetServiceID))
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_INSERT_CROSS_REPO_DEP_FAILED", "failed to insert cross-repo dependency", "", err)
	}
	return nil
}

// ServicesByRepo returns all services detected for a repository.
func (s *Store) ServicesByRepo(ctx context.Context, repoID string) ([]Service, error) {
	rows, err := s.pool.Query(ctx, `SELECT service_id, repo_id, name, type, path, ports FROM services WHERE repo_id = $1`, repoID)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError("DB_QUERY_SERVICES_FAILED", "failed to query services", "", err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ServiceID, &svc.RepoID, &svc.Name, &svc.Type, &svc.Path, &svc.Ports); err != nil {
			return nil, amanerrors.InternalError("failed to scan service row", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}
