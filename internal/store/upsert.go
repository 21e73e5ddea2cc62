package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// UpsertRepository inserts or updates a repository row, idempotent on repo_id.
func (s *Store) UpsertRepository(ctx context.Context, repo Repository) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO repositories (repo_id, repo_type, root, version, upstream_url, indexed_at, last_indexed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (repo_id) DO UPDATE SET
			repo_type = EXCLUDED.repo_type,
			root = EXCLUDED.root,
			version = EXCLUDED.version,
			upstream_url = EXCLUDED.upstream_url,
			indexed_at = EXCLUDED.indexed_at,
			last_indexed = EXCLUDED.last_indexed`,
		repo.RepoID, repo.RepoType, repo.Root, repo.Version, repo.UpstreamURL, repo.IndexedAt, repo.LastIndexed)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_UPSERT_REPO_FAILED", "failed to upsert repository", "", err)
	}
	return nil
}

// UpsertFile replaces the row for (repo_id, file_path). Chunks and symbols
// referencing this file are the incremental engine's responsibility to
// delete before a re-insert (§4.8).
func (s *Store) UpsertFile(ctx context.Context, f File) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO code_files (repo_id, file_path, language, line_count, file_hash, file_summary, exports, imports, workspace_id, package_name, service_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (repo_id, file_path) DO UPDATE SET
			language = EXCLUDED.language,
			line_count = EXCLUDED.line_count,
			file_hash = EXCLUDED.file_hash,
			file_summary = EXCLUDED.file_summary,
			exports = EXCLUDED.exports,
			imports = EXCLUDED.imports,
			workspace_id = EXCLUDED.workspace_id,
			package_name = EXCLUDED.package_name,
			service_id = EXCLUDED.service_id`,
		f.RepoID, f.FilePath, f.Language, f.LineCount, f.FileHash, f.FileSummary,
		f.Exports, f.Imports, nullIfEmpty(f.WorkspaceID), nullIfEmpty(f.PackageName), nullIfEmpty(f.ServiceID))
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_UPSERT_FILE_FAILED", "failed to upsert file", "", err)
	}
	return nil
}

// UpdateFileHash updates only the hash column, used by the incremental
// engine to commit a file's hash last, after its chunks/symbols land (§4.8
// partial-write tolerance).
func (s *Store) UpdateFileHash(ctx context.Context, repoID, filePath, hash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE code_files SET file_hash = $1 WHERE repo_id = $2 AND file_path = $3`,
		hash, repoID, filePath)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_UPDATE_HASH_FAILED", "failed to update file hash", "", err)
	}
	return nil
}

// InsertChunks inserts chunk rows with do-nothing-on-conflict semantics;
// callers must delete stale rows first (see DeleteChunksAndSymbolsForFiles).
func (s *Store) InsertChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_BEGIN_FAILED", "failed to begin transaction", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range chunks {
		vec, err := s.toPgvector(c.Embedding)
		if err != nil {
			return err
		}
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return amanerrors.InternalError("failed to marshal chunk metadata", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO code_chunks (chunk_id, repo_id, file_path, chunk_type, start_line, end_line, content, token_count, metadata, embedding, workspace_id, package_name, service_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (chunk_id) DO NOTHING`,
			c.ChunkID, c.RepoID, c.FilePath, c.ChunkType, c.StartLine, c.EndLine, c.Content, c.TokenCount,
			metaJSON, vec, nullIfEmpty(c.WorkspaceID), nullIfEmpty(c.PackageName), nullIfEmpty(c.ServiceID))
		if err != nil {
			return amanerrors.ExternalDependencyError("DB_INSERT_CHUNK_FAILED", "failed to insert chunk", "", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_COMMIT_FAILED", "failed to commit chunk insert", "", err)
	}
	return nil
}

// InsertSymbols inserts symbol rows with do-nothing-on-conflict semantics.
func (s *Store) InsertSymbols(ctx context.Context, symbols []Symbol) error {
	if len(symbols) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_BEGIN_FAILED", "failed to begin transaction", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, sym := range symbols {
		var vec any
		if len(sym.Embedding) > 0 {
			v, err := s.toPgvector(sym.Embedding)
			if err != nil {
				return err
			}
			vec = v
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO code_symbols (symbol_id, repo_id, file_path, symbol_name, symbol_type, line_number, definition, embedding, scope)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (symbol_id) DO NOTHING`,
			sym.SymbolID, sym.RepoID, sym.FilePath, sym.SymbolName, sym.SymbolType, sym.LineNumber, sym.Definition, vec, sym.Scope)
		if err != nil {
			return amanerrors.ExternalDependencyError("DB_INSERT_SYMBOL_FAILED", "failed to insert symbol", "", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_COMMIT_FAILED", "failed to commit symbol insert", "", err)
	}
	return nil
}

// DeleteChunksAndSymbolsForFiles deletes chunk then symbol rows for the
// given file paths, in that order for FK compliance (§4.8).
func (s *Store) DeleteChunksAndSymbolsForFiles(ctx context.Context, repoID string, filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_BEGIN_FAILED", "failed to begin transaction", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM code_chunks WHERE repo_id = $1 AND file_path = ANY($2)`, repoID, filePaths); err != nil {
		return amanerrors.ExternalDependencyError("DB_DELETE_CHUNKS_FAILED", "failed to delete stale chunks", "", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM code_symbols WHERE repo_id = $1 AND file_path = ANY($2)`, repoID, filePaths); err != nil {
		return amanerrors.ExternalDependencyError("DB_DELETE_SYMBOLS_FAILED", "failed to delete stale symbols", "", err)
	}

	return tx.Commit(ctx)
}

// DeleteFiles removes file rows no longer present on disk (§4.8 deleted set).
func (s *Store) DeleteFiles(ctx context.Context, repoID string, filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM code_files WHERE repo_id = $1 AND file_path = ANY($2)`, repoID, filePaths)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_DELETE_FILES_FAILED", "failed to delete stale files", "", err)
	}
	return nil
}

// FileHashes returns the (path, hash) pairs currently stored for a repo,
// the incremental engine's change-detection input.
func (s *Store) FileHashes(ctx context.Context, repoID string) ([]FileHash, error) {
	rows, err := s.pool.Query(ctx, `SELECT file_path, file_hash FROM code_files WHERE repo_id = $1`, repoID)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError("DB_QUERY_HASHES_FAILED", "failed to query file hashes", "", err)
	}
	defer rows.Close()

	var out []FileHash
	for rows.Next() {
		var fh FileHash
		if err := rows.Scan(&fh.FilePath, &fh.FileHash); err != nil {
			return nil, amanerrors.InternalError("failed to scan file hash row", err)
		}
		out = append(out, fh)
	}
	return out, rows.Err()
}

// GetRepository fetches a repository by ID, or (Repository{}, false, nil) if absent.
func (s *Store) GetRepository(ctx context.Context, repoID string) (Repository, bool, error) {
	var r Repository
	err := s.pool.QueryRow(ctx, `
		SELECT repo_id, repo_type, root, version, upstream_url, indexed_at, last_indexed
		FROM repositories WHERE repo_id = $1`, repoID).
		Scan(&r.RepoID, &r.RepoType, &r.Root, &r.Version, &r.UpstreamURL, &r.IndexedAt, &r.LastIndexed)
	if err == pgx.ErrNoRows {
		return Repository{}, false, nil
	}
	if err != nil {
		return Repository{}, false, amanerrors.ExternalDependencyError("DB_GET_REPO_FAILED", "failed to fetch repository", "", err)
	}
	return r, true, nil
}

// ListRepositories returns every indexed repository, used by the scope
// filter to resolve "global" mode and to prune by repo_type.
func (s *Store) ListRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT repo_id, repo_type, root, version, upstream_url, indexed_at, last_indexed
		FROM repositories`)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError("DB_LIST_REPOS_FAILED", "failed to list repositories", "", err)
	}
	defer rows.Close()

	var out []Repository
	for rows.Next() {
		var r Repository
		if err := rows.Scan(&r.RepoID, &r.RepoType, &r.Root, &r.Version, &r.UpstreamURL, &r.IndexedAt, &r.LastIndexed); err != nil {
			return nil, amanerrors.InternalError("failed to scan repository row", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearRepositoryOwnedRows deletes all rows owned by a repository in
// dependency-safe order, preserving the repository row itself (§4.9).
func (s *Store) ClearRepositoryOwnedRows(ctx context.Context, repoID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_TX_BEGIN_FAILED", "failed to begin transaction", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmts := []string{
		`DELETE FROM code_chunks WHERE repo_id = $1`,
		`DELETE FROM code_symbols WHERE repo_id = $1`,
		`DELETE FROM code_files WHERE repo_id = $1`,
		`DELETE FROM workspace_dependencies WHERE repo_id = $1`,
		`DELETE FROM workspace_aliases WHERE repo_id = $1`,
		`DELETE FROM workspaces WHERE repo_id = $1`,
		`DELETE FROM services WHERE repo_id = $1`,
		`DELETE FROM cross_repo_dependencies WHERE source_repo_id = $1 OR target_repo_id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt, repoID); err != nil {
			return amanerrors.ExternalDependencyError("DB_CLEAR_REPO_FAILED", "failed to clear repository rows", "", err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteRepository removes all owned rows and the repository row itself.
func (s *Store) DeleteRepository(ctx context.Context, repoID string) error {
	if err := s.ClearRepositoryOwnedRows(ctx, repoID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM repositories WHERE repo_id = $1`, repoID)
	if err != nil {
		return amanerrors.ExternalDependencyError("DB_DELETE_REPO_FAILED", "failed to delete repository", "", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
