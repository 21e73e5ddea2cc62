package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// FileMatch is a single file-level ANN search hit.
type FileMatch struct {
	FilePath   string
	RepoID     string
	Similarity float64
}

// ChunkMatch is a single chunk-level ANN search hit.
type ChunkMatch struct {
	Chunk      Chunk
	Similarity float64
}

// SearchFiles runs Stage A of the two-level retriever (§4.13): ANN search
// over file-summary chunk embeddings restricted by repo scope, returning the
// top maxFiles results with similarity >= threshold, ordered by descending
// similarity with chunk_id as a deterministic tiebreaker.
func (s *Store) SearchFiles(ctx context.Context, queryVec []float32, repoIDs []string, maxFiles int, threshold float64) ([]FileMatch, error) {
	vec, err := s.toPgvector(queryVec)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT file_path, repo_id, 1 - (embedding <=> $1) AS similarity
		FROM code_chunks
		WHERE chunk_type = 'file_summary'
			AND ($2::text[] IS NULL OR repo_id = ANY($2))
			AND 1 - (embedding <=> $1) >= $3
		ORDER BY similarity DESC, chunk_id ASC
		LIMIT $4`, vec, nilIfEmptySlice(repoIDs), threshold, maxFiles)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError("DB_SEARCH_FILES_FAILED", "failed to search files", "", err)
	}
	defer rows.Close()

	var out []FileMatch
	for rows.Next() {
		var m FileMatch
		if err := rows.Scan(&m.FilePath, &m.RepoID, &m.Similarity); err != nil {
			return nil, amanerrors.InternalError("failed to scan file match", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SearchChunks runs Stage B of the two-level retriever (§4.13): ANN search
// over chunk embeddings restricted to the given files, returning the top
// maxCandidates results with similarity >= threshold.
func (s *Store) SearchChunks(ctx context.Context, queryVec []float32, filePaths []string, maxCandidates int, threshold float64) ([]ChunkMatch, error) {
	vec, err := s.toPgvector(queryVec)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT chunk_id, repo_id, file_path, chunk_type, start_line, end_line, content, token_count, metadata, embedding,
			COALESCE(workspace_id, ''), COALESCE(package_name, ''), COALESCE(service_id, ''),
			1 - (embedding <=> $1) AS similarity
		FROM code_chunks
		WHERE chunk_type != 'file_summary'
			AND file_path = ANY($2)
			AND 1 - (embedding <=> $1) >= $3
		ORDER BY similarity DESC, chunk_id ASC
		LIMIT $4`, vec, filePaths, threshold, maxCandidates)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError("DB_SEARCH_CHUNKS_FAILED", "failed to search chunks", "", err)
	}
	defer rows.Close()

	var out []ChunkMatch
	for rows.Next() {
		var m ChunkMatch
		var metaJSON []byte
		var embedding pgvector.Vector
		if err := rows.Scan(&m.Chunk.ChunkID, &m.Chunk.RepoID, &m.Chunk.FilePath, &m.Chunk.ChunkType,
			&m.Chunk.StartLine, &m.Chunk.EndLine, &m.Chunk.Content, &m.Chunk.TokenCount, &metaJSON, &embedding,
			&m.Chunk.WorkspaceID, &m.Chunk.PackageName, &m.Chunk.ServiceID, &m.Similarity); err != nil {
			return nil, amanerrors.InternalError("failed to scan chunk match", err)
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &m.Chunk.Metadata); err != nil {
				return nil, amanerrors.InternalError("failed to unmarshal chunk metadata", err)
			}
		}
		m.Chunk.Embedding = embedding.Slice()
		out = append(out, m)
	}
	return out, rows.Err()
}

// ResolveSymbol finds the best-matching exported symbol by name within scope.
func (s *Store) ResolveSymbol(ctx context.Context, repoIDs []string, name string) (Symbol, bool, error) {
	var sym Symbol
	err := s.pool.QueryRow(ctx, `
		SELECT symbol_id, repo_id, file_path, symbol_name, symbol_type, line_number, definition, scope
		FROM code_symbols
		WHERE ($1::text[] IS NULL OR repo_id = ANY($1))
			AND symbol_name = $2 AND scope = 'exported'
		LIMIT 1`, nilIfEmptySlice(repoIDs), name).
		Scan(&sym.SymbolID, &sym.RepoID, &sym.FilePath, &sym.SymbolName, &sym.SymbolType, &sym.LineNumber, &sym.Definition, &sym.Scope)
	if err != nil {
		if isNoRows(err) {
			return Symbol{}, false, nil
		}
		return Symbol{}, false, amanerrors.ExternalDependencyError("DB_RESOLVE_SYMBOL_FAILED", "failed to resolve symbol", "", err)
	}
	return sym, true, nil
}

// FileImports returns the import list for a file plus its workspace/service
// IDs, the import expander's per-node lookup (§4.14).
func (s *Store) FileImports(ctx context.Context, repoID, filePath string) (imports []string, workspaceID, serviceID string, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT imports, COALESCE(workspace_id, ''), COALESCE(service_id, '')
		FROM code_files WHERE repo_id = $1 AND file_path = $2`, repoID, filePath).
		Scan(&imports, &workspaceID, &serviceID)
	if isNoRows(err) {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", amanerrors.ExternalDependencyError("DB_FILE_IMPORTS_FAILED", "failed to fetch file imports", "", err)
	}
	return imports, workspaceID, serviceID, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func nilIfEmptySlice(s []string) any {
	if len(s) == 0 {
		return nil
	}
	return s
}
