package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	amanerrors "github.com/aman-cerp/semindex/internal/errors"
)

// Config configures the Postgres-backed store.
type Config struct {
	DSN              string
	DatabaseName     string
	MaxConns         int32
	StatementTimeout time.Duration
	Dimension        int
}

// Store persists the indexed repository graph to Postgres + pgvector.
type Store struct {
	pool      *pgxpool.Pool
	dimension int
}

// Connect opens a pooled connection, verifies the reported current
// database matches cfg.DatabaseName, and runs the startup health check.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, amanerrors.ConfigError("invalid database.dsn", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, amanerrors.ExternalDependencyError(
			"DB_CONNECT_FAILED", "failed to connect to the database",
			"verify database.dsn and that the database is reachable", err)
	}

	s := &Store{pool: pool, dimension: cfg.Dimension}

	if cfg.DatabaseName != "" {
		var current string
		if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&current); err != nil {
			pool.Close()
			return nil, amanerrors.ExternalDependencyError("DB_VERIFY_FAILED", "failed to verify current database", "", err)
		}
		if current != cfg.DatabaseName {
			pool.Close()
			return nil, amanerrors.New("DB_NAME_MISMATCH",
				fmt.Sprintf("connected to database %q but configured database.name is %q", current, cfg.DatabaseName), nil)
		}
	}

	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if err := s.HealthCheck(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// HealthCheck verifies the vector extension is installed and that
// vector-typed columns exist on the expected tables.
func (s *Store) HealthCheck(ctx context.Context) error {
	var extInstalled bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')`).Scan(&extInstalled); err != nil {
		return amanerrors.ExternalDependencyError("DB_HEALTHCHECK_FAILED", "failed to check for vector extension", "", err)
	}
	if !extInstalled {
		return amanerrors.New("DB_VECTOR_EXTENSION_MISSING", "the vector extension is not installed on this database", nil).
			WithSuggestion("run CREATE EXTENSION vector; as a database superuser")
	}

	for _, check := range []struct{ table, column string }{
		{"code_chunks", "embedding"},
		{"code_symbols", "embedding"},
	} {
		var typ string
		err := s.pool.QueryRow(ctx, `
			SELECT data_type FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2`, check.table, check.column).Scan(&typ)
		if err == pgx.ErrNoRows {
			return amanerrors.New("DB_SCHEMA_MISSING", fmt.Sprintf("expected vector column %s.%s not found", check.table, check.column), nil)
		}
		if err != nil {
			return amanerrors.ExternalDependencyError("DB_HEALTHCHECK_FAILED", "failed to inspect schema", "", err)
		}
		if typ != "USER-DEFINED" {
			return amanerrors.New("DB_SCHEMA_INVALID", fmt.Sprintf("%s.%s is not a vector column", check.table, check.column), nil)
		}
	}

	return nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	dim := s.dimension
	if dim <= 0 {
		dim = 768
	}

	stmt := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS repositories (
	repo_id TEXT PRIMARY KEY,
	repo_type TEXT NOT NULL,
	root TEXT NOT NULL,
	version TEXT,
	upstream_url TEXT,
	indexed_at TIMESTAMPTZ,
	last_indexed TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS code_files (
	repo_id TEXT NOT NULL REFERENCES repositories(repo_id),
	file_path TEXT NOT NULL,
	language TEXT,
	line_count INT,
	file_hash TEXT NOT NULL,
	file_summary TEXT,
	exports TEXT[],
	imports TEXT[],
	workspace_id TEXT,
	package_name TEXT,
	service_id TEXT,
	PRIMARY KEY (repo_id, file_path)
);

CREATE TABLE IF NOT EXISTS code_chunks (
	chunk_id TEXT PRIMARY KEY,
	repo_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	chunk_type TEXT NOT NULL,
	start_line INT NOT NULL,
	end_line INT NOT NULL,
	content TEXT NOT NULL,
	token_count INT,
	metadata JSONB,
	embedding vector(%[1]d),
	workspace_id TEXT,
	package_name TEXT,
	service_id TEXT,
	FOREIGN KEY (repo_id, file_path) REFERENCES code_files(repo_id, file_path)
);
CREATE INDEX IF NOT EXISTS code_chunks_repo_idx ON code_chunks (repo_id, file_path);

CREATE TABLE IF NOT EXISTS code_symbols (
	symbol_id TEXT PRIMARY KEY,
	repo_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	symbol_name TEXT NOT NULL,
	symbol_type TEXT NOT NULL,
	line_number INT,
	definition TEXT,
	embedding vector(%[1]d),
	scope TEXT NOT NULL,
	FOREIGN KEY (repo_id, file_path) REFERENCES code_files(repo_id, file_path)
);
CREATE INDEX IF NOT EXISTS code_symbols_name_idx ON code_symbols (repo_id, symbol_name);

CREATE TABLE IF NOT EXISTS workspaces (
	workspace_id TEXT PRIMARY KEY,
	repo_id TEXT NOT NULL REFERENCES repositories(repo_id),
	package_name TEXT,
	path TEXT,
	manifest_info JSONB
);

CREATE TABLE IF NOT EXISTS workspace_dependencies (
	repo_id TEXT NOT NULL,
	from_workspace_id TEXT NOT NULL,
	to_workspace_id TEXT NOT NULL,
	PRIMARY KEY (repo_id, from_workspace_id, to_workspace_id)
);

CREATE TABLE IF NOT EXISTS workspace_aliases (
	repo_id TEXT NOT NULL,
	workspace_id TEXT NOT NULL,
	alias TEXT NOT NULL,
	target TEXT NOT NULL,
	internal BOOLEAN NOT NULL,
	PRIMARY KEY (repo_id, workspace_id, alias)
);

CREATE TABLE IF NOT EXISTS services (
	service_id TEXT PRIMARY KEY,
	repo_id TEXT NOT NULL REFERENCES repositories(repo_id),
	name TEXT,
	type TEXT,
	path TEXT,
	ports INT[],
	contracts JSONB
);

CREATE TABLE IF NOT EXISTS cross_repo_dependencies (
	source_repo_id TEXT NOT NULL,
	source_service_id TEXT,
	target_repo_id TEXT NOT NULL,
	target_service_id TEXT,
	PRIMARY KEY (source_repo_id, source_service_id, target_repo_id, target_service_id)
);
`, dim)

	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return amanerrors.ExternalDependencyError("DB_SCHEMA_SETUP_FAILED", "failed to create schema", "", err)
	}
	return nil
}

// toPgvector converts a float32 slice to the pgvector wire type, validating
// the dimension invariant at the database-write boundary.
func (s *Store) toPgvector(vec []float32) (pgvector.Vector, error) {
	if len(vec) != s.dimension && s.dimension > 0 {
		return pgvector.Vector{}, amanerrors.VectorDimensionError(s.dimension, len(vec))
	}
	return pgvector.NewVector(vec), nil
}
