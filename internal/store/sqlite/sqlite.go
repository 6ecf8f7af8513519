// Package sqlite provides a SQLite-backed endpoint store so resolved
// cluster endpoints survive process restarts. Purely a warm-start
// optimisation: a cold cache only costs one describe-cluster call per
// cluster.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// defaultBusyTimeout is the SQLite busy_timeout in milliseconds.
const defaultBusyTimeout = 5000

const schemaVersion = 1

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS endpoints (
		cluster_id TEXT PRIMARY KEY,
		endpoint   TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,
}

// Store is a persistent zilliz.EndpointStore.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the endpoint database at the given path. The
// database uses WAL mode, a 5 s busy timeout, and a single connection
// (SQLite serialises writes). The caller owns Close.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "endpoint_store")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get implements zilliz.EndpointStore. Read errors degrade to a cache
// miss: the resolver falls back to a fresh lookup.
func (s *Store) Get(clusterID string) (string, bool) {
	var endpoint string
	err := s.db.QueryRow(
		"SELECT endpoint FROM endpoints WHERE cluster_id = ?", clusterID,
	).Scan(&endpoint)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("endpoint read failed", "cluster_id", clusterID, "error", err)
		}
		return "", false
	}
	return endpoint, true
}

// Put implements zilliz.EndpointStore. Last writer wins, matching the
// in-memory store's semantics.
func (s *Store) Put(clusterID, endpoint string) error {
	_, err := s.db.Exec(`
		INSERT INTO endpoints (cluster_id, endpoint, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(cluster_id) DO UPDATE SET
			endpoint   = excluded.endpoint,
			updated_at = excluded.updated_at`,
		clusterID, endpoint,
	)
	if err != nil {
		return fmt.Errorf("sqlite: store endpoint for %s: %w", clusterID, err)
	}
	return nil
}

// All implements zilliz.EndpointStore.
func (s *Store) All() map[string]string {
	rows, err := s.db.Query("SELECT cluster_id, endpoint FROM endpoints")
	if err != nil {
		s.logger.Warn("endpoint scan failed", "error", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var clusterID, endpoint string
		if err := rows.Scan(&clusterID, &endpoint); err != nil {
			s.logger.Warn("endpoint row scan failed", "error", err)
			continue
		}
		out[clusterID] = endpoint
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("endpoint iteration failed", "error", err)
	}
	return out
}

// migrate creates or updates the schema. All DDL uses IF NOT EXISTS,
// making migration idempotent.
func migrate(db *sql.DB) error {
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}
	return nil
}
