// Package duckdb archives HapMap tables in DuckDB so converted batches can be
// queried after the fact. Markers and genotype calls are stored in long form.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for the HapMap archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS markers (
			id VARCHAR,
			alleles VARCHAR,
			chrom VARCHAR,
			pos VARCHAR,
			resolved BOOLEAN,
			source_file VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS genotypes (
			id VARCHAR,
			sample VARCHAR,
			code VARCHAR,
			source_file VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			source_file VARCHAR PRIMARY KEY,
			size BIGINT,
			mod_time TIMESTAMP,
			markers BIGINT,
			samples BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
