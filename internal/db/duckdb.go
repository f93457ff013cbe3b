package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Open opens a DuckDB database at path, or an in-memory one when path is
// empty.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to DuckDB: %w", err)
	}

	return db, nil
}

// EnsureJSON makes read_json available. The extension ships with the
// driver, so installing is only attempted when loading fails.
func EnsureJSON(db *sql.DB) error {
	if _, err := db.Exec("LOAD json"); err == nil {
		return nil
	}

	if _, err := db.Exec("INSTALL json"); err != nil {
		return fmt.Errorf("failed to install JSON extension: %w", err)
	}

	if _, err := db.Exec("LOAD json"); err != nil {
		return fmt.Errorf("failed to load JSON extension: %w", err)
	}

	return nil
}

// QuotePath renders a file path as a SQL string literal for table functions
// such as read_json, which do not accept bind parameters for the path.
func QuotePath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}
