package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// DSN builds the modernc data source name for a database path.
func DSN(path string) string {
	params := make([]string, 0, len(pragmas)+1)
	if path != MemoryPath {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}

	if path == MemoryPath {
		return path + "?" + strings.Join(params, "&")
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Open opens a SQLite database and verifies the connection.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}

	return db, nil
}
