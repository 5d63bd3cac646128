package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// items.id has no AUTOINCREMENT, so a new id is one past the current maximum.
// exits keeps a snapshot of the material and deliberately has no foreign key:
// deleting an item leaves its history intact.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('admin', 'technician', 'viewer')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id            INTEGER PRIMARY KEY,
    type          TEXT NOT NULL,
    name          TEXT NOT NULL,
    code          TEXT NOT NULL,
    location      TEXT NOT NULL,
    stock         INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    unit          TEXT NOT NULL DEFAULT 'UNI',
    reorder_point INTEGER,
    max_point     INTEGER,
    photo         TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS exits (
    id                INTEGER PRIMARY KEY,
    material_id       INTEGER NOT NULL,
    material_name     TEXT NOT NULL,
    material_code     TEXT NOT NULL,
    material_location TEXT NOT NULL,
    material_type     TEXT NOT NULL,
    quantity          INTEGER NOT NULL CHECK (quantity > 0),
    remaining_stock   INTEGER NOT NULL,
    person_name       TEXT NOT NULL,
    person_last_name  TEXT NOT NULL,
    area              TEXT NOT NULL,
    cost_center       TEXT NOT NULL DEFAULT '',
    sap_code          TEXT NOT NULL DEFAULT '',
    work_order        TEXT NOT NULL DEFAULT '',
    exit_date         TEXT NOT NULL,
    exit_time         TEXT NOT NULL,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	`CREATE INDEX IF NOT EXISTS idx_exits_material ON exits(material_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_code ON items(code)`,
	`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires ON revoked_tokens(expires_at)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies the migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
