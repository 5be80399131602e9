package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// kv holds opaque payloads under fixed keys: the persisted application state
// and generated secrets. merch_images holds processed merchandise images,
// which are too large to live in the state payload.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS merch_images (
    merch_id   TEXT PRIMARY KEY,
    event_id   TEXT NOT NULL,
    image      BLOB NOT NULL,
    image_mime TEXT NOT NULL,
    etag       TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies the migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return migrate(db)
}
