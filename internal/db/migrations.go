package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// Ensure new columns exist on upgrades
	if err := ensurePipelineRunColumns(db); err != nil {
		return err
	}
	return ensureReleaseColumns(db)
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// ensurePipelineRunColumns checks for optional columns and adds them when missing.
func ensurePipelineRunColumns(db *sql.DB) error {
	cols, err := tableColumns(db, "pipeline_runs")
	if err != nil {
		return err
	}
	if !cols["error"] {
		if _, err := db.Exec("ALTER TABLE pipeline_runs ADD COLUMN error TEXT"); err != nil {
			return err
		}
	}
	return nil
}

func ensureReleaseColumns(db *sql.DB) error {
	cols, err := tableColumns(db, "releases")
	if err != nil {
		return err
	}
	if !cols["updated_at"] {
		if _, err := db.Exec("ALTER TABLE releases ADD COLUMN updated_at TEXT"); err != nil {
			return err
		}
	}
	return nil
}
