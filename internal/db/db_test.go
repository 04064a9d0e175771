package db

import (
	"testing"

	"github.com/unitykit/unity-guid-rewriter/internal/config"
)

func TestInitDBCreatesSchema(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())

	dbConn, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	for _, table := range []string{"pipeline_runs", "run_steps", "artifacts", "releases"} {
		var name string
		row := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())

	dbConn, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	if err := ApplyMigrations(dbConn); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}

	cols, err := tableColumns(dbConn, "pipeline_runs")
	if err != nil {
		t.Fatalf("tableColumns: %v", err)
	}
	if !cols["error"] {
		t.Fatalf("expected migrated 'error' column on pipeline_runs")
	}
}
