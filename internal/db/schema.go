package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete journal schema for fresh installs.
// Keep it in sync with the migrations; tests load it through GetSchemaSQL.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	project_dir TEXT NOT NULL,
	audit_mode TEXT NOT NULL CHECK(audit_mode IN ('custom', 'javers')),
	status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed', 'planned')) DEFAULT 'running',
	entities TEXT,
	applied INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	warned INTEGER NOT NULL DEFAULT 0,
	error TEXT,
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project_dir);

CREATE TABLE IF NOT EXISTS operations (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	target TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('applied', 'skipped', 'warned', 'planned')),
	detail TEXT,
	PRIMARY KEY (run_id, seq),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

// InitSchema creates the schema on a fresh database and migrates an existing one.
func InitSchema(db *sql.DB) error {
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Fresh install - create the schema directly and mark every migration applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
