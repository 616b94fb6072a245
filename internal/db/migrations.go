package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_runs_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_operations_table",
		Up:      migrationV2,
	},
}

// LatestVersion is the schema version after every migration.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	// Create schema_version table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the runs table
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE runs (
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
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec("CREATE INDEX idx_runs_project ON runs(project_dir)")
	return err
}

// migrationV2 creates the operations table
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE operations (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			target TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('applied', 'skipped', 'warned', 'planned')),
			detail TEXT,
			PRIMARY KEY (run_id, seq),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)
	`)
	return err
}
