// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/entity-audit/internal/ports/secondary"
)

// JournalRepository implements secondary.JournalRepository with SQLite.
type JournalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewJournalRepository creates a new SQLite journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db, now: time.Now}
}

// StartRun persists a new run.
func (r *JournalRepository) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	if run.Status == "" {
		run.Status = "running"
	}
	startedAt := r.now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, project_dir, audit_mode, status, entities, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProjectDir, run.AuditMode, run.Status, nullString(run.Entities), startedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	run.StartedAt = startedAt.Format(time.RFC3339)
	return nil
}

// FinishRun stores the final status and counters of a run.
func (r *JournalRepository) FinishRun(ctx context.Context, run *secondary.RunRecord) error {
	finishedAt := r.now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, applied = ?, skipped = ?, warned = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		run.Status, run.Applied, run.Skipped, run.Warned, nullString(run.Error), finishedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to verify run update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}

	run.FinishedAt = finishedAt.Format(time.RFC3339)
	return nil
}

// RecordOperation appends one operation outcome to a run.
func (r *JournalRepository) RecordOperation(ctx context.Context, op *secondary.OperationRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO operations (run_id, seq, kind, target, status, detail) VALUES (?, ?, ?, ?, ?, ?)",
		op.RunID, op.Seq, op.Kind, op.Target, op.Status, nullString(op.Detail),
	)
	if err != nil {
		return fmt.Errorf("failed to record operation %d of run %s: %w", op.Seq, op.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (r *JournalRepository) ListRuns(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_dir, audit_mode, status, entities, applied, skipped, warned, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var (
			entities   sql.NullString
			errText    sql.NullString
			startedAt  sql.NullTime
			finishedAt sql.NullTime
		)

		record := &secondary.RunRecord{}
		err := rows.Scan(&record.ID, &record.ProjectDir, &record.AuditMode, &record.Status, &entities,
			&record.Applied, &record.Skipped, &record.Warned, &errText, &startedAt, &finishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		record.Entities = entities.String
		record.Error = errText.String
		if startedAt.Valid {
			record.StartedAt = startedAt.Time.Format(time.RFC3339)
		}
		if finishedAt.Valid {
			record.FinishedAt = finishedAt.Time.Format(time.RFC3339)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// ListOperations returns the operations of a run in execution order.
func (r *JournalRepository) ListOperations(ctx context.Context, runID string) ([]*secondary.OperationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT run_id, seq, kind, target, status, detail FROM operations WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []*secondary.OperationRecord
	for rows.Next() {
		var detail sql.NullString
		op := &secondary.OperationRecord{}
		if err := rows.Scan(&op.RunID, &op.Seq, &op.Kind, &op.Target, &op.Status, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Detail = detail.String
		ops = append(ops, op)
	}

	return ops, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure JournalRepository implements the interface
var _ secondary.JournalRepository = (*JournalRepository)(nil)
