package secondary

import "context"

// RunRecord represents one augmentation run as stored in the journal.
type RunRecord struct {
	ID         string
	ProjectDir string
	AuditMode  string
	Status     string // "running", "completed", "failed", "planned"
	Entities   string // comma separated
	Applied    int
	Skipped    int
	Warned     int
	Error      string
	StartedAt  string
	FinishedAt string
}

// OperationRecord represents one executed effect of a run.
type OperationRecord struct {
	RunID  string
	Seq    int
	Kind   string
	Target string
	Status string
	Detail string
}

// JournalRepository defines the secondary port for the run journal.
type JournalRepository interface {
	// StartRun persists a new run.
	StartRun(ctx context.Context, run *RunRecord) error

	// FinishRun stores the final status and counters of a run.
	FinishRun(ctx context.Context, run *RunRecord) error

	// RecordOperation appends one operation outcome to a run.
	RecordOperation(ctx context.Context, op *OperationRecord) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)

	// ListOperations returns the operations of a run in execution order.
	ListOperations(ctx context.Context, runID string) ([]*OperationRecord, error)
}
