package primary

import (
	"context"

	"github.com/example/entity-audit/internal/models"
)

// AuditService defines the primary port for audit augmentation.
type AuditService interface {
	// Enable augments the project with audit tracking.
	Enable(ctx context.Context, req EnableRequest) (*EnableResponse, error)

	// Plan reports what Enable would do without touching the project.
	Plan(ctx context.Context, req EnableRequest) (*EnableResponse, error)

	// ListEntities lists the entities that have a descriptor.
	ListEntities(ctx context.Context, projectDir string) ([]string, error)

	// History returns recent runs, newest first.
	History(ctx context.Context, limit int) ([]*Run, error)

	// RunOperations returns the recorded outcomes of one run.
	RunOperations(ctx context.Context, runID string) ([]models.Outcome, error)
}

// EnableRequest contains parameters for an augmentation run.
type EnableRequest struct {
	ProjectDir string
	Options    models.Options
}

// EnableResponse contains the result of an augmentation run.
type EnableResponse struct {
	RunID          string
	AuditMode      models.AuditMode
	Entities       []string
	Outcomes       []models.Outcome
	Counts         models.OutcomeCounts
	Warnings       []string
	ConfigSaved    bool
	HookRegistered bool
}

// Run represents a journaled run at the port boundary.
type Run struct {
	ID         string
	ProjectDir string
	AuditMode  string
	Status     string
	Entities   []string
	Applied    int
	Skipped    int
	Warned     int
	Error      string
	StartedAt  string
	FinishedAt string
}
