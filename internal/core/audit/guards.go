// Package audit contains the pure business logic for audit augmentation:
// guards that validate a selection and the planner that turns it into effects.
package audit

import (
	"fmt"

	"github.com/example/entity-audit/internal/models"
)

// Database families understood by the generator.
const (
	DatabaseSQL   = "sql"
	DatabaseMongo = "mongodb"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedDatabase, r.Reason)
}

// AugmentContext provides context for the augmentation guard.
type AugmentContext struct {
	AuditMode    models.AuditMode
	DatabaseType string
}

// CanAugment evaluates whether the audit mode works with the database family.
// Rules:
// - Only SQL or MongoDB projects are supported
// - The custom audit framework needs SQL
// - Javers works with SQL and MongoDB
func CanAugment(ctx AugmentContext) GuardResult {
	if ctx.DatabaseType != DatabaseSQL && ctx.DatabaseType != DatabaseMongo {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("only SQL or MongoDB databases are supported, project uses %q", ctx.DatabaseType),
		}
	}

	if ctx.AuditMode == models.AuditModeCustom && ctx.DatabaseType != DatabaseSQL {
		return GuardResult{
			Allowed: false,
			Reason:  "the custom audit framework supports SQL databases only",
		}
	}

	return GuardResult{Allowed: true}
}
