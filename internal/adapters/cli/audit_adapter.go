// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/primary"
)

// AuditAdapter is a thin adapter that translates CLI operations to AuditService calls.
type AuditAdapter struct {
	service primary.AuditService
	out     io.Writer
}

// NewAuditAdapter creates a new AuditAdapter with the given service.
func NewAuditAdapter(service primary.AuditService, out io.Writer) *AuditAdapter {
	return &AuditAdapter{
		service: service,
		out:     out,
	}
}

// Enable augments the project and prints one line per outcome.
// On a failed run the outcomes gathered before the failure are still printed.
func (a *AuditAdapter) Enable(ctx context.Context, req primary.EnableRequest) error {
	resp, err := a.service.Enable(ctx, req)
	if resp != nil {
		a.report(req.ProjectDir, resp)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Entity audit (%s) enabled for %s\n", resp.AuditMode, entityList(resp.Entities))
	if resp.HookRegistered {
		fmt.Fprintln(a.out, "✓ Registered post-entity hook")
	}
	return nil
}

// Plan prints what Enable would do.
func (a *AuditAdapter) Plan(ctx context.Context, req primary.EnableRequest) (*primary.EnableResponse, error) {
	resp, err := a.service.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nAudit mode: %s\n", resp.AuditMode)
	fmt.Fprintf(a.out, "Entities:   %s\n\n", entityList(resp.Entities))
	a.report(req.ProjectDir, resp)
	return resp, nil
}

// Entities lists the project's entities.
func (a *AuditAdapter) Entities(ctx context.Context, projectDir string) error {
	names, err := a.service.ListEntities(ctx, projectDir)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}

	if len(names) == 0 {
		fmt.Fprintln(a.out, "No entities found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(a.out, name)
	}
	return nil
}

// History lists recent runs.
func (a *AuditAdapter) History(ctx context.Context, limit int) error {
	runs, err := a.service.History(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-7s %-10s %-20s %s\n", "RUN", "MODE", "STATUS", "STARTED", "ENTITIES")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────────")
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-38s %-7s %-10s %-20s %s\n", r.ID, r.AuditMode, runStatus(r.Status), r.StartedAt, entityList(r.Entities))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints the recorded outcomes of one run.
func (a *AuditAdapter) Show(ctx context.Context, runID string) error {
	outcomes, err := a.service.RunOperations(ctx, runID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(a.out, "No operations recorded for %s\n", runID)
		return nil
	}

	for _, o := range outcomes {
		a.outcomeLine("", o)
	}
	a.summary(models.CountOutcomes(outcomes))
	return nil
}

func (a *AuditAdapter) report(projectDir string, resp *primary.EnableResponse) {
	for _, o := range resp.Outcomes {
		a.outcomeLine(projectDir, o)
	}
	if len(resp.Outcomes) > 0 {
		fmt.Fprintln(a.out)
	}
	a.summary(resp.Counts)

	for _, w := range resp.Warnings {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("⚠️"), w)
	}
}

func (a *AuditAdapter) outcomeLine(projectDir string, o models.Outcome) {
	line := fmt.Sprintf("  %s %-15s %s", statusLabel(o.Status), o.Kind, relativeTo(projectDir, o.Target))
	if o.Detail != "" && o.Status != models.OutcomeApplied {
		line += fmt.Sprintf(" (%s)", o.Detail)
	}
	fmt.Fprintln(a.out, line)
}

func (a *AuditAdapter) summary(c models.OutcomeCounts) {
	if c.Planned > 0 {
		fmt.Fprintf(a.out, "%d planned (dry-run mode - no files written)\n", c.Planned)
		return
	}
	fmt.Fprintf(a.out, "%d applied, %d skipped, %d warned\n", c.Applied, c.Skipped, c.Warned)
}

func statusLabel(s models.OutcomeStatus) string {
	switch s {
	case models.OutcomeApplied:
		return color.New(color.FgGreen).Sprint("APPLIED")
	case models.OutcomeSkipped:
		return color.New(color.FgBlue).Sprint("SKIPPED")
	case models.OutcomeWarned:
		return color.New(color.FgYellow).Sprint("WARNED ")
	default:
		return color.New(color.FgCyan).Sprint("PLANNED")
	}
}

func runStatus(status string) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).Sprintf("%-10s", status)
	case "failed":
		return color.New(color.FgRed).Sprintf("%-10s", status)
	default:
		return status
	}
}

func relativeTo(dir, target string) string {
	if dir == "" || !filepath.IsAbs(target) {
		return target
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(abs, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return target
	}
	return rel
}

func entityList(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
