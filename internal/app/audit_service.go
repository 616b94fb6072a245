package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/entity-audit/internal/config"
	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/core/effects"
	"github.com/example/entity-audit/internal/core/relationship"
	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/primary"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// ModuleHook is the post-entity hook this tool registers in a project.
var ModuleHook = secondary.ModuleHook{
	Name:              "Entity Audit generator",
	NpmPackageName:    "generator-jhipster-entity-audit",
	Description:       "Add support for entity audit and audit log page",
	HookFor:           "entity",
	HookType:          "post",
	GeneratorCallback: "jhipster-entity-audit:entity",
}

// Project holds a project's configuration and the adapters bound to its directories.
type Project struct {
	Config   *config.ProjectConfig
	Loader   secondary.DescriptorLoader
	Executor EffectExecutor
	Modules  secondary.ModuleRegistry
}

// ProjectOpener binds adapters to the project rooted at dir.
type ProjectOpener func(dir string) (*Project, error)

// AuditServiceImpl implements the AuditService interface. It is the
// orchestrator of a run: guard, load, normalize, plan, execute, record.
type AuditServiceImpl struct {
	openProject ProjectOpener
	journal     secondary.JournalRepository
	newID       func() string
	logger      *zap.Logger
}

// NewAuditService creates a new AuditService with injected dependencies.
// journal may be nil, runs are then not recorded.
func NewAuditService(
	openProject ProjectOpener,
	journal secondary.JournalRepository,
	newID func() string,
	logger *zap.Logger,
) *AuditServiceImpl {
	return &AuditServiceImpl{
		openProject: openProject,
		journal:     journal,
		newID:       newID,
		logger:      logger,
	}
}

// prepared is everything a run needs once planning is done.
type prepared struct {
	project  *Project
	entities []string
	plan     []effects.Effect
	warnings []string
}

// Enable augments the project with audit tracking.
func (s *AuditServiceImpl) Enable(ctx context.Context, req primary.EnableRequest) (*primary.EnableResponse, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &primary.EnableResponse{
		RunID:     s.newID(),
		AuditMode: req.Options.AuditMode,
		Entities:  p.entities,
		Warnings:  p.warnings,
	}
	run := s.startRun(ctx, resp.RunID, req, p.entities, "running")

	outcomes, execErr := p.project.Executor.Execute(ctx, p.plan)
	resp.Outcomes = outcomes
	if execErr != nil {
		s.logger.Warn("augmentation aborted, earlier changes are kept",
			zap.String("run", resp.RunID), zap.Error(execErr))
		resp.Counts = models.CountOutcomes(outcomes)
		s.finishRun(ctx, run, outcomes, execErr)
		return resp, execErr
	}

	resp.HookRegistered = s.registerHook(p.project, resp)

	saved, err := config.SaveModuleConfig(p.project.Config.Dir, config.ModuleConfig{
		AuditFramework:       string(req.Options.AuditMode),
		ChangeDeleteBehavior: string(req.Options.DeleteBehaviorScope),
	})
	if err != nil {
		s.warn(resp, "could not save module configuration", err)
	}
	resp.ConfigSaved = saved

	resp.Counts = models.CountOutcomes(resp.Outcomes)
	s.finishRun(ctx, run, resp.Outcomes, nil)
	return resp, nil
}

// Plan reports what Enable would do without touching the project.
func (s *AuditServiceImpl) Plan(ctx context.Context, req primary.EnableRequest) (*primary.EnableResponse, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	var outcomes []models.Outcome
	for _, eff := range effects.Flatten(p.plan) {
		if _, ok := eff.(effects.LogEffect); ok {
			continue
		}
		outcomes = append(outcomes, models.Outcome{
			Kind:   eff.EffectType(),
			Target: eff.Target(),
			Status: models.OutcomePlanned,
		})
	}

	resp := &primary.EnableResponse{
		RunID:     s.newID(),
		AuditMode: req.Options.AuditMode,
		Entities:  p.entities,
		Outcomes:  outcomes,
		Counts:    models.CountOutcomes(outcomes),
		Warnings:  p.warnings,
	}
	run := s.startRun(ctx, resp.RunID, req, p.entities, "planned")
	s.finishRun(ctx, run, outcomes, nil)
	return resp, nil
}

// prepare runs every step before the first mutation.
func (s *AuditServiceImpl) prepare(ctx context.Context, req primary.EnableRequest) (*prepared, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	project, err := s.openProject(req.ProjectDir)
	if err != nil {
		return nil, err
	}
	cfg := project.Config

	guard := audit.CanAugment(audit.AugmentContext{
		AuditMode:    req.Options.AuditMode,
		DatabaseType: cfg.DatabaseType,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	sel := secondary.EntitySelection{All: req.Options.UpdateScope == models.UpdateAll}
	if !sel.All {
		sel.Names = req.Options.Entities
	}
	descriptors, err := project.Loader.Load(ctx, sel)
	if err != nil {
		return nil, err
	}

	p := &prepared{project: project}
	for _, d := range descriptors {
		res := relationship.Normalize(d, relationship.Context{DatabaseType: cfg.DatabaseType})
		if res.DTOFallback {
			msg := fmt.Sprintf("dto is missing in %s/%s.json, using no as fallback", config.DescriptorDirName, d.Name)
			s.logger.Warn(msg, zap.String("entity", d.Name))
			p.warnings = append(p.warnings, msg)
		}
		p.entities = append(p.entities, d.Name)
	}

	p.plan = audit.GeneratePlan(audit.PlanInput{
		Options: req.Options,
		Project: audit.ProjectInfo{
			BaseName:          cfg.BaseName,
			PackageName:       cfg.PackageName,
			DatabaseType:      cfg.DatabaseType,
			EnableTranslation: cfg.EnableTranslation,
		},
		Layout: audit.Layout{
			JavaDir:     cfg.JavaDir(),
			ResourceDir: cfg.ResourceDir(),
			WebappDir:   cfg.WebappDir(),
		},
		Entities: descriptors,
	})

	s.logger.Debug("plan ready",
		zap.String("mode", string(req.Options.AuditMode)),
		zap.Strings("entities", p.entities),
		zap.Int("effects", len(p.plan)))
	return p, nil
}

func (s *AuditServiceImpl) registerHook(project *Project, resp *primary.EnableResponse) bool {
	err := project.Modules.RegisterHook(ModuleHook)
	switch {
	case err == nil:
		return true
	case errors.Is(err, audit.ErrPatchSkipped):
		return false
	}
	s.warn(resp, "could not register the module hook", err)
	return false
}

func (s *AuditServiceImpl) warn(resp *primary.EnableResponse, msg string, err error) {
	s.logger.Warn(msg, zap.Error(err))
	resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

// ListEntities lists the entities that have a descriptor.
func (s *AuditServiceImpl) ListEntities(ctx context.Context, projectDir string) ([]string, error) {
	project, err := s.openProject(projectDir)
	if err != nil {
		return nil, err
	}

	descriptors, err := project.Loader.Load(ctx, secondary.EntitySelection{All: true})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names, nil
}

// History returns recent runs, newest first.
func (s *AuditServiceImpl) History(ctx context.Context, limit int) ([]*primary.Run, error) {
	if s.journal == nil {
		return nil, nil
	}

	records, err := s.journal.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = recordToRun(r)
	}
	return runs, nil
}

// RunOperations returns the recorded outcomes of one run.
func (s *AuditServiceImpl) RunOperations(ctx context.Context, runID string) ([]models.Outcome, error) {
	if s.journal == nil {
		return nil, nil
	}

	records, err := s.journal.ListOperations(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	outcomes := make([]models.Outcome, len(records))
	for i, r := range records {
		outcomes[i] = models.Outcome{
			Kind:   r.Kind,
			Target: r.Target,
			Status: models.OutcomeStatus(r.Status),
			Detail: r.Detail,
		}
	}
	return outcomes, nil
}

// startRun journals the run. Journal failures never fail the run.
func (s *AuditServiceImpl) startRun(ctx context.Context, id string, req primary.EnableRequest, entities []string, status string) *secondary.RunRecord {
	if s.journal == nil {
		return nil
	}

	run := &secondary.RunRecord{
		ID:         id,
		ProjectDir: req.ProjectDir,
		AuditMode:  string(req.Options.AuditMode),
		Status:     status,
		Entities:   strings.Join(entities, ","),
	}
	if err := s.journal.StartRun(ctx, run); err != nil {
		s.logger.Warn("could not journal run", zap.String("run", id), zap.Error(err))
		return nil
	}
	return run
}

func (s *AuditServiceImpl) finishRun(ctx context.Context, run *secondary.RunRecord, outcomes []models.Outcome, runErr error) {
	if run == nil {
		return
	}

	for i, o := range outcomes {
		op := &secondary.OperationRecord{
			RunID:  run.ID,
			Seq:    i + 1,
			Kind:   o.Kind,
			Target: o.Target,
			Status: string(o.Status),
			Detail: o.Detail,
		}
		if err := s.journal.RecordOperation(ctx, op); err != nil {
			s.logger.Warn("could not journal operation", zap.String("run", run.ID), zap.Error(err))
			break
		}
	}

	counts := models.CountOutcomes(outcomes)
	run.Applied = counts.Applied
	run.Skipped = counts.Skipped
	run.Warned = counts.Warned
	switch {
	case runErr != nil:
		run.Status = "failed"
		run.Error = runErr.Error()
	case run.Status == "running":
		run.Status = "completed"
	}

	if err := s.journal.FinishRun(ctx, run); err != nil {
		s.logger.Warn("could not journal run result", zap.String("run", run.ID), zap.Error(err))
	}
}

func recordToRun(r *secondary.RunRecord) *primary.Run {
	var entities []string
	if r.Entities != "" {
		entities = strings.Split(r.Entities, ",")
	}
	return &primary.Run{
		ID:         r.ID,
		ProjectDir: r.ProjectDir,
		AuditMode:  r.AuditMode,
		Status:     r.Status,
		Entities:   entities,
		Applied:    r.Applied,
		Skipped:    r.Skipped,
		Warned:     r.Warned,
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
