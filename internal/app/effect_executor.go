// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/core/changelog"
	"github.com/example/entity-audit/internal/core/effects"
	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	// Execute runs effects in order and returns one outcome per leaf effect.
	// On error the outcomes gathered so far are returned with it.
	Execute(ctx context.Context, effs []effects.Effect) ([]models.Outcome, error)
}

// DefaultEffectExecutor implements EffectExecutor over the project adapters.
type DefaultEffectExecutor struct {
	patcher    secondary.FilePatcher
	changelogs secondary.ChangelogRegistry
	renderer   secondary.Renderer
	manifest   secondary.DependencyManifest
	logger     *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	patcher secondary.FilePatcher,
	changelogs secondary.ChangelogRegistry,
	renderer secondary.Renderer,
	manifest secondary.DependencyManifest,
	logger *zap.Logger,
) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		patcher:    patcher,
		changelogs: changelogs,
		renderer:   renderer,
		manifest:   manifest,
		logger:     logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) ([]models.Outcome, error) {
	var outcomes []models.Outcome
	for _, eff := range effs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out, err := e.executeOne(ctx, eff)
		outcomes = append(outcomes, out...)
		if err != nil {
			return outcomes, fmt.Errorf("failed to execute %s effect on %s: %w", eff.EffectType(), eff.Target(), err)
		}
	}
	return outcomes, nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) ([]models.Outcome, error) {
	switch typed := eff.(type) {
	case effects.RenderEffect:
		return e.executeRender(typed)
	case effects.CopyEffect:
		changed, err := e.renderer.Copy(typed.Template, typed.Path)
		if err != nil {
			return nil, err
		}
		return one(typed, changedStatus(changed), ""), nil
	case effects.ReplaceEffect:
		return e.executeReplace(typed)
	case effects.InsertEffect:
		err := e.patcher.InsertGuarded(typed.Path, typed.Marker, typed.Insertion, typed.Guard)
		return patchOutcome(typed, err)
	case effects.GuardedEffect:
		return e.executeGuarded(ctx, typed)
	case effects.InjectColumnsEffect:
		return e.executeInjectColumns(typed)
	case effects.ChangelogEffect:
		return e.executeChangelog(typed)
	case effects.DependencyEffect:
		return e.executeDependency(typed), nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.LogEffect:
		e.log(typed)
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeRender(eff effects.RenderEffect) ([]models.Outcome, error) {
	if eff.Mode == effects.RenderIfAbsent {
		if _, err := os.Stat(eff.Path); err == nil {
			return one(eff, models.OutcomeSkipped, "already exists"), nil
		}
	}

	changed, err := e.renderer.Render(eff.Template, eff.Path, eff.Data)
	if err != nil {
		return nil, err
	}
	return one(eff, changedStatus(changed), ""), nil
}

func (e *DefaultEffectExecutor) executeReplace(eff effects.ReplaceEffect) ([]models.Outcome, error) {
	err := e.patcher.ReplaceOnce(eff.Path, eff.Match, eff.Replacement,
		secondary.ReplaceOptions{All: eff.All, Regex: eff.Regex})
	if eff.Unmatched != "" && errors.Is(err, audit.ErrPatchSkipped) {
		e.logger.Warn(eff.Unmatched, zap.String("file", eff.Path))
		return one(eff, models.OutcomeWarned, eff.Unmatched), nil
	}
	return patchOutcome(eff, err)
}

func (e *DefaultEffectExecutor) executeGuarded(ctx context.Context, eff effects.GuardedEffect) ([]models.Outcome, error) {
	present, err := e.patcher.Contains(eff.Path, eff.Contains, eff.Pattern)
	if err != nil {
		return nil, err
	}
	if present {
		guard := eff.Contains
		if guard == "" {
			guard = eff.Pattern
		}
		return one(eff, models.OutcomeSkipped, fmt.Sprintf("already contains %q", guard)), nil
	}
	return e.Execute(ctx, eff.Effects)
}

func (e *DefaultEffectExecutor) executeInjectColumns(eff effects.InjectColumnsEffect) ([]models.Outcome, error) {
	err := e.changelogs.InjectColumns(eff.Entity, eff.Columns)
	switch {
	case errors.Is(err, audit.ErrMigrationNotFound):
		e.logger.Info("no changelog found, skipping column injection", zap.String("entity", eff.Entity))
		return one(eff, models.OutcomeSkipped, "no changelog"), nil
	case errors.Is(err, audit.ErrPatchSkipped):
		return one(eff, models.OutcomeSkipped, "columns already declared"), nil
	case err != nil:
		return nil, err
	}
	return one(eff, models.OutcomeApplied, fmt.Sprintf("%d columns", len(eff.Columns))), nil
}

// executeChangelog writes a new changelog with a fresh identifier and
// includes it in the master changelog.
func (e *DefaultEffectExecutor) executeChangelog(eff effects.ChangelogEffect) ([]models.Outcome, error) {
	if existing, ok := e.changelogs.FindChangelog(eff.Suffix); ok {
		return one(eff, models.OutcomeSkipped, existing), nil
	}

	id := e.changelogs.NextID()
	name := changelog.FileName(id, eff.Suffix)
	data := eff.Data
	data.ChangelogDate = id

	if _, err := e.renderer.Render(eff.Template, e.changelogs.Path(name), data); err != nil {
		return nil, err
	}
	if err := e.changelogs.Register(name); err != nil && !errors.Is(err, audit.ErrPatchSkipped) {
		return nil, err
	}
	return one(eff, models.OutcomeApplied, name), nil
}

func (e *DefaultEffectExecutor) executeDependency(eff effects.DependencyEffect) []models.Outcome {
	err := e.manifest.AddDependency(eff.Dependency)
	switch {
	case err == nil:
		return one(eff, models.OutcomeApplied, "")
	case errors.Is(err, audit.ErrPatchSkipped):
		return one(eff, models.OutcomeSkipped, "already declared")
	}

	err = fmt.Errorf("%w: %s: %w", audit.ErrDependencyRegistration, eff.Dependency.Coordinates(), err)
	e.logger.Warn("could not add dependency", zap.Error(err))
	return one(eff, models.OutcomeWarned, err.Error())
}

func (e *DefaultEffectExecutor) log(eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}

func patchOutcome(eff effects.Effect, err error) ([]models.Outcome, error) {
	if errors.Is(err, audit.ErrPatchSkipped) {
		return one(eff, models.OutcomeSkipped, err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	return one(eff, models.OutcomeApplied, ""), nil
}

func changedStatus(changed bool) models.OutcomeStatus {
	if changed {
		return models.OutcomeApplied
	}
	return models.OutcomeSkipped
}

func one(eff effects.Effect, status models.OutcomeStatus, detail string) []models.Outcome {
	return []models.Outcome{{
		Kind:   eff.EffectType(),
		Target: eff.Target(),
		Status: status,
		Detail: detail,
	}}
}
