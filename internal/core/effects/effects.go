// Package effects defines effect types as data structures representing file
// system operations on the augmented project.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"fmt"

	"github.com/example/entity-audit/internal/models"
)

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
	// Target returns the path or subject the effect acts on.
	Target() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }
func (e LogEffect) Target() string     { return e.Message }

// RenderMode controls what a render does when the destination exists.
type RenderMode int

const (
	// RenderOverwrite always regenerates the destination.
	RenderOverwrite RenderMode = iota
	// RenderIfAbsent leaves an existing destination alone.
	RenderIfAbsent
)

// RenderEffect renders a template with a context to a destination.
type RenderEffect struct {
	Template string
	Path     string
	Data     TemplateData
	Mode     RenderMode
}

func (e RenderEffect) EffectType() string { return "render" }
func (e RenderEffect) Target() string     { return e.Path }

// CopyEffect copies a static template file verbatim.
type CopyEffect struct {
	Template string
	Path     string
}

func (e CopyEffect) EffectType() string { return "copy" }
func (e CopyEffect) Target() string     { return e.Path }

// ReplaceEffect replaces the first (or every) occurrence of Match. With Regex,
// Replacement may reference groups as ${1}. When Unmatched is set, a file
// without a match is reported as a warning carrying that message.
type ReplaceEffect struct {
	Path        string
	Match       string
	Replacement string
	All         bool
	Regex       bool
	Unmatched   string
}

func (e ReplaceEffect) EffectType() string { return "replace" }
func (e ReplaceEffect) Target() string     { return e.Path }

// InsertEffect inserts a line before the line holding Marker unless the file
// already contains Guard (defaults to Insertion).
type InsertEffect struct {
	Path      string
	Marker    string
	Insertion string
	Guard     string
}

func (e InsertEffect) EffectType() string { return "insert" }
func (e InsertEffect) Target() string     { return e.Path }

// GuardedEffect runs Effects only when the file at Path neither contains
// Contains nor matches Pattern. Empty guards are ignored.
type GuardedEffect struct {
	Path     string
	Contains string
	Pattern  string
	Effects  []Effect
}

func (e GuardedEffect) EffectType() string { return "guarded" }
func (e GuardedEffect) Target() string     { return e.Path }

// InjectColumnsEffect adds columns to the changelog that created an entity.
type InjectColumnsEffect struct {
	Entity  string
	Columns []models.Column
}

func (e InjectColumnsEffect) EffectType() string { return "inject_columns" }
func (e InjectColumnsEffect) Target() string     { return e.Entity }

// ChangelogEffect writes a brand-new changelog file named with a fresh
// identifier and registers it in the master changelog. It is skipped when a
// changelog with the same suffix already exists.
type ChangelogEffect struct {
	Suffix   string
	Template string
	Data     TemplateData
}

func (e ChangelogEffect) EffectType() string { return "changelog" }
func (e ChangelogEffect) Target() string     { return e.Suffix }

// DependencyEffect adds a library to the project's build manifest.
type DependencyEffect struct {
	Dependency models.Dependency
}

func (e DependencyEffect) EffectType() string { return "dependency" }
func (e DependencyEffect) Target() string     { return e.Dependency.Coordinates() }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }
func (e CompositeEffect) Target() string     { return fmt.Sprintf("%d effects", len(e.Effects)) }

// TemplateData is the context handed to every template.
type TemplateData struct {
	BaseName          string
	PackageName       string
	AuditFramework    string
	DatabaseType      string
	SoftDelete        bool
	ChangelogDate     string
	UserTableName     string
	EnableTranslation bool
	AuditedEntities   []string
	Entity            *models.EntityDescriptor
}

// Flatten expands composite effects into a single ordered list.
func Flatten(effs []Effect) []Effect {
	var out []Effect
	for _, eff := range effs {
		if c, ok := eff.(CompositeEffect); ok {
			out = append(out, Flatten(c.Effects)...)
			continue
		}
		out = append(out, eff)
	}
	return out
}
