// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives the augmented
// project on disk and the run journal.
package secondary

import (
	"context"

	"github.com/example/entity-audit/internal/models"
)

// EntitySelection names the entities to load, or all of them.
type EntitySelection struct {
	All   bool
	Names []string
}

// DescriptorLoader defines the secondary port for reading entity descriptors.
type DescriptorLoader interface {
	// Load returns descriptors in selection order (directory order for All).
	// A missing directory yields an empty result; a missing explicitly named
	// descriptor is an error wrapping audit.ErrMissingDescriptor.
	Load(ctx context.Context, sel EntitySelection) ([]*models.EntityDescriptor, error)
}

// ReplaceOptions controls ReplaceOnce.
type ReplaceOptions struct {
	All   bool // replace every occurrence
	Regex bool // match is a regular expression
}

// FilePatcher defines the idempotent text-patch primitives.
// Both return an error wrapping audit.ErrPatchSkipped when nothing changed.
type FilePatcher interface {
	ReplaceOnce(path, match, replacement string, opts ReplaceOptions) error
	InsertGuarded(path, marker, insertion, guard string) error
	// Contains reports whether the file contains text or matches pattern.
	Contains(path, text, pattern string) (bool, error)
}

// ChangelogRegistry defines the secondary port for Liquibase changelogs.
type ChangelogRegistry interface {
	// FindEntityChangelog returns the creation changelog of an entity or
	// an error wrapping audit.ErrMigrationNotFound.
	FindEntityChangelog(entityName string) (string, error)

	// InjectColumns splices the columns missing from the entity's changelog
	// before its column anchor.
	InjectColumns(entityName string, columns []models.Column) error

	// FindChangelog returns the file name of an existing changelog with suffix.
	FindChangelog(suffix string) (string, bool)

	// NextID returns a fresh, strictly increasing changelog identifier.
	NextID() string

	// Path returns the absolute path of a changelog file name.
	Path(fileName string) string

	// Register includes a changelog file in the master changelog.
	Register(fileName string) error
}

// Renderer renders and copies templates into the project.
// Both report whether the destination content changed.
type Renderer interface {
	Render(template, destination string, data any) (bool, error)
	Copy(template, destination string) (bool, error)
}

// DependencyManifest adds libraries to the project's build file.
type DependencyManifest interface {
	AddDependency(dep models.Dependency) error
}

// ModuleHook describes a generator hook registration.
type ModuleHook struct {
	Name              string `json:"name"`
	NpmPackageName    string `json:"npmPackageName"`
	Description       string `json:"description"`
	HookFor           string `json:"hookFor"`
	HookType          string `json:"hookType"`
	GeneratorCallback string `json:"generatorCallback"`
}

// ModuleRegistry records this tool as a post-entity-generation hook.
type ModuleRegistry interface {
	RegisterHook(hook ModuleHook) error
}
