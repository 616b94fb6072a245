package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// ModuleRegistry implements secondary.ModuleRegistry with the generator's
// hook file (.jhipster/modules/jhi-hooks.json).
type ModuleRegistry struct {
	path string
}

// NewModuleRegistry creates a registry under the descriptor directory.
func NewModuleRegistry(descriptorDir string) *ModuleRegistry {
	return &ModuleRegistry{path: filepath.Join(descriptorDir, "modules", "jhi-hooks.json")}
}

// RegisterHook appends hook unless a hook with the same name exists.
func (r *ModuleRegistry) RegisterHook(hook secondary.ModuleHook) error {
	var hooks []secondary.ModuleHook

	data, err := os.ReadFile(r.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	default:
		if err := json.Unmarshal(data, &hooks); err != nil {
			return fmt.Errorf("failed to parse %s: %w", r.path, err)
		}
	}

	for _, h := range hooks {
		if h.Name == hook.Name {
			return fmt.Errorf("%w: hook %s already registered", audit.ErrPatchSkipped, hook.Name)
		}
	}
	hooks = append(hooks, hook)

	out, err := json.MarshalIndent(hooks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hooks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(r.path), err)
	}
	if err := os.WriteFile(r.path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}
