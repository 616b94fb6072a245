package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// DescriptorLoader implements secondary.DescriptorLoader over a directory of
// per-entity JSON files (.jhipster/<Entity>.json).
type DescriptorLoader struct {
	dir    string
	logger *zap.Logger
}

// NewDescriptorLoader creates a loader for dir.
func NewDescriptorLoader(dir string, logger *zap.Logger) *DescriptorLoader {
	return &DescriptorLoader{dir: dir, logger: logger}
}

// Load returns the selected descriptors.
func (l *DescriptorLoader) Load(ctx context.Context, sel secondary.EntitySelection) ([]*models.EntityDescriptor, error) {
	if sel.All {
		return l.loadAll()
	}

	descriptors := make([]*models.EntityDescriptor, 0, len(sel.Names))
	for _, name := range sel.Names {
		d, err := l.loadOne(name)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no %s.json in %s", audit.ErrMissingDescriptor, name, name, l.dir)
		}
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// Names lists the entity names found in the directory, in listing order.
func (l *DescriptorLoader) Names() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

func (l *DescriptorLoader) loadAll() ([]*models.EntityDescriptor, error) {
	names, err := l.Names()
	if err != nil {
		l.logger.Warn("could not read entities, entity files will not be updated",
			zap.String("dir", l.dir), zap.Error(err))
		return nil, nil
	}

	descriptors := make([]*models.EntityDescriptor, 0, len(names))
	for _, name := range names {
		d, err := l.loadOne(name)
		if err != nil {
			l.logger.Warn("skipping unreadable entity descriptor",
				zap.String("entity", name), zap.Error(err))
			continue
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func (l *DescriptorLoader) loadOne(name string) (*models.EntityDescriptor, error) {
	path := filepath.Join(l.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d models.EntityDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	d.Name = name
	return &d, nil
}
