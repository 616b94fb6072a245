package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/entity-audit/internal/models"
)

// Answers are pre-recorded selections, read from a YAML file instead of
// being asked interactively.
//
//	auditFramework: javers
//	updateType: selected
//	auditedEntities: [Order, Customer]
//	auditPage: false
//	changeDeleteBehavior: selected
type Answers struct {
	AuditFramework       string   `yaml:"auditFramework"`
	UpdateType           string   `yaml:"updateType"`
	AuditedEntities      []string `yaml:"auditedEntities"`
	AuditPage            *bool    `yaml:"auditPage"`
	ChangeDeleteBehavior string   `yaml:"changeDeleteBehavior"`
}

// LoadAnswers reads an answers file.
func LoadAnswers(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse answers %s: %w", path, err)
	}
	return &a, nil
}

// Apply overlays the answers that are set onto opts.
func (a *Answers) Apply(opts models.Options) (models.Options, error) {
	if a.AuditFramework != "" {
		mode, err := models.ParseAuditMode(a.AuditFramework)
		if err != nil {
			return opts, err
		}
		opts.AuditMode = mode
	}
	if a.UpdateType != "" {
		scope, err := models.ParseUpdateScope(a.UpdateType)
		if err != nil {
			return opts, err
		}
		opts.UpdateScope = scope
	}
	if len(a.AuditedEntities) > 0 {
		opts.Entities = a.AuditedEntities
		if a.UpdateType == "" {
			opts.UpdateScope = models.UpdateSelected
		}
	}
	if a.AuditPage != nil {
		opts.AddAuditPage = *a.AuditPage
	}
	if a.ChangeDeleteBehavior != "" {
		scope, err := models.ParseDeleteBehaviorScope(a.ChangeDeleteBehavior)
		if err != nil {
			return opts, err
		}
		opts.DeleteBehaviorScope = scope
	}
	return opts, nil
}
