// Package config reads the generated project's configuration and the
// selections that drive a run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys of the .yo-rc.json sections this tool reads and writes.
const (
	FileName     = ".yo-rc.json"
	GeneratorKey = "generator-jhipster"
	ModuleKey    = "generator-jhipster-entity-audit"
)

// DescriptorDirName is the directory holding the entity descriptors.
const DescriptorDirName = ".jhipster"

// ProjectConfig is the generator section of .yo-rc.json.
type ProjectConfig struct {
	Dir string `json:"-"` // project root

	BaseName          string `json:"baseName"`
	PackageName       string `json:"packageName"`
	PackageFolder     string `json:"packageFolder,omitempty"`
	DatabaseType      string `json:"databaseType"`
	BuildTool         string `json:"buildTool,omitempty"`
	EnableTranslation bool   `json:"enableTranslation,omitempty"`
	JhipsterVersion   string `json:"jhipsterVersion,omitempty"`
}

// ModuleConfig is this tool's own section of .yo-rc.json.
type ModuleConfig struct {
	AuditFramework       string `json:"auditFramework"`
	ChangeDeleteBehavior string `json:"changeDeleteBehavior,omitempty"`
}

// LoadProjectConfig reads .yo-rc.json from the project root dir.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	sections, err := readSections(dir)
	if err != nil {
		return nil, err
	}

	raw, ok := sections[GeneratorKey]
	if !ok {
		return nil, fmt.Errorf("%s has no %q section, is this a generated project?", filepath.Join(dir, FileName), GeneratorKey)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s section: %w", GeneratorKey, err)
	}
	if cfg.PackageName == "" {
		return nil, fmt.Errorf("%s section has no packageName", GeneratorKey)
	}
	if cfg.PackageFolder == "" {
		cfg.PackageFolder = strings.ReplaceAll(cfg.PackageName, ".", "/")
	}
	if cfg.BuildTool == "" {
		cfg.BuildTool = "maven"
	}
	cfg.Dir = dir

	return &cfg, nil
}

// JavaDir is the source folder of the project's base package.
func (c *ProjectConfig) JavaDir() string {
	return filepath.Join(c.Dir, "src", "main", "java", filepath.FromSlash(c.PackageFolder))
}

// ResourceDir is the main resources folder.
func (c *ProjectConfig) ResourceDir() string {
	return filepath.Join(c.Dir, "src", "main", "resources")
}

// WebappDir is the client application folder.
func (c *ProjectConfig) WebappDir() string {
	return filepath.Join(c.Dir, "src", "main", "webapp")
}

// DescriptorDir is the entity descriptor folder.
func (c *ProjectConfig) DescriptorDir() string {
	return filepath.Join(c.Dir, DescriptorDirName)
}

// LoadModuleConfig returns this tool's saved selections, if any.
func LoadModuleConfig(dir string) (*ModuleConfig, bool, error) {
	sections, err := readSections(dir)
	if err != nil {
		return nil, false, err
	}

	raw, ok := sections[ModuleKey]
	if !ok {
		return nil, false, nil
	}

	var mc ModuleConfig
	if err := json.Unmarshal(raw, &mc); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s section: %w", ModuleKey, err)
	}
	return &mc, true, nil
}

// SaveModuleConfig stores the selections under ModuleKey, leaving every other
// section alone. The file is only rewritten when the section changes.
func SaveModuleConfig(dir string, mc ModuleConfig) (bool, error) {
	existing, found, err := LoadModuleConfig(dir)
	if err != nil {
		return false, err
	}
	if found && *existing == mc {
		return false, nil
	}

	sections, err := readSections(dir)
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(mc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal module config: %w", err)
	}
	sections[ModuleKey] = raw

	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", FileName, err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}

func readSections(dir string) (map[string]json.RawMessage, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %s, run this inside a generated project: %w", FileName, dir, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	sections := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return sections, nil
}
