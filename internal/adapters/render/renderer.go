// Package render writes embedded templates into the augmented project.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/example/entity-audit/internal/templates"
)

// Renderer implements secondary.Renderer over the embedded template set.
type Renderer struct {
	funcs template.FuncMap
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		funcs: templates.TemplateFuncs(),
	}
}

// Render executes a template with data and writes the result to destination.
// It reports whether the destination content changed.
func (r *Renderer) Render(name, destination string, data any) (bool, error) {
	content, err := r.renderTemplate(name, data)
	if err != nil {
		return false, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return writeIfChanged(destination, content)
}

// Copy writes a template verbatim to destination.
func (r *Renderer) Copy(name, destination string) (bool, error) {
	content, err := templates.Get(name)
	if err != nil {
		return false, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return writeIfChanged(destination, content)
}

func (r *Renderer) renderTemplate(name string, data any) ([]byte, error) {
	tmplContent, err := templates.Get(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
