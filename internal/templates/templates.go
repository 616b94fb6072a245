// Package templates embeds the files written into augmented projects.
package templates

import (
	"embed"
	"text/template"

	"github.com/example/entity-audit/internal/core/naming"
)

//go:embed audit
var auditTemplates embed.FS

// Get returns the content of a template, e.g. "java/domain/EntityAuditEvent.java".
func Get(name string) ([]byte, error) {
	return auditTemplates.ReadFile("audit/" + name + ".tmpl")
}

// TemplateFuncs returns the template function map for audit templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"title":      naming.Capitalize,
		"lowerFirst": naming.LowerFirst,
	}
}
