package audit

import (
	"fmt"
	"path/filepath"

	"github.com/example/entity-audit/internal/core/effects"
	"github.com/example/entity-audit/internal/models"
)

// UserTableName is the table backing the built-in user account entity.
const UserTableName = "jhi_user"

// Suffixes of the changelogs this tool writes.
const (
	AuditEventChangelogSuffix = "added_entity_EntityAuditEvent"
	DelStatusChangelogSuffix  = "Add_DelStatus_Column_To_User_Entity"
)

// Annotation added to repositories in javers mode.
const JaversAnnotation = "@JaversSpringDataAuditable"

// Layout holds the project directories effects are written to.
type Layout struct {
	JavaDir     string // .../src/main/java/<package folder>
	ResourceDir string // .../src/main/resources
	WebappDir   string // .../src/main/webapp
}

// ProjectInfo contains the project settings templates need.
type ProjectInfo struct {
	BaseName          string
	PackageName       string
	DatabaseType      string
	EnableTranslation bool
}

// PlanInput contains pre-fetched data for plan generation.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	Options  models.Options
	Project  ProjectInfo
	Layout   Layout
	Entities []*models.EntityDescriptor // normalized, in processing order
}

// GeneratePlan creates the ordered effect list for one run.
// This is a pure function - all input data must be pre-fetched.
func GeneratePlan(input PlanInput) []effects.Effect {
	p := planner{input: input}

	var plan []effects.Effect
	plan = append(plan, p.sharedFiles()...)
	if len(input.Entities) > 0 {
		plan = append(plan, effects.LogEffect{
			Level:   "info",
			Message: "updating entities",
			Fields:  map[string]any{"entities": p.entityNames(), "mode": string(input.Options.AuditMode)},
		})
	}
	for _, entity := range input.Entities {
		plan = append(plan, p.entityEffects(entity))
	}
	if p.softDelete() {
		plan = append(plan, p.userSoftDelete())
	}
	if input.Options.AddAuditPage {
		plan = append(plan, p.auditPage()...)
	}
	for _, dep := range RequiredDependencies(input.Options.AuditMode, input.Project.DatabaseType) {
		plan = append(plan, effects.DependencyEffect{Dependency: dep})
	}
	return plan
}

type planner struct {
	input PlanInput
}

func (p planner) custom() bool {
	return p.input.Options.AuditMode == models.AuditModeCustom
}

func (p planner) softDelete() bool {
	return p.input.Options.DeleteBehaviorScope == models.DeleteForAll
}

func (p planner) data(entity *models.EntityDescriptor) effects.TemplateData {
	return effects.TemplateData{
		BaseName:          p.input.Project.BaseName,
		PackageName:       p.input.Project.PackageName,
		AuditFramework:    string(p.input.Options.AuditMode),
		DatabaseType:      p.input.Project.DatabaseType,
		SoftDelete:        p.softDelete(),
		UserTableName:     UserTableName,
		EnableTranslation: p.input.Project.EnableTranslation,
		AuditedEntities:   p.entityNames(),
		Entity:            entity,
	}
}

func (p planner) entityNames() []string {
	names := make([]string, 0, len(p.input.Entities))
	for _, e := range p.input.Entities {
		names = append(names, e.Name)
	}
	return names
}

func (p planner) java(parts ...string) string {
	return filepath.Join(append([]string{p.input.Layout.JavaDir}, parts...)...)
}

func (p planner) render(template string, parts ...string) effects.RenderEffect {
	return effects.RenderEffect{
		Template: template,
		Path:     p.java(parts...),
		Data:     p.data(nil),
	}
}

// sharedFiles produces the project-wide classes and changelogs.
func (p planner) sharedFiles() []effects.Effect {
	var out []effects.Effect

	baseClass := p.java("domain", "AbstractAuditingEntity.java")
	if p.custom() || p.softDelete() {
		out = append(out, effects.RenderEffect{
			Template: "java/domain/AbstractAuditingEntity.java",
			Path:     baseClass,
			Data:     p.data(nil),
			Mode:     effects.RenderIfAbsent,
		})
	}

	if !p.custom() {
		return append(out,
			p.render("java/config/audit/JaversAuthorProvider.java", "config", "audit", "JaversAuthorProvider.java"),
			p.render("java/config/audit/EntityAuditAction.java", "config", "audit", "EntityAuditAction.java"),
			p.render("java/domain/EntityAuditEvent.java", "domain", "EntityAuditEvent.java"),
		)
	}

	out = append(out,
		p.render("java/config/audit/AsyncEntityAuditEventWriter.java", "config", "audit", "AsyncEntityAuditEventWriter.java"),
		p.render("java/config/audit/EntityAuditEventListener.java", "config", "audit", "EntityAuditEventListener.java"),
		p.render("java/config/audit/EntityAuditAction.java", "config", "audit", "EntityAuditAction.java"),
		p.render("java/config/audit/EntityAuditEventConfig.java", "config", "audit", "EntityAuditEventConfig.java"),
		p.render("java/domain/EntityAuditEvent.java", "domain", "EntityAuditEvent.java"),
		p.render("java/repository/EntityAuditEventRepository.java", "repository", "EntityAuditEventRepository.java"),
		p.render("java/service/dto/AbstractAuditingDTO.java", "service", "dto", "AbstractAuditingDTO.java"),
		effects.ChangelogEffect{
			Suffix:   AuditEventChangelogSuffix,
			Template: "resources/changelog/EntityAuditEvent.xml",
			Data:     p.data(nil),
		},
		// hook the audit listener into the base class
		effects.GuardedEffect{
			Path:     baseClass,
			Contains: "EntityAuditEventListener.class",
			Effects: []effects.Effect{
				effects.ReplaceEffect{
					Path:        baseClass,
					Match:       "AuditingEntityListener.class",
					Replacement: "{AuditingEntityListener.class, EntityAuditEventListener.class}",
				},
				effects.InsertEffect{
					Path:      baseClass,
					Marker:    "import org.springframework.data.jpa.domain.support.AuditingEntityListener",
					Insertion: "import " + p.input.Project.PackageName + ".config.audit.EntityAuditEventListener;",
				},
			},
		},
		// audit fields must be serialized for the audit log
		effects.ReplaceEffect{
			Path:  baseClass,
			Match: `\s*@JsonIgnore`,
			All:   true,
			Regex: true,
		},
	)
	return out
}

// entityEffects produces the per-entity effects in their fixed order.
func (p planner) entityEffects(entity *models.EntityDescriptor) effects.CompositeEffect {
	name := entity.Name
	var out []effects.Effect

	if p.custom() {
		out = append(out, extend(p.java("domain", name+".java"), name, "AbstractAuditingEntity"))
		if entity.UsesMappedDTO() {
			out = append(out, extend(p.java("service", "dto", name+"DTO.java"), name+"DTO", "AbstractAuditingDTO"))
		}

		out = append(out, effects.InjectColumnsEffect{Entity: name, Columns: models.AuditColumns()})
	} else {
		repository := p.java("repository", name+"Repository.java")
		out = append(out, effects.GuardedEffect{
			Path:     repository,
			Pattern:  JaversAnnotation,
			Contains: JaversAnnotation,
			Effects: []effects.Effect{
				effects.ReplaceEffect{
					Path:        repository,
					Match:       "public interface " + name + "Repository",
					Replacement: JaversAnnotation + "\npublic interface " + name + "Repository",
				},
				effects.ReplaceEffect{
					Path:        repository,
					Match:       "domain." + name + ";",
					Replacement: "domain." + name + ";\nimport org.javers.spring.annotation.JaversSpringDataAuditable;",
				},
			},
		})
	}

	if p.softDelete() {
		out = append(out, effects.InjectColumnsEffect{Entity: name, Columns: models.SoftDeleteColumns()})
	}

	if entity.UsesServiceImpl() {
		out = append(out,
			effects.RenderEffect{
				Template: "java/service/EntityService.java",
				Path:     p.java("service", name+"Service.java"),
				Data:     p.data(entity),
			},
			effects.RenderEffect{
				Template: "java/service/impl/EntityServiceImpl.java",
				Path:     p.java("service", "impl", name+"ServiceImpl.java"),
				Data:     p.data(entity),
			},
		)
	}

	return effects.CompositeEffect{Effects: out}
}

// extend makes class inherit from base. A class that already extends another
// type is left as is and reported, since Java allows a single superclass.
func extend(path, class, base string) effects.Effect {
	return effects.GuardedEffect{
		Path:     path,
		Contains: "extends " + base,
		Effects: []effects.Effect{effects.ReplaceEffect{
			Path:        path,
			Match:       "public class " + class + `(\s+implements\b|\s*\{)`,
			Replacement: "public class " + class + " extends " + base + "${1}",
			Regex:       true,
			Unmatched:   fmt.Sprintf("%s already extends another class, extend %s by hand", class, base),
		}},
	}
}

// userSoftDelete adds the soft-delete column to the user table through a new changelog.
func (p planner) userSoftDelete() effects.Effect {
	return effects.ChangelogEffect{
		Suffix:   DelStatusChangelogSuffix,
		Template: "resources/changelog/AddDelStatusColumnToUser.xml",
		Data:     p.data(nil),
	}
}

// auditPage produces the audit log page and its REST resource.
func (p planner) auditPage() []effects.Effect {
	pageDir := filepath.Join(p.input.Layout.WebappDir, "app", "admin", "entity-audit")
	pages := []string{
		"entity-audits.html",
		"entity-audit.detail.html",
		"entity-audit.state.js",
		"entity-audit.controller.js",
		"entity-audit.detail.controller.js",
		"entity-audit.service.js",
	}

	var out []effects.Effect
	for _, page := range pages {
		out = append(out, effects.CopyEffect{
			Template: "webapp/entity-audit/" + page,
			Path:     filepath.Join(pageDir, page),
		})
	}

	if p.custom() {
		out = append(out, p.render("java/web/rest/EntityAuditResource.java", "web", "rest", "EntityAuditResource.java"))
	} else {
		out = append(out, p.render("java/web/rest/JaversEntityAuditResource.java", "web", "rest", "JaversEntityAuditResource.java"))
	}
	return out
}
