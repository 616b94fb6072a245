package audit

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/entity-audit/internal/core/effects"
	"github.com/example/entity-audit/internal/models"
)

func planInput(mode models.AuditMode, entities ...*models.EntityDescriptor) PlanInput {
	opts := models.DefaultOptions()
	opts.AuditMode = mode
	return PlanInput{
		Options: opts,
		Project: ProjectInfo{BaseName: "shop", PackageName: "com.shop", DatabaseType: DatabaseSQL},
		Layout: Layout{
			JavaDir:     "/p/src/main/java/com/shop",
			ResourceDir: "/p/src/main/resources",
			WebappDir:   "/p/src/main/webapp",
		},
		Entities: entities,
	}
}

func order() *models.EntityDescriptor {
	return &models.EntityDescriptor{Name: "Order", DTO: models.DTOMapstruct, Service: models.ServiceImpl}
}

func customer() *models.EntityDescriptor {
	return &models.EntityDescriptor{Name: "Customer", DTO: models.DTONone, Service: models.ServiceNone}
}

// kinds lists the effect type of every flattened effect.
func kinds(plan []effects.Effect) []string {
	var out []string
	for _, eff := range effects.Flatten(plan) {
		out = append(out, eff.EffectType())
	}
	return out
}

func targets(plan []effects.Effect) []string {
	var out []string
	for _, eff := range effects.Flatten(plan) {
		out = append(out, eff.Target())
	}
	return out
}

func hasTarget(plan []effects.Effect, suffix string) bool {
	for _, target := range targets(plan) {
		if strings.HasSuffix(target, suffix) {
			return true
		}
	}
	return false
}

func injectsColumn(plan []effects.Effect, entity, column string) bool {
	for _, eff := range effects.Flatten(plan) {
		inject, ok := eff.(effects.InjectColumnsEffect)
		if !ok || inject.Entity != entity {
			continue
		}
		for _, c := range inject.Columns {
			if c.Name == column {
				return true
			}
		}
	}
	return false
}

func TestGeneratePlan_CustomSharedFiles(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeCustom))

	base, ok := plan[0].(effects.RenderEffect)
	if !ok || base.Mode != effects.RenderIfAbsent {
		t.Fatalf("first effect should render the base class only if absent, got %#v", plan[0])
	}
	if base.Path != filepath.Join("/p/src/main/java/com/shop", "domain", "AbstractAuditingEntity.java") {
		t.Errorf("base class path = %q", base.Path)
	}

	for _, want := range []string{
		"AsyncEntityAuditEventWriter.java",
		"EntityAuditEventListener.java",
		"EntityAuditEventConfig.java",
		"EntityAuditEventRepository.java",
		"AbstractAuditingDTO.java",
		"EntityAuditResource.java",
		AuditEventChangelogSuffix,
		DelStatusChangelogSuffix,
	} {
		if !hasTarget(plan, want) {
			t.Errorf("plan has no effect targeting %s", want)
		}
	}
	if hasTarget(plan, "JaversAuthorProvider.java") {
		t.Error("custom plan should not render javers classes")
	}
}

func TestGeneratePlan_CustomEntityOrder(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeCustom, order()))

	var entity effects.CompositeEffect
	for _, eff := range plan {
		if c, ok := eff.(effects.CompositeEffect); ok {
			entity = c
		}
	}

	got := kinds(entity.Effects)
	want := []string{"guarded", "guarded", "inject_columns", "inject_columns", "render", "render"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("entity effects = %v, want %v", got, want)
	}

	domain := entity.Effects[0].(effects.GuardedEffect)
	if domain.Contains != "extends AbstractAuditingEntity" || !strings.HasSuffix(domain.Path, "Order.java") {
		t.Errorf("domain guard = %+v", domain)
	}
	replace := domain.Effects[0].(effects.ReplaceEffect)
	if !replace.Regex || replace.Replacement != "public class Order extends AbstractAuditingEntity${1}" {
		t.Errorf("domain replace = %+v", replace)
	}
	if !strings.Contains(replace.Unmatched, "Order already extends another class") {
		t.Errorf("domain replace should report an existing superclass, got %q", replace.Unmatched)
	}

	dto := entity.Effects[1].(effects.GuardedEffect)
	if !strings.HasSuffix(dto.Path, filepath.Join("dto", "OrderDTO.java")) {
		t.Errorf("dto guard path = %q", dto.Path)
	}
	if r := dto.Effects[0].(effects.ReplaceEffect); r.Replacement != "public class OrderDTO extends AbstractAuditingDTO${1}" {
		t.Errorf("dto replace = %+v", r)
	}

	inject := entity.Effects[2].(effects.InjectColumnsEffect)
	if inject.Entity != "Order" || len(inject.Columns) != 4 {
		t.Errorf("inject = %+v", inject)
	}
	softDelete := entity.Effects[3].(effects.InjectColumnsEffect)
	if diff := cmp.Diff(models.SoftDeleteColumns(), softDelete.Columns); diff != "" {
		t.Errorf("soft-delete columns mismatch (-want +got):\n%s", diff)
	}

	service := entity.Effects[4].(effects.RenderEffect)
	if service.Data.Entity == nil || service.Data.Entity.Name != "Order" || !service.Data.SoftDelete {
		t.Errorf("service template data = %+v", service.Data)
	}
}

func TestGeneratePlan_EntityWithoutDTOOrService(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeCustom, customer()))

	for _, eff := range plan {
		c, ok := eff.(effects.CompositeEffect)
		if !ok {
			continue
		}
		got := kinds(c.Effects)
		if strings.Join(got, ",") != "guarded,inject_columns,inject_columns" {
			t.Errorf("entity effects = %v, want guarded,inject_columns,inject_columns", got)
		}
	}
}

func TestGeneratePlan_Javers(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeJavers, order()))

	for _, want := range []string{"JaversAuthorProvider.java", "EntityAuditAction.java", "JaversEntityAuditResource.java"} {
		if !hasTarget(plan, want) {
			t.Errorf("plan has no effect targeting %s", want)
		}
	}
	for _, unwanted := range []string{"EntityAuditEventListener.java", AuditEventChangelogSuffix} {
		if hasTarget(plan, unwanted) {
			t.Errorf("javers plan should not target %s", unwanted)
		}
	}
	for _, eff := range effects.Flatten(plan) {
		if inject, ok := eff.(effects.InjectColumnsEffect); ok {
			if diff := cmp.Diff(models.SoftDeleteColumns(), inject.Columns); diff != "" {
				t.Errorf("javers plan should only inject the soft-delete column (-want +got):\n%s", diff)
			}
		}
	}

	var repo effects.GuardedEffect
	for _, eff := range effects.Flatten(plan) {
		if g, ok := eff.(effects.GuardedEffect); ok && strings.HasSuffix(g.Path, "OrderRepository.java") {
			repo = g
		}
	}
	if repo.Pattern != JaversAnnotation || len(repo.Effects) != 2 {
		t.Errorf("repository guard = %+v", repo)
	}

	last, ok := plan[len(plan)-1].(effects.DependencyEffect)
	if !ok || last.Dependency.ArtifactID != "javers-spring-boot-starter-sql" {
		t.Errorf("last effect = %#v, want the javers dependency", plan[len(plan)-1])
	}
}

func TestGeneratePlan_SoftDeleteScope(t *testing.T) {
	tests := []struct {
		name          string
		mode          models.AuditMode
		scope         models.DeleteBehaviorScope
		wantBase      bool
		wantDelTable  bool
		wantDelColumn bool
	}{
		{"custom for all", models.AuditModeCustom, models.DeleteForAll, true, true, true},
		{"custom for selected", models.AuditModeCustom, models.DeleteForSelected, true, false, false},
		{"javers for all", models.AuditModeJavers, models.DeleteForAll, true, true, true},
		{"javers for selected", models.AuditModeJavers, models.DeleteForSelected, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := planInput(tt.mode, order())
			input.Options.DeleteBehaviorScope = tt.scope
			plan := GeneratePlan(input)

			if got := hasTarget(plan, "AbstractAuditingEntity.java"); got != tt.wantBase {
				t.Errorf("base class planned = %v, want %v", got, tt.wantBase)
			}
			if got := hasTarget(plan, DelStatusChangelogSuffix); got != tt.wantDelTable {
				t.Errorf("del status changelog planned = %v, want %v", got, tt.wantDelTable)
			}
			if got := injectsColumn(plan, "Order", "del_status"); got != tt.wantDelColumn {
				t.Errorf("del_status injected into Order = %v, want %v", got, tt.wantDelColumn)
			}
		})
	}
}

func TestGeneratePlan_WithoutAuditPage(t *testing.T) {
	input := planInput(models.AuditModeCustom, order())
	input.Options.AddAuditPage = false
	plan := GeneratePlan(input)

	for _, k := range kinds(plan) {
		if k == "copy" {
			t.Fatal("no page should be copied without the audit page")
		}
	}
	if hasTarget(plan, "EntityAuditResource.java") {
		t.Error("no audit resource should be rendered without the audit page")
	}
}

func TestGeneratePlan_AuditPageFiles(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeCustom))

	copies := 0
	for _, eff := range effects.Flatten(plan) {
		if c, ok := eff.(effects.CopyEffect); ok {
			copies++
			if !strings.Contains(c.Path, filepath.Join("webapp", "app", "admin", "entity-audit")) {
				t.Errorf("page copied to %q", c.Path)
			}
		}
	}
	if copies != 6 {
		t.Errorf("copied %d pages, want 6", copies)
	}
}

func TestGeneratePlan_AuditedEntities(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeJavers, order(), customer()))

	for _, eff := range effects.Flatten(plan) {
		r, ok := eff.(effects.RenderEffect)
		if !ok || !strings.HasSuffix(r.Path, "JaversEntityAuditResource.java") {
			continue
		}
		if strings.Join(r.Data.AuditedEntities, ",") != "Order,Customer" {
			t.Errorf("AuditedEntities = %v", r.Data.AuditedEntities)
		}
		return
	}
	t.Error("javers audit resource not planned")
}

func TestGeneratePlan_LogsEntityUpdate(t *testing.T) {
	plan := GeneratePlan(planInput(models.AuditModeJavers, order(), customer()))

	var logs []effects.LogEffect
	for _, eff := range plan {
		if l, ok := eff.(effects.LogEffect); ok {
			logs = append(logs, l)
		}
	}
	if len(logs) != 1 {
		t.Fatalf("expected one log effect, got %d", len(logs))
	}
	want := map[string]any{"entities": []string{"Order", "Customer"}, "mode": "javers"}
	if diff := cmp.Diff(want, logs[0].Fields); diff != "" {
		t.Errorf("log fields mismatch (-want +got):\n%s", diff)
	}

	if got := kinds(GeneratePlan(planInput(models.AuditModeCustom))); strings.Contains(strings.Join(got, ","), "log") {
		t.Error("a plan without entities should not log an entity update")
	}
}

func TestGeneratePlan_IsDeterministic(t *testing.T) {
	a := targets(GeneratePlan(planInput(models.AuditModeCustom, order(), customer())))
	b := targets(GeneratePlan(planInput(models.AuditModeCustom, order(), customer())))
	if strings.Join(a, "\n") != strings.Join(b, "\n") {
		t.Error("plans for the same input differ")
	}
}
