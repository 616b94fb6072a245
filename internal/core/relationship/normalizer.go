// Package relationship derives naming and classification metadata for entity
// descriptors. This is part of the Functional Core - no I/O.
package relationship

import (
	"strings"

	"github.com/example/entity-audit/internal/core/naming"
	"github.com/example/entity-audit/internal/models"
)

// Database families with string primary keys.
const (
	DatabaseMongo     = "mongodb"
	DatabaseCassandra = "cassandra"
)

// Context carries the project settings the derivation depends on.
type Context struct {
	DatabaseType string
}

// Result reports conditions found while normalizing that the caller may want to log.
type Result struct {
	DTOFallback bool // descriptor had no dto strategy, "no" was assumed
}

// Normalize fills every absent derived field of the entity and its
// relationships. Present values are never overwritten, so calling it twice
// yields the same descriptor.
func Normalize(entity *models.EntityDescriptor, ctx Context) Result {
	var result Result

	if entity.DTO == "" {
		entity.DTO = models.DTONone
		result.DTOFallback = true
	}

	setIfAbsent(&entity.EntityNameCapitalized, func() string { return naming.Capitalize(entity.Name) })
	setIfAbsent(&entity.EntityClass, func() string { return entity.EntityNameCapitalized })
	setIfAbsent(&entity.EntityInstance, func() string { return naming.LowerFirst(entity.Name) })
	setIfAbsent(&entity.EntityClassPlural, func() string { return naming.Pluralize(entity.Name) })
	setIfAbsent(&entity.EntityInstancePlural, func() string { return naming.Pluralize(entity.EntityInstance) })
	setIfAbsent(&entity.PkType, func() string { return pkType(ctx.DatabaseType) })

	// Flags and type set are recomputed from scratch; they are a pure function
	// of the relationships.
	entity.Flags = models.ClassificationFlags{}
	entity.DifferentTypes = []string{entity.EntityClass}

	for _, rel := range entity.Relationships {
		if rel == nil {
			continue
		}
		deriveRelationship(rel, entity.AngularJSSuffix)
		classify(&entity.Flags, rel)

		if rel.RelationshipValidateRules.Contains("required") {
			rel.RelationshipValidate = true
			rel.RelationshipRequired = true
			entity.Validation = true
		}

		if !containsString(entity.DifferentTypes, rel.OtherEntityNameCapitalized) {
			entity.DifferentTypes = append(entity.DifferentTypes, rel.OtherEntityNameCapitalized)
		}
	}

	return result
}

// deriveRelationship fills the derived naming fields of one relationship.
func deriveRelationship(rel *models.RelationshipDescriptor, stateSuffix string) {
	name := rel.RelationshipName

	setIfAbsent(&rel.RelationshipNameCapitalized, func() string { return naming.Capitalize(name) })
	setIfAbsent(&rel.RelationshipNameCapitalizedPlural, func() string {
		// one-letter names are pluralized before capitalizing
		if len(name) > 1 {
			return naming.Pluralize(naming.Capitalize(name))
		}
		return naming.Capitalize(naming.Pluralize(name))
	})
	setIfAbsent(&rel.RelationshipNameHumanized, func() string { return naming.StartCase(name) })
	setIfAbsent(&rel.RelationshipNamePlural, func() string { return naming.Pluralize(name) })
	setIfAbsent(&rel.RelationshipFieldName, func() string { return naming.LowerFirst(name) })
	setIfAbsent(&rel.RelationshipFieldNamePlural, func() string { return naming.Pluralize(naming.LowerFirst(name)) })

	if needsOtherSidePlural(rel) {
		setIfAbsent(&rel.OtherEntityRelationshipNamePlural, func() string {
			return naming.Pluralize(rel.OtherEntityRelationshipName)
		})
	}

	other := rel.OtherEntityName
	setIfAbsent(&rel.OtherEntityRelationshipNameCapitalized, func() string {
		return naming.Capitalize(rel.OtherEntityRelationshipName)
	})
	setIfAbsent(&rel.OtherEntityRelationshipNameCapitalizedPlural, func() string {
		return naming.Pluralize(naming.Capitalize(rel.OtherEntityRelationshipName))
	})
	setIfAbsent(&rel.OtherEntityNamePlural, func() string { return naming.Pluralize(other) })
	setIfAbsent(&rel.OtherEntityNameCapitalized, func() string { return naming.Capitalize(other) })
	setIfAbsent(&rel.OtherEntityNameCapitalizedPlural, func() string { return naming.Pluralize(naming.Capitalize(other)) })
	setIfAbsent(&rel.OtherEntityFieldCapitalized, func() string { return naming.Capitalize(rel.OtherEntityField) })
	setIfAbsent(&rel.OtherEntityStateName, func() string {
		return strings.Trim(naming.KebabCase(other), "-") + stateSuffix
	})
}

// needsOtherSidePlural reports whether the other side of the relationship
// holds a collection back to this entity.
func needsOtherSidePlural(rel *models.RelationshipDescriptor) bool {
	switch rel.RelationshipType {
	case models.OneToMany:
		return true
	case models.ManyToMany:
		return !rel.OwnerSide
	case models.OneToOne:
		return strings.ToLower(rel.OtherEntityName) != models.UserEntityName
	default:
		return false
	}
}

// classify ORs the relationship's kind/owner combination into flags.
func classify(flags *models.ClassificationFlags, rel *models.RelationshipDescriptor) {
	switch {
	case rel.RelationshipType == models.ManyToMany && rel.OwnerSide:
		flags.OwnerManyToMany = true
	case rel.RelationshipType == models.OneToOne && !rel.OwnerSide:
		flags.NoOwnerOneToOne = true
	case rel.RelationshipType == models.OneToOne && rel.OwnerSide:
		flags.OwnerOneToOne = true
	case rel.RelationshipType == models.OneToMany:
		flags.OneToMany = true
	case rel.RelationshipType == models.ManyToOne:
		flags.ManyToOne = true
	}
}

func pkType(databaseType string) string {
	if databaseType == DatabaseMongo || databaseType == DatabaseCassandra {
		return "String"
	}
	return "Long"
}

func setIfAbsent(field *string, derive func() string) {
	if *field == "" {
		*field = derive()
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
