package models

import (
	"encoding/json"
	"fmt"
)

// Relationship kinds as they appear in persisted descriptors.
const (
	OneToOne   = "one-to-one"
	OneToMany  = "one-to-many"
	ManyToOne  = "many-to-one"
	ManyToMany = "many-to-many"
)

// DTO and service strategies.
const (
	DTONone        = "no"
	DTOMapstruct   = "mapstruct"
	ServiceNone    = "no"
	ServiceClass   = "serviceClass"
	ServiceImpl    = "serviceImpl"
	UserEntityName = "user"
)

// EntityDescriptor is one persisted .jhipster/<Name>.json document plus the
// fields the normalizer derives from it.
type EntityDescriptor struct {
	Name string `json:"-"` // from the file name, PascalCase

	// Persisted fields
	Relationships   []*RelationshipDescriptor `json:"relationships,omitempty"`
	DTO             string                    `json:"dto,omitempty"`
	Pagination      string                    `json:"pagination,omitempty"`
	Service         string                    `json:"service,omitempty"`
	AngularJSSuffix string                    `json:"angularJSSuffix,omitempty"`
	ChangelogDate   string                    `json:"changelogDate,omitempty"`
	EntityTableName string                    `json:"entityTableName,omitempty"`

	// Derived fields
	EntityNameCapitalized string              `json:"-"`
	EntityClass           string              `json:"-"`
	EntityInstance        string              `json:"-"`
	EntityClassPlural     string              `json:"-"`
	EntityInstancePlural  string              `json:"-"`
	PkType                string              `json:"-"`
	Validation            bool                `json:"-"`
	Flags                 ClassificationFlags `json:"-"`
	DifferentTypes        []string            `json:"-"`
}

// RelationshipDescriptor describes one association of an entity. Every
// derived field is filled only when empty.
type RelationshipDescriptor struct {
	RelationshipName            string        `json:"relationshipName"`
	RelationshipType            string        `json:"relationshipType"`
	OwnerSide                   bool          `json:"ownerSide,omitempty"`
	OtherEntityName             string        `json:"otherEntityName"`
	OtherEntityField            string        `json:"otherEntityField,omitempty"`
	OtherEntityRelationshipName string        `json:"otherEntityRelationshipName,omitempty"`
	RelationshipValidateRules   ValidateRules `json:"relationshipValidateRules,omitempty"`

	RelationshipNameCapitalized                  string `json:"relationshipNameCapitalized,omitempty"`
	RelationshipNameCapitalizedPlural            string `json:"relationshipNameCapitalizedPlural,omitempty"`
	RelationshipNameHumanized                    string `json:"relationshipNameHumanized,omitempty"`
	RelationshipNamePlural                       string `json:"relationshipNamePlural,omitempty"`
	RelationshipFieldName                        string `json:"relationshipFieldName,omitempty"`
	RelationshipFieldNamePlural                  string `json:"relationshipFieldNamePlural,omitempty"`
	OtherEntityRelationshipNamePlural            string `json:"otherEntityRelationshipNamePlural,omitempty"`
	OtherEntityRelationshipNameCapitalized       string `json:"otherEntityRelationshipNameCapitalized,omitempty"`
	OtherEntityRelationshipNameCapitalizedPlural string `json:"otherEntityRelationshipNameCapitalizedPlural,omitempty"`
	OtherEntityNamePlural                        string `json:"otherEntityNamePlural,omitempty"`
	OtherEntityNameCapitalized                   string `json:"otherEntityNameCapitalized,omitempty"`
	OtherEntityNameCapitalizedPlural             string `json:"otherEntityNameCapitalizedPlural,omitempty"`
	OtherEntityFieldCapitalized                  string `json:"otherEntityFieldCapitalized,omitempty"`
	OtherEntityStateName                         string `json:"otherEntityStateName,omitempty"`
	RelationshipValidate                         bool   `json:"relationshipValidate,omitempty"`
	RelationshipRequired                         bool   `json:"relationshipRequired,omitempty"`
}

// ClassificationFlags are OR-accumulated over an entity's relationships.
type ClassificationFlags struct {
	OwnerManyToMany bool
	NoOwnerOneToOne bool
	OwnerOneToOne   bool
	OneToMany       bool
	ManyToOne       bool
}

// ValidateRules accepts either a single rule string or an array of rules.
type ValidateRules []string

// UnmarshalJSON implements json.Unmarshaler.
func (v *ValidateRules) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*v = nil
			return nil
		}
		*v = ValidateRules{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("relationshipValidateRules must be a string or an array: %w", err)
	}
	*v = many
	return nil
}

// Contains reports whether rule is one of the rules.
func (v ValidateRules) Contains(rule string) bool {
	for _, r := range v {
		if r == rule {
			return true
		}
	}
	return false
}

// UsesMappedDTO reports whether the entity exposes a mapped DTO.
func (e *EntityDescriptor) UsesMappedDTO() bool {
	return e.DTO == DTOMapstruct
}

// UsesServiceImpl reports whether the entity has a service interface plus implementation.
func (e *EntityDescriptor) UsesServiceImpl() bool {
	return e.Service == ServiceImpl
}
