package models

// Column is one Liquibase column definition to inject into a changeset.
type Column struct {
	Name             string
	Type             string
	DefaultValue     string
	DefaultValueDate string
	NotNull          bool
}

// AuditColumns are the creation and modification tracking columns.
func AuditColumns() []Column {
	return []Column{
		{Name: "created_by", Type: "varchar(50)", NotNull: true},
		{Name: "created_date", Type: "timestamp", DefaultValueDate: "${now}", NotNull: true},
		{Name: "last_modified_by", Type: "varchar(50)"},
		{Name: "last_modified_date", Type: "timestamp"},
	}
}

// SoftDeleteColumns hold the soft-delete status column.
func SoftDeleteColumns() []Column {
	return []Column{
		{Name: "del_status", Type: "boolean", DefaultValue: "false"},
	}
}

// Dependency is a third-party library coordinate for the build manifest.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
}

// Coordinates returns the group:artifact:version form.
func (d Dependency) Coordinates() string {
	return d.GroupID + ":" + d.ArtifactID + ":" + d.Version
}
