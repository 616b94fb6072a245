package audit

import "github.com/example/entity-audit/internal/models"

const (
	javersVersion      = "2.0.0"
	mongoDriverVersion = "3.2.2"
)

// RequiredDependencies returns the third-party libraries an audit mode needs
// for a database family.
func RequiredDependencies(mode models.AuditMode, databaseType string) []models.Dependency {
	if mode != models.AuditModeJavers {
		return nil
	}

	switch databaseType {
	case DatabaseMongo:
		return []models.Dependency{
			{GroupID: "org.javers", ArtifactID: "javers-spring-boot-starter-mongo", Version: javersVersion, Scope: "compile"},
			{GroupID: "org.mongodb", ArtifactID: "mongo-java-driver", Version: mongoDriverVersion, Scope: "compile"},
		}
	case DatabaseSQL:
		return []models.Dependency{
			{GroupID: "org.javers", ArtifactID: "javers-spring-boot-starter-sql", Version: javersVersion, Scope: "compile"},
		}
	default:
		return nil
	}
}
