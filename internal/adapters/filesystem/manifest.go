package filesystem

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/entity-audit/internal/models"
)

// Build tools with a supported manifest.
const (
	BuildToolMaven  = "maven"
	BuildToolGradle = "gradle"
)

const (
	mavenNeedle  = "jhipster-needle-maven-add-dependency"
	gradleNeedle = "jhipster-needle-gradle-dependency"
)

// Manifest implements secondary.DependencyManifest for maven and gradle builds.
type Manifest struct {
	root      string
	buildTool string
	patcher   *Patcher
}

// NewManifest creates a manifest adapter for the project at root.
func NewManifest(root, buildTool string, patcher *Patcher) *Manifest {
	return &Manifest{root: root, buildTool: buildTool, patcher: patcher}
}

// AddDependency adds dep unless the manifest already declares its artifact.
func (m *Manifest) AddDependency(dep models.Dependency) error {
	switch m.buildTool {
	case BuildToolMaven:
		return m.addMaven(dep)
	case BuildToolGradle:
		return m.addGradle(dep)
	default:
		return fmt.Errorf("unsupported build tool %q", m.buildTool)
	}
}

func (m *Manifest) addMaven(dep models.Dependency) error {
	path := filepath.Join(m.root, "pom.xml")
	snippet := fmt.Sprintf(`<dependency>
    <groupId>%s</groupId>
    <artifactId>%s</artifactId>
    <version>%s</version>
    <scope>%s</scope>
</dependency>`, dep.GroupID, dep.ArtifactID, dep.Version, dep.Scope)
	guard := "<artifactId>" + dep.ArtifactID + "</artifactId>"

	err := m.patcher.InsertGuarded(path, mavenNeedle, snippet, guard)
	if !isMissingMarker(err) {
		return err
	}

	content, err := readFile(path)
	if err != nil {
		return err
	}
	// skip a dependencyManagement block, its dependencies are not the project's
	from := 0
	if i := strings.Index(content, "</dependencyManagement>"); i >= 0 {
		from = i
	}
	idx := strings.Index(content[from:], "</dependencies>")
	if idx < 0 {
		return fmt.Errorf("no dependencies section in %s", path)
	}
	idx += from

	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	indent := leadingWhitespace(content[lineStart:idx]) + "    "
	var b strings.Builder
	for _, line := range strings.Split(snippet, "\n") {
		b.WriteString(indent + line + "\n")
	}
	return writeFile(path, content[:lineStart]+b.String()+content[lineStart:])
}

func (m *Manifest) addGradle(dep models.Dependency) error {
	path := filepath.Join(m.root, "build.gradle")
	line := fmt.Sprintf(`%s "%s"`, dep.Scope, dep.Coordinates())
	guard := dep.GroupID + ":" + dep.ArtifactID

	err := m.patcher.InsertGuarded(path, gradleNeedle, line, guard)
	if !isMissingMarker(err) {
		return err
	}

	content, err := readFile(path)
	if err != nil {
		return err
	}
	idx := strings.Index(content, "dependencies {")
	if idx < 0 {
		return fmt.Errorf("no dependencies block in %s", path)
	}
	lineEnd := strings.Index(content[idx:], "\n")
	if lineEnd < 0 {
		return fmt.Errorf("malformed dependencies block in %s", path)
	}
	lineEnd += idx + 1
	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	indent := leadingWhitespace(content[lineStart:idx]) + "    "

	return writeFile(path, content[:lineEnd]+indent+line+"\n"+content[lineEnd:])
}

func isMissingMarker(err error) bool {
	return errors.Is(err, ErrMarkerNotFound)
}
