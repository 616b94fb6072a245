package filesystem

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/core/changelog"
	"github.com/example/entity-audit/internal/models"
)

// ChangelogRegistry implements secondary.ChangelogRegistry over a Liquibase
// changelog directory and its master file.
type ChangelogRegistry struct {
	dir    string
	master string
	clock  *changelog.Clock
}

// NewChangelogRegistry creates a registry for resourceDir/config/liquibase.
// A nil clock uses the process-wide clock.
func NewChangelogRegistry(resourceDir string, clock *changelog.Clock) *ChangelogRegistry {
	if clock == nil {
		clock = changelog.ProcessClock()
	}
	liquibase := filepath.Join(resourceDir, "config", "liquibase")
	return &ChangelogRegistry{
		dir:    filepath.Join(liquibase, "changelog"),
		master: filepath.Join(liquibase, "master.xml"),
		clock:  clock,
	}
}

// FindEntityChangelog returns the creation changelog of an entity.
func (r *ChangelogRegistry) FindEntityChangelog(entityName string) (string, error) {
	name, ok := r.FindChangelog(changelog.EntitySuffix(entityName))
	if !ok {
		return "", fmt.Errorf("%w: no *_%s.xml in %s", audit.ErrMigrationNotFound, changelog.EntitySuffix(entityName), r.dir)
	}
	return r.Path(name), nil
}

// InjectColumns splices the columns not yet declared in the entity's
// changelog before its column anchor.
func (r *ChangelogRegistry) InjectColumns(entityName string, columns []models.Column) error {
	path, err := r.FindEntityChangelog(entityName)
	if err != nil {
		return err
	}

	content, err := readFile(path)
	if err != nil {
		return err
	}

	missing := changelog.MissingColumns(content, columns)
	if len(missing) == 0 {
		return fmt.Errorf("%w: %s already declares every column", audit.ErrPatchSkipped, filepath.Base(path))
	}

	idx, indent, err := columnAnchor(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	updated := content[:idx] + changelog.RenderColumns(missing, indent) + content[idx:]
	return writeFile(path, updated)
}

// columnAnchor locates the start of the anchor line and the indentation of the
// existing columns.
func columnAnchor(content string) (int, string, error) {
	idx := strings.Index(content, changelog.ColumnNeedle)
	if idx >= 0 {
		// the needle is an XML comment; anchor on the start of its line
		lineStart := strings.LastIndex(content[:idx], "\n") + 1
		return lineStart, leadingWhitespace(content[lineStart:idx]), nil
	}

	idx = strings.Index(content, changelog.CreateTableEnd)
	if idx < 0 {
		return 0, "", fmt.Errorf("no column anchor found")
	}
	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	return lineStart, leadingWhitespace(content[lineStart:idx]) + "    ", nil
}

// FindChangelog returns the first (lexical) changelog file ending in suffix.
func (r *ChangelogRegistry) FindChangelog(suffix string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*_"+suffix+".xml"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return filepath.Base(matches[0]), true
}

// NextID returns a fresh changelog identifier.
func (r *ChangelogRegistry) NextID() string {
	return r.clock.Next()
}

// Path returns the absolute path of a changelog file name.
func (r *ChangelogRegistry) Path(fileName string) string {
	return filepath.Join(r.dir, fileName)
}

// Register adds an include for fileName to the master changelog.
func (r *ChangelogRegistry) Register(fileName string) error {
	content, err := readFile(r.master)
	if err != nil {
		return err
	}

	include := changelog.IncludeLine(fileName)
	if strings.Contains(content, fileName) {
		return fmt.Errorf("%w: %s already included", audit.ErrPatchSkipped, fileName)
	}

	marker := changelog.ChangelogNeedle
	if !strings.Contains(content, marker) {
		marker = changelog.MasterEnd
	}
	idx := strings.Index(content, marker)
	if idx < 0 {
		return fmt.Errorf("no include anchor found in %s", r.master)
	}

	lineStart := strings.LastIndex(content[:idx], "\n") + 1
	indent := leadingWhitespace(content[lineStart:idx])
	if marker == changelog.MasterEnd {
		indent += "    "
	}

	updated := content[:lineStart] + indent + include + "\n" + content[lineStart:]
	return writeFile(r.master, updated)
}

