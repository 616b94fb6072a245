package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/example/entity-audit/internal/core/audit"
	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/secondary"
)

// ============================================================================
// mockPatcher
// ============================================================================

var _ secondary.FilePatcher = (*mockPatcher)(nil)

// mockPatcher keeps file contents in memory.
type mockPatcher struct {
	files map[string]string
	calls []string
}

func newMockPatcher(files map[string]string) *mockPatcher {
	if files == nil {
		files = map[string]string{}
	}
	return &mockPatcher{files: files}
}

func (m *mockPatcher) ReplaceOnce(path, match, replacement string, opts secondary.ReplaceOptions) error {
	m.calls = append(m.calls, "replace:"+path)
	content, ok := m.files[path]
	if !ok {
		return fmt.Errorf("failed to read %s: file does not exist", path)
	}
	if opts.Regex {
		re := regexp.MustCompile(match)
		loc := re.FindStringSubmatchIndex(content)
		if loc == nil {
			return fmt.Errorf("%w: %q not found", audit.ErrPatchSkipped, match)
		}
		m.files[path] = content[:loc[0]] + string(re.ExpandString(nil, replacement, content, loc)) + content[loc[1]:]
		return nil
	}
	if !strings.Contains(content, match) {
		return fmt.Errorf("%w: %q not found", audit.ErrPatchSkipped, match)
	}
	n := 1
	if opts.All {
		n = -1
	}
	m.files[path] = strings.Replace(content, match, replacement, n)
	return nil
}

func (m *mockPatcher) InsertGuarded(path, marker, insertion, guard string) error {
	m.calls = append(m.calls, "insert:"+path)
	content := m.files[path]
	if guard == "" {
		guard = insertion
	}
	if strings.Contains(content, guard) {
		return fmt.Errorf("%w: guard present", audit.ErrPatchSkipped)
	}
	m.files[path] = strings.Replace(content, marker, insertion+"\n"+marker, 1)
	return nil
}

func (m *mockPatcher) Contains(path, text, pattern string) (bool, error) {
	content, ok := m.files[path]
	if !ok {
		return false, fmt.Errorf("failed to read %s: file does not exist", path)
	}
	return (text != "" && strings.Contains(content, text)) || (pattern != "" && strings.Contains(content, pattern)), nil
}

// ============================================================================
// mockChangelogRegistry
// ============================================================================

var _ secondary.ChangelogRegistry = (*mockChangelogRegistry)(nil)

type mockChangelogRegistry struct {
	files      map[string]bool // changelog file names
	master     []string
	injected   map[string][]models.Column
	nextID     int
	injectErr  error
	registered []string
}

func newMockChangelogRegistry() *mockChangelogRegistry {
	return &mockChangelogRegistry{
		files:    map[string]bool{},
		injected: map[string][]models.Column{},
		nextID:   20240101000000,
	}
}

func (m *mockChangelogRegistry) FindEntityChangelog(entityName string) (string, error) {
	name, ok := m.FindChangelog("added_entity_" + entityName)
	if !ok {
		return "", audit.ErrMigrationNotFound
	}
	return name, nil
}

func (m *mockChangelogRegistry) InjectColumns(entityName string, columns []models.Column) error {
	if m.injectErr != nil {
		return m.injectErr
	}
	if _, err := m.FindEntityChangelog(entityName); err != nil {
		return err
	}
	existing := map[string]bool{}
	for _, c := range m.injected[entityName] {
		existing[c.Name] = true
	}
	added := 0
	for _, c := range columns {
		if !existing[c.Name] {
			m.injected[entityName] = append(m.injected[entityName], c)
			added++
		}
	}
	if added == 0 {
		return audit.ErrPatchSkipped
	}
	return nil
}

func (m *mockChangelogRegistry) FindChangelog(suffix string) (string, bool) {
	var names []string
	for name := range m.files {
		if strings.HasSuffix(name, "_"+suffix+".xml") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return names[0], true
}

func (m *mockChangelogRegistry) NextID() string {
	m.nextID++
	return fmt.Sprint(m.nextID)
}

func (m *mockChangelogRegistry) Path(fileName string) string {
	return "changelog/" + fileName
}

func (m *mockChangelogRegistry) Register(fileName string) error {
	for _, n := range m.master {
		if n == fileName {
			return audit.ErrPatchSkipped
		}
	}
	m.master = append(m.master, fileName)
	m.registered = append(m.registered, fileName)
	return nil
}

// ============================================================================
// mockRenderer
// ============================================================================

var _ secondary.Renderer = (*mockRenderer)(nil)

type renderCall struct {
	template    string
	destination string
	data        any
}

// mockRenderer reports a change the first time a destination is written.
type mockRenderer struct {
	written   map[string]bool
	calls     []renderCall
	renderErr error
	onRender  func(template, destination string)
}

func newMockRenderer() *mockRenderer {
	return &mockRenderer{written: map[string]bool{}}
}

func (m *mockRenderer) Render(template, destination string, data any) (bool, error) {
	if m.renderErr != nil {
		return false, m.renderErr
	}
	m.calls = append(m.calls, renderCall{template, destination, data})
	if m.onRender != nil {
		m.onRender(template, destination)
	}
	changed := !m.written[destination]
	m.written[destination] = true
	return changed, nil
}

func (m *mockRenderer) Copy(template, destination string) (bool, error) {
	return m.Render(template, destination, nil)
}

// ============================================================================
// mockManifest
// ============================================================================

var _ secondary.DependencyManifest = (*mockManifest)(nil)

type mockManifest struct {
	deps   []models.Dependency
	addErr error
}

func (m *mockManifest) AddDependency(dep models.Dependency) error {
	if m.addErr != nil {
		return m.addErr
	}
	for _, d := range m.deps {
		if d.ArtifactID == dep.ArtifactID {
			return audit.ErrPatchSkipped
		}
	}
	m.deps = append(m.deps, dep)
	return nil
}

// ============================================================================
// mockModuleRegistry
// ============================================================================

var _ secondary.ModuleRegistry = (*mockModuleRegistry)(nil)

type mockModuleRegistry struct {
	hooks []secondary.ModuleHook
	err   error
}

func (m *mockModuleRegistry) RegisterHook(hook secondary.ModuleHook) error {
	if m.err != nil {
		return m.err
	}
	for _, h := range m.hooks {
		if h.Name == hook.Name {
			return audit.ErrPatchSkipped
		}
	}
	m.hooks = append(m.hooks, hook)
	return nil
}

// ============================================================================
// mockJournal
// ============================================================================

var _ secondary.JournalRepository = (*mockJournal)(nil)

type mockJournal struct {
	runs     map[string]*secondary.RunRecord
	order    []string
	ops      map[string][]*secondary.OperationRecord
	startErr error
}

func newMockJournal() *mockJournal {
	return &mockJournal{
		runs: map[string]*secondary.RunRecord{},
		ops:  map[string][]*secondary.OperationRecord{},
	}
}

func (m *mockJournal) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	if m.startErr != nil {
		return m.startErr
	}
	copied := *run
	m.runs[run.ID] = &copied
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockJournal) FinishRun(ctx context.Context, run *secondary.RunRecord) error {
	if _, ok := m.runs[run.ID]; !ok {
		return errors.New("run not found")
	}
	copied := *run
	m.runs[run.ID] = &copied
	return nil
}

func (m *mockJournal) RecordOperation(ctx context.Context, op *secondary.OperationRecord) error {
	m.ops[op.RunID] = append(m.ops[op.RunID], op)
	return nil
}

func (m *mockJournal) ListRuns(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	var out []*secondary.RunRecord
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[m.order[i]])
	}
	return out, nil
}

func (m *mockJournal) ListOperations(ctx context.Context, runID string) ([]*secondary.OperationRecord, error) {
	return m.ops[runID], nil
}

// sequentialIDs returns an id generator yielding RUN-001, RUN-002, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("RUN-%03d", n)
	}
}
