// Package wire provides dependency injection for the entity-audit application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cliadapter "github.com/example/entity-audit/internal/adapters/cli"
	"github.com/example/entity-audit/internal/adapters/filesystem"
	"github.com/example/entity-audit/internal/adapters/render"
	"github.com/example/entity-audit/internal/adapters/sqlite"
	"github.com/example/entity-audit/internal/app"
	"github.com/example/entity-audit/internal/config"
	"github.com/example/entity-audit/internal/core/changelog"
	"github.com/example/entity-audit/internal/db"
	"github.com/example/entity-audit/internal/logging"
	"github.com/example/entity-audit/internal/ports/primary"
	"github.com/example/entity-audit/internal/ports/secondary"
)

var (
	logger       = zap.NewNop()
	auditService primary.AuditService
	once         sync.Once
)

// InitLogger builds the process logger. Call it before the first service is used.
func InitLogger(verbose bool) error {
	l, err := logging.New(verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = logger.Sync()
}

// AuditService returns the singleton AuditService instance.
func AuditService() primary.AuditService {
	once.Do(initServices)
	return auditService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	auditService = app.NewAuditService(OpenProject, openJournal(), uuid.NewString, logger)
}

// openJournal opens the run journal. Without one, runs still work but are not recorded.
func openJournal() secondary.JournalRepository {
	path, err := db.GetDBPath()
	if err != nil {
		logger.Warn("run journal unavailable", zap.Error(err))
		return nil
	}
	database, err := db.Open(path)
	if err != nil {
		logger.Warn("run journal unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return sqlite.NewJournalRepository(database)
}

// OpenProject reads the project configuration at dir and binds the file
// adapters to its directories.
func OpenProject(dir string) (*app.Project, error) {
	cfg, err := config.LoadProjectConfig(dir)
	if err != nil {
		return nil, err
	}

	patcher := filesystem.NewPatcher()
	executor := app.NewEffectExecutor(
		patcher,
		filesystem.NewChangelogRegistry(cfg.ResourceDir(), changelog.ProcessClock()),
		render.NewRenderer(),
		filesystem.NewManifest(cfg.Dir, cfg.BuildTool, patcher),
		logger,
	)

	return &app.Project{
		Config:   cfg,
		Loader:   filesystem.NewDescriptorLoader(cfg.DescriptorDir(), logger),
		Executor: executor,
		Modules:  filesystem.NewModuleRegistry(cfg.DescriptorDir()),
	}, nil
}

// AuditAdapter returns a new AuditAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func AuditAdapter() *cliadapter.AuditAdapter {
	return AuditAdapterWithOutput(os.Stdout)
}

// AuditAdapterWithOutput returns a new AuditAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func AuditAdapterWithOutput(out io.Writer) *cliadapter.AuditAdapter {
	once.Do(initServices)
	return cliadapter.NewAuditAdapter(auditService, out)
}
