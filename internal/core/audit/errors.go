package audit

import "errors"

var (
	// ErrUnsupportedDatabase aborts a run before any file is touched.
	ErrUnsupportedDatabase = errors.New("unsupported database")
	// ErrMissingDescriptor is returned for an explicitly requested entity without a descriptor.
	ErrMissingDescriptor = errors.New("missing entity descriptor")
	// ErrMigrationNotFound means an entity has no creation changelog; column injection is skipped.
	ErrMigrationNotFound = errors.New("migration not found")
	// ErrPatchSkipped is the expected outcome of a guarded patch on an already augmented file.
	ErrPatchSkipped = errors.New("patch skipped")
	// ErrDependencyRegistration is logged as a warning; earlier changes stay in place.
	ErrDependencyRegistration = errors.New("dependency registration failed")
)
