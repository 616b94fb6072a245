package models

import "fmt"

// AuditMode selects the auditing strategy for a run.
type AuditMode string

const (
	AuditModeCustom AuditMode = "custom"
	AuditModeJavers AuditMode = "javers"
)

// UpdateScope selects which entities are augmented.
type UpdateScope string

const (
	UpdateAll      UpdateScope = "all"
	UpdateSelected UpdateScope = "selected"
)

// DeleteBehaviorScope selects where the soft-delete behavior applies.
type DeleteBehaviorScope string

const (
	DeleteForAll      DeleteBehaviorScope = "deleteForAll"
	DeleteForSelected DeleteBehaviorScope = "deleteForSelected"
)

// Preset names accepted as a positional argument.
const (
	PresetDefault = "default"
	PresetJavers  = "javers"
)

// Options is the full selection for one run. It is fixed once the run starts.
type Options struct {
	AuditMode           AuditMode
	UpdateScope         UpdateScope
	Entities            []string // used when UpdateScope is UpdateSelected
	AddAuditPage        bool
	DeleteBehaviorScope DeleteBehaviorScope
}

// DefaultOptions mirrors the defaults offered to the user.
func DefaultOptions() Options {
	return Options{
		AuditMode:           AuditModeCustom,
		UpdateScope:         UpdateAll,
		AddAuditPage:        true,
		DeleteBehaviorScope: DeleteForAll,
	}
}

// PresetOptions returns the options a preset argument stands for.
func PresetOptions(preset string) (Options, error) {
	opts := DefaultOptions()
	switch preset {
	case PresetDefault:
		return opts, nil
	case PresetJavers:
		opts.AuditMode = AuditModeJavers
		return opts, nil
	default:
		return Options{}, fmt.Errorf("unknown preset %q (valid: %s, %s)", preset, PresetDefault, PresetJavers)
	}
}

// ParseAuditMode validates an audit mode string.
func ParseAuditMode(s string) (AuditMode, error) {
	switch AuditMode(s) {
	case AuditModeCustom, AuditModeJavers:
		return AuditMode(s), nil
	default:
		return "", fmt.Errorf("unknown audit mode %q (valid: custom, javers)", s)
	}
}

// ParseUpdateScope validates an update scope string.
func ParseUpdateScope(s string) (UpdateScope, error) {
	switch UpdateScope(s) {
	case UpdateAll, UpdateSelected:
		return UpdateScope(s), nil
	default:
		return "", fmt.Errorf("unknown update scope %q (valid: all, selected)", s)
	}
}

// ParseDeleteBehaviorScope validates a delete behavior scope. The short
// forms "all" and "selected" are accepted as well.
func ParseDeleteBehaviorScope(s string) (DeleteBehaviorScope, error) {
	switch s {
	case string(DeleteForAll), "all":
		return DeleteForAll, nil
	case string(DeleteForSelected), "selected":
		return DeleteForSelected, nil
	default:
		return "", fmt.Errorf("unknown delete behavior %q (valid: all, selected)", s)
	}
}

// Validate checks that the options are internally consistent.
func (o Options) Validate() error {
	if _, err := ParseAuditMode(string(o.AuditMode)); err != nil {
		return err
	}
	if _, err := ParseUpdateScope(string(o.UpdateScope)); err != nil {
		return err
	}
	if _, err := ParseDeleteBehaviorScope(string(o.DeleteBehaviorScope)); err != nil {
		return err
	}
	if o.UpdateScope == UpdateSelected && len(o.Entities) == 0 {
		return fmt.Errorf("no entities selected")
	}
	return nil
}
