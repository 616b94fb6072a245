package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/entity-audit/internal/config"
	"github.com/example/entity-audit/internal/models"
	"github.com/example/entity-audit/internal/ports/primary"
	"github.com/example/entity-audit/internal/wire"
)

// selectionFlags holds the flags that shape a run's options.
type selectionFlags struct {
	mode           string
	entities       []string
	auditPage      bool
	deleteBehavior string
	answers        string
}

// EnableCmd returns the enable command
func EnableCmd() *cobra.Command {
	var flags selectionFlags
	var projectDir string
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "enable [preset]",
		Short: "Add entity audit tracking to a generated project",
		Long: `Augment a generated project with entity auditing.

The optional preset selects a ready-made configuration:
  default   custom audit framework, all entities, audit page, soft delete for all
  javers    the same with the Javers framework

Flags and an answers file refine the preset; flags win over the answers file.
Running the command twice leaves the project unchanged the second time.

Examples:
  entity-audit enable
  entity-audit enable javers --dir ~/src/shop
  entity-audit enable --entities Order,Customer --audit-page=false
  entity-audit enable --answers audit.yaml --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := models.PresetDefault
			if len(args) == 1 {
				preset = args[0]
			}

			opts, err := buildOptions(cmd, preset, flags)
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(projectDir)
			if err != nil {
				return fmt.Errorf("failed to resolve project directory: %w", err)
			}
			req := primary.EnableRequest{ProjectDir: dir, Options: opts}
			adapter := wire.AuditAdapterWithOutput(cmd.OutOrStdout())

			if dryRun {
				_, err := adapter.Plan(cmd.Context(), req)
				return err
			}

			if !yes {
				describe(cmd.OutOrStdout(), dir, opts)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			return adapter.Enable(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "", "Audit framework (custom, javers)")
	cmd.Flags().StringSliceVar(&flags.entities, "entities", nil, "Entities to audit (default: all)")
	cmd.Flags().BoolVar(&flags.auditPage, "audit-page", true, "Generate the audit log page")
	cmd.Flags().StringVar(&flags.deleteBehavior, "delete-behavior", "", "Soft delete scope (all, selected)")
	cmd.Flags().StringVar(&flags.answers, "answers", "", "YAML answers file")
	cmd.Flags().StringVar(&projectDir, "dir", ".", "Project root directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the changes without writing files")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// buildOptions layers preset, answers file and explicitly set flags, in that order.
func buildOptions(cmd *cobra.Command, preset string, flags selectionFlags) (models.Options, error) {
	opts, err := models.PresetOptions(preset)
	if err != nil {
		return models.Options{}, err
	}

	if flags.answers != "" {
		answers, err := config.LoadAnswers(flags.answers)
		if err != nil {
			return models.Options{}, err
		}
		if opts, err = answers.Apply(opts); err != nil {
			return models.Options{}, err
		}
	}

	if cmd.Flags().Changed("mode") {
		if opts.AuditMode, err = models.ParseAuditMode(flags.mode); err != nil {
			return models.Options{}, err
		}
	}
	if cmd.Flags().Changed("entities") {
		opts.UpdateScope = models.UpdateSelected
		opts.Entities = flags.entities
	}
	if cmd.Flags().Changed("audit-page") {
		opts.AddAuditPage = flags.auditPage
	}
	if cmd.Flags().Changed("delete-behavior") {
		if opts.DeleteBehaviorScope, err = models.ParseDeleteBehaviorScope(flags.deleteBehavior); err != nil {
			return models.Options{}, err
		}
	}

	return opts, opts.Validate()
}

func describe(out io.Writer, dir string, opts models.Options) {
	entities := "all entities"
	if opts.UpdateScope == models.UpdateSelected {
		entities = strings.Join(opts.Entities, ", ")
	}
	fmt.Fprintf(out, "Project:        %s\n", dir)
	fmt.Fprintf(out, "Audit mode:     %s\n", opts.AuditMode)
	fmt.Fprintf(out, "Entities:       %s\n", entities)
	fmt.Fprintf(out, "Audit page:     %t\n", opts.AddAuditPage)
	fmt.Fprintf(out, "Delete scope:   %s\n", opts.DeleteBehaviorScope)
	fmt.Fprintln(out)
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Proceed? [y/N] ")
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
