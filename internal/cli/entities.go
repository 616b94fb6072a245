package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/entity-audit/internal/wire"
)

// EntitiesCmd returns the entities command
func EntitiesCmd() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List the entities that can be audited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AuditAdapterWithOutput(cmd.OutOrStdout()).Entities(cmd.Context(), projectDir)
		},
	}

	cmd.Flags().StringVar(&projectDir, "dir", ".", "Project root directory")
	return cmd
}
