package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/entity-audit/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs, or the operations of one run",
		Long: `Show the run journal.

Without arguments, lists recent runs newest first.
With a run id, lists every operation of that run with its outcome.

Examples:
  entity-audit history
  entity-audit history --limit 5
  entity-audit history 3f6c1c2e-8a55-4a4e-9f0e-2b1d6c7a9e10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.AuditAdapterWithOutput(cmd.OutOrStdout())
			if len(args) == 1 {
				return adapter.Show(cmd.Context(), args[0])
			}
			return adapter.History(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}
