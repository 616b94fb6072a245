package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/entity-audit/internal/cli"
	"github.com/example/entity-audit/internal/version"
	"github.com/example/entity-audit/internal/wire"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "entity-audit",
		Short:   "Add entity audit tracking to generated JHipster projects",
		Version: version.String(),
		Long: `entity-audit augments a generated JHipster project with entity auditing:
who created and last modified each record, a log of every change, and an
optional audit log page. It patches the project in place and is safe to re-run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return wire.InitLogger(verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			wire.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cli.EnableCmd())
	rootCmd.AddCommand(cli.EntitiesCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
