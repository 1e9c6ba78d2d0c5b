// Package cli implements the splitledger command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/logging"
)

var version = "0.1.0"

// NewRootCmd builds the splitledger command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "splitledger",
		Short: "Net shared bills into who owes whom",
		Long: `splitledger turns shared bills (purchases, trips, flat bills) into a
netted ledger: for every pair of people at most one debt, traceable to the
bills that produced it.

Compute a ledger locally from a JSON file, or ask a running server for the
ledger of a stored group.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWithLevel(logging.ParseLevel(logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newComputeCmd(), newGroupLedgerCmd())
	return rootCmd
}
