package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/pkg/api"
)

type computeOptions struct {
	file      string
	transfers bool
	asJSON    bool
}

func newComputeCmd() *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a netted ledger from a JSON file of bills",
		Long: `Compute reads a JSON array of bills and prints the netted debts,
the balance of every person and any bills that had to be skipped.

Each bill looks like:

  {"id": "b1", "kind": "trip", "payer_id": "Alice",
   "participant_ids": ["Alice", "Bob"], "total_cost": "30.00"}`,
		Example: `  # Print the ledger
  splitledger compute --file bills.json

  # Also suggest a short list of payments that settles everyone
  splitledger compute --file bills.json --transfers

  # Read from stdin, write JSON
  cat bills.json | splitledger compute --file - --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the bills JSON file, - for stdin [REQUIRED]")
	cmd.Flags().BoolVar(&opts.transfers, "transfers", false, "Include suggested settlement transfers")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Write the ledger as JSON")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runCompute(cmd *cobra.Command, opts *computeOptions) error {
	bills, err := readBills(cmd, opts.file)
	if err != nil {
		return err
	}

	calcBills, titles := service.BillsFromAPI(bills)
	l := calculator.ComputeLedger(calcBills)
	return writeLedger(cmd.OutOrStdout(), service.LedgerToAPI(l, titles, opts.transfers), opts.asJSON)
}

func readBills(cmd *cobra.Command, path string) ([]api.Bill, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bills: %w", err)
	}

	var bills []api.Bill
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("failed to parse bills from %s: %w", path, err)
	}
	return bills, nil
}
