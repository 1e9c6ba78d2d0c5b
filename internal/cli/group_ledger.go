package cli

import (
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type groupLedgerOptions struct {
	server    string
	groupID   string
	from, to  int64
	transfers bool
	asJSON    bool
	timeout   time.Duration
}

func newGroupLedgerCmd() *cobra.Command {
	opts := &groupLedgerOptions{}

	cmd := &cobra.Command{
		Use:   "group-ledger",
		Short: "Fetch the ledger of a stored group from a running server",
		Example: `  splitledger group-ledger --group 6f1c... --server http://localhost:8080
  splitledger group-ledger --group 6f1c... --from 1704067200 --to 1706745600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupLedger(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "Base URL of the splitledger server")
	cmd.Flags().StringVarP(&opts.groupID, "group", "g", "", "Group ID [REQUIRED]")
	cmd.Flags().Int64Var(&opts.from, "from", 0, "Only bills created at or after this Unix time")
	cmd.Flags().Int64Var(&opts.to, "to", 0, "Only bills created before this Unix time")
	cmd.Flags().BoolVar(&opts.transfers, "transfers", false, "Include suggested settlement transfers")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Write the ledger as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.MarkFlagRequired("group")

	return cmd
}

func runGroupLedger(cmd *cobra.Command, opts *groupLedgerOptions) error {
	client := apiconnect.NewLedgerServiceClient(
		&http.Client{Timeout: opts.timeout},
		opts.server,
		connect.WithInterceptors(middleware.RequestID()),
	)

	ctx := middleware.WithRequestID(cmd.Context(), uuid.NewString())
	resp, err := client.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{
		GroupID:          opts.groupID,
		From:             opts.from,
		To:               opts.to,
		IncludeTransfers: opts.transfers,
	}))
	if err != nil {
		return fmt.Errorf("failed to get ledger for group %s: %w", opts.groupID, err)
	}

	return writeLedger(cmd.OutOrStdout(), resp.Msg.Ledger, opts.asJSON)
}
