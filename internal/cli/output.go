package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmynk/splitledger/pkg/api"
)

func writeLedger(w io.Writer, ledger *api.Ledger, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ledger)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(ledger.Debts) == 0 {
		fmt.Fprintln(tw, "Everyone is settled up.")
	} else {
		fmt.Fprintln(tw, "DEBTOR\tCREDITOR\tAMOUNT\tBILLS")
		for _, debt := range ledger.Debts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", debt.DebtorID, debt.CreditorID, debt.Amount.StringFixed(2), len(debt.Bills))
		}
	}

	if len(ledger.Balances) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "MEMBER\tNET\tOWED\tOWING")
		for _, bal := range ledger.Balances {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bal.MemberID,
				bal.NetBalance.StringFixed(2), bal.TotalOwed.StringFixed(2), bal.TotalOwing.StringFixed(2))
		}
	}

	if len(ledger.SuggestedTransfers) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "SUGGESTED TRANSFERS")
		for _, t := range ledger.SuggestedTransfers {
			fmt.Fprintf(tw, "%s\t->\t%s\t%s\n", t.DebtorID, t.CreditorID, t.Amount.StringFixed(2))
		}
	}

	if len(ledger.Excluded) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "SKIPPED BILLS")
		for _, ex := range ledger.Excluded {
			fmt.Fprintf(tw, "%s\t%s\n", ex.BillID, ex.Reason)
		}
	}

	return tw.Flush()
}
