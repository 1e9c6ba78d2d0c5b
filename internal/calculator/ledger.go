package calculator

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// DebtBill is the signed contribution one bill makes to a debtor -> creditor debt.
// Negative amounts are offsets from bills in the opposite direction that were
// netted against this debt.
type DebtBill struct {
	Amount decimal.Decimal
	Source Bill
}

// Debt represents a net debt from one person to another.
type Debt struct {
	DebtorID   string // Person who owes
	CreditorID string // Person who is owed
	Amount     decimal.Decimal
}

// ExcludedBill is a bill left out of the ledger and the reason why.
type ExcludedBill struct {
	Bill Bill
	Err  error
}

// DebtLedger is the netted result of ComputeLedger.
// Between any two people at most one direction has an entry, and every entry
// sums to a strictly positive amount.
type DebtLedger struct {
	// debts[debtor][creditor] = contributions, summing to the net amount
	debts    map[string]map[string][]DebtBill
	excluded []ExcludedBill
}

type pair struct {
	a, b string // a < b
}

// ComputeLedger builds a netted debt ledger from bills.
//
// Algorithm:
//   - Skip bills without a payer, without participants or with a negative total
//   - For each bill: every participant other than the payer owes the payer one share
//   - Netting: for each pair of people, the smaller directional total is cancelled
//     against the larger one; equal totals cancel both directions
//
// Netting works on aggregated totals, so the net amount per pair does not
// depend on the order of bills. Only the order of the audit entries does.
func ComputeLedger(bills []Bill) *DebtLedger {
	l := &DebtLedger{debts: make(map[string]map[string][]DebtBill)}

	for _, bill := range bills {
		share, err := validateBill(bill)
		if err != nil {
			l.excluded = append(l.excluded, ExcludedBill{Bill: bill, Err: err})
			continue
		}

		bill.Participants = slices.Clone(bill.Participants)
		for _, participant := range uniqueParticipants(bill.Participants) {
			// Payer owes nothing to themselves
			if participant == bill.PayerID {
				continue
			}
			l.add(participant, bill.PayerID, DebtBill{Amount: share, Source: bill})
		}
	}

	l.net()
	return l
}

func (l *DebtLedger) add(debtor, creditor string, entry DebtBill) {
	if _, exists := l.debts[debtor]; !exists {
		l.debts[debtor] = make(map[string][]DebtBill)
	}
	l.debts[debtor][creditor] = append(l.debts[debtor][creditor], entry)
}

func (l *DebtLedger) remove(debtor, creditor string) {
	creditors, exists := l.debts[debtor]
	if !exists {
		return
	}
	delete(creditors, creditor)
	if len(creditors) == 0 {
		delete(l.debts, debtor)
	}
}

// pairs returns every unordered pair with an entry in either direction, sorted.
func (l *DebtLedger) pairs() []pair {
	set := make(map[pair]bool)
	for debtor, creditors := range l.debts {
		for creditor := range creditors {
			if debtor < creditor {
				set[pair{a: debtor, b: creditor}] = true
			} else {
				set[pair{a: creditor, b: debtor}] = true
			}
		}
	}
	return slices.SortedFunc(maps.Keys(set), func(x, y pair) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
}

func (l *DebtLedger) net() {
	for _, p := range l.pairs() {
		ab := l.debts[p.a][p.b]
		ba := l.debts[p.b][p.a]

		if len(ab) > 0 && len(ba) > 0 {
			totalAB := sumDebtBills(ab)
			totalBA := sumDebtBills(ba)

			switch {
			case AmountsEqual(totalAB, totalBA):
				l.remove(p.a, p.b)
				l.remove(p.b, p.a)
			case totalAB.GreaterThan(totalBA):
				l.debts[p.a][p.b] = append(ab, offsets(ba)...)
				l.remove(p.b, p.a)
			default:
				l.debts[p.b][p.a] = append(ba, offsets(ab)...)
				l.remove(p.a, p.b)
			}
		}

		// Drop whatever is left at (or numerically near) zero, e.g. zero-cost bills
		for _, d := range [][2]string{{p.a, p.b}, {p.b, p.a}} {
			entries, exists := l.debts[d[0]][d[1]]
			if !exists {
				continue
			}
			if total := sumDebtBills(entries); !total.IsPositive() || isNegligible(total) {
				l.remove(d[0], d[1])
			}
		}
	}
}

// offsets negates the entries of a cancelled direction so they can be appended
// to the surviving one.
func offsets(entries []DebtBill) []DebtBill {
	out := make([]DebtBill, len(entries))
	for i, e := range entries {
		out[i] = DebtBill{Amount: e.Amount.Neg(), Source: e.Source}
	}
	return out
}

// Debts returns what debtorID owes, keyed by creditor, with the contributing bills.
// The returned map is a copy.
func (l *DebtLedger) Debts(debtorID string) map[string][]DebtBill {
	out := make(map[string][]DebtBill, len(l.debts[debtorID]))
	for creditor, entries := range l.debts[debtorID] {
		out[creditor] = slices.Clone(entries)
	}
	return out
}

// Amount returns the net amount debtorID owes creditorID, zero if none.
func (l *DebtLedger) Amount(debtorID, creditorID string) decimal.Decimal {
	return sumDebtBills(l.debts[debtorID][creditorID])
}

// AllDebts returns every net debt sorted by debtor, then creditor.
func (l *DebtLedger) AllDebts() []Debt {
	var debts []Debt
	for _, debtor := range slices.Sorted(maps.Keys(l.debts)) {
		creditors := l.debts[debtor]
		for _, creditor := range slices.Sorted(maps.Keys(creditors)) {
			debts = append(debts, Debt{
				DebtorID:   debtor,
				CreditorID: creditor,
				Amount:     sumDebtBills(creditors[creditor]),
			})
		}
	}
	return debts
}

// Excluded returns the bills that were skipped, in input order.
func (l *DebtLedger) Excluded() []ExcludedBill {
	return slices.Clone(l.excluded)
}

// IsSettled reports whether nobody owes anybody.
func (l *DebtLedger) IsSettled() bool {
	return len(l.debts) == 0
}
