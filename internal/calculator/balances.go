package calculator

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// MemberBalance represents the balance information for one person in a ledger.
type MemberBalance struct {
	MemberID   string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalOwed  decimal.Decimal // What others owe this person
	TotalOwing decimal.Decimal // What this person owes others
}

// Balances aggregates the netted debts into one balance per person, sorted by member ID.
func (l *DebtLedger) Balances() []MemberBalance {
	balances := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		if _, exists := balances[id]; !exists {
			balances[id] = &MemberBalance{MemberID: id}
		}
		return balances[id]
	}

	for _, debt := range l.AllDebts() {
		debtor := get(debt.DebtorID)
		debtor.TotalOwing = debtor.TotalOwing.Add(debt.Amount)

		creditor := get(debt.CreditorID)
		creditor.TotalOwed = creditor.TotalOwed.Add(debt.Amount)
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, id := range slices.Sorted(maps.Keys(balances)) {
		bal := balances[id]
		bal.NetBalance = bal.TotalOwed.Sub(bal.TotalOwing)
		result = append(result, *bal)
	}
	return result
}

// SuggestTransfers proposes a short list of payments that would settle every
// balance in the ledger. Unlike AllDebts it may route money between people who
// share no bill, so it is a suggestion on top of the ledger, not part of it.
//
// Greedy algorithm: match largest debts with largest credits.
func (l *DebtLedger) SuggestTransfers() []Debt {
	var creditors, debtors []MemberBalance
	for _, bal := range l.Balances() {
		switch {
		case isNegligible(bal.NetBalance):
		case bal.NetBalance.IsPositive():
			creditors = append(creditors, bal)
		default:
			debtors = append(debtors, bal)
		}
	}

	byMagnitude := func(x, y MemberBalance) int {
		if c := y.NetBalance.Abs().Cmp(x.NetBalance.Abs()); c != 0 {
			return c
		}
		return cmp.Compare(x.MemberID, y.MemberID)
	}
	slices.SortFunc(creditors, byMagnitude)
	slices.SortFunc(debtors, byMagnitude)

	debtorBalance := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		debtorBalance[i] = d.NetBalance.Neg() // Make positive
	}
	creditorBalance := make([]decimal.Decimal, len(creditors))
	for j, c := range creditors {
		creditorBalance[j] = c.NetBalance
	}

	var transfers []Debt
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtorBalance[i], creditorBalance[j])

		if !isNegligible(amount) {
			transfers = append(transfers, Debt{
				DebtorID:   debtors[i].MemberID,
				CreditorID: creditors[j].MemberID,
				Amount:     amount,
			})
		}

		debtorBalance[i] = debtorBalance[i].Sub(amount)
		creditorBalance[j] = creditorBalance[j].Sub(amount)

		// Move to next debtor/creditor if fully settled
		if isNegligible(debtorBalance[i]) {
			i++
		}
		if isNegligible(creditorBalance[j]) {
			j++
		}
	}

	return transfers
}
