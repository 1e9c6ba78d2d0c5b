package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidBill marks a bill that cannot take part in a ledger: it has no
// payer, no participants, or a negative total.
var ErrInvalidBill = errors.New("invalid bill")

// Bill represents a bill with the minimal information needed for debt calculations.
// Purchases, trips and flat bills all reduce to this shape.
type Bill struct {
	ID           string
	Kind         string
	PayerID      string
	Participants []string
	TotalCost    decimal.Decimal
	CreatedAt    int64 // Unix seconds, audit only
}

// ResolveSharePerParticipant returns the amount each participant owes for the bill:
// total_cost / number_of_participants.
//
// Participants are treated as a set, so duplicates and empty identities are not
// counted. No rounding is applied.
func ResolveSharePerParticipant(bill Bill) (decimal.Decimal, error) {
	participants := uniqueParticipants(bill.Participants)
	if len(participants) == 0 {
		return decimal.Zero, fmt.Errorf("%w: bill %q has no participants", ErrInvalidBill, bill.ID)
	}
	if bill.TotalCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: bill %q has negative total %s", ErrInvalidBill, bill.ID, bill.TotalCost)
	}

	return bill.TotalCost.Div(decimal.NewFromInt(int64(len(participants)))), nil
}

// validateBill checks everything the ledger needs and returns the per-participant share.
func validateBill(bill Bill) (decimal.Decimal, error) {
	if bill.PayerID == "" {
		return decimal.Zero, fmt.Errorf("%w: bill %q has no payer", ErrInvalidBill, bill.ID)
	}
	return ResolveSharePerParticipant(bill)
}

// uniqueParticipants returns participants in first-seen order without duplicates or blanks.
func uniqueParticipants(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	unique := make([]string, 0, len(participants))
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	return unique
}
