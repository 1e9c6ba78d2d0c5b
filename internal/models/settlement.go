package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional description for the settlement.
	Note string
}

// AsBill expresses the settlement as a bill paid by the debtor on behalf of the
// creditor. Netted against the original debt, it reduces what the debtor owes.
func (s *Settlement) AsBill() Bill {
	return Bill{
		ID:           s.ID,
		GroupID:      s.GroupID,
		Title:        "Settlement",
		PayerID:      s.FromUserID,
		Participants: []string{s.ToUserID},
		TotalCost:    s.Amount,
		CreatedAt:    s.CreatedAt,
	}
}
