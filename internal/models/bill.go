package models

import "github.com/shopspring/decimal"

// BillKind is the kind of shared expense a bill records.
// All kinds are split the same way; the kind is kept for display and filtering.
type BillKind string

const (
	BillKindPurchase BillKind = "purchase"
	BillKindTrip     BillKind = "trip"
	BillKindFlat     BillKind = "flat"
)

// Valid reports whether k is one of the known bill kinds.
func (k BillKind) Valid() bool {
	switch k {
	case BillKindPurchase, BillKindTrip, BillKindFlat:
		return true
	}
	return false
}

// Bill represents a shared expense fronted by one payer and owed by its participants.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// GroupID is the group this bill belongs to, empty for standalone bills.
	GroupID string

	// Kind is what the bill was for: a purchase, a trip, or a flat/rent bill.
	Kind BillKind

	// Title is the human-readable name for the bill.
	// Auto-generated from participants when left empty.
	Title string

	// PayerID is the participant who fronted the money.
	PayerID string

	// Participants is the set of people sharing the cost.
	// The payer may or may not be one of them.
	Participants []string

	// TotalCost is the amount the payer paid.
	TotalCost decimal.Decimal

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}
