package api

import "github.com/shopspring/decimal"

// Bill is the wire form of a shared expense.
type Bill struct {
	ID             string          `json:"id,omitempty"`
	GroupID        string          `json:"group_id,omitempty"`
	Kind           string          `json:"kind,omitempty"`
	Title          string          `json:"title,omitempty"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	CreatedAt      int64           `json:"created_at,omitempty"`
}

// BillContribution is the signed amount one bill adds to a debt.
type BillContribution struct {
	BillID string          `json:"bill_id"`
	Kind   string          `json:"kind,omitempty"`
	Title  string          `json:"title,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// Debt is a net amount DebtorID owes CreditorID.
type Debt struct {
	DebtorID   string             `json:"debtor_id"`
	CreditorID string             `json:"creditor_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Bills      []BillContribution `json:"bills,omitempty"`
}

// MemberBalance is one person's position across the ledger.
type MemberBalance struct {
	MemberID   string          `json:"member_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalOwing decimal.Decimal `json:"total_owing"`
}

// ExcludedBill is a bill the ledger skipped.
type ExcludedBill struct {
	BillID string `json:"bill_id"`
	Reason string `json:"reason"`
}

// Ledger is the netted result of a computation.
type Ledger struct {
	Debts              []Debt          `json:"debts"`
	Balances           []MemberBalance `json:"balances"`
	SuggestedTransfers []Debt          `json:"suggested_transfers,omitempty"`
	Excluded           []ExcludedBill  `json:"excluded,omitempty"`
}

type ComputeLedgerRequest struct {
	Bills            []Bill `json:"bills"`
	IncludeTransfers bool   `json:"include_transfers,omitempty"`
}

type ComputeLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type GetGroupLedgerRequest struct {
	GroupID          string `json:"group_id"`
	From             int64  `json:"from,omitempty"` // Unix seconds, inclusive
	To               int64  `json:"to,omitempty"`   // Unix seconds, exclusive
	IncludeTransfers bool   `json:"include_transfers,omitempty"`
}

type GetGroupLedgerResponse struct {
	GroupID string  `json:"group_id"`
	Ledger  *Ledger `json:"ledger"`
}

type GetGroupLedgersRequest struct {
	GroupIDs []string `json:"group_ids"`
	From     int64    `json:"from,omitempty"`
	To       int64    `json:"to,omitempty"`
}

type GetGroupLedgersResponse struct {
	Ledgers map[string]*Ledger `json:"ledgers"`
}
