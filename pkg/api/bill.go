package api

import "github.com/shopspring/decimal"

type CreateBillRequest struct {
	Bill Bill `json:"bill"`
}

type CreateBillResponse struct {
	Bill                Bill            `json:"bill"`
	SharePerParticipant decimal.Decimal `json:"share_per_participant"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill                Bill            `json:"bill"`
	SharePerParticipant decimal.Decimal `json:"share_per_participant"`
}

type ListBillsRequest struct {
	GroupID string `json:"group_id,omitempty"`
	From    int64  `json:"from,omitempty"`
	To      int64  `json:"to,omitempty"`
}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

// Settlement is a recorded repayment.
type Settlement struct {
	ID         string          `json:"id,omitempty"`
	GroupID    string          `json:"group_id,omitempty"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  int64           `json:"created_at,omitempty"`
}

type RecordSettlementRequest struct {
	Settlement Settlement `json:"settlement"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}
