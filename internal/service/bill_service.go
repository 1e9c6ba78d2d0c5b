package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService records bills and settlements.
type BillService struct {
	store storage.Store
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// validateBill checks a bill before it is stored and returns its share per
// participant. The payer does not have to be a participant.
func validateBill(bill *models.Bill) (decimal.Decimal, error) {
	if bill.Kind != "" && !bill.Kind.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown bill kind %q", errInvalidArgument, bill.Kind)
	}
	if bill.PayerID == "" {
		return decimal.Zero, fmt.Errorf("%w: payer_id required", errInvalidArgument)
	}
	return calculator.ResolveSharePerParticipant(calculatorBill(bill))
}

// validateSettlement checks a settlement before it is stored.
func validateSettlement(s *models.Settlement) error {
	switch {
	case s.FromUserID == "" || s.ToUserID == "":
		return fmt.Errorf("%w: from_user_id and to_user_id required", errInvalidArgument)
	case s.FromUserID == s.ToUserID:
		return fmt.Errorf("%w: cannot settle with yourself", errInvalidArgument)
	case !s.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive, got %s", errInvalidArgument, s.Amount)
	}
	return nil
}

// findNewParticipants returns people that are not already in existingMembers.
func findNewParticipants(people, existingMembers []string) []string {
	memberSet := make(map[string]bool, len(existingMembers))
	for _, m := range existingMembers {
		memberSet[m] = true
	}
	var newOnes []string
	for _, p := range people {
		if p != "" && !memberSet[p] {
			memberSet[p] = true
			newOnes = append(newOnes, p)
		}
	}
	return newOnes
}

// requireGroup fails with storage.ErrNotFound when groupID is set but unknown.
func (s *BillService) requireGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, nil
	}
	return s.store.GetGroup(ctx, groupID)
}

// autoAddToGroup adds any of people not already in the group.
// Failures are logged; the bill or settlement is already stored.
func (s *BillService) autoAddToGroup(ctx context.Context, group *models.Group, people []string) {
	if group == nil {
		return
	}

	newMembers := findNewParticipants(people, group.Members)
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, newMembers); err != nil {
		slog.Error("autoAddToGroup: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	slog.Info("Auto-added members to group", "group_id", group.ID, "new_members", newMembers)
}

// CreateBill validates a bill and persists it.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	bill := billFromAPI(req.Msg.Bill)
	// The store assigns IDs
	bill.ID = ""

	share, err := validateBill(bill)
	if err != nil {
		slog.Error("CreateBill validation failed", "error", err)
		return nil, connectError(err)
	}

	group, err := s.requireGroup(ctx, bill.GroupID)
	if err != nil {
		slog.Error("CreateBill: failed to get group", "group_id", bill.GroupID, "error", err)
		return nil, connectError(err)
	}

	// Save to storage (generates ID, Title and CreatedAt)
	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, connectError(err)
	}

	s.autoAddToGroup(ctx, group, append(slices.Clone(bill.Participants), bill.PayerID))

	slog.Info("Bill created", "bill_id", bill.ID, "group_id", bill.GroupID, "kind", bill.Kind)

	return connect.NewResponse(&api.CreateBillResponse{
		Bill:                billToAPI(bill),
		SharePerParticipant: share,
	}), nil
}

// GetBill retrieves a bill by ID from storage.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connectError(fmt.Errorf("%w: bill_id required", errInvalidArgument))
	}

	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Error("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}

	// Stored bills passed validation, but the share is recomputed rather than stored
	share, err := calculator.ResolveSharePerParticipant(calculatorBill(bill))
	if err != nil {
		slog.Error("ResolveSharePerParticipant failed during GetBill", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetBillResponse{
		Bill:                billToAPI(bill),
		SharePerParticipant: share,
	}), nil
}

// ListBills retrieves bills, optionally restricted to one group and to [From, To).
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	filter := storage.BillFilter{GroupID: req.Msg.GroupID, From: req.Msg.From, To: req.Msg.To}

	bills, err := s.store.ListBills(ctx, filter)
	if err != nil {
		slog.Error("ListBills failed", "group_id", filter.GroupID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Bill, len(bills))
	for i, bill := range bills {
		out[i] = billToAPI(bill)
	}

	slog.Debug("ListBills successful", "group_id", filter.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListBillsResponse{Bills: out}), nil
}

// DeleteBill deletes a bill.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connectError(fmt.Errorf("%w: bill_id required", errInvalidArgument))
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)

	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// RecordSettlement stores a repayment. It is netted into the group ledger
// like a bill paid by the debtor for the creditor.
func (s *BillService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	msg := req.Msg.Settlement
	settlement := &models.Settlement{
		GroupID:    msg.GroupID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Amount:     msg.Amount,
		Note:       msg.Note,
		CreatedAt:  msg.CreatedAt,
	}

	if err := validateSettlement(settlement); err != nil {
		slog.Error("RecordSettlement validation failed", "error", err)
		return nil, connectError(err)
	}

	group, err := s.requireGroup(ctx, settlement.GroupID)
	if err != nil {
		slog.Error("RecordSettlement: failed to get group", "group_id", settlement.GroupID, "error", err)
		return nil, connectError(err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, connectError(err)
	}

	s.autoAddToGroup(ctx, group, []string{settlement.FromUserID, settlement.ToUserID})

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
	)

	return connect.NewResponse(&api.RecordSettlementResponse{
		Settlement: settlementToAPI(settlement),
	}), nil
}
