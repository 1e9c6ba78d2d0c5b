// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// BillFilter selects bills and settlements for a ledger computation.
// Zero values leave the corresponding bound open.
type BillFilter struct {
	// GroupID restricts results to one group. Empty matches every record.
	GroupID string

	// From is the inclusive lower bound on CreatedAt (Unix seconds).
	From int64

	// To is the exclusive upper bound on CreatedAt (Unix seconds).
	To int64
}

// Store defines the interface for bill, settlement and group storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID, wrapping ErrNotFound if missing.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers adds members to a group, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// CreateBill persists a new bill. ID, Title and CreatedAt are populated
	// by the store when left empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID, wrapping ErrNotFound if missing.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills retrieves the bills matching filter, oldest first.
	ListBills(ctx context.Context, filter BillFilter) ([]*models.Bill, error)

	// DeleteBill removes a bill, wrapping ErrNotFound if missing.
	DeleteBill(ctx context.Context, billID string) error

	// CreateSettlement persists a new settlement. ID and CreatedAt are
	// populated by the store when left empty.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements retrieves the settlements matching filter, oldest first.
	ListSettlements(ctx context.Context, filter BillFilter) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}

// Where renders the filter as a SQL condition over columns named group_id and
// created_at, with positional placeholders. It always returns a valid condition.
func (f BillFilter) Where() (string, []any) {
	cond := "1 = 1"
	var args []any
	if f.GroupID != "" {
		cond += " AND group_id = ?"
		args = append(args, f.GroupID)
	}
	if f.From != 0 {
		cond += " AND created_at >= ?"
		args = append(args, f.From)
	}
	if f.To != 0 {
		cond += " AND created_at < ?"
		args = append(args, f.To)
	}
	return cond, args
}
