package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/panjf2000/ants/v2"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// settlementKind labels ledger contributions that come from recorded settlements.
const settlementKind = "settlement"

// LedgerService computes netted debt ledgers, either from bills sent by the
// caller or from the bills and settlements stored for a group.
type LedgerService struct {
	store   storage.Store
	pool    *ants.Pool
	metrics *metrics.Metrics
}

type LedgerServiceConfig struct {
	// Workers bounds how many group ledgers GetGroupLedgers computes at once.
	Workers int
}

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, config LedgerServiceConfig, m *metrics.Metrics) (*LedgerService, error) {
	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger worker pool: %w", err)
	}
	return &LedgerService{store: store, pool: pool, metrics: m}, nil
}

// Shutdown releases the worker pool.
func (s *LedgerService) Shutdown() {
	slog.Info("Shutting down ledger worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

func (s *LedgerService) compute(source string, bills []calculator.Bill) *calculator.DebtLedger {
	start := time.Now()
	l := calculator.ComputeLedger(bills)
	s.metrics.ObserveLedger(source, len(l.Excluded()), time.Since(start))
	return l
}

// ComputeLedger nets the bills in the request without touching storage.
func (s *LedgerService) ComputeLedger(ctx context.Context, req *connect.Request[api.ComputeLedgerRequest]) (*connect.Response[api.ComputeLedgerResponse], error) {
	for i, b := range req.Msg.Bills {
		slog.Debug("Processing bill",
			"index", i+1,
			"bill_id", b.ID,
			"payer_id", b.PayerID,
			"total_cost", b.TotalCost,
			"participants", b.ParticipantIDs,
		)
	}
	bills, titles := BillsFromAPI(req.Msg.Bills)

	l := s.compute("request", bills)
	logExcluded(l)

	return connect.NewResponse(&api.ComputeLedgerResponse{
		Ledger: LedgerToAPI(l, titles, req.Msg.IncludeTransfers),
	}), nil
}

// GetGroupLedger computes the ledger of one group from its stored bills and
// settlements, optionally restricted to [From, To).
func (s *LedgerService) GetGroupLedger(ctx context.Context, req *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	groupID := req.Msg.GroupID
	if groupID == "" {
		return nil, connectError(fmt.Errorf("%w: group_id required", errInvalidArgument))
	}

	filter := storage.BillFilter{GroupID: groupID, From: req.Msg.From, To: req.Msg.To}
	ledger, err := s.groupLedger(ctx, filter, req.Msg.IncludeTransfers)
	if err != nil {
		slog.Error("GetGroupLedger failed", "group_id", groupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("GetGroupLedger successful",
		"group_id", groupID,
		"debts_count", len(ledger.Debts),
		"excluded_count", len(ledger.Excluded),
	)

	return connect.NewResponse(&api.GetGroupLedgerResponse{
		GroupID: groupID,
		Ledger:  ledger,
	}), nil
}

// GetGroupLedgers computes several group ledgers concurrently on the worker
// pool. It fails as a whole if any group fails.
func (s *LedgerService) GetGroupLedgers(ctx context.Context, req *connect.Request[api.GetGroupLedgersRequest]) (*connect.Response[api.GetGroupLedgersResponse], error) {
	groupIDs := slices.Compact(slices.Sorted(slices.Values(req.Msg.GroupIDs)))
	if len(groupIDs) > 0 && groupIDs[0] == "" {
		return nil, connectError(fmt.Errorf("%w: empty group_id", errInvalidArgument))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ledgers  = make(map[string]*api.Ledger, len(groupIDs))
		firstErr error
	)
	for _, groupID := range groupIDs {
		filter := storage.BillFilter{GroupID: groupID, From: req.Msg.From, To: req.Msg.To}

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()

			ledger, err := s.groupLedger(ctx, filter, false)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("group %s: %w", filter.GroupID, err)
				}
				return
			}
			ledgers[filter.GroupID] = ledger
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to submit ledger task: %w", err)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		slog.Error("GetGroupLedgers failed", "groups_count", len(groupIDs), "error", firstErr)
		return nil, connectError(firstErr)
	}

	slog.Info("GetGroupLedgers successful", "groups_count", len(groupIDs))

	return connect.NewResponse(&api.GetGroupLedgersResponse{Ledgers: ledgers}), nil
}

// groupLedger loads a group's bills and settlements and nets them together.
// Settlements enter the engine as bills paid by the debtor for the creditor.
func (s *LedgerService) groupLedger(ctx context.Context, filter storage.BillFilter, includeTransfers bool) (*api.Ledger, error) {
	if _, err := s.store.GetGroup(ctx, filter.GroupID); err != nil {
		return nil, err
	}

	stored, err := s.store.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, filter)
	if err != nil {
		return nil, err
	}

	bills := make([]calculator.Bill, 0, len(stored)+len(settlements))
	titles := make(map[string]string, len(stored)+len(settlements))
	for _, b := range stored {
		bills = append(bills, calculatorBill(b))
		titles[b.ID] = b.Title
	}
	for _, st := range settlements {
		b := st.AsBill()
		cb := calculatorBill(&b)
		cb.Kind = settlementKind
		bills = append(bills, cb)
		titles[b.ID] = b.Title
	}

	l := s.compute("group", bills)
	logExcluded(l, "group_id", filter.GroupID)

	return LedgerToAPI(l, titles, includeTransfers), nil
}
