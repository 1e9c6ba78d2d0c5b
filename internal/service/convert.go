package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// connectError maps domain errors to Connect codes. Anything unrecognised
// is internal.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, calculator.ErrInvalidBill), errors.Is(err, errInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// errInvalidArgument marks request validation failures outside the calculator.
var errInvalidArgument = errors.New("invalid argument")

func billFromAPI(b api.Bill) *models.Bill {
	return &models.Bill{
		ID:           b.ID,
		GroupID:      b.GroupID,
		Kind:         models.BillKind(b.Kind),
		Title:        b.Title,
		PayerID:      b.PayerID,
		Participants: b.ParticipantIDs,
		TotalCost:    b.TotalCost,
		CreatedAt:    b.CreatedAt,
	}
}

func billToAPI(b *models.Bill) api.Bill {
	return api.Bill{
		ID:             b.ID,
		GroupID:        b.GroupID,
		Kind:           string(b.Kind),
		Title:          b.Title,
		PayerID:        b.PayerID,
		ParticipantIDs: b.Participants,
		TotalCost:      b.TotalCost,
		CreatedAt:      b.CreatedAt,
	}
}

func calculatorBill(b *models.Bill) calculator.Bill {
	return calculator.Bill{
		ID:           b.ID,
		Kind:         string(b.Kind),
		PayerID:      b.PayerID,
		Participants: b.Participants,
		TotalCost:    b.TotalCost,
		CreatedAt:    b.CreatedAt,
	}
}

// BillsFromAPI converts wire bills for the calculator and collects their titles by ID.
func BillsFromAPI(in []api.Bill) ([]calculator.Bill, map[string]string) {
	bills := make([]calculator.Bill, len(in))
	titles := make(map[string]string, len(in))
	for i, b := range in {
		bills[i] = calculatorBill(billFromAPI(b))
		titles[b.ID] = b.Title
	}
	return bills, titles
}

func settlementToAPI(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		Note:       s.Note,
		CreatedAt:  s.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

// LedgerToAPI flattens a computed ledger. titles maps bill IDs to display
// titles and may be nil.
func LedgerToAPI(l *calculator.DebtLedger, titles map[string]string, includeTransfers bool) *api.Ledger {
	out := &api.Ledger{
		Debts:    []api.Debt{},
		Balances: []api.MemberBalance{},
	}

	for _, debt := range l.AllDebts() {
		entries := l.Debts(debt.DebtorID)[debt.CreditorID]
		contributions := make([]api.BillContribution, len(entries))
		for i, e := range entries {
			contributions[i] = api.BillContribution{
				BillID: e.Source.ID,
				Kind:   e.Source.Kind,
				Title:  titles[e.Source.ID],
				Amount: e.Amount,
			}
		}
		out.Debts = append(out.Debts, api.Debt{
			DebtorID:   debt.DebtorID,
			CreditorID: debt.CreditorID,
			Amount:     debt.Amount,
			Bills:      contributions,
		})
	}

	for _, bal := range l.Balances() {
		out.Balances = append(out.Balances, api.MemberBalance{
			MemberID:   bal.MemberID,
			NetBalance: bal.NetBalance,
			TotalOwed:  bal.TotalOwed,
			TotalOwing: bal.TotalOwing,
		})
	}

	if includeTransfers {
		for _, transfer := range l.SuggestTransfers() {
			out.SuggestedTransfers = append(out.SuggestedTransfers, api.Debt{
				DebtorID:   transfer.DebtorID,
				CreditorID: transfer.CreditorID,
				Amount:     transfer.Amount,
			})
		}
	}

	for _, ex := range l.Excluded() {
		out.Excluded = append(out.Excluded, api.ExcludedBill{
			BillID: ex.Bill.ID,
			Reason: ex.Err.Error(),
		})
	}

	return out
}

func logExcluded(l *calculator.DebtLedger, attrs ...any) {
	for _, ex := range l.Excluded() {
		slog.Warn("Bill excluded from ledger",
			append([]any{"bill_id", ex.Bill.ID, "payer_id", ex.Bill.PayerID, "error", ex.Err}, attrs...)...,
		)
	}
}
