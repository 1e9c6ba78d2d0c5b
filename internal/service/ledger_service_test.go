package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func scrapeMetrics(t *testing.T, c testClients) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func findDebt(debts []api.Debt, debtor, creditor string) *api.Debt {
	for i := range debts {
		if debts[i].DebtorID == debtor && debts[i].CreditorID == creditor {
			return &debts[i]
		}
	}
	return nil
}

func TestComputeLedger(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.ledger.ComputeLedger(context.Background(), connect.NewRequest(&api.ComputeLedgerRequest{
		Bills: []api.Bill{
			{ID: "b1", Title: "Dinner", PayerID: "A", ParticipantIDs: []string{"A", "B", "C"}, TotalCost: dec("30")},
			{ID: "b2", PayerID: "B", ParticipantIDs: []string{"A", "B"}, TotalCost: dec("8")},
		},
	}))
	require.NoError(t, err)
	ledger := resp.Msg.Ledger
	require.NotNil(t, ledger)

	require.Len(t, ledger.Debts, 2)
	ba := findDebt(ledger.Debts, "B", "A")
	require.NotNil(t, ba)
	assertDec(t, "6", ba.Amount)
	require.Len(t, ba.Bills, 2)
	assert.Equal(t, "b1", ba.Bills[0].BillID)
	assert.Equal(t, "Dinner", ba.Bills[0].Title)
	assertDec(t, "10", ba.Bills[0].Amount)
	assert.Equal(t, "b2", ba.Bills[1].BillID)
	assertDec(t, "-4", ba.Bills[1].Amount)

	ca := findDebt(ledger.Debts, "C", "A")
	require.NotNil(t, ca)
	assertDec(t, "10", ca.Amount)

	assert.Nil(t, findDebt(ledger.Debts, "A", "B"))
	assert.Empty(t, ledger.SuggestedTransfers)
	assert.Empty(t, ledger.Excluded)

	require.Len(t, ledger.Balances, 3)
	assert.Equal(t, "A", ledger.Balances[0].MemberID)
	assertDec(t, "16", ledger.Balances[0].NetBalance)

	assert.Contains(t, scrapeMetrics(t, c), `splitledger_ledgers_computed_total{source="request"} 1`)
}

func TestComputeLedger_ReportsExcludedBills(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.ledger.ComputeLedger(context.Background(), connect.NewRequest(&api.ComputeLedgerRequest{
		Bills: []api.Bill{
			{ID: "ok", PayerID: "A", ParticipantIDs: []string{"A", "B"}, TotalCost: dec("10")},
			{ID: "empty", PayerID: "A", TotalCost: dec("10")},
			{ID: "negative", PayerID: "A", ParticipantIDs: []string{"B"}, TotalCost: dec("-3")},
		},
	}))
	require.NoError(t, err)

	ledger := resp.Msg.Ledger
	require.Len(t, ledger.Debts, 1)
	assertDec(t, "5", ledger.Debts[0].Amount)

	require.Len(t, ledger.Excluded, 2)
	assert.Equal(t, "empty", ledger.Excluded[0].BillID)
	assert.Contains(t, ledger.Excluded[0].Reason, "invalid bill")
	assert.Equal(t, "negative", ledger.Excluded[1].BillID)
}

func TestComputeLedger_SuggestedTransfers(t *testing.T) {
	c := setupTestServer(t)

	// A owes B and B owes C: pairwise the chain stays, the suggestion routes A to C
	resp, err := c.ledger.ComputeLedger(context.Background(), connect.NewRequest(&api.ComputeLedgerRequest{
		Bills: []api.Bill{
			{ID: "b1", PayerID: "B", ParticipantIDs: []string{"A"}, TotalCost: dec("10")},
			{ID: "b2", PayerID: "C", ParticipantIDs: []string{"B"}, TotalCost: dec("10")},
		},
		IncludeTransfers: true,
	}))
	require.NoError(t, err)

	ledger := resp.Msg.Ledger
	assert.Len(t, ledger.Debts, 2)
	require.Len(t, ledger.SuggestedTransfers, 1)
	assert.Equal(t, "A", ledger.SuggestedTransfers[0].DebtorID)
	assert.Equal(t, "C", ledger.SuggestedTransfers[0].CreditorID)
	assertDec(t, "10", ledger.SuggestedTransfers[0].Amount)
}

func TestComputeLedger_Empty(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.ledger.ComputeLedger(context.Background(), connect.NewRequest(&api.ComputeLedgerRequest{}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Ledger.Debts)
	assert.Empty(t, resp.Msg.Ledger.Balances)
}

func TestGetGroupLedger(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Trip", "Alice", "Bob")

	createBill(t, c, api.Bill{GroupID: groupID, Kind: "trip", PayerID: "Alice", ParticipantIDs: []string{"Alice", "Bob"}, TotalCost: dec("30"), CreatedAt: 100})
	_, err := c.bills.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		Settlement: api.Settlement{GroupID: groupID, FromUserID: "Bob", ToUserID: "Alice", Amount: dec("5"), CreatedAt: 200},
	}))
	require.NoError(t, err)

	resp, err := c.ledger.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Equal(t, groupID, resp.Msg.GroupID)

	debts := resp.Msg.Ledger.Debts
	require.Len(t, debts, 1)
	assert.Equal(t, "Bob", debts[0].DebtorID)
	assert.Equal(t, "Alice", debts[0].CreditorID)
	assertDec(t, "10", debts[0].Amount)

	// The settlement shows up as an offset against the trip
	require.Len(t, debts[0].Bills, 2)
	assert.Equal(t, "trip", debts[0].Bills[0].Kind)
	assertDec(t, "15", debts[0].Bills[0].Amount)
	assert.Equal(t, "settlement", debts[0].Bills[1].Kind)
	assertDec(t, "-5", debts[0].Bills[1].Amount)
}

func TestGetGroupLedger_Period(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Flat", "Alice", "Bob")

	createBill(t, c, api.Bill{GroupID: groupID, Kind: "flat", PayerID: "Alice", ParticipantIDs: []string{"Alice", "Bob"}, TotalCost: dec("800"), CreatedAt: 1000})
	createBill(t, c, api.Bill{GroupID: groupID, Kind: "flat", PayerID: "Alice", ParticipantIDs: []string{"Alice", "Bob"}, TotalCost: dec("900"), CreatedAt: 2000})

	tests := []struct {
		name     string
		from, to int64
		want     string
	}{
		{name: "all time", want: "850"},
		{name: "first month", from: 1000, to: 2000, want: "400"},
		{name: "second month", from: 2000, want: "450"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.ledger.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{
				GroupID: groupID,
				From:    tt.from,
				To:      tt.to,
			}))
			require.NoError(t, err)
			require.Len(t, resp.Msg.Ledger.Debts, 1)
			assertDec(t, tt.want, resp.Msg.Ledger.Debts[0].Amount)
		})
	}

	resp, err := c.ledger.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{GroupID: groupID, From: 3000}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Ledger.Debts)
}

func TestGetGroupLedger_Errors(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.ledger.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.ledger.GetGroupLedger(ctx, connect.NewRequest(&api.GetGroupLedgerRequest{GroupID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestGetGroupLedgers(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	groupIDs := make([]string, 5)
	for i := range groupIDs {
		groupIDs[i] = createGroup(t, c, "Group", "A", "B")
		createBill(t, c, api.Bill{
			GroupID:        groupIDs[i],
			PayerID:        "A",
			ParticipantIDs: []string{"A", "B"},
			TotalCost:      decimal.NewFromInt(int64(10 * (i + 1))),
		})
	}

	// Duplicates are computed once
	resp, err := c.ledger.GetGroupLedgers(ctx, connect.NewRequest(&api.GetGroupLedgersRequest{
		GroupIDs: append(groupIDs, groupIDs[0]),
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Ledgers, len(groupIDs))

	for i, id := range groupIDs {
		ledger := resp.Msg.Ledgers[id]
		require.NotNil(t, ledger, "missing ledger for group %d", i)
		require.Len(t, ledger.Debts, 1)
		assert.True(t, ledger.Debts[0].Amount.Equal(decimal.NewFromInt(int64(5*(i+1)))), "group %d: got %s", i, ledger.Debts[0].Amount)
	}

	assert.Contains(t, scrapeMetrics(t, c), `splitledger_ledgers_computed_total{source="group"} 5`)
}

func TestGetGroupLedgers_UnknownGroup(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Real", "A")

	_, err := c.ledger.GetGroupLedgers(ctx, connect.NewRequest(&api.GetGroupLedgersRequest{
		GroupIDs: []string{groupID, "ghost"},
	}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.ledger.GetGroupLedgers(ctx, connect.NewRequest(&api.GetGroupLedgersRequest{
		GroupIDs: []string{groupID, ""},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}
