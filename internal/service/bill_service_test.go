package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func createGroup(t *testing.T, c testClients, name string, members ...string) string {
	t.Helper()
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group.ID
}

func createBill(t *testing.T, c testClients, bill api.Bill) api.Bill {
	t.Helper()
	resp, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{Bill: bill}))
	require.NoError(t, err)
	return resp.Msg.Bill
}

func TestCreateBill(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{
		Bill: api.Bill{
			Kind:           "trip",
			PayerID:        "Alice",
			ParticipantIDs: []string{"Alice", "Bob", "Charlie", "Dave"},
			TotalCost:      dec("100"),
		},
	}))
	require.NoError(t, err)

	bill := resp.Msg.Bill
	assert.NotEmpty(t, bill.ID)
	assert.Equal(t, "trip", bill.Kind)
	assert.Equal(t, "Trip with Alice, Bob and 2 others", bill.Title)
	assert.NotZero(t, bill.CreatedAt)
	assertDec(t, "25", resp.Msg.SharePerParticipant)
}

func TestCreateBill_Invalid(t *testing.T) {
	c := setupTestServer(t)

	tests := []struct {
		name string
		bill api.Bill
	}{
		{
			name: "no participants",
			bill: api.Bill{PayerID: "Alice", TotalCost: dec("10")},
		},
		{
			name: "only blank participants",
			bill: api.Bill{PayerID: "Alice", ParticipantIDs: []string{"", ""}, TotalCost: dec("10")},
		},
		{
			name: "no payer",
			bill: api.Bill{ParticipantIDs: []string{"Alice"}, TotalCost: dec("10")},
		},
		{
			name: "negative total",
			bill: api.Bill{PayerID: "Alice", ParticipantIDs: []string{"Alice", "Bob"}, TotalCost: dec("-1")},
		},
		{
			name: "unknown kind",
			bill: api.Bill{Kind: "groceries", PayerID: "Alice", ParticipantIDs: []string{"Bob"}, TotalCost: dec("10")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{Bill: tt.bill}))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestCreateBill_PayerOutsideParticipants(t *testing.T) {
	c := setupTestServer(t)

	resp, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{
		Bill: api.Bill{PayerID: "Xavier", ParticipantIDs: []string{"Bob", "Carol"}, TotalCost: dec("50")},
	}))
	require.NoError(t, err)
	assertDec(t, "25", resp.Msg.SharePerParticipant)
}

func TestCreateBill_UnknownGroup(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.bills.CreateBill(context.Background(), connect.NewRequest(&api.CreateBillRequest{
		Bill: api.Bill{GroupID: "nope", PayerID: "Alice", ParticipantIDs: []string{"Bob"}, TotalCost: dec("10")},
	}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestCreateBill_AutoAddsToGroup(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Flat", "Alice", "Bob")

	createBill(t, c, api.Bill{
		GroupID:        groupID,
		Kind:           "flat",
		PayerID:        "Landlord",
		ParticipantIDs: []string{"Alice", "Bob", "Charlie"},
		TotalCost:      dec("900"),
	})

	resp, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "Landlord"}, resp.Msg.Group.Members)
}

func TestGetBill(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	created := createBill(t, c, api.Bill{
		Title:          "Groceries",
		PayerID:        "Alice",
		ParticipantIDs: []string{"Alice", "Bob", "Charlie"},
		TotalCost:      dec("10"),
	})

	resp, err := c.bills.GetBill(ctx, connect.NewRequest(&api.GetBillRequest{BillID: created.ID}))
	require.NoError(t, err)

	assert.Equal(t, created.ID, resp.Msg.Bill.ID)
	assert.Equal(t, "Groceries", resp.Msg.Bill.Title)
	assert.Equal(t, "purchase", resp.Msg.Bill.Kind)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, resp.Msg.Bill.ParticipantIDs)
	assertDec(t, "10", resp.Msg.Bill.TotalCost)
	assert.True(t, resp.Msg.SharePerParticipant.Mul(dec("3")).Sub(dec("10")).Abs().LessThan(dec("0.000000001")))
}

func TestGetBill_NotFound(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.bills.GetBill(context.Background(), connect.NewRequest(&api.GetBillRequest{BillID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.bills.GetBill(context.Background(), connect.NewRequest(&api.GetBillRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestDeleteBill(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	created := createBill(t, c, api.Bill{PayerID: "Alice", ParticipantIDs: []string{"Bob"}, TotalCost: dec("5")})

	_, err := c.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.ID}))
	require.NoError(t, err)

	_, err = c.bills.GetBill(ctx, connect.NewRequest(&api.GetBillRequest{BillID: created.ID}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.ID}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestListBills(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Trip", "Alice", "Bob")

	createBill(t, c, api.Bill{GroupID: groupID, PayerID: "Alice", ParticipantIDs: []string{"Bob"}, TotalCost: dec("5"), CreatedAt: 100})
	createBill(t, c, api.Bill{GroupID: groupID, PayerID: "Bob", ParticipantIDs: []string{"Alice"}, TotalCost: dec("7"), CreatedAt: 200})
	createBill(t, c, api.Bill{PayerID: "Zed", ParticipantIDs: []string{"Yan"}, TotalCost: dec("1"), CreatedAt: 150})

	tests := []struct {
		name string
		req  *api.ListBillsRequest
		want []int64
	}{
		{name: "group", req: &api.ListBillsRequest{GroupID: groupID}, want: []int64{100, 200}},
		{name: "all", req: &api.ListBillsRequest{}, want: []int64{100, 150, 200}},
		{name: "period", req: &api.ListBillsRequest{GroupID: groupID, From: 150, To: 250}, want: []int64{200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.bills.ListBills(ctx, connect.NewRequest(tt.req))
			require.NoError(t, err)

			var got []int64
			for _, b := range resp.Msg.Bills {
				got = append(got, b.CreatedAt)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordSettlement(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	groupID := createGroup(t, c, "Trip", "Alice")

	resp, err := c.bills.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		Settlement: api.Settlement{
			GroupID:    groupID,
			FromUserID: "Bob",
			ToUserID:   "Alice",
			Amount:     dec("12.50"),
			Note:       "cash",
		},
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Settlement.ID)
	assert.NotZero(t, resp.Msg.Settlement.CreatedAt)
	assertDec(t, "12.5", resp.Msg.Settlement.Amount)

	group, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, group.Msg.Group.Members)
}

func TestRecordSettlement_Invalid(t *testing.T) {
	c := setupTestServer(t)

	tests := []struct {
		name       string
		settlement api.Settlement
		code       connect.Code
	}{
		{
			name:       "missing debtor",
			settlement: api.Settlement{ToUserID: "Alice", Amount: dec("1")},
			code:       connect.CodeInvalidArgument,
		},
		{
			name:       "self settlement",
			settlement: api.Settlement{FromUserID: "Alice", ToUserID: "Alice", Amount: dec("1")},
			code:       connect.CodeInvalidArgument,
		},
		{
			name:       "zero amount",
			settlement: api.Settlement{FromUserID: "Bob", ToUserID: "Alice", Amount: dec("0")},
			code:       connect.CodeInvalidArgument,
		},
		{
			name:       "unknown group",
			settlement: api.Settlement{GroupID: "nope", FromUserID: "Bob", ToUserID: "Alice", Amount: dec("1")},
			code:       connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.bills.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
				Settlement: tt.settlement,
			}))
			assertCode(t, tt.code, err)
		})
	}
}
