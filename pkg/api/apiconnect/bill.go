package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// BillServiceName is the fully-qualified name of the BillService.
	BillServiceName = "splitledger.v1.BillService"

	BillServiceCreateBillProcedure       = "/splitledger.v1.BillService/CreateBill"
	BillServiceGetBillProcedure          = "/splitledger.v1.BillService/GetBill"
	BillServiceListBillsProcedure        = "/splitledger.v1.BillService/ListBills"
	BillServiceDeleteBillProcedure       = "/splitledger.v1.BillService/DeleteBill"
	BillServiceRecordSettlementProcedure = "/splitledger.v1.BillService/RecordSettlement"
)

// BillServiceHandler is implemented by the bill service.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBill := connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...)
	getBill := connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...)
	listBills := connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...)
	deleteBill := connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...)
	recordSettlement := connect.NewUnaryHandler(BillServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceCreateBillProcedure:
			createBill.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			getBill.ServeHTTP(w, r)
		case BillServiceListBillsProcedure:
			listBills.ServeHTTP(w, r)
		case BillServiceDeleteBillProcedure:
			deleteBill.ServeHTTP(w, r)
		case BillServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BillServiceClient calls a remote bill service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
}

type billServiceClient struct {
	createBill       *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill          *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills        *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	deleteBill       *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	recordSettlement *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
}

// NewBillServiceClient constructs a client for the bill service at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill: connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](
			httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill: connect.NewClient[api.GetBillRequest, api.GetBillResponse](
			httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills: connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](
			httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		deleteBill: connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](
			httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		recordSettlement: connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](
			httpClient, baseURL+BillServiceRecordSettlementProcedure, opts...),
	}
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}
