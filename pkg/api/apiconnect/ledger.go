package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "splitledger.v1.LedgerService"

	LedgerServiceComputeLedgerProcedure   = "/splitledger.v1.LedgerService/ComputeLedger"
	LedgerServiceGetGroupLedgerProcedure  = "/splitledger.v1.LedgerService/GetGroupLedger"
	LedgerServiceGetGroupLedgersProcedure = "/splitledger.v1.LedgerService/GetGroupLedgers"
)

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	ComputeLedger(context.Context, *connect.Request[api.ComputeLedgerRequest]) (*connect.Response[api.ComputeLedgerResponse], error)
	GetGroupLedger(context.Context, *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error)
	GetGroupLedgers(context.Context, *connect.Request[api.GetGroupLedgersRequest]) (*connect.Response[api.GetGroupLedgersResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	computeLedger := connect.NewUnaryHandler(LedgerServiceComputeLedgerProcedure, svc.ComputeLedger, opts...)
	getGroupLedger := connect.NewUnaryHandler(LedgerServiceGetGroupLedgerProcedure, svc.GetGroupLedger, opts...)
	getGroupLedgers := connect.NewUnaryHandler(LedgerServiceGetGroupLedgersProcedure, svc.GetGroupLedgers, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceComputeLedgerProcedure:
			computeLedger.ServeHTTP(w, r)
		case LedgerServiceGetGroupLedgerProcedure:
			getGroupLedger.ServeHTTP(w, r)
		case LedgerServiceGetGroupLedgersProcedure:
			getGroupLedgers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient calls a remote ledger service.
type LedgerServiceClient interface {
	ComputeLedger(context.Context, *connect.Request[api.ComputeLedgerRequest]) (*connect.Response[api.ComputeLedgerResponse], error)
	GetGroupLedger(context.Context, *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error)
	GetGroupLedgers(context.Context, *connect.Request[api.GetGroupLedgersRequest]) (*connect.Response[api.GetGroupLedgersResponse], error)
}

type ledgerServiceClient struct {
	computeLedger   *connect.Client[api.ComputeLedgerRequest, api.ComputeLedgerResponse]
	getGroupLedger  *connect.Client[api.GetGroupLedgerRequest, api.GetGroupLedgerResponse]
	getGroupLedgers *connect.Client[api.GetGroupLedgersRequest, api.GetGroupLedgersResponse]
}

// NewLedgerServiceClient constructs a client for the ledger service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		computeLedger: connect.NewClient[api.ComputeLedgerRequest, api.ComputeLedgerResponse](
			httpClient, baseURL+LedgerServiceComputeLedgerProcedure, opts...),
		getGroupLedger: connect.NewClient[api.GetGroupLedgerRequest, api.GetGroupLedgerResponse](
			httpClient, baseURL+LedgerServiceGetGroupLedgerProcedure, opts...),
		getGroupLedgers: connect.NewClient[api.GetGroupLedgersRequest, api.GetGroupLedgersResponse](
			httpClient, baseURL+LedgerServiceGetGroupLedgersProcedure, opts...),
	}
}

func (c *ledgerServiceClient) ComputeLedger(ctx context.Context, req *connect.Request[api.ComputeLedgerRequest]) (*connect.Response[api.ComputeLedgerResponse], error) {
	return c.computeLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupLedger(ctx context.Context, req *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	return c.getGroupLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupLedgers(ctx context.Context, req *connect.Request[api.GetGroupLedgersRequest]) (*connect.Response[api.GetGroupLedgersResponse], error) {
	return c.getGroupLedgers.CallUnary(ctx, req)
}
