package service

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type testClients struct {
	ledger  apiconnect.LedgerServiceClient
	bills   apiconnect.BillServiceClient
	groups  apiconnect.GroupServiceClient
	metrics *metrics.Metrics
}

// setupTestServer serves all three services over httptest, backed by a
// fresh SQLite database.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New()
	ledgerSvc, err := NewLedgerService(store, LedgerServiceConfig{Workers: 2}, m)
	if err != nil {
		t.Fatalf("failed to create ledger service: %v", err)
	}
	t.Cleanup(ledgerSvc.Shutdown)

	interceptors := connect.WithInterceptors(middleware.RequestID(), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(ledgerSvc, interceptors))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(store), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return testClients{
		ledger:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		bills:   apiconnect.NewBillServiceClient(http.DefaultClient, server.URL),
		groups:  apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		metrics: m,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "got %s, want %s", got, want)
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}
