package server

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/posting"
	"github.com/loomworks/tradeledger/internal/state"
	"github.com/loomworks/tradeledger/internal/store"
)

// newTestClient brings up the full stack (sqlite store, saver, dispatcher,
// engine, router) behind an httptest server and returns an API client
// pointed at it.
func newTestClient(t *testing.T) *client.Client {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	saver := store.NewSaver(st)
	t.Cleanup(saver.Close)

	chart := ledger.NewDefaultChart()
	disp := state.NewDispatcher(chart)
	disp.OnChange(saver.Schedule)

	srv := New(disp, posting.NewEngine(chart), saver, "")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return client.New(ts.URL)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPartyLifecycleOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	party, err := c.UpsertParty(ctx, "cust-1", client.UpsertPartyRequest{
		Name:            "Khan Textiles",
		Kind:            string(ledger.KindCustomer),
		Currency:        "AED",
		StartingBalance: dec("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Khan Textiles", party.Name)

	// 1000 AED at the default 0.2725 rate.
	bal, err := c.GetPartyBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(27250), bal.Balance)
	assert.Equal(t, "272.50", bal.Display)

	parties, err := c.ListParties(ctx, string(ledger.KindCustomer))
	require.NoError(t, err)
	require.Len(t, parties, 1)

	require.NoError(t, c.DeleteParty(ctx, "cust-1"))

	_, err = c.GetPartyBalance(ctx, "cust-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestInvoicePostingOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.UpsertParty(ctx, "cust-1", client.UpsertPartyRequest{
		Name: "Khan Textiles", Kind: string(ledger.KindCustomer),
	})
	require.NoError(t, err)

	_, err = c.CreateItem(ctx, client.CreateItemRequest{
		ID:                 "item-1",
		Name:               "Towel Bale",
		PackingType:        string(ledger.PackBales),
		BaleSize:           dec("20"),
		AvgProductionPrice: dec("1.10"),
		AvgSalesPrice:      dec("1.50"),
		OpeningStock:       dec("100"),
	})
	require.NoError(t, err)

	inv, err := c.CreateInvoice(ctx, client.CreateInvoiceRequest{
		CustomerID: "cust-1",
		Items: []client.InvoiceLineRequest{
			{ItemID: "item-1", Quantity: dec("10"), Rate: dec("1.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusUnposted, inv.Status)

	posted, err := c.PostInvoice(ctx, inv.ID, "tester")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPosted, posted.Status)

	// Posting twice conflicts.
	_, err = c.PostInvoice(ctx, inv.ID, "tester")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")

	// 10 bales x 20 kg x 1.50 = 300.00 receivable.
	bal, err := c.GetPartyBalance(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), bal.Balance)

	tb, err := c.TrialBalance(ctx)
	require.NoError(t, err)
	assert.True(t, tb.Balanced)

	stock, err := c.StockOnHand(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Stock.Equal(dec("90")))
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateInvoice(context.Background(), client.CreateInvoiceRequest{
		CustomerID: "ghost",
		Items:      []client.InvoiceLineRequest{{ItemID: "item-1", Quantity: dec("1"), Rate: dec("1")}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestVouchersAndCountersOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.UpsertParty(ctx, "cust-1", client.UpsertPartyRequest{
		Name: "Khan Textiles", Kind: string(ledger.KindCustomer),
		StartingBalance: dec("100"),
	})
	require.NoError(t, err)

	vouchers, err := c.ListVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, ledger.EntryJournal, vouchers[0].EntryType)
	assert.Equal(t, "JV-1", vouchers[0].Code)
	assert.Len(t, vouchers[0].Legs, 2)

	counters, err := c.GetCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counters.NextJournalVoucherNumber)
	assert.Equal(t, int64(1), counters.NextReceiptVoucherNumber)
}

func TestStatusReportsVersion(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	status, err := c.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), status.Version)

	_, err = c.UpsertParty(ctx, "emp-1", client.UpsertPartyRequest{
		Name: "Driver One", Kind: string(ledger.KindEmployee),
	})
	require.NoError(t, err)

	status, err = c.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), status.Version)
}

func TestSalaryPostingOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.UpsertParty(ctx, "emp-1", client.UpsertPartyRequest{
		Name: "Driver One", Kind: string(ledger.KindEmployee),
	})
	require.NoError(t, err)

	require.NoError(t, c.PostVehicleCharge(ctx, client.VehicleChargeRequest{
		EmployeeID: "emp-1", Amount: dec("85.50"), Description: "fuel",
	}))

	require.NoError(t, c.PostSalaryPayment(ctx, client.SalaryPaymentRequest{
		EmployeeID: "emp-1", FromAccountID: "CASH-001", Gross: dec("1000"),
	}))

	// Advance recovered in full: cash out is gross minus the 85.50 advance.
	bal, err := c.GetAccountBalance(ctx, "CASH-001")
	require.NoError(t, err)
	assert.Equal(t, int64(-91450), bal.Balance)

	parties, err := c.ListParties(ctx, string(ledger.KindEmployee))
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.True(t, parties[0].Advances.IsZero())
}
