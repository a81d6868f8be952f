package posting

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

func newTestEngine(t *testing.T) (*Engine, *state.Dispatcher) {
	t.Helper()
	chart := ledger.NewDefaultChart()
	e := NewEngine(chart)
	var seq int
	e.WithIDs(func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	})
	e.WithNow(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})
	return e, state.NewDispatcher(chart)
}

func addRecord(t *testing.T, d *state.Dispatcher, collection, id string, rec any) {
	t.Helper()
	require.NoError(t, d.Apply(state.Batch{{
		Action: state.ActionAdd, Collection: collection, ID: id, Record: rec,
	}}))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedSale sets up a customer, an agent, a forwarder and a 20kg towel item.
func seedSale(t *testing.T, d *state.Dispatcher) {
	t.Helper()
	addRecord(t, d, state.ColParties, "cust-1", ledger.Party{ID: "cust-1", Name: "Khan Textiles", Kind: ledger.KindCustomer, Currency: "AED"})
	addRecord(t, d, state.ColParties, "agent-1", ledger.Party{ID: "agent-1", Name: "Ali Brokerage", Kind: ledger.KindCommissionAgent})
	addRecord(t, d, state.ColParties, "fwd-1", ledger.Party{ID: "fwd-1", Name: "Gulf Shipping", Kind: ledger.KindFreightForwarder})
	addRecord(t, d, state.ColItems, "item-1", ledger.Item{
		ID: "item-1", Name: "Towel Bale", PackingType: ledger.PackBales,
		BaleSize:           dec("20"),
		AvgProductionPrice: dec("1.10"),
		AvgSalesPrice:      dec("1.50"),
	})
}

func TestPostSalesInvoiceFullScenario(t *testing.T) {
	e, d := newTestEngine(t)
	seedSale(t, d)

	// 10 bales x 20kg x 3.00 AED/kg at 0.2725 = 163.50 USD item value.
	inv := ledger.SalesInvoice{
		ID:         "inv-1",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items: []ledger.InvoiceLine{{
			ItemID: "item-1", Quantity: dec("10"), Rate: dec("3"),
			Currency: "AED", ConversionRate: dec("0.2725"),
		}},
		FreightAmount:    dec("50"),
		ForwarderID:      "fwd-1",
		CustomCharges:    dec("25"),
		CommissionAmount: dec("10"),
		AgentID:          "agent-1",
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-1", "tester")
	}))

	d.View(func(agg *state.Aggregate) {
		sale := agg.EntriesForVoucher(ledger.SaleVoucherID("inv-1"))
		require.Len(t, sale, 4)
		require.NoError(t, ledger.CheckVouchersBalanced(sale))

		byAccount := map[string]ledger.JournalEntry{}
		for _, leg := range sale {
			byAccount[leg.Account] = leg
		}

		ar := byAccount[ledger.AccountReceivable]
		assert.Equal(t, int64(16350+5000+2500), ar.Debit)
		assert.Equal(t, "cust-1", ar.EntityID)
		require.NotNil(t, ar.OriginalAmount)
		assert.Equal(t, "AED", ar.OriginalAmount.Currency)
		assert.True(t, ar.OriginalAmount.Amount.Equal(dec("600")), "got %s", ar.OriginalAmount.Amount)

		assert.Equal(t, int64(16350), byAccount[ledger.AccountRevenue].Credit)

		frt := byAccount[ledger.AccountPayable]
		assert.Equal(t, int64(5000), frt.Credit)
		assert.Equal(t, "fwd-1", frt.EntityID)

		assert.Equal(t, int64(2500), byAccount[ledger.AccountPayableCustoms].Credit)

		// Commission under its own voucher.
		comm := agg.EntriesForVoucher(ledger.CommissionVoucherID("inv-1"))
		require.Len(t, comm, 2)
		require.NoError(t, ledger.CheckVouchersBalanced(comm))
		for _, leg := range comm {
			if leg.Credit > 0 {
				assert.Equal(t, "agent-1", leg.EntityID)
			} else {
				assert.Equal(t, ledger.AccountCommissionExp, leg.Account)
			}
			assert.Equal(t, int64(1000), leg.Debit+leg.Credit)
		}

		// COGS: 200kg x 1.10 = 220.00.
		cogs := agg.EntriesForVoucher(ledger.COGSVoucherID("inv-1"))
		require.Len(t, cogs, 2)
		require.NoError(t, ledger.CheckVouchersBalanced(cogs))
		totals := ledger.VoucherTotals(cogs)[ledger.COGSVoucherID("inv-1")]
		assert.Equal(t, int64(22000), totals[0])

		assert.Equal(t, ledger.StatusPosted, agg.Invoices["inv-1"].Status)
	})
}

func TestPostSalesInvoiceSelfFreightFoldsIntoRevenue(t *testing.T) {
	e, d := newTestEngine(t)
	seedSale(t, d)

	inv := ledger.SalesInvoice{
		ID:         "inv-2",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items: []ledger.InvoiceLine{{
			ItemID: "item-1", Quantity: dec("5"), Rate: dec("2"),
		}},
		FreightAmount: dec("30"),
		ForwarderID:   ledger.SelfForwarder,
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-2", "tester")
	}))

	d.View(func(agg *state.Aggregate) {
		sale := agg.EntriesForVoucher(ledger.SaleVoucherID("inv-2"))
		require.Len(t, sale, 2, "no payable leg for self-carried freight")
		require.NoError(t, ledger.CheckVouchersBalanced(sale))

		// 5 x 20kg x 2.00 = 200.00 items + 30.00 freight in revenue.
		for _, leg := range sale {
			if leg.Account == ledger.AccountRevenue {
				assert.Equal(t, int64(23000), leg.Credit)
			}
			if leg.Account == ledger.AccountReceivable {
				assert.Equal(t, int64(23000), leg.Debit)
			}
		}
	})
}

func TestPostSalesInvoiceNotRepeatable(t *testing.T) {
	e, d := newTestEngine(t)
	seedSale(t, d)

	inv := ledger.SalesInvoice{
		ID:         "inv-3",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items:      []ledger.InvoiceLine{{ItemID: "item-1", Quantity: dec("1"), Rate: dec("1")}},
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-3", "tester")
	}))

	err := d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-3", "tester")
	})
	require.ErrorIs(t, err, ledger.ErrAlreadyPosted)
}

func TestPostSalesInvoiceInvalidRate(t *testing.T) {
	e, d := newTestEngine(t)
	seedSale(t, d)

	inv := ledger.SalesInvoice{
		ID:         "inv-4",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items:      []ledger.InvoiceLine{{ItemID: "item-1", Quantity: dec("1"), Rate: dec("0")}},
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	err := d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-4", "tester")
	})
	require.ErrorIs(t, err, ledger.ErrInvalidRate)

	// Nothing written.
	d.View(func(agg *state.Aggregate) {
		assert.Empty(t, agg.EntriesForVoucher(ledger.SaleVoucherID("inv-4")))
		assert.Equal(t, ledger.StatusUnposted, agg.Invoices["inv-4"].Status)
	})
}

func TestPostSalesInvoiceCommissionRequiresAgent(t *testing.T) {
	e, d := newTestEngine(t)
	seedSale(t, d)

	inv := ledger.SalesInvoice{
		ID:               "inv-6",
		CustomerID:       "cust-1",
		Status:           ledger.StatusUnposted,
		Items:            []ledger.InvoiceLine{{ItemID: "item-1", Quantity: dec("1"), Rate: dec("1")}},
		CommissionAmount: dec("10"),
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	err := d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-6", "tester")
	})
	require.ErrorIs(t, err, ledger.ErrAgentRequired)

	// The invoice stays Unposted and nothing reaches the ledger: the
	// commission is refused, never dropped.
	d.View(func(agg *state.Aggregate) {
		assert.Equal(t, ledger.StatusUnposted, agg.Invoices["inv-6"].Status)
		assert.Empty(t, agg.EntriesForVoucher(ledger.SaleVoucherID("inv-6")))
		assert.Empty(t, agg.EntriesForVoucher(ledger.CommissionVoucherID("inv-6")))
	})
}

func TestPostSalesInvoiceUnknownInvoice(t *testing.T) {
	e, d := newTestEngine(t)
	err := d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "nope", "tester")
	})
	require.ErrorIs(t, err, ledger.ErrInvoiceNotFound)
}

func TestPostSalesInvoiceKgItemUsesUnitWeightOne(t *testing.T) {
	e, d := newTestEngine(t)
	addRecord(t, d, state.ColParties, "cust-1", ledger.Party{ID: "cust-1", Name: "Khan Textiles", Kind: ledger.KindCustomer})
	addRecord(t, d, state.ColItems, "yarn", ledger.Item{
		ID: "yarn", Name: "Yarn", PackingType: ledger.PackKg,
		AvgProductionPrice: dec("0.80"),
	})

	inv := ledger.SalesInvoice{
		ID:         "inv-5",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items:      []ledger.InvoiceLine{{ItemID: "yarn", Quantity: dec("100"), Rate: dec("1.25")}},
	}
	addRecord(t, d, state.ColSalesInvoices, inv.ID, inv)

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostSalesInvoice(agg, "inv-5", "tester")
	}))

	d.View(func(agg *state.Aggregate) {
		// 100kg x 1.25 = 125.00 revenue; 100kg x 0.80 = 80.00 COGS.
		totals := ledger.VoucherTotals(agg.AllEntries())
		assert.Equal(t, int64(12500), totals[ledger.SaleVoucherID("inv-5")][0])
		assert.Equal(t, int64(8000), totals[ledger.COGSVoucherID("inv-5")][0])
	})
}
