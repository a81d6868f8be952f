package state

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/tradeledger/internal/ledger"
)

func decimalOne() decimal.Decimal { return decimal.NewFromInt(1) }

func pair(voucherID string, entryType ledger.EntryType, amount int64) (ledger.JournalEntry, ledger.JournalEntry) {
	debit := ledger.JournalEntry{
		ID:        "je-d-" + voucherID,
		VoucherID: voucherID,
		EntryType: entryType,
		Account:   ledger.AccountReceivable,
		Debit:     amount,
	}
	credit := ledger.JournalEntry{
		ID:        "je-c-" + voucherID,
		VoucherID: voucherID,
		EntryType: entryType,
		Account:   ledger.AccountRevenue,
		Credit:    amount,
	}
	return debit, credit
}

func TestApplyAssignsVoucherNumbers(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	d1, c1 := pair("v1", ledger.EntryJournal, 100)
	require.NoError(t, d.Apply(Batch{AddEntry(d1), AddEntry(c1)}))

	d2, c2 := pair("v2", ledger.EntryJournal, 200)
	require.NoError(t, d.Apply(Batch{AddEntry(d2), AddEntry(c2)}))

	d.View(func(agg *Aggregate) {
		v1 := agg.EntriesForVoucher("v1")
		require.Len(t, v1, 2)
		// Both legs of a voucher carry the same number; the counter
		// advanced only on the first leg.
		assert.Equal(t, int64(1), v1[0].VoucherNo)
		assert.Equal(t, int64(1), v1[1].VoucherNo)

		v2 := agg.EntriesForVoucher("v2")
		require.Len(t, v2, 2)
		assert.Equal(t, int64(2), v2[0].VoucherNo)

		assert.Equal(t, int64(3), agg.Counters.NextJournalVoucherNumber)
	})
}

func TestApplyCountersPerEntryType(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	for i, et := range []ledger.EntryType{ledger.EntryReceipt, ledger.EntryPayment, ledger.EntryExpense, ledger.EntryJournal} {
		vid := fmt.Sprintf("v-%d", i)
		de, cr := pair(vid, et, 50)
		require.NoError(t, d.Apply(Batch{AddEntry(de), AddEntry(cr)}))
	}

	d.View(func(agg *Aggregate) {
		// Each type drew number 1 from its own counter.
		for _, e := range agg.AllEntries() {
			assert.Equal(t, int64(1), e.VoucherNo, "entry %s", e.ID)
		}
		assert.Equal(t, int64(2), agg.Counters.NextReceiptVoucherNumber)
		assert.Equal(t, int64(2), agg.Counters.NextPaymentVoucherNumber)
		assert.Equal(t, int64(2), agg.Counters.NextExpenseVoucherNumber)
		assert.Equal(t, int64(2), agg.Counters.NextJournalVoucherNumber)
	})
}

func TestApplyIsAtomic(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	bad := ledger.JournalEntry{ID: "je-bad", VoucherID: "v1", EntryType: ledger.EntryJournal, Account: "NO-SUCH", Debit: 1}

	err := d.Apply(Batch{AddEntry(de), AddEntry(cr), AddEntry(bad)})
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)

	d.View(func(agg *Aggregate) {
		assert.Empty(t, agg.Entries, "failed batch must leave no partial state")
		assert.Equal(t, int64(1), agg.Counters.NextJournalVoucherNumber, "counter must not advance on a failed batch")
		assert.Equal(t, uint64(0), agg.Version)
	})
}

func TestApplyRejectsUnbalancedVoucher(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	cr.Credit = 99

	err := d.Apply(Batch{AddEntry(de), AddEntry(cr)})
	require.ErrorIs(t, err, ledger.ErrUnbalancedVoucher)

	d.View(func(agg *Aggregate) {
		assert.Empty(t, agg.Entries)
	})
}

func TestApplyRejectsEntryUpdate(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	require.NoError(t, d.Apply(Batch{AddEntry(de), AddEntry(cr)}))

	err := d.Apply(Batch{{Action: ActionUpdate, Collection: ColJournalEntries, ID: de.ID, Record: de}})
	require.ErrorIs(t, err, ledger.ErrInvalidAction)
}

func TestDeleteAndRecreateVoucherInOneBatch(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	require.NoError(t, d.Apply(Batch{AddEntry(de), AddEntry(cr)}))

	// Amount edits go through wholesale replacement; the batch balances
	// at the end even though it is transiently one-sided.
	de2, cr2 := pair("v1", ledger.EntryJournal, 250)
	de2.ID, cr2.ID = "je-d2-v1", "je-c2-v1"
	require.NoError(t, d.Apply(Batch{
		DeleteEntry(de.ID), DeleteEntry(cr.ID),
		AddEntry(de2), AddEntry(cr2),
	}))

	d.View(func(agg *Aggregate) {
		legs := agg.EntriesForVoucher("v1")
		require.Len(t, legs, 2)
		totals := ledger.VoucherTotals(legs)["v1"]
		assert.Equal(t, int64(250), totals[0])
		assert.Equal(t, int64(250), totals[1])
	})
}

func TestOnChangeFiresPerBatch(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	var versions []uint64
	d.OnChange(func(s Snapshot) { versions = append(versions, s.Version) })

	d1, c1 := pair("v1", ledger.EntryJournal, 10)
	require.NoError(t, d.Apply(Batch{AddEntry(d1), AddEntry(c1)}))
	d2, c2 := pair("v2", ledger.EntryJournal, 20)
	require.NoError(t, d.Apply(Batch{AddEntry(d2), AddEntry(c2)}))

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestDeletePartyReferencedRefused(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	party := ledger.Party{ID: "cust-1", Name: "Khan Textiles", Kind: ledger.KindCustomer}
	require.NoError(t, d.Apply(Batch{{Action: ActionAdd, Collection: ColParties, ID: party.ID, Record: party}}))

	inv := ledger.SalesInvoice{
		ID:         "inv-1",
		CustomerID: "cust-1",
		Status:     ledger.StatusUnposted,
		Items:      []ledger.InvoiceLine{{ItemID: "item-1", Quantity: decimalOne(), Rate: decimalOne()}},
	}
	require.NoError(t, d.Apply(Batch{{Action: ActionAdd, Collection: ColSalesInvoices, ID: inv.ID, Record: inv}}))

	err := d.Apply(Batch{{Action: ActionDelete, Collection: ColParties, ID: "cust-1"}})
	require.ErrorIs(t, err, ledger.ErrPartyReferenced)

	d.View(func(agg *Aggregate) {
		_, exists := agg.Parties["cust-1"]
		assert.True(t, exists)
	})
}

func TestDeletePartyAllowsOpeningPair(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	party := ledger.Party{ID: "cust-2", Name: "Gul Traders", Kind: ledger.KindCustomer}
	require.NoError(t, d.Apply(Batch{{Action: ActionAdd, Collection: ColParties, ID: party.ID, Record: party}}))

	debit := ledger.JournalEntry{
		ID:        ledger.OpeningDebitLegID(party.ID),
		VoucherID: ledger.OpeningVoucherID(party.ID),
		EntryType: ledger.EntryJournal,
		Account:   ledger.AccountReceivable,
		Debit:     5000,
		EntityID:  party.ID,
	}
	credit := ledger.JournalEntry{
		ID:        ledger.OpeningCreditLegID(party.ID),
		VoucherID: ledger.OpeningVoucherID(party.ID),
		EntryType: ledger.EntryJournal,
		Account:   ledger.AccountEquityPlug,
		Credit:    5000,
	}
	require.NoError(t, d.Apply(Batch{AddEntry(debit), AddEntry(credit)}))

	// The opening pair does not block deletion when removed in the same batch.
	require.NoError(t, d.Apply(Batch{
		DeleteEntry(debit.ID),
		DeleteEntry(credit.ID),
		{Action: ActionDelete, Collection: ColParties, ID: party.ID},
	}))

	d.View(func(agg *Aggregate) {
		assert.Empty(t, agg.Parties)
		assert.Empty(t, agg.Entries)
	})
}

func TestDeleteItemReferencedRefused(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	item := ledger.Item{ID: "item-1", Name: "Cotton Bale", PackingType: ledger.PackBales, BaleSize: decimalOne()}
	require.NoError(t, d.Apply(Batch{{Action: ActionAdd, Collection: ColItems, ID: item.ID, Record: item}}))

	prod := ledger.Production{ID: "prod-1", ItemID: "item-1", QuantityProduced: decimalOne()}
	require.NoError(t, d.Apply(Batch{{Action: ActionAdd, Collection: ColProductions, ID: prod.ID, Record: prod}}))

	err := d.Apply(Batch{{Action: ActionDelete, Collection: ColItems, ID: "item-1"}})
	require.ErrorIs(t, err, ledger.ErrItemReferenced)
}

func TestRestoreRejectsStaleSnapshot(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	require.NoError(t, d.Apply(Batch{AddEntry(de), AddEntry(cr)}))

	// The store's echo of our own write carries our version; applying it
	// would be a feedback loop.
	echo := d.Snapshot()
	require.ErrorIs(t, d.Restore(echo), ledger.ErrStaleSnapshot)

	// A genuinely newer snapshot applies.
	newer := d.Snapshot()
	newer.Version = 99
	require.NoError(t, d.Restore(newer))

	d.View(func(agg *Aggregate) {
		assert.Equal(t, uint64(99), agg.Version)
	})
}

func TestSeedAcceptsAnyVersion(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	de, cr := pair("v1", ledger.EntryJournal, 100)
	snap := Snapshot{
		Version:        1,
		JournalEntries: []ledger.JournalEntry{de, cr},
		Counters:       NewCounters(),
	}
	d.Seed(snap)

	d.View(func(agg *Aggregate) {
		assert.Len(t, agg.Entries, 2)
		assert.Equal(t, uint64(1), agg.Version)
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := NewDispatcher(ledger.NewDefaultChart())

	party := ledger.Party{ID: "sup-1", Name: "Raw Cotton Co", Kind: ledger.KindSupplier}
	item := ledger.Item{ID: "item-1", Name: "Towel", PackingType: ledger.PackKg}
	de, cr := pair("v1", ledger.EntryJournal, 100)
	require.NoError(t, d.Apply(Batch{
		{Action: ActionAdd, Collection: ColParties, ID: party.ID, Record: party},
		{Action: ActionAdd, Collection: ColItems, ID: item.ID, Record: item},
		AddEntry(de), AddEntry(cr),
	}))

	snap := d.Snapshot()

	d2 := NewDispatcher(ledger.NewDefaultChart())
	d2.Seed(snap)
	assert.Equal(t, snap, d2.Snapshot())
}
