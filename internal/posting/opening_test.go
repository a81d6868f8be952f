package posting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

func postOpening(t *testing.T, e *Engine, d *state.Dispatcher, in OpeningBalanceInput) {
	t.Helper()
	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		batch, err := e.PostOpeningBalance(agg, in)
		if err != nil {
			return nil, err
		}
		if in.IsNew {
			batch = append(state.Batch{{
				Action: state.ActionAdd, Collection: state.ColParties, ID: in.Party.ID, Record: in.Party,
			}}, batch...)
		}
		return batch, nil
	}))
}

func TestOpeningBalanceCustomerDebitsReceivable(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-1", Name: "Khan Textiles", Kind: ledger.KindCustomer, Currency: "AED", StartingBalance: dec("1000")}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true,
		NewBalance: dec("1000"), Currency: "AED", ConversionRate: dec("0.2725"),
		CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		debit := agg.Entries[ledger.OpeningDebitLegID("cust-1")]
		credit := agg.Entries[ledger.OpeningCreditLegID("cust-1")]

		assert.Equal(t, ledger.AccountReceivable, debit.Account)
		assert.Equal(t, int64(27250), debit.Debit)
		assert.Equal(t, "cust-1", debit.EntityID)
		require.NotNil(t, debit.OriginalAmount)
		assert.Equal(t, "AED", debit.OriginalAmount.Currency)
		assert.True(t, debit.OriginalAmount.Amount.Equal(dec("1000")))

		assert.Equal(t, ledger.AccountEquityPlug, credit.Account)
		assert.Equal(t, int64(27250), credit.Credit)
		assert.Empty(t, credit.EntityID)
	})
}

func TestOpeningBalanceSupplierCreditsPayable(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "sup-1", Name: "Raw Cotton Co", Kind: ledger.KindSupplier, StartingBalance: dec("500")}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("500"), CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		// Positive payable balance: we owe them, so the entity leg credits AP.
		credit := agg.Entries[ledger.OpeningCreditLegID("sup-1")]
		assert.Equal(t, ledger.AccountPayable, credit.Account)
		assert.Equal(t, int64(50000), credit.Credit)
		assert.Equal(t, "sup-1", credit.EntityID)

		debit := agg.Entries[ledger.OpeningDebitLegID("sup-1")]
		assert.Equal(t, ledger.AccountEquityPlug, debit.Account)
	})
}

func TestOpeningBalanceVendorRoutesToVendorPayable(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "ven-1", Name: "Dye Works", Kind: ledger.KindVendor}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("120"), CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		credit := agg.Entries[ledger.OpeningCreditLegID("ven-1")]
		assert.Equal(t, ledger.AccountPayableVendor, credit.Account)
	})
}

func TestOpeningBalanceNegativeFlipsSides(t *testing.T) {
	e, d := newTestEngine(t)

	// A customer who we actually owe (prepayment): negative receivable.
	party := ledger.Party{ID: "cust-2", Name: "Prepaid Buyer", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("-250"), CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		credit := agg.Entries[ledger.OpeningCreditLegID("cust-2")]
		assert.Equal(t, ledger.AccountReceivable, credit.Account)
		assert.Equal(t, int64(25000), credit.Credit)
		assert.Equal(t, "cust-2", credit.EntityID)

		debit := agg.Entries[ledger.OpeningDebitLegID("cust-2")]
		assert.Equal(t, ledger.AccountEquityPlug, debit.Account)
	})
}

func TestOpeningBalanceLiabilityPartyUsesOwnAccount(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "loan-1", Name: "Bank Loan", Kind: ledger.KindLoanAccount, AccountID: "LOAN-001"}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("10000"), CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		credit := agg.Entries[ledger.OpeningCreditLegID("loan-1")]
		assert.Equal(t, "LOAN-001", credit.Account)
		assert.Equal(t, int64(1000000), credit.Credit)
	})
}

func TestOpeningBalanceResaveReplacesPair(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-3", Name: "Gul Traders", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("100"), CreatedBy: "tester",
	})

	// Re-save with a different balance: old pair replaced, not duplicated.
	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		old, ok := ExistingOpeningBase(agg, party)
		require.True(t, ok)
		require.True(t, old.Equal(dec("100")), "got %s", old)
		return e.PostOpeningBalance(agg, OpeningBalanceInput{
			Party: party, OldBalanceBase: old, NewBalance: dec("175"), CreatedBy: "tester",
		})
	}))

	d.View(func(agg *state.Aggregate) {
		legs := agg.EntriesForVoucher(ledger.OpeningVoucherID("cust-3"))
		require.Len(t, legs, 2)
		totals := ledger.VoucherTotals(legs)[ledger.OpeningVoucherID("cust-3")]
		assert.Equal(t, int64(17500), totals[0])
		assert.Equal(t, int64(17500), totals[1])
	})
}

func TestOpeningBalanceUnchangedIsNoOp(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-4", Name: "Steady Co", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("300"), CreatedBy: "tester",
	})

	versionBefore := d.Snapshot().Version

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		old, _ := ExistingOpeningBase(agg, party)
		return e.PostOpeningBalance(agg, OpeningBalanceInput{
			Party: party, OldBalanceBase: old, NewBalance: dec("300"), CreatedBy: "tester",
		})
	}))

	// Empty batch: no version bump, no churn.
	assert.Equal(t, versionBefore, d.Snapshot().Version)
}

func TestOpeningBalanceZeroNewPartyIsNoOp(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-5", Name: "Zero Start", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: decimal.Zero, CreatedBy: "tester",
	})

	d.View(func(agg *state.Aggregate) {
		assert.Empty(t, agg.EntriesForVoucher(ledger.OpeningVoucherID("cust-5")))
		_, exists := agg.Parties["cust-5"]
		assert.True(t, exists, "party is still created")
	})
}

func TestOpeningBalanceResetToZeroDeletesPair(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-6", Name: "Settled Co", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{
		Party: party, IsNew: true, NewBalance: dec("80"), CreatedBy: "tester",
	})

	require.NoError(t, d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		old, _ := ExistingOpeningBase(agg, party)
		return e.PostOpeningBalance(agg, OpeningBalanceInput{
			Party: party, OldBalanceBase: old, NewBalance: decimal.Zero, CreatedBy: "tester",
		})
	}))

	d.View(func(agg *state.Aggregate) {
		assert.Empty(t, agg.EntriesForVoucher(ledger.OpeningVoucherID("cust-6")))
	})
}

func TestOpeningBalanceInvalidCurrency(t *testing.T) {
	e, d := newTestEngine(t)

	party := ledger.Party{ID: "cust-7", Name: "Odd Money", Kind: ledger.KindCustomer}
	err := d.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return e.PostOpeningBalance(agg, OpeningBalanceInput{
			Party: party, IsNew: true, NewBalance: dec("10"), Currency: "XXX",
		})
	})
	require.ErrorIs(t, err, ledger.ErrInvalidCurrency)
}

func TestExistingOpeningBaseSigns(t *testing.T) {
	e, d := newTestEngine(t)

	customer := ledger.Party{ID: "c", Name: "C", Kind: ledger.KindCustomer}
	postOpening(t, e, d, OpeningBalanceInput{Party: customer, IsNew: true, NewBalance: dec("40")})

	supplier := ledger.Party{ID: "s", Name: "S", Kind: ledger.KindSupplier}
	postOpening(t, e, d, OpeningBalanceInput{Party: supplier, IsNew: true, NewBalance: dec("60")})

	d.View(func(agg *state.Aggregate) {
		got, ok := ExistingOpeningBase(agg, customer)
		require.True(t, ok)
		assert.True(t, got.Equal(dec("40")), "customer got %s", got)

		got, ok = ExistingOpeningBase(agg, supplier)
		require.True(t, ok)
		assert.True(t, got.Equal(dec("60")), "supplier got %s", got)

		_, ok = ExistingOpeningBase(agg, ledger.Party{ID: "missing", Kind: ledger.KindCustomer})
		assert.False(t, ok)
	})
}
