package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// OpeningBalanceInput carries the explicit before/after balances for one
// party. OldBalanceBase is the balance currently on the books in base
// currency; the caller reads it from the existing opening pair (see
// ExistingOpeningBase) rather than inferring it from mutation.
type OpeningBalanceInput struct {
	Party          ledger.Party
	IsNew          bool
	OldBalanceBase decimal.Decimal
	NewBalance     decimal.Decimal
	Currency       string
	ConversionRate decimal.Decimal
	Date           time.Time
	CreatedBy      string
}

// PostOpeningBalance replaces a party's opening-balance pair. At most one
// pair (je-d-ob-{id} / je-c-ob-{id}) exists per party: the old pair is
// deleted and a fresh one created in the same batch, never left to
// compete. No-op when the balance is unchanged in base currency, or when
// a brand-new party starts at zero.
func (e *Engine) PostOpeningBalance(agg *state.Aggregate, in OpeningBalanceInput) (state.Batch, error) {
	party := in.Party
	if err := party.Validate(); err != nil {
		return nil, err
	}
	if in.Currency != "" && !ledger.ValidCurrency(in.Currency) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrInvalidCurrency, in.Currency)
	}

	newBase := ledger.ToBase(in.NewBalance, in.Currency, in.ConversionRate)
	if !in.IsNew && in.OldBalanceBase.Equal(newBase) {
		return nil, nil
	}
	if in.IsNew && newBase.IsZero() {
		return nil, nil
	}

	var batch state.Batch
	debitID := ledger.OpeningDebitLegID(party.ID)
	creditID := ledger.OpeningCreditLegID(party.ID)
	if _, ok := agg.Entries[debitID]; ok {
		batch = append(batch, state.DeleteEntry(debitID))
	}
	if _, ok := agg.Entries[creditID]; ok {
		batch = append(batch, state.DeleteEntry(creditID))
	}
	if newBase.IsZero() {
		return batch, nil
	}

	subAccount, err := e.openingSubAccount(party)
	if err != nil {
		return nil, err
	}
	plug, err := e.chart.RequireRole("equity_plug", e.chart.Roles().EquityPlug)
	if err != nil {
		return nil, err
	}

	// Side matrix: receivable and asset classes debit their own side on a
	// positive balance; payable and liability classes credit it. Negative
	// balances flip the pair.
	debitSide := newBase.IsPositive()
	switch ledger.ClassOf(party.Kind) {
	case ledger.ClassPayable, ledger.ClassLiability:
		debitSide = !debitSide
	}

	amount := ledger.ToMinor(newBase.Abs())
	var orig *ledger.OriginalAmount
	if in.Currency != "" && in.Currency != ledger.BaseCurrency {
		orig = &ledger.OriginalAmount{Amount: in.NewBalance, Currency: in.Currency}
	}

	date := in.Date
	if date.IsZero() {
		date = e.now()
	}
	desc := fmt.Sprintf("Opening balance - %s", party.Name)
	voucher := ledger.OpeningVoucherID(party.ID)

	debit := ledger.JournalEntry{
		ID:          debitID,
		VoucherID:   voucher,
		Date:        date,
		EntryType:   ledger.EntryJournal,
		Debit:       amount,
		Description: desc,
		CreatedBy:   in.CreatedBy,
	}
	credit := ledger.JournalEntry{
		ID:          creditID,
		VoucherID:   voucher,
		Date:        date,
		EntryType:   ledger.EntryJournal,
		Credit:      amount,
		Description: desc,
		CreatedBy:   in.CreatedBy,
	}
	if debitSide {
		debit.Account = subAccount
		debit.EntityID = party.ID
		debit.EntityType = string(party.Kind)
		debit.OriginalAmount = orig
		credit.Account = plug.ID
	} else {
		debit.Account = plug.ID
		credit.Account = subAccount
		credit.EntityID = party.ID
		credit.EntityType = string(party.Kind)
		credit.OriginalAmount = orig
	}

	return append(batch, state.AddEntry(debit), state.AddEntry(credit)), nil
}

// openingSubAccount returns the non-plug side of the opening pair: the
// canonical AR/AP account for customers and payable-type parties, the
// party's own account for asset- and liability-type parties.
func (e *Engine) openingSubAccount(party ledger.Party) (string, error) {
	roles := e.chart.Roles()
	switch ledger.ClassOf(party.Kind) {
	case ledger.ClassReceivable:
		a, err := e.chart.RequireRole("receivable", roles.Receivable)
		if err != nil {
			return "", err
		}
		return a.ID, nil
	case ledger.ClassPayable:
		role, id := "payable", roles.Payable
		if party.Kind == ledger.KindVendor {
			role, id = "payable_vendor", roles.PayableVendor
		}
		a, err := e.chart.RequireRole(role, id)
		if err != nil {
			return "", err
		}
		return a.ID, nil
	default:
		a, err := e.chart.ResolveAccount(party.AccountID)
		if err != nil {
			return "", err
		}
		return a.ID, nil
	}
}

// CanonicalAccount is the account against which a party's subsidiary
// balance is evaluated.
func (e *Engine) CanonicalAccount(party ledger.Party) (string, error) {
	return e.openingSubAccount(party)
}

// ExistingOpeningBase reads the balance currently carried by a party's
// opening pair, signed by the party's class, in base currency. Returns
// false when no pair exists.
func ExistingOpeningBase(agg *state.Aggregate, party ledger.Party) (decimal.Decimal, bool) {
	debit, dok := agg.Entries[ledger.OpeningDebitLegID(party.ID)]
	credit, cok := agg.Entries[ledger.OpeningCreditLegID(party.ID)]
	if !dok && !cok {
		return decimal.Zero, false
	}

	// The pair's amount lives on both legs; the sign comes from which leg
	// carries the entity link (the non-plug side).
	var amount int64
	subDebit := false
	switch {
	case dok && debit.EntityID == party.ID:
		amount, subDebit = debit.Debit, true
	case cok:
		amount = credit.Credit
	case dok:
		amount = debit.Debit
	}

	positive := subDebit
	switch ledger.ClassOf(party.Kind) {
	case ledger.ClassPayable, ledger.ClassLiability:
		positive = !subDebit
	}
	base := ledger.FromMinor(amount)
	if !positive {
		base = base.Neg()
	}
	return base, true
}
