package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// ImportRow is one pre-validated original-stock purchase row. Schema,
// foreign-key and uniqueness checks happen in the import collaborator;
// the engine still refuses rows whose supplier it cannot see.
type ImportRow struct {
	SupplierID string
	Date       time.Time
	Quantity   decimal.Decimal
	WeightKg   decimal.Decimal
	Amount     decimal.Decimal
	Currency   string
	Rate       decimal.Decimal
	Notes      string
}

// PostBulkImport creates an OriginalPurchase record per row plus a raw
// material expense / payable pair under a fresh Journal voucher. Each row
// advances the Journal counter once; the whole import is one batch.
func (e *Engine) PostBulkImport(agg *state.Aggregate, rows []ImportRow, createdBy string) (state.Batch, error) {
	roles := e.chart.Roles()
	rawExp, err := e.chart.RequireRole("raw_material_expense", roles.RawMaterialExp)
	if err != nil {
		return nil, err
	}
	payable, err := e.chart.RequireRole("payable", roles.Payable)
	if err != nil {
		return nil, err
	}

	var batch state.Batch
	for i, row := range rows {
		supplier, ok := agg.Parties[row.SupplierID]
		if !ok || supplier.Kind != ledger.KindSupplier {
			return nil, fmt.Errorf("%w: row %d supplier %s", ledger.ErrPartyNotFound, i, row.SupplierID)
		}
		if !row.Amount.IsPositive() {
			return nil, fmt.Errorf("row %d: amount must be positive", i)
		}
		if row.Currency != "" && !ledger.ValidCurrency(row.Currency) {
			return nil, fmt.Errorf("%w: row %d: %s", ledger.ErrInvalidCurrency, i, row.Currency)
		}

		date := row.Date
		if date.IsZero() {
			date = e.now()
		}
		purchaseID := e.newID()
		batch = append(batch, state.Op{
			Action:     state.ActionAdd,
			Collection: state.ColOriginalPurchases,
			ID:         purchaseID,
			Record: ledger.OriginalPurchase{
				ID:         purchaseID,
				SupplierID: row.SupplierID,
				Date:       date,
				Quantity:   row.Quantity,
				WeightKg:   row.WeightKg,
				Amount:     row.Amount,
				Currency:   row.Currency,
				Rate:       row.Rate,
				Notes:      row.Notes,
			},
		})

		amountMinor := ledger.ToMinor(ledger.ToBase(row.Amount, row.Currency, row.Rate))
		var orig *ledger.OriginalAmount
		if row.Currency != "" && row.Currency != ledger.BaseCurrency {
			orig = &ledger.OriginalAmount{Amount: row.Amount, Currency: row.Currency}
		}

		desc := fmt.Sprintf("Original stock purchase - %s", supplier.Name)
		voucher := "IMP-" + purchaseID
		batch = append(batch,
			state.AddEntry(ledger.JournalEntry{
				ID:          e.newID(),
				VoucherID:   voucher,
				Date:        date,
				EntryType:   ledger.EntryJournal,
				Account:     rawExp.ID,
				Debit:       amountMinor,
				Description: desc,
				CreatedBy:   createdBy,
			}),
			state.AddEntry(ledger.JournalEntry{
				ID:             e.newID(),
				VoucherID:      voucher,
				Date:           date,
				EntryType:      ledger.EntryJournal,
				Account:        payable.ID,
				Credit:         amountMinor,
				Description:    desc,
				EntityID:       supplier.ID,
				EntityType:     string(ledger.KindSupplier),
				OriginalAmount: orig,
				CreatedBy:      createdBy,
			}),
		)
	}
	return batch, nil
}
