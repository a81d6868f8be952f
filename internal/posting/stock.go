package posting

import (
	"fmt"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

func stockDebitLegID(itemID string) string  { return "je-d-stk-" + itemID }
func stockCreditLegID(itemID string) string { return "je-c-stk-" + itemID }
func stockVoucherID(itemID string) string   { return "STK-" + itemID }

// PostStockOpening values an item's opening stock: a synthetic production
// record carries the quantity, and when weight x avgProductionPrice is
// non-zero, a finished-goods / equity-plug pair books the value. Returns
// an empty batch when the item has no opening stock.
func (e *Engine) PostStockOpening(agg *state.Aggregate, item ledger.Item, createdBy string) (state.Batch, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if !item.OpeningStock.IsPositive() {
		return nil, nil
	}

	prodID := ledger.OpeningStockProductionID(item.ID)
	if _, exists := agg.Productions[prodID]; exists {
		return nil, fmt.Errorf("opening stock for item %s already recorded", item.ID)
	}

	date := e.now()
	batch := state.Batch{{
		Action:     state.ActionAdd,
		Collection: state.ColProductions,
		ID:         prodID,
		Record: ledger.Production{
			ID:               prodID,
			ItemID:           item.ID,
			Date:             date,
			QuantityProduced: item.OpeningStock,
			Synthetic:        true,
		},
	}}

	weight := item.OpeningStock.Mul(item.UnitWeightKg())
	totalValue := ledger.ToMinor(weight.Mul(item.AvgProductionPrice))
	if totalValue == 0 {
		return batch, nil
	}

	roles := e.chart.Roles()
	finishedGoods, err := e.chart.RequireRole("finished_goods", roles.FinishedGoods)
	if err != nil {
		return nil, err
	}
	plug, err := e.chart.RequireRole("equity_plug", roles.EquityPlug)
	if err != nil {
		return nil, err
	}

	amount := totalValue
	debitAcct, creditAcct := finishedGoods.ID, plug.ID
	if amount < 0 {
		amount = -amount
		debitAcct, creditAcct = plug.ID, finishedGoods.ID
	}

	desc := fmt.Sprintf("Opening stock valuation - %s", item.Name)
	voucher := stockVoucherID(item.ID)
	batch = append(batch,
		state.AddEntry(ledger.JournalEntry{
			ID:          stockDebitLegID(item.ID),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryJournal,
			Account:     debitAcct,
			Debit:       amount,
			Description: desc,
			CreatedBy:   createdBy,
		}),
		state.AddEntry(ledger.JournalEntry{
			ID:          stockCreditLegID(item.ID),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryJournal,
			Account:     creditAcct,
			Credit:      amount,
			Description: desc,
			CreatedBy:   createdBy,
		}),
	)
	return batch, nil
}

// DeleteItem reverses an item's opening-stock valuation and synthetic
// production, then removes the item. Items referenced by invoices or real
// production records are refused by the dispatcher.
func (e *Engine) DeleteItem(agg *state.Aggregate, itemID string) (state.Batch, error) {
	if _, ok := agg.Items[itemID]; !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrItemNotFound, itemID)
	}

	var batch state.Batch
	if _, ok := agg.Entries[stockDebitLegID(itemID)]; ok {
		batch = append(batch, state.DeleteEntry(stockDebitLegID(itemID)))
	}
	if _, ok := agg.Entries[stockCreditLegID(itemID)]; ok {
		batch = append(batch, state.DeleteEntry(stockCreditLegID(itemID)))
	}
	prodID := ledger.OpeningStockProductionID(itemID)
	if _, ok := agg.Productions[prodID]; ok {
		batch = append(batch, state.Op{Action: state.ActionDelete, Collection: state.ColProductions, ID: prodID})
	}
	batch = append(batch, state.Op{Action: state.ActionDelete, Collection: state.ColItems, ID: itemID})
	return batch, nil
}
