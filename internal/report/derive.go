// Package report derives balances and stock from the full aggregate.
// Everything here is a pure fold over the collections: no caching, no
// dependence on insertion order, no mutation.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// AccountBalance is sum(debit) - sum(credit) over every leg against the
// account, in base-currency minor units. The sign convention for
// credit-natured accounts flips at the presentation layer, not here.
func AccountBalance(agg *state.Aggregate, accountID string) int64 {
	var balance int64
	for _, e := range agg.Entries {
		if e.Account == accountID {
			balance += e.Debit - e.Credit
		}
	}
	return balance
}

// EntityBalance is sum(debit) - sum(credit) over the party's entity-linked
// legs, evaluated against the party's canonical subsidiary account.
func EntityBalance(agg *state.Aggregate, roles ledger.Roles, party ledger.Party) int64 {
	canonical := ledger.CanonicalAccountID(roles, party)
	var balance int64
	for _, e := range agg.Entries {
		if e.EntityID == party.ID && e.Account == canonical {
			balance += e.Debit - e.Credit
		}
	}
	return balance
}

// ItemStock is units produced minus units sold on non-Unposted invoices.
// Stock is always derived, never stored.
func ItemStock(agg *state.Aggregate, itemID string) decimal.Decimal {
	stock := decimal.Zero
	for _, p := range agg.Productions {
		if p.ItemID == itemID {
			stock = stock.Add(p.QuantityProduced)
		}
	}
	for _, inv := range agg.Invoices {
		if inv.Status == ledger.StatusUnposted {
			continue
		}
		for _, line := range inv.Items {
			if line.ItemID == itemID {
				stock = stock.Sub(line.Quantity)
			}
		}
	}
	return stock
}

// StockWeightKg normalizes an item's stock to kilograms.
func StockWeightKg(agg *state.Aggregate, item ledger.Item) decimal.Decimal {
	return ItemStock(agg, item.ID).Mul(item.UnitWeightKg())
}
