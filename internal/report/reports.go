package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// TrialBalanceLine is one account's net position.
type TrialBalanceLine struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
}

type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  int64              `json:"total_debit"`
	TotalCredit int64              `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// BuildTrialBalance folds every ledger leg into per-account net positions.
func BuildTrialBalance(agg *state.Aggregate, chart *ledger.Chart) *TrialBalance {
	tb := &TrialBalance{GeneratedAt: time.Now().UTC()}
	for _, acct := range chart.Accounts() {
		balance := AccountBalance(agg, acct.ID)
		if balance == 0 {
			continue
		}
		line := TrialBalanceLine{AccountID: acct.ID, AccountName: acct.Name}
		if balance > 0 {
			line.Debit = balance
			tb.TotalDebit += balance
		} else {
			line.Credit = -balance
			tb.TotalCredit += -balance
		}
		tb.Lines = append(tb.Lines, line)
	}
	tb.Balanced = tb.TotalDebit == tb.TotalCredit
	return tb
}

// PartyBalanceLine is one party's subsidiary balance. Positive means the
// party owes us; negative means we owe the party.
type PartyBalanceLine struct {
	PartyID   string           `json:"party_id"`
	PartyName string           `json:"party_name"`
	Kind      ledger.PartyKind `json:"kind"`
	Balance   int64            `json:"balance"`
}

// PartyBalances derives subsidiary balances for every party of the given
// kinds (all kinds when none given), sorted by party ID.
func PartyBalances(agg *state.Aggregate, roles ledger.Roles, kinds ...ledger.PartyKind) []PartyBalanceLine {
	want := make(map[ledger.PartyKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []PartyBalanceLine
	for _, p := range agg.Parties {
		if len(want) > 0 && !want[p.Kind] {
			continue
		}
		out = append(out, PartyBalanceLine{
			PartyID:   p.ID,
			PartyName: p.Name,
			Kind:      p.Kind,
			Balance:   EntityBalance(agg, roles, p),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartyID < out[j].PartyID })
	return out
}

// StockLine is one item's derived stock position.
type StockLine struct {
	ItemID      string             `json:"item_id"`
	ItemName    string             `json:"item_name"`
	PackingType ledger.PackingType `json:"packing_type"`
	Stock       decimal.Decimal    `json:"stock"`
	WeightKg    decimal.Decimal    `json:"weight_kg"`
}

// StockOnHand derives stock for every item, sorted by item ID.
func StockOnHand(agg *state.Aggregate) []StockLine {
	var out []StockLine
	for _, item := range agg.Items {
		out = append(out, StockLine{
			ItemID:      item.ID,
			ItemName:    item.Name,
			PackingType: item.PackingType,
			Stock:       ItemStock(agg, item.ID),
			WeightKg:    StockWeightKg(agg, item),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}
