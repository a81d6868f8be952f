package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PackingType describes how an item is packed; all but Kg carry a unit
// weight (BaleSize) used to normalize quantities to kilograms.
type PackingType string

const (
	PackBales PackingType = "Bales"
	PackSacks PackingType = "Sacks"
	PackKg    PackingType = "Kg"
	PackBox   PackingType = "Box"
	PackBags  PackingType = "Bags"
)

var AllPackingTypes = []PackingType{PackBales, PackSacks, PackKg, PackBox, PackBags}

func ValidPackingType(p PackingType) bool {
	for _, t := range AllPackingTypes {
		if t == p {
			return true
		}
	}
	return false
}

// Item is a traded/produced good. Stock-on-hand is derived from the
// production and sales records, never stored here.
type Item struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	PackingType        PackingType     `json:"packing_type"`
	BaleSize           decimal.Decimal `json:"bale_size"`            // unit weight in kg when packed
	AvgProductionPrice decimal.Decimal `json:"avg_production_price"` // base currency per kg
	AvgSalesPrice      decimal.Decimal `json:"avg_sales_price"`      // base currency per kg
	OpeningStock       decimal.Decimal `json:"opening_stock"`
	CreatedAt          time.Time       `json:"created_at,omitempty"`
}

// UnitWeightKg returns the weight of one packed unit: 1 for Kg items,
// BaleSize otherwise.
func (i *Item) UnitWeightKg() decimal.Decimal {
	if i.PackingType == PackKg {
		return decimal.NewFromInt(1)
	}
	return i.BaleSize
}

// Validate checks item invariants.
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("item %s: name is required", i.ID)
	}
	if !ValidPackingType(i.PackingType) {
		return fmt.Errorf("item %s: unknown packing type %q", i.ID, i.PackingType)
	}
	if i.PackingType != PackKg && !i.BaleSize.IsPositive() {
		return fmt.Errorf("item %s: packed items require a positive bale size", i.ID)
	}
	return nil
}

// Production records quantity produced of an item. Synthetic records with
// ID "prod_open_stock_{itemID}" carry an item's opening stock.
type Production struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	Date             time.Time       `json:"date"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	Synthetic        bool            `json:"synthetic,omitempty"`
}

// OpeningStockProductionID is the deterministic ID of the synthetic
// production record that carries an item's opening stock.
func OpeningStockProductionID(itemID string) string {
	return "prod_open_stock_" + itemID
}

// OriginalPurchase is a raw-material purchase row created by the bulk
// import; each row posts a Journal voucher against raw-material expense.
type OriginalPurchase struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Date       time.Time       `json:"date"`
	Quantity   decimal.Decimal `json:"quantity"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Rate       decimal.Decimal `json:"rate,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}
