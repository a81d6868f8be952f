package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the sales-invoice lifecycle. Unposted -> Posted runs
// the posting rules exactly once; a Posted invoice's rates become
// immutable inputs to ledger entries already written.
type InvoiceStatus string

const (
	StatusUnposted InvoiceStatus = "Unposted"
	StatusPosted   InvoiceStatus = "Posted"
	StatusShipped  InvoiceStatus = "Shipped"
)

// InvoiceLine is one item line on a sales invoice. Rate is per kg in the
// line currency; ConversionRate is the captured base-currency rate.
type InvoiceLine struct {
	ItemID         string          `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Currency       string          `json:"currency,omitempty"`
	ConversionRate decimal.Decimal `json:"conversion_rate,omitempty"`
}

// SalesInvoice is a draft or posted sale.
type SalesInvoice struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customer_id"`
	Date             time.Time       `json:"date"`
	Status           InvoiceStatus   `json:"status"`
	Items            []InvoiceLine   `json:"items"`
	FreightAmount    decimal.Decimal `json:"freight_amount"`
	ForwarderID      string          `json:"forwarder_id,omitempty"`
	CustomCharges    decimal.Decimal `json:"custom_charges"`
	ClearingAgentID  string          `json:"clearing_agent_id,omitempty"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	AgentID          string          `json:"agent_id,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// Validate checks draft invariants. Rate positivity is re-checked at
// posting time so a bad draft cannot slip legs into the ledger.
func (inv *SalesInvoice) Validate() error {
	if inv.ID == "" {
		return fmt.Errorf("invoice id is required")
	}
	if inv.CustomerID == "" {
		return fmt.Errorf("invoice %s: customer is required", inv.ID)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("invoice %s: at least one line item is required", inv.ID)
	}
	if inv.FreightAmount.IsNegative() {
		return fmt.Errorf("invoice %s: freight amount must not be negative", inv.ID)
	}
	if inv.CustomCharges.IsNegative() {
		return fmt.Errorf("invoice %s: custom charges must not be negative", inv.ID)
	}
	if inv.CommissionAmount.IsNegative() {
		return fmt.Errorf("invoice %s: commission amount must not be negative", inv.ID)
	}
	for i, line := range inv.Items {
		if line.ItemID == "" {
			return fmt.Errorf("invoice %s line %d: item is required", inv.ID, i)
		}
		if !line.Quantity.IsPositive() {
			return fmt.Errorf("invoice %s line %d: quantity must be positive", inv.ID, i)
		}
		if line.Currency != "" && !ValidCurrency(line.Currency) {
			return fmt.Errorf("%w: %s", ErrInvalidCurrency, line.Currency)
		}
	}
	return nil
}

// SaleVoucherID and friends are the deterministic voucher IDs produced by
// invoice posting. COGS is always a voucher of its own so inventory relief
// never mixes with the revenue voucher.
func SaleVoucherID(invoiceID string) string       { return "SALE-" + invoiceID }
func CommissionVoucherID(invoiceID string) string { return "COMM-" + invoiceID }
func COGSVoucherID(invoiceID string) string       { return "COGS-" + invoiceID }

// Opening-balance leg IDs are deterministic so a re-save can find and
// replace the previous pair: at most one pair exists per party.
func OpeningDebitLegID(partyID string) string  { return "je-d-ob-" + partyID }
func OpeningCreditLegID(partyID string) string { return "je-c-ob-" + partyID }

// OpeningVoucherID groups the opening pair of one party.
func OpeningVoucherID(partyID string) string { return "OB-" + partyID }
