package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// PostSalesInvoice turns an Unposted invoice into ledger fact:
//
//	Debit  AR        total invoice value        (entity = customer)
//	Credit REV       item value (+ own freight)
//	Credit AP        freight                    (entity = forwarder, if real)
//	Credit AP-CUST   customs
//
// plus, under separate vouchers, the commission split (Dr commission
// expense / Cr AP, entity = agent) and COGS relief (Dr COGS / Cr finished
// goods, voucher COGS-{invoiceID}). The invoice flips to Posted in the
// same batch. Posting an already-Posted invoice fails.
func (e *Engine) PostSalesInvoice(agg *state.Aggregate, invoiceID, postedBy string) (state.Batch, error) {
	inv, ok := agg.Invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrInvoiceNotFound, invoiceID)
	}
	if inv.Status != ledger.StatusUnposted {
		return nil, fmt.Errorf("%w: %s is %s", ledger.ErrAlreadyPosted, inv.ID, inv.Status)
	}
	customer, ok := agg.Parties[inv.CustomerID]
	if !ok || customer.Kind != ledger.KindCustomer {
		return nil, fmt.Errorf("%w: customer %s", ledger.ErrPartyNotFound, inv.CustomerID)
	}

	roles := e.chart.Roles()
	receivable, err := e.chart.RequireRole("receivable", roles.Receivable)
	if err != nil {
		return nil, err
	}
	revenue, err := e.chart.RequireRole("revenue", roles.Revenue)
	if err != nil {
		return nil, err
	}
	finishedGoods, err := e.chart.RequireRole("finished_goods", roles.FinishedGoods)
	if err != nil {
		return nil, err
	}
	cogsAcct, err := e.chart.RequireRole("cogs", roles.COGS)
	if err != nil {
		return nil, err
	}
	payable, err := e.chart.RequireRole("payable", roles.Payable)
	if err != nil {
		return nil, err
	}

	var itemValue, cogs decimal.Decimal
	original := newOriginalTracker()
	for i, line := range inv.Items {
		if !line.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: invoice %s line %d", ledger.ErrInvalidRate, inv.ID, i)
		}
		item, ok := agg.Items[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ledger.ErrItemNotFound, line.ItemID)
		}
		totalKg := line.Quantity.Mul(item.UnitWeightKg())
		face := totalKg.Mul(line.Rate)
		itemValue = itemValue.Add(ledger.ToBase(face, line.Currency, line.ConversionRate))
		cogs = cogs.Add(totalKg.Mul(item.AvgProductionPrice))
		original.add(face, line.Currency)
	}

	// Credits are rounded individually; the AR debit is their sum, so the
	// sale voucher balances by construction.
	itemMinor := ledger.ToMinor(itemValue)
	freightMinor := ledger.ToMinor(inv.FreightAmount)
	customsMinor := ledger.ToMinor(inv.CustomCharges)

	// Freight billed to the customer is a payable to the forwarder when a
	// real forwarder carries it; self-carried freight stays in revenue.
	realForwarder := ""
	if freightMinor > 0 && inv.ForwarderID != "" && inv.ForwarderID != ledger.SelfForwarder {
		fwd, ok := agg.Parties[inv.ForwarderID]
		if !ok || fwd.Kind != ledger.KindFreightForwarder {
			return nil, fmt.Errorf("%w: forwarder %s", ledger.ErrPartyNotFound, inv.ForwarderID)
		}
		realForwarder = fwd.ID
	}
	revenueMinor := itemMinor
	if freightMinor > 0 && realForwarder == "" {
		revenueMinor += freightMinor
	}
	totalMinor := itemMinor + freightMinor + customsMinor

	date := inv.Date
	if date.IsZero() {
		date = e.now()
	}

	saleVoucher := ledger.SaleVoucherID(inv.ID)
	desc := fmt.Sprintf("Sales invoice %s - %s", inv.ID, customer.Name)
	var batch state.Batch

	ar := e.leg(saleVoucher, date, receivable.ID, desc, postedBy)
	ar.Debit = totalMinor
	ar.EntityID = customer.ID
	ar.EntityType = string(ledger.KindCustomer)
	ar.OriginalAmount = original.amount()
	batch = append(batch, state.AddEntry(ar))

	rev := e.leg(saleVoucher, date, revenue.ID, desc, postedBy)
	rev.Credit = revenueMinor
	rev.OriginalAmount = original.amount()
	batch = append(batch, state.AddEntry(rev))

	if freightMinor > 0 && realForwarder != "" {
		frt := e.leg(saleVoucher, date, payable.ID, fmt.Sprintf("Freight on invoice %s", inv.ID), postedBy)
		frt.Credit = freightMinor
		frt.EntityID = realForwarder
		frt.EntityType = string(ledger.KindFreightForwarder)
		batch = append(batch, state.AddEntry(frt))
	}

	if customsMinor > 0 {
		customs, err := e.chart.RequireRole("payable_customs", roles.PayableCustoms)
		if err != nil {
			return nil, err
		}
		cst := e.leg(saleVoucher, date, customs.ID, fmt.Sprintf("Customs on invoice %s", inv.ID), postedBy)
		cst.Credit = customsMinor
		if inv.ClearingAgentID != "" {
			cst.EntityID = inv.ClearingAgentID
			cst.EntityType = string(ledger.KindClearingAgent)
		}
		batch = append(batch, state.AddEntry(cst))
	}

	// Commission runs under its own voucher so the sale voucher stays a
	// pure customer-facing document. A commission with no agent cannot be
	// booked anywhere; refuse rather than drop the legs.
	commissionMinor := ledger.ToMinor(inv.CommissionAmount)
	if commissionMinor > 0 {
		if inv.AgentID == "" {
			return nil, fmt.Errorf("%w: invoice %s carries commission %s", ledger.ErrAgentRequired, inv.ID, inv.CommissionAmount.StringFixed(2))
		}
		agent, ok := agg.Parties[inv.AgentID]
		if !ok || agent.Kind != ledger.KindCommissionAgent {
			return nil, fmt.Errorf("%w: commission agent %s", ledger.ErrPartyNotFound, inv.AgentID)
		}
		commExp, err := e.chart.RequireRole("commission_expense", roles.CommissionExp)
		if err != nil {
			return nil, err
		}
		commVoucher := ledger.CommissionVoucherID(inv.ID)
		commDesc := fmt.Sprintf("Commission on invoice %s - %s", inv.ID, agent.Name)

		d := e.leg(commVoucher, date, commExp.ID, commDesc, postedBy)
		d.Debit = commissionMinor
		batch = append(batch, state.AddEntry(d))

		c := e.leg(commVoucher, date, payable.ID, commDesc, postedBy)
		c.Credit = commissionMinor
		c.EntityID = agent.ID
		c.EntityType = string(ledger.KindCommissionAgent)
		batch = append(batch, state.AddEntry(c))
	}

	cogsMinor := ledger.ToMinor(cogs)
	if cogsMinor > 0 {
		cogsVoucher := ledger.COGSVoucherID(inv.ID)
		cogsDesc := fmt.Sprintf("COGS for invoice %s", inv.ID)

		d := e.leg(cogsVoucher, date, cogsAcct.ID, cogsDesc, postedBy)
		d.Debit = cogsMinor
		batch = append(batch, state.AddEntry(d))

		c := e.leg(cogsVoucher, date, finishedGoods.ID, cogsDesc, postedBy)
		c.Credit = cogsMinor
		batch = append(batch, state.AddEntry(c))
	}

	inv.Status = ledger.StatusPosted
	batch = append(batch, state.UpdateInvoice(inv))
	return batch, nil
}

func (e *Engine) leg(voucherID string, date time.Time, account, desc, createdBy string) ledger.JournalEntry {
	return ledger.JournalEntry{
		ID:          e.newID(),
		VoucherID:   voucherID,
		Date:        date,
		EntryType:   ledger.EntryJournal,
		Account:     account,
		Description: desc,
		CreatedBy:   createdBy,
	}
}

// originalTracker accumulates the foreign-currency face value of an
// invoice. The audit trail keeps the original only when every line shares
// one foreign currency; mixed-currency invoices store base amounts alone.
type originalTracker struct {
	currency string
	total    decimal.Decimal
	mixed    bool
}

func newOriginalTracker() *originalTracker {
	return &originalTracker{}
}

func (t *originalTracker) add(face decimal.Decimal, currency string) {
	if currency == "" || currency == ledger.BaseCurrency {
		t.mixed = true
		return
	}
	if t.currency == "" {
		t.currency = currency
	} else if t.currency != currency {
		t.mixed = true
	}
	t.total = t.total.Add(face)
}

func (t *originalTracker) amount() *ledger.OriginalAmount {
	if t.mixed || t.currency == "" {
		return nil
	}
	return &ledger.OriginalAmount{Amount: t.total, Currency: t.currency}
}
