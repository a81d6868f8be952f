package state

import "github.com/loomworks/tradeledger/internal/ledger"

// Counters holds one monotonic voucher-number counter per entry type.
// Each stored value is the number the next voucher of that type will get.
type Counters struct {
	NextReceiptVoucherNumber int64 `json:"next_receipt_voucher_number"`
	NextPaymentVoucherNumber int64 `json:"next_payment_voucher_number"`
	NextExpenseVoucherNumber int64 `json:"next_expense_voucher_number"`
	NextJournalVoucherNumber int64 `json:"next_journal_voucher_number"`
}

func NewCounters() Counters {
	return Counters{
		NextReceiptVoucherNumber: 1,
		NextPaymentVoucherNumber: 1,
		NextExpenseVoucherNumber: 1,
		NextJournalVoucherNumber: 1,
	}
}

// Peek returns the number the next voucher of the type will receive.
func (c *Counters) Peek(t ledger.EntryType) int64 {
	switch t {
	case ledger.EntryReceipt:
		return c.NextReceiptVoucherNumber
	case ledger.EntryPayment:
		return c.NextPaymentVoucherNumber
	case ledger.EntryExpense:
		return c.NextExpenseVoucherNumber
	default:
		return c.NextJournalVoucherNumber
	}
}

// next assigns and advances the counter for the type. The dispatcher calls
// this exactly once per distinct voucherId, the first time any leg with
// that voucherId is added; later legs of the same voucher reuse the number.
func (c *Counters) next(t ledger.EntryType) int64 {
	switch t {
	case ledger.EntryReceipt:
		n := c.NextReceiptVoucherNumber
		c.NextReceiptVoucherNumber++
		return n
	case ledger.EntryPayment:
		n := c.NextPaymentVoucherNumber
		c.NextPaymentVoucherNumber++
		return n
	case ledger.EntryExpense:
		n := c.NextExpenseVoucherNumber
		c.NextExpenseVoucherNumber++
		return n
	default:
		n := c.NextJournalVoucherNumber
		c.NextJournalVoucherNumber++
		return n
	}
}
