package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a voucher. Each type has its own monotonic
// voucher-number counter.
type EntryType string

const (
	EntryReceipt EntryType = "Receipt"
	EntryPayment EntryType = "Payment"
	EntryExpense EntryType = "Expense"
	EntryJournal EntryType = "Journal"
)

var AllEntryTypes = []EntryType{EntryReceipt, EntryPayment, EntryExpense, EntryJournal}

func ValidEntryType(t EntryType) bool {
	for _, e := range AllEntryTypes {
		if e == t {
			return true
		}
	}
	return false
}

// VoucherPrefix is the short code used in human-readable voucher numbers,
// e.g. "JV-17" for the 17th Journal voucher.
func VoucherPrefix(t EntryType) string {
	switch t {
	case EntryReceipt:
		return "RV"
	case EntryPayment:
		return "PV"
	case EntryExpense:
		return "EV"
	default:
		return "JV"
	}
}

// OriginalAmount preserves a foreign-currency face amount for audit and
// display. Ledger legs always store the converted base-currency amount.
type OriginalAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// JournalEntry is one debit-or-credit leg. Legs sharing a VoucherID form
// one voucher and must balance; exactly one of Debit/Credit is non-zero,
// both in base-currency minor units.
type JournalEntry struct {
	ID             string          `json:"id"`
	VoucherID      string          `json:"voucher_id"`
	VoucherNo      int64           `json:"voucher_no,omitempty"`
	Date           time.Time       `json:"date"`
	EntryType      EntryType       `json:"entry_type"`
	Account        string          `json:"account"`
	Debit          int64           `json:"debit"`
	Credit         int64           `json:"credit"`
	Description    string          `json:"description"`
	EntityID       string          `json:"entity_id,omitempty"`
	EntityType     string          `json:"entity_type,omitempty"`
	OriginalAmount *OriginalAmount `json:"original_amount,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// Validate checks single-leg invariants.
func (e *JournalEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("journal entry id is required")
	}
	if e.VoucherID == "" {
		return fmt.Errorf("journal entry %s: voucher id is required", e.ID)
	}
	if !ValidEntryType(e.EntryType) {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, e.EntryType)
	}
	if e.Account == "" {
		return fmt.Errorf("journal entry %s: account is required", e.ID)
	}
	if (e.Debit == 0) == (e.Credit == 0) {
		return fmt.Errorf("%w: entry %s has debit=%d credit=%d", ErrOneSidedLeg, e.ID, e.Debit, e.Credit)
	}
	if e.Debit < 0 || e.Credit < 0 {
		return fmt.Errorf("%w: entry %s has a negative side", ErrOneSidedLeg, e.ID)
	}
	return nil
}

// VoucherTotals sums debits and credits per voucher across a set of legs.
func VoucherTotals(entries []JournalEntry) map[string][2]int64 {
	totals := make(map[string][2]int64)
	for _, e := range entries {
		t := totals[e.VoucherID]
		t[0] += e.Debit
		t[1] += e.Credit
		totals[e.VoucherID] = t
	}
	return totals
}

// CheckVouchersBalanced verifies sum(debit) == sum(credit) for every
// voucher present in the set. Exact integer comparison; amounts are
// already rounded to the transaction currency.
func CheckVouchersBalanced(entries []JournalEntry) error {
	for vid, t := range VoucherTotals(entries) {
		if t[0] != t[1] {
			return fmt.Errorf("%w: voucher %s debits=%d credits=%d", ErrUnbalancedVoucher, vid, t[0], t[1])
		}
	}
	return nil
}
