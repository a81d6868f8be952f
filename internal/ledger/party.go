package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PartyKind enumerates the balance-bearing entity kinds that can carry an
// opening balance and appear as the entity link on journal legs.
type PartyKind string

const (
	KindCustomer          PartyKind = "Customer"
	KindSupplier          PartyKind = "Supplier"
	KindVendor            PartyKind = "Vendor"
	KindCommissionAgent   PartyKind = "CommissionAgent"
	KindFreightForwarder  PartyKind = "FreightForwarder"
	KindClearingAgent     PartyKind = "ClearingAgent"
	KindEmployee          PartyKind = "Employee"
	KindBank              PartyKind = "Bank"
	KindCashAccount       PartyKind = "CashAccount"
	KindLoanAccount       PartyKind = "LoanAccount"
	KindCapitalAccount    PartyKind = "CapitalAccount"
	KindInvestmentAccount PartyKind = "InvestmentAccount"
	KindExpenseAccount    PartyKind = "ExpenseAccount"
)

var AllPartyKinds = []PartyKind{
	KindCustomer, KindSupplier, KindVendor, KindCommissionAgent,
	KindFreightForwarder, KindClearingAgent, KindEmployee, KindBank,
	KindCashAccount, KindLoanAccount, KindCapitalAccount,
	KindInvestmentAccount, KindExpenseAccount,
}

func ValidPartyKind(k PartyKind) bool {
	for _, p := range AllPartyKinds {
		if p == k {
			return true
		}
	}
	return false
}

// BalanceClass groups party kinds by how their opening balance posts.
type BalanceClass int

const (
	ClassReceivable BalanceClass = iota // customer: AR vs equity plug
	ClassPayable                        // supplier-like: AP vs equity plug
	ClassAsset                          // bank/cash/investment/prepaid: own account vs equity plug
	ClassLiability                      // loan/capital: own account vs equity plug, sides flipped
)

// ClassOf returns the opening-balance class for a party kind.
func ClassOf(k PartyKind) BalanceClass {
	switch k {
	case KindCustomer:
		return ClassReceivable
	case KindSupplier, KindVendor, KindCommissionAgent, KindFreightForwarder,
		KindClearingAgent, KindEmployee:
		return ClassPayable
	case KindBank, KindCashAccount, KindInvestmentAccount, KindExpenseAccount:
		return ClassAsset
	default:
		return ClassLiability
	}
}

// Party is a balance-bearing entity: customer, supplier, agent, employee,
// or a named internal account (bank, cash, loan, capital, ...).
// Asset- and liability-class parties own a ledger account of their own
// (AccountID); receivable/payable parties post through the canonical
// AR/AP accounts with an entity link.
type Party struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Kind            PartyKind       `json:"kind"`
	Currency        string          `json:"currency,omitempty"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	AccountID       string          `json:"account_id,omitempty"`
	Advances        decimal.Decimal `json:"advances"` // employees: outstanding advance balance
	CreatedAt       time.Time       `json:"created_at,omitempty"`
}

// Validate checks party invariants.
func (p *Party) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("party id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("party %s: name is required", p.ID)
	}
	if !ValidPartyKind(p.Kind) {
		return fmt.Errorf("party %s: unknown kind %q", p.ID, p.Kind)
	}
	if p.Currency != "" && !ValidCurrency(p.Currency) {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, p.Currency)
	}
	switch ClassOf(p.Kind) {
	case ClassAsset, ClassLiability:
		if p.AccountID == "" {
			return fmt.Errorf("party %s: %s parties require an own account id", p.ID, p.Kind)
		}
	}
	return nil
}

// SelfForwarder is the placeholder freight-forwarder ID meaning the
// business ships on its own trucks: no payable leg is raised for freight.
const SelfForwarder = "SELF"

// CanonicalAccountID is the account a party's subsidiary balance is
// evaluated against: AR for customers, the payable accounts for
// supplier-like kinds, the party's own account otherwise.
func CanonicalAccountID(roles Roles, p Party) string {
	switch ClassOf(p.Kind) {
	case ClassReceivable:
		return roles.Receivable
	case ClassPayable:
		if p.Kind == KindVendor {
			return roles.PayableVendor
		}
		return roles.Payable
	default:
		return p.AccountID
	}
}
