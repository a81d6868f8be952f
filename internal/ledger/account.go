package ledger

import (
	"fmt"
	"strings"
	"time"
)

type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

var AllAccountTypes = []AccountType{
	TypeAsset,
	TypeLiability,
	TypeEquity,
	TypeRevenue,
	TypeExpense,
}

// Account is a node in the chart of accounts. The ID is a stable string code
// (e.g. "AR-001") and is never renumbered once a posted entry references it.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// NormalBalance returns "Debit" or "Credit" for the account type.
// Assets and Expenses are debit-normal; the rest are credit-normal.
func NormalBalance(t AccountType) string {
	switch t {
	case TypeAsset, TypeExpense:
		return "Debit"
	default:
		return "Credit"
	}
}

// TypeLabel returns a human-readable label for an account type.
func TypeLabel(t AccountType) string {
	switch t {
	case TypeAsset:
		return "Assets"
	case TypeLiability:
		return "Liabilities"
	case TypeEquity:
		return "Equity"
	case TypeRevenue:
		return "Revenue"
	case TypeExpense:
		return "Expenses"
	default:
		return string(t)
	}
}

func ValidAccountType(t AccountType) bool {
	for _, a := range AllAccountTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Validate checks account invariants.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrInvalidAccountID
	}
	if !ValidAccountType(a.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	if a.Name == "" {
		return fmt.Errorf("account name is required")
	}
	return nil
}
