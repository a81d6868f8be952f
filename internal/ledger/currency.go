package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the reporting currency. All ledger legs are stored in
// base-currency minor units; foreign amounts are preserved alongside in
// OriginalAmount for audit.
const BaseCurrency = "USD"

type CurrencyDef struct {
	Code        string
	Name        string
	DefaultRate decimal.Decimal // one unit in base currency; UI default only
}

var Currencies = map[string]CurrencyDef{
	"USD": {Code: "USD", Name: "US Dollar", DefaultRate: decimal.NewFromInt(1)},
	"AED": {Code: "AED", Name: "UAE Dirham", DefaultRate: decimal.RequireFromString("0.2725")},
	"PKR": {Code: "PKR", Name: "Pakistani Rupee", DefaultRate: decimal.RequireFromString("0.0036")},
	"AFN": {Code: "AFN", Name: "Afghani", DefaultRate: decimal.RequireFromString("0.0142")},
	"EUR": {Code: "EUR", Name: "Euro", DefaultRate: decimal.RequireFromString("1.08")},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", DefaultRate: decimal.RequireFromString("0.14")},
}

func ValidCurrency(code string) bool {
	_, ok := Currencies[code]
	return ok
}

// DefaultRate returns the static default conversion rate for a currency.
// Postings always use the rate captured at transaction time, never this
// table; it exists only to pre-fill forms.
func DefaultRate(code string) (decimal.Decimal, error) {
	cur, ok := Currencies[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	return cur.DefaultRate, nil
}

// ToBase converts an amount to the base currency using the captured
// per-transaction rate. Base-currency amounts pass through untouched.
func ToBase(amount decimal.Decimal, currency string, rate decimal.Decimal) decimal.Decimal {
	if currency == "" || currency == BaseCurrency {
		return amount
	}
	return amount.Mul(rate)
}

// ToMinor rounds a base-currency amount to cents and returns minor units.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// FromMinor converts minor units back to a decimal amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// FormatMinor renders minor units as a display string, e.g. 150000 -> "1500.00".
func FormatMinor(minor int64) string {
	return FromMinor(minor).StringFixed(2)
}

// CurrencyCodes returns the supported currency codes, sorted.
func CurrencyCodes() []string {
	codes := make([]string, 0, len(Currencies))
	for code := range Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
