package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// SalaryPaymentInput pays an employee's salary from a cash or bank party.
type SalaryPaymentInput struct {
	EmployeeID    string
	FromAccountID string // own account of a cash/bank party
	Gross         decimal.Decimal
	Date          time.Time
	CreatedBy     string
}

// PostSalaryPayment books gross salary as expense, recovers outstanding
// advances against the payable, and pays the net from cash/bank, all
// under one Payment voucher.
func (e *Engine) PostSalaryPayment(agg *state.Aggregate, in SalaryPaymentInput) (state.Batch, error) {
	if !in.Gross.IsPositive() {
		return nil, fmt.Errorf("salary amount must be positive")
	}
	employee, ok := agg.Parties[in.EmployeeID]
	if !ok || employee.Kind != ledger.KindEmployee {
		return nil, fmt.Errorf("%w: employee %s", ledger.ErrPartyNotFound, in.EmployeeID)
	}
	roles := e.chart.Roles()
	salaryExp, err := e.chart.RequireRole("salary_expense", roles.SalaryExp)
	if err != nil {
		return nil, err
	}
	payable, err := e.chart.RequireRole("payable", roles.Payable)
	if err != nil {
		return nil, err
	}
	cash, err := e.chart.ResolveAccount(in.FromAccountID)
	if err != nil {
		return nil, err
	}

	recovered := decimal.Min(employee.Advances, in.Gross)
	if recovered.IsNegative() {
		recovered = decimal.Zero
	}

	date := in.Date
	if date.IsZero() {
		date = e.now()
	}
	desc := fmt.Sprintf("Salary payment - %s", employee.Name)
	voucher := "SAL-" + e.newID()

	grossMinor := ledger.ToMinor(in.Gross)
	recoveredMinor := ledger.ToMinor(recovered)
	netMinor := grossMinor - recoveredMinor

	batch := state.Batch{state.AddEntry(ledger.JournalEntry{
		ID:          e.newID(),
		VoucherID:   voucher,
		Date:        date,
		EntryType:   ledger.EntryPayment,
		Account:     salaryExp.ID,
		Debit:       grossMinor,
		Description: desc,
		CreatedBy:   in.CreatedBy,
	})}
	if recoveredMinor > 0 {
		batch = append(batch, state.AddEntry(ledger.JournalEntry{
			ID:          e.newID(),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryPayment,
			Account:     payable.ID,
			Credit:      recoveredMinor,
			Description: fmt.Sprintf("Advance recovery - %s", employee.Name),
			EntityID:    employee.ID,
			EntityType:  string(ledger.KindEmployee),
			CreatedBy:   in.CreatedBy,
		}))
	}
	if netMinor > 0 {
		batch = append(batch, state.AddEntry(ledger.JournalEntry{
			ID:          e.newID(),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryPayment,
			Account:     cash.ID,
			Credit:      netMinor,
			Description: desc,
			CreatedBy:   in.CreatedBy,
		}))
	}

	employee.Advances = employee.Advances.Sub(recovered)
	batch = append(batch, state.UpdateParty(employee))
	return batch, nil
}
