package posting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

// VehicleChargeInput charges a vehicle fine or running cost back to the
// responsible employee.
type VehicleChargeInput struct {
	EmployeeID  string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CreatedBy   string
}

// PostVehicleCharge increments the employee's advances and books a
// debit/credit pair where BOTH legs hit the general payable account,
// differentiated only by the entity link on the debit leg. The pair
// balances but leaves the account's net unchanged; the books carry the
// charge purely in the employee subsidiary. This mirrors the behavior of
// the system of record and is kept as-is pending product confirmation of
// a dedicated employee-receivable account.
func (e *Engine) PostVehicleCharge(agg *state.Aggregate, in VehicleChargeInput) (state.Batch, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("vehicle charge amount must be positive")
	}
	employee, ok := agg.Parties[in.EmployeeID]
	if !ok || employee.Kind != ledger.KindEmployee {
		return nil, fmt.Errorf("%w: employee %s", ledger.ErrPartyNotFound, in.EmployeeID)
	}
	payable, err := e.chart.RequireRole("payable", e.chart.Roles().Payable)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = e.now()
	}
	desc := in.Description
	if desc == "" {
		desc = fmt.Sprintf("Vehicle charge - %s", employee.Name)
	}
	amount := ledger.ToMinor(in.Amount)
	voucher := "VEH-" + e.newID()

	employee.Advances = employee.Advances.Add(in.Amount)

	return state.Batch{
		state.AddEntry(ledger.JournalEntry{
			ID:          e.newID(),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryExpense,
			Account:     payable.ID,
			Debit:       amount,
			Description: desc,
			EntityID:    employee.ID,
			EntityType:  string(ledger.KindEmployee),
			CreatedBy:   in.CreatedBy,
		}),
		state.AddEntry(ledger.JournalEntry{
			ID:          e.newID(),
			VoucherID:   voucher,
			Date:        date,
			EntryType:   ledger.EntryExpense,
			Account:     payable.ID,
			Credit:      amount,
			Description: desc,
			CreatedBy:   in.CreatedBy,
		}),
		state.UpdateParty(employee),
	}, nil
}
