package ledger

import (
	"fmt"
	"sort"
)

// Reserved account IDs the posting rules depend on. They are resolved by
// role through the Roles struct so the engine can run against a fixture
// chart in tests.
const (
	AccountReceivable      = "AR-001"
	AccountPayable         = "AP-001"
	AccountPayableVendor   = "AP-002"
	AccountPayableCustoms  = "AP-CUST"
	AccountRevenue         = "REV-001"
	AccountFinishedGoods   = "INV-FG-001"
	AccountEquityPlug      = "CAP-002"
	AccountCOGS            = "EXP-COGS"
	AccountCommissionExp   = "EXP-COM"
	AccountRawMaterialExp  = "EXP-RAW"
	AccountVehicleExp      = "EXP-VEH"
	AccountSalaryExp       = "EXP-SAL"
	AccountFreightExp      = "EXP-FRT"
)

// Roles maps the posting engine's account roles onto concrete account IDs.
type Roles struct {
	Receivable     string `json:"receivable"`
	Payable        string `json:"payable"`
	PayableVendor  string `json:"payable_vendor"`
	PayableCustoms string `json:"payable_customs"`
	Revenue        string `json:"revenue"`
	FinishedGoods  string `json:"finished_goods"`
	EquityPlug     string `json:"equity_plug"`
	COGS           string `json:"cogs"`
	CommissionExp  string `json:"commission_expense"`
	RawMaterialExp string `json:"raw_material_expense"`
	VehicleExp     string `json:"vehicle_expense"`
	SalaryExp      string `json:"salary_expense"`
	FreightExp     string `json:"freight_expense"`
}

// DefaultRoles binds roles to the reserved IDs of the default chart.
func DefaultRoles() Roles {
	return Roles{
		Receivable:     AccountReceivable,
		Payable:        AccountPayable,
		PayableVendor:  AccountPayableVendor,
		PayableCustoms: AccountPayableCustoms,
		Revenue:        AccountRevenue,
		FinishedGoods:  AccountFinishedGoods,
		EquityPlug:     AccountEquityPlug,
		COGS:           AccountCOGS,
		CommissionExp:  AccountCommissionExp,
		RawMaterialExp: AccountRawMaterialExp,
		VehicleExp:     AccountVehicleExp,
		SalaryExp:      AccountSalaryExp,
		FreightExp:     AccountFreightExp,
	}
}

// DefaultChart is the stock chart of accounts for a trading business.
var DefaultChart = []Account{
	// Assets
	{ID: AccountReceivable, Name: "Accounts Receivable", Type: TypeAsset},
	{ID: AccountFinishedGoods, Name: "Finished Goods Inventory", Type: TypeAsset},
	{ID: "CASH-001", Name: "Cash in Hand", Type: TypeAsset},
	{ID: "BANK-001", Name: "Bank", Type: TypeAsset},

	// Liabilities
	{ID: AccountPayable, Name: "Accounts Payable", Type: TypeLiability},
	{ID: AccountPayableVendor, Name: "Vendor Payable", Type: TypeLiability},
	{ID: AccountPayableCustoms, Name: "Customs Duty Payable", Type: TypeLiability},
	{ID: "LOAN-001", Name: "Loans Payable", Type: TypeLiability},

	// Equity
	{ID: "CAP-001", Name: "Owner Capital", Type: TypeEquity},
	{ID: AccountEquityPlug, Name: "Opening Balance Equity", Type: TypeEquity},

	// Revenue
	{ID: AccountRevenue, Name: "Sales Revenue", Type: TypeRevenue},

	// Expenses
	{ID: AccountCOGS, Name: "Cost of Goods Sold", Type: TypeExpense},
	{ID: AccountCommissionExp, Name: "Commission Expense", Type: TypeExpense},
	{ID: AccountRawMaterialExp, Name: "Raw Material Purchases", Type: TypeExpense},
	{ID: AccountVehicleExp, Name: "Vehicle Running Expense", Type: TypeExpense},
	{ID: AccountSalaryExp, Name: "Salaries and Wages", Type: TypeExpense},
	{ID: AccountFreightExp, Name: "Freight and Shipping", Type: TypeExpense},
}

// Chart is the chart of accounts registry. Accounts are immutable once a
// posted entry references them; deletion is refused by the dispatcher when
// non-opening-balance entries exist against the account.
type Chart struct {
	roles    Roles
	accounts map[string]Account
}

// NewChart builds a registry from a list of accounts.
func NewChart(roles Roles, accounts []Account) (*Chart, error) {
	c := &Chart{roles: roles, accounts: make(map[string]Account, len(accounts))}
	for _, a := range accounts {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.accounts[a.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, a.ID)
		}
		c.accounts[a.ID] = a
	}
	return c, nil
}

// NewDefaultChart builds the registry over DefaultChart with DefaultRoles.
func NewDefaultChart() *Chart {
	c, err := NewChart(DefaultRoles(), DefaultChart)
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return c
}

func (c *Chart) Roles() Roles { return c.roles }

// ResolveAccount looks up an account by ID.
func (c *Chart) ResolveAccount(id string) (Account, error) {
	a, ok := c.accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return a, nil
}

// RequireRole resolves a role account ID and fails with a configuration
// error when the chart does not contain it. Posting must never silently
// skip a mis-configured role.
func (c *Chart) RequireRole(role, id string) (Account, error) {
	if id == "" {
		return Account{}, fmt.Errorf("%w: role %s is unbound", ErrMissingRoleAccount, role)
	}
	a, ok := c.accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("%w: role %s -> %s", ErrMissingRoleAccount, role, id)
	}
	return a, nil
}

// AccountsOfType returns all accounts of the given type, sorted by ID.
func (c *Chart) AccountsOfType(t AccountType) []Account {
	var out []Account
	for _, a := range c.accounts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Accounts returns every account in the chart, sorted by ID.
func (c *Chart) Accounts() []Account {
	out := make([]Account, 0, len(c.accounts))
	for _, a := range c.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add registers a setup-time account (e.g. the own account of a bank or
// loan party).
func (c *Chart) Add(a Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, ok := c.accounts[a.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, a.ID)
	}
	c.accounts[a.ID] = a
	return nil
}
