package ledger

import "errors"

var (
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrMissingRoleAccount = errors.New("reserved account missing from chart of accounts")
	ErrInvalidCurrency    = errors.New("invalid or unsupported currency code")
	ErrInvalidRate        = errors.New("line item rate must be positive")
	ErrInvalidEntryType   = errors.New("invalid voucher entry type")
	ErrOneSidedLeg        = errors.New("journal leg must have exactly one of debit or credit")
	ErrUnbalancedVoucher  = errors.New("voucher legs do not balance")
	ErrEntryNotFound      = errors.New("journal entry not found")
	ErrPartyNotFound      = errors.New("party not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvoiceNotFound    = errors.New("sales invoice not found")
	ErrAlreadyPosted      = errors.New("sales invoice already posted")
	ErrAgentRequired      = errors.New("commission requires a commission agent")
	ErrPartyReferenced    = errors.New("party is referenced by transactional records")
	ErrItemReferenced     = errors.New("item is referenced by transactional records")
	ErrStaleSnapshot      = errors.New("snapshot is not newer than local state")
	ErrUnknownCollection  = errors.New("unknown collection")
	ErrInvalidAction      = errors.New("invalid command action")
)
