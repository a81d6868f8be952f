package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loomworks/tradeledger/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrEntryNotFound),
		errors.Is(err, ledger.ErrPartyNotFound),
		errors.Is(err, ledger.ErrItemNotFound),
		errors.Is(err, ledger.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateAccount),
		errors.Is(err, ledger.ErrAlreadyPosted):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrPartyReferenced),
		errors.Is(err, ledger.ErrItemReferenced),
		errors.Is(err, ledger.ErrStaleSnapshot):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrMissingRoleAccount):
		return http.StatusInternalServerError
	case errors.Is(err, ledger.ErrInvalidRate),
		errors.Is(err, ledger.ErrAgentRequired),
		errors.Is(err, ledger.ErrInvalidAccountID),
		errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidCurrency),
		errors.Is(err, ledger.ErrInvalidEntryType),
		errors.Is(err, ledger.ErrOneSidedLeg),
		errors.Is(err, ledger.ErrUnbalancedVoucher),
		errors.Is(err, ledger.ErrUnknownCollection),
		errors.Is(err, ledger.ErrInvalidAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
