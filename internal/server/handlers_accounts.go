package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/report"
	"github.com/loomworks/tradeledger/internal/state"
)

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	chart := s.disp.Chart()
	if t := r.URL.Query().Get("type"); t != "" {
		writeJSON(w, http.StatusOK, chart.AccountsOfType(ledger.AccountType(t)))
		return
	}
	writeJSON(w, http.StatusOK, chart.Accounts())
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.disp.Chart().ResolveAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Display   string `json:"display"`
}

func (s *Server) getAccountBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	acct, err := s.disp.Chart().ResolveAccount(id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	var balance int64
	s.disp.View(func(agg *state.Aggregate) {
		balance = report.AccountBalance(agg, acct.ID)
	})
	writeJSON(w, http.StatusOK, balanceResponse{
		AccountID: acct.ID,
		Balance:   balance,
		Display:   ledger.FormatMinor(balance),
	})
}

func (s *Server) listAccountEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.disp.Chart().ResolveAccount(id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	entries := []ledger.JournalEntry{}
	s.disp.View(func(agg *state.Aggregate) {
		entries = append(entries, agg.EntriesForAccount(id)...)
	})
	writeJSON(w, http.StatusOK, entries)
}
