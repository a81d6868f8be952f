package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/posting"
	"github.com/loomworks/tradeledger/internal/report"
	"github.com/loomworks/tradeledger/internal/state"
)

func (s *Server) listParties(w http.ResponseWriter, r *http.Request) {
	kind := ledger.PartyKind(r.URL.Query().Get("kind"))
	parties := []ledger.Party{}
	s.disp.View(func(agg *state.Aggregate) {
		for _, p := range agg.Parties {
			if kind != "" && p.Kind != kind {
				continue
			}
			parties = append(parties, p)
		}
	})
	sort.Slice(parties, func(i, j int) bool { return parties[i].ID < parties[j].ID })
	writeJSON(w, http.StatusOK, parties)
}

func (s *Server) getParty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var party ledger.Party
	found := false
	s.disp.View(func(agg *state.Aggregate) {
		party, found = agg.Parties[id]
	})
	if !found {
		writeError(w, http.StatusNotFound, ledger.ErrPartyNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (s *Server) getPartyBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	roles := s.disp.Chart().Roles()

	var balance int64
	found := false
	s.disp.View(func(agg *state.Aggregate) {
		var party ledger.Party
		if party, found = agg.Parties[id]; found {
			balance = report.EntityBalance(agg, roles, party)
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, ledger.ErrPartyNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		AccountID: id,
		Balance:   balance,
		Display:   ledger.FormatMinor(balance),
	})
}

func (s *Server) listPartyEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries := []ledger.JournalEntry{}
	found := false
	s.disp.View(func(agg *state.Aggregate) {
		if _, found = agg.Parties[id]; found {
			entries = append(entries, agg.EntriesForEntity(id)...)
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, ledger.ErrPartyNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type upsertPartyRequest struct {
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	Currency        string          `json:"currency"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	ConversionRate  decimal.Decimal `json:"conversion_rate"`
	AccountID       string          `json:"account_id"`
	CreatedBy       string          `json:"created_by"`
}

// upsertParty creates or edits a party and re-posts its opening balance:
// the existing pair is deleted and recreated when the base-currency
// balance changed, all in one batch with the party write itself.
func (s *Server) upsertParty(w http.ResponseWriter, r *http.Request) {
	var req upsertPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	rate := req.ConversionRate
	if rate.IsZero() && req.Currency != "" {
		var err error
		if rate, err = ledger.DefaultRate(req.Currency); err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
	}

	var result ledger.Party
	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		party := ledger.Party{
			ID:              id,
			Name:            req.Name,
			Kind:            ledger.PartyKind(req.Kind),
			Currency:        req.Currency,
			StartingBalance: req.StartingBalance,
			AccountID:       req.AccountID,
		}
		action := state.ActionAdd
		isNew := true
		if existing, ok := agg.Parties[id]; ok {
			action = state.ActionUpdate
			isNew = false
			party.Advances = existing.Advances
			party.CreatedAt = existing.CreatedAt
		}

		oldBase, _ := posting.ExistingOpeningBase(agg, party)
		batch, err := s.engine.PostOpeningBalance(agg, posting.OpeningBalanceInput{
			Party:          party,
			IsNew:          isNew,
			OldBalanceBase: oldBase,
			NewBalance:     req.StartingBalance,
			Currency:       req.Currency,
			ConversionRate: rate,
			CreatedBy:      req.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		result = party
		return append(state.Batch{{Action: action, Collection: state.ColParties, ID: id, Record: party}}, batch...), nil
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// deleteParty removes a party together with its opening pair. Parties
// referenced by invoices or other ledger entries are refused.
func (s *Server) deleteParty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		if _, ok := agg.Parties[id]; !ok {
			return nil, ledger.ErrPartyNotFound
		}
		var batch state.Batch
		if _, ok := agg.Entries[ledger.OpeningDebitLegID(id)]; ok {
			batch = append(batch, state.DeleteEntry(ledger.OpeningDebitLegID(id)))
		}
		if _, ok := agg.Entries[ledger.OpeningCreditLegID(id)]; ok {
			batch = append(batch, state.DeleteEntry(ledger.OpeningCreditLegID(id)))
		}
		return append(batch, state.Op{Action: state.ActionDelete, Collection: state.ColParties, ID: id}), nil
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
