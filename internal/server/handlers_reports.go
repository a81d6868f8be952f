package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/report"
	"github.com/loomworks/tradeledger/internal/state"
)

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	var tb *report.TrialBalance
	s.disp.View(func(agg *state.Aggregate) {
		tb = report.BuildTrialBalance(agg, s.disp.Chart())
	})
	writeJSON(w, http.StatusOK, tb)
}

func (s *Server) partyBalances(w http.ResponseWriter, r *http.Request) {
	var kinds []ledger.PartyKind
	if k := r.URL.Query().Get("kind"); k != "" {
		kinds = append(kinds, ledger.PartyKind(k))
	}
	roles := s.disp.Chart().Roles()

	lines := []report.PartyBalanceLine{}
	s.disp.View(func(agg *state.Aggregate) {
		lines = append(lines, report.PartyBalances(agg, roles, kinds...)...)
	})
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) stockOnHand(w http.ResponseWriter, r *http.Request) {
	lines := []report.StockLine{}
	s.disp.View(func(agg *state.Aggregate) {
		lines = append(lines, report.StockOnHand(agg)...)
	})
	writeJSON(w, http.StatusOK, lines)
}

// voucherView groups the legs of one voucher for display.
type voucherView struct {
	VoucherID string                `json:"voucher_id"`
	VoucherNo int64                 `json:"voucher_no"`
	EntryType ledger.EntryType      `json:"entry_type"`
	Code      string                `json:"code"`
	Legs      []ledger.JournalEntry `json:"legs"`
}

func (s *Server) listVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers := []voucherView{}
	s.disp.View(func(agg *state.Aggregate) {
		byID := make(map[string]*voucherView)
		for _, e := range agg.AllEntries() {
			v, ok := byID[e.VoucherID]
			if !ok {
				v = &voucherView{
					VoucherID: e.VoucherID,
					VoucherNo: e.VoucherNo,
					EntryType: e.EntryType,
					Code:      voucherCode(e),
				}
				byID[e.VoucherID] = v
			}
			v.Legs = append(v.Legs, e)
		}
		for _, v := range byID {
			vouchers = append(vouchers, *v)
		}
	})
	sort.Slice(vouchers, func(i, j int) bool { return vouchers[i].VoucherID < vouchers[j].VoucherID })
	writeJSON(w, http.StatusOK, vouchers)
}

func (s *Server) getVoucher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var legs []ledger.JournalEntry
	s.disp.View(func(agg *state.Aggregate) {
		legs = agg.EntriesForVoucher(id)
	})
	if len(legs) == 0 {
		writeError(w, http.StatusNotFound, "voucher not found")
		return
	}
	writeJSON(w, http.StatusOK, voucherView{
		VoucherID: id,
		VoucherNo: legs[0].VoucherNo,
		EntryType: legs[0].EntryType,
		Code:      voucherCode(legs[0]),
		Legs:      legs,
	})
}

func voucherCode(e ledger.JournalEntry) string {
	return fmt.Sprintf("%s-%d", ledger.VoucherPrefix(e.EntryType), e.VoucherNo)
}

type statusResponse struct {
	Save    string `json:"save"`
	Error   string `json:"error,omitempty"`
	Version uint64 `json:"version"`
}

// getStatus surfaces the tri-state persistence status alongside the
// current aggregate version.
func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	status, saveErr := s.saver.Status()
	resp := statusResponse{Save: string(status)}
	if saveErr != nil {
		resp.Error = saveErr.Error()
	}
	s.disp.View(func(agg *state.Aggregate) {
		resp.Version = agg.Version
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getCounters(w http.ResponseWriter, r *http.Request) {
	var counters state.Counters
	s.disp.View(func(agg *state.Aggregate) {
		counters = agg.Counters
	})
	writeJSON(w, http.StatusOK, counters)
}
