package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/state"
)

type invoiceLineRequest struct {
	ItemID         string          `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Currency       string          `json:"currency"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type createInvoiceRequest struct {
	ID               string               `json:"id"`
	CustomerID       string               `json:"customer_id"`
	Date             time.Time            `json:"date"`
	Items            []invoiceLineRequest `json:"items"`
	FreightAmount    decimal.Decimal      `json:"freight_amount"`
	ForwarderID      string               `json:"forwarder_id"`
	CustomCharges    decimal.Decimal      `json:"custom_charges"`
	ClearingAgentID  string               `json:"clearing_agent_id"`
	CommissionAmount decimal.Decimal      `json:"commission_amount"`
	AgentID          string               `json:"agent_id"`
	CreatedBy        string               `json:"created_by"`
}

// createInvoice stores an Unposted draft. Captured line rates become
// immutable posting inputs once the invoice posts.
func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	inv := ledger.SalesInvoice{
		ID:               req.ID,
		CustomerID:       req.CustomerID,
		Date:             req.Date,
		Status:           ledger.StatusUnposted,
		FreightAmount:    req.FreightAmount,
		ForwarderID:      req.ForwarderID,
		CustomCharges:    req.CustomCharges,
		ClearingAgentID:  req.ClearingAgentID,
		CommissionAmount: req.CommissionAmount,
		AgentID:          req.AgentID,
		CreatedBy:        req.CreatedBy,
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now().UTC()
	}
	for _, line := range req.Items {
		rate := line.ConversionRate
		if rate.IsZero() && line.Currency != "" {
			var err error
			if rate, err = ledger.DefaultRate(line.Currency); err != nil {
				writeError(w, mapError(err), err.Error())
				return
			}
		}
		inv.Items = append(inv.Items, ledger.InvoiceLine{
			ItemID:         line.ItemID,
			Quantity:       line.Quantity,
			Rate:           line.Rate,
			Currency:       line.Currency,
			ConversionRate: rate,
		})
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		if _, ok := agg.Parties[inv.CustomerID]; !ok {
			return nil, ledger.ErrPartyNotFound
		}
		return state.Batch{{Action: state.ActionAdd, Collection: state.ColSalesInvoices, ID: inv.ID, Record: inv}}, nil
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	status := ledger.InvoiceStatus(r.URL.Query().Get("status"))
	invoices := []ledger.SalesInvoice{}
	s.disp.View(func(agg *state.Aggregate) {
		for _, inv := range agg.Invoices {
			if status != "" && inv.Status != status {
				continue
			}
			invoices = append(invoices, inv)
		}
	})
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].ID < invoices[j].ID })
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var inv ledger.SalesInvoice
	found := false
	s.disp.View(func(agg *state.Aggregate) {
		inv, found = agg.Invoices[id]
	})
	if !found {
		writeError(w, http.StatusNotFound, ledger.ErrInvoiceNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type postInvoiceRequest struct {
	PostedBy string `json:"posted_by"`
}

// postInvoice runs the posting rules: one atomic batch writes the sale,
// commission and COGS vouchers and flips the status to Posted.
func (s *Server) postInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req postInvoiceRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return s.engine.PostSalesInvoice(agg, id, req.PostedBy)
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	var inv ledger.SalesInvoice
	s.disp.View(func(agg *state.Aggregate) {
		inv = agg.Invoices[id]
	})
	writeJSON(w, http.StatusOK, inv)
}
