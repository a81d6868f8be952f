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

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items := []ledger.Item{}
	s.disp.View(func(agg *state.Aggregate) {
		for _, it := range agg.Items {
			items = append(items, it)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	writeJSON(w, http.StatusOK, items)
}

type createItemRequest struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	PackingType        string          `json:"packing_type"`
	BaleSize           decimal.Decimal `json:"bale_size"`
	AvgProductionPrice decimal.Decimal `json:"avg_production_price"`
	AvgSalesPrice      decimal.Decimal `json:"avg_sales_price"`
	OpeningStock       decimal.Decimal `json:"opening_stock"`
	CreatedBy          string          `json:"created_by"`
}

// createItem registers an item and, when it carries opening stock, books
// the synthetic production and valuation pair in the same batch.
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	item := ledger.Item{
		ID:                 req.ID,
		Name:               req.Name,
		PackingType:        ledger.PackingType(req.PackingType),
		BaleSize:           req.BaleSize,
		AvgProductionPrice: req.AvgProductionPrice,
		AvgSalesPrice:      req.AvgSalesPrice,
		OpeningStock:       req.OpeningStock,
		CreatedAt:          time.Now().UTC(),
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		batch, err := s.engine.PostStockOpening(agg, item, req.CreatedBy)
		if err != nil {
			return nil, err
		}
		return append(state.Batch{{Action: state.ActionAdd, Collection: state.ColItems, ID: item.ID, Record: item}}, batch...), nil
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// deleteItem reverses any opening-stock valuation before removing the
// item; items referenced by invoices or real productions are refused.
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return s.engine.DeleteItem(agg, id)
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createProductionRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     time.Time       `json:"date"`
}

func (s *Server) createProduction(w http.ResponseWriter, r *http.Request) {
	var req createProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if !req.Quantity.IsPositive() {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	prod := ledger.Production{
		ID:               uuid.Must(uuid.NewV7()).String(),
		ItemID:           req.ItemID,
		Date:             req.Date,
		QuantityProduced: req.Quantity,
	}
	if prod.Date.IsZero() {
		prod.Date = time.Now().UTC()
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		if _, ok := agg.Items[req.ItemID]; !ok {
			return nil, ledger.ErrItemNotFound
		}
		return state.Batch{{Action: state.ActionAdd, Collection: state.ColProductions, ID: prod.ID, Record: prod}}, nil
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, prod)
}
