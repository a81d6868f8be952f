package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/posting"
	"github.com/loomworks/tradeledger/internal/state"
)

type vehicleChargeRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by"`
}

func (s *Server) postVehicleCharge(w http.ResponseWriter, r *http.Request) {
	var req vehicleChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return s.engine.PostVehicleCharge(agg, posting.VehicleChargeInput{
			EmployeeID:  req.EmployeeID,
			Amount:      req.Amount,
			Description: req.Description,
			Date:        req.Date,
			CreatedBy:   req.CreatedBy,
		})
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type salaryPaymentRequest struct {
	EmployeeID    string          `json:"employee_id"`
	FromAccountID string          `json:"from_account_id"`
	Gross         decimal.Decimal `json:"gross"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

func (s *Server) postSalaryPayment(w http.ResponseWriter, r *http.Request) {
	var req salaryPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return s.engine.PostSalaryPayment(agg, posting.SalaryPaymentInput{
			EmployeeID:    req.EmployeeID,
			FromAccountID: req.FromAccountID,
			Gross:         req.Gross,
			Date:          req.Date,
			CreatedBy:     req.CreatedBy,
		})
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type importRowRequest struct {
	SupplierID string          `json:"supplier_id"`
	Date       time.Time       `json:"date"`
	Quantity   decimal.Decimal `json:"quantity"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Rate       decimal.Decimal `json:"rate"`
	Notes      string          `json:"notes"`
}

type bulkImportRequest struct {
	Rows      []importRowRequest `json:"rows"`
	CreatedBy string             `json:"created_by"`
}

type bulkImportResponse struct {
	Imported int `json:"imported"`
}

// postBulkImport accepts pre-validated original-stock rows and posts one
// purchase record plus one Journal voucher per row, all atomically.
func (s *Server) postBulkImport(w http.ResponseWriter, r *http.Request) {
	var req bulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "no rows to import")
		return
	}

	rows := make([]posting.ImportRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, posting.ImportRow{
			SupplierID: row.SupplierID,
			Date:       row.Date,
			Quantity:   row.Quantity,
			WeightKg:   row.WeightKg,
			Amount:     row.Amount,
			Currency:   row.Currency,
			Rate:       row.Rate,
			Notes:      row.Notes,
		})
	}

	err := s.disp.ApplyWith(func(agg *state.Aggregate) (state.Batch, error) {
		return s.engine.PostBulkImport(agg, rows, req.CreatedBy)
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, bulkImportResponse{Imported: len(rows)})
}
