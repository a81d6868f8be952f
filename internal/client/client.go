package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/report"
	"github.com/loomworks/tradeledger/internal/state"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListAccounts(ctx context.Context, accountType string) ([]ledger.Account, error) {
	params := url.Values{}
	if accountType != "" {
		params.Set("type", accountType)
	}
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/accounts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Display   string `json:"display"`
}

func (c *Client) GetAccountBalance(ctx context.Context, id string) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id)+"/balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListParties(ctx context.Context, kind string) ([]ledger.Party, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("kind", kind)
	}
	var result []ledger.Party
	if err := c.get(ctx, "/api/v1/parties?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

type UpsertPartyRequest struct {
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	Currency        string          `json:"currency,omitempty"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	ConversionRate  decimal.Decimal `json:"conversion_rate"`
	AccountID       string          `json:"account_id,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

func (c *Client) UpsertParty(ctx context.Context, id string, req UpsertPartyRequest) (*ledger.Party, error) {
	var result ledger.Party
	if err := c.put(ctx, "/api/v1/parties/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetPartyBalance(ctx context.Context, id string) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.get(ctx, "/api/v1/parties/"+url.PathEscape(id)+"/balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteParty(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/parties/"+url.PathEscape(id))
}

type CreateItemRequest struct {
	ID                 string          `json:"id,omitempty"`
	Name               string          `json:"name"`
	PackingType        string          `json:"packing_type"`
	BaleSize           decimal.Decimal `json:"bale_size"`
	AvgProductionPrice decimal.Decimal `json:"avg_production_price"`
	AvgSalesPrice      decimal.Decimal `json:"avg_sales_price"`
	OpeningStock       decimal.Decimal `json:"opening_stock"`
}

func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) (*ledger.Item, error) {
	var result ledger.Item
	if err := c.post(ctx, "/api/v1/items", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListItems(ctx context.Context) ([]ledger.Item, error) {
	var result []ledger.Item
	if err := c.get(ctx, "/api/v1/items", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/items/"+url.PathEscape(id))
}

type CreateProductionRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Date     time.Time       `json:"date,omitempty"`
}

func (c *Client) CreateProduction(ctx context.Context, req CreateProductionRequest) (*ledger.Production, error) {
	var result ledger.Production
	if err := c.post(ctx, "/api/v1/productions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type InvoiceLineRequest struct {
	ItemID         string          `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Currency       string          `json:"currency,omitempty"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type CreateInvoiceRequest struct {
	ID               string               `json:"id,omitempty"`
	CustomerID       string               `json:"customer_id"`
	Items            []InvoiceLineRequest `json:"items"`
	FreightAmount    decimal.Decimal      `json:"freight_amount"`
	ForwarderID      string               `json:"forwarder_id,omitempty"`
	CustomCharges    decimal.Decimal      `json:"custom_charges"`
	ClearingAgentID  string               `json:"clearing_agent_id,omitempty"`
	CommissionAmount decimal.Decimal      `json:"commission_amount"`
	AgentID          string               `json:"agent_id,omitempty"`
}

func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*ledger.SalesInvoice, error) {
	var result ledger.SalesInvoice
	if err := c.post(ctx, "/api/v1/invoices", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListInvoices(ctx context.Context, status string) ([]ledger.SalesInvoice, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	var result []ledger.SalesInvoice
	if err := c.get(ctx, "/api/v1/invoices?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) PostInvoice(ctx context.Context, id, postedBy string) (*ledger.SalesInvoice, error) {
	var result ledger.SalesInvoice
	body := map[string]any{"posted_by": postedBy}
	if err := c.post(ctx, "/api/v1/invoices/"+url.PathEscape(id)+"/post", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type VehicleChargeRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

func (c *Client) PostVehicleCharge(ctx context.Context, req VehicleChargeRequest) error {
	return c.post(ctx, "/api/v1/postings/vehicle-charge", req, nil)
}

type SalaryPaymentRequest struct {
	EmployeeID    string          `json:"employee_id"`
	FromAccountID string          `json:"from_account_id"`
	Gross         decimal.Decimal `json:"gross"`
	Date          time.Time       `json:"date,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

func (c *Client) PostSalaryPayment(ctx context.Context, req SalaryPaymentRequest) error {
	return c.post(ctx, "/api/v1/postings/salary", req, nil)
}

type ImportRowRequest struct {
	SupplierID string          `json:"supplier_id"`
	Date       time.Time       `json:"date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
	Notes      string          `json:"notes,omitempty"`
}

func (c *Client) BulkImport(ctx context.Context, rows []ImportRowRequest, createdBy string) (int, error) {
	body := map[string]any{"rows": rows, "created_by": createdBy}
	var result struct {
		Imported int `json:"imported"`
	}
	if err := c.post(ctx, "/api/v1/postings/import", body, &result); err != nil {
		return 0, err
	}
	return result.Imported, nil
}

func (c *Client) TrialBalance(ctx context.Context) (*report.TrialBalance, error) {
	var result report.TrialBalance
	if err := c.get(ctx, "/api/v1/reports/trial-balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PartyBalances(ctx context.Context, kind string) ([]report.PartyBalanceLine, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("kind", kind)
	}
	var result []report.PartyBalanceLine
	if err := c.get(ctx, "/api/v1/reports/party-balances?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) StockOnHand(ctx context.Context) ([]report.StockLine, error) {
	var result []report.StockLine
	if err := c.get(ctx, "/api/v1/reports/stock", &result); err != nil {
		return nil, err
	}
	return result, nil
}

type VoucherView struct {
	VoucherID string                `json:"voucher_id"`
	VoucherNo int64                 `json:"voucher_no"`
	EntryType ledger.EntryType      `json:"entry_type"`
	Code      string                `json:"code"`
	Legs      []ledger.JournalEntry `json:"legs"`
}

func (c *Client) ListVouchers(ctx context.Context) ([]VoucherView, error) {
	var result []VoucherView
	if err := c.get(ctx, "/api/v1/vouchers", &result); err != nil {
		return nil, err
	}
	return result, nil
}

type StatusResponse struct {
	Save    string `json:"save"`
	Error   string `json:"error,omitempty"`
	Version uint64 `json:"version"`
}

func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var result StatusResponse
	if err := c.get(ctx, "/api/v1/status", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetCounters(ctx context.Context) (*state.Counters, error) {
	var result state.Counters
	if err := c.get(ctx, "/api/v1/counters", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/status", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "POST", path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "PUT", path, body, result)
}

func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, nil)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
