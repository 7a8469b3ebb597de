// Package httpapi implements the billing backend port over its REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/paydesk/internal/ports/secondary"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client implements secondary.BillingBackend against the REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	creds      secondary.CredentialStore
	now        func() time.Time
}

// NewClient creates a REST client. creds supplies the bearer token and is
// cleared whenever the backend rejects it.
func NewClient(opts Options, creds secondary.CredentialStore) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		// A whole batch of payments may go out at once
		burst = max(1, int(opts.RequestsPerSecond))
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		creds:      creds,
		now:        time.Now,
	}
}

// Login exchanges credentials for an access token. No bearer token is sent.
func (c *Client) Login(ctx context.Context, email, password string) (*secondary.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return nil, err
	}
	return resp.toRecord(), nil
}

// Profile returns the user owning the current token.
func (c *Client) Profile(ctx context.Context) (*secondary.UserRecord, error) {
	var resp userDTO
	if err := c.do(ctx, "get profile", http.MethodGet, "/users/profile", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.toRecord(), nil
}

// FindCustomer looks a customer up by its external code.
func (c *Client) FindCustomer(ctx context.Context, code string) (*secondary.CustomerRecord, error) {
	var resp customerDTO
	path := "/pelanggan/cek/" + url.PathEscape(code)
	if err := c.do(ctx, "find customer", http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.toRecord(), nil
}

// ListBills returns every bill of a customer.
func (c *Client) ListBills(ctx context.Context, code string) ([]*secondary.BillRecord, error) {
	var resp []*billDTO
	path := "/tagihan/cek/" + url.PathEscape(code)
	if err := c.do(ctx, "list bills", http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return billsToRecords(resp), nil
}

// ListUnpaidBills returns the customer's unpaid bills in backend order.
func (c *Client) ListUnpaidBills(ctx context.Context, code string) ([]*secondary.BillRecord, error) {
	var resp []*billDTO
	path := "/tagihan/cek/" + url.PathEscape(code) + "/belum-bayar"
	if err := c.do(ctx, "list unpaid bills", http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return billsToRecords(resp), nil
}

// SubmitPayment pays exactly one bill.
func (c *Client) SubmitPayment(ctx context.Context, req secondary.SubmitPaymentRequest) (*secondary.PaymentRecord, error) {
	method := req.Method
	if method == "" {
		method = secondary.PaymentMethodCash
	}

	var resp paymentDTO
	body := paymentRequest{BillID: req.BillID, Method: wirePaymentMethod(method)}
	if err := c.do(ctx, "submit payment", http.MethodPost, "/pembayaran", nil, body, &resp, true); err != nil {
		return nil, err
	}
	rec := resp.toRecord()
	if rec.BillID == "" {
		rec.BillID = req.BillID
	}
	return rec, nil
}

// FetchReceipt returns the printable receipt of a payment.
func (c *Client) FetchReceipt(ctx context.Context, paymentID string) (*secondary.ReceiptRecord, error) {
	var resp receiptEnvelope
	path := "/pembayaran/" + url.PathEscape(paymentID) + "/struk"
	if err := c.do(ctx, "fetch receipt", http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Receipt == nil {
		return nil, &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: "fetch receipt", Message: "response has no receipt"}
	}
	return resp.Receipt.toRecord(), nil
}

// FindPaymentByTransaction looks a payment up by its transaction number.
func (c *Client) FindPaymentByTransaction(ctx context.Context, transactionNumber string) (*secondary.PaymentRecord, error) {
	var resp paymentDTO
	path := "/pembayaran/transaksi/" + url.PathEscape(transactionNumber)
	if err := c.do(ctx, "find payment", http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.toRecord(), nil
}

// ListPayments returns one page of transaction history.
func (c *Client) ListPayments(ctx context.Context, filters secondary.PaymentFilters) (*secondary.PaymentPage, error) {
	query := url.Values{}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(filters.PerPage))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var resp paymentPageDTO
	if err := c.do(ctx, "list payments", http.MethodGet, "/pembayaran", query, nil, &resp, true); err != nil {
		return nil, err
	}
	return &secondary.PaymentPage{
		Payments: paymentsToRecords(resp.Data),
		Total:    resp.Total,
		Page:     resp.Page,
		PerPage:  resp.PerPage,
		LastPage: resp.LastPage,
	}, nil
}

// DailyReport returns the totals and payments of one calendar day.
func (c *Client) DailyReport(ctx context.Context, date time.Time) (*secondary.DailyReportRecord, error) {
	query := url.Values{}
	query.Set("tanggal", date.Format(time.DateOnly))

	var resp dailyReportDTO
	if err := c.do(ctx, "daily report", http.MethodGet, "/pembayaran/laporan-harian", query, nil, &resp, true); err != nil {
		return nil, err
	}
	return &secondary.DailyReportRecord{
		Date:             resp.Date,
		TransactionCount: resp.TransactionCount,
		Revenue:          resp.Revenue,
		Payments:         paymentsToRecords(resp.Payments),
	}, nil
}

// do performs one request and decodes a 2xx body into out.
// Every failure comes back as a *secondary.BackendError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any, auth bool) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth {
		token, err := c.accessToken()
		if err != nil {
			return &secondary.BackendError{Kind: secondary.ErrKindUnauthorized, Op: op, Message: err.Error()}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := kindForStatus(resp.StatusCode)
		if kind == secondary.ErrKindUnauthorized && auth && c.creds != nil {
			// The stored token is no good anymore
			_ = c.creds.Clear()
		}
		return &secondary.BackendError{
			Kind:       kind,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &secondary.BackendError{
			Kind:       secondary.ErrKindTransport,
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// accessToken returns the stored bearer token, refusing expired ones.
func (c *Client) accessToken() (string, error) {
	if c.creds == nil {
		return "", fmt.Errorf("not logged in")
	}
	creds, err := c.creds.Load()
	if err != nil {
		return "", err
	}
	if creds == nil || creds.AccessToken == "" {
		return "", fmt.Errorf("not logged in")
	}

	now := c.now()
	if (!creds.ExpiresAt.IsZero() && !now.Before(creds.ExpiresAt)) || TokenExpired(creds.AccessToken, now) {
		_ = c.creds.Clear()
		return "", fmt.Errorf("session expired - log in again")
	}
	return creds.AccessToken, nil
}

func kindForStatus(status int) secondary.BackendErrorKind {
	switch status {
	case http.StatusNotFound:
		return secondary.ErrKindNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return secondary.ErrKindValidation
	case http.StatusUnauthorized:
		return secondary.ErrKindUnauthorized
	default:
		return secondary.ErrKindTransport
	}
}

// errorMessage extracts {"message": ...} from an error body.
func errorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch m := body.Message.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// Ensure Client implements the interface
var _ secondary.BillingBackend = (*Client)(nil)
