package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/paydesk/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.BillingBackend    = (*mockBillingBackend)(nil)
	_ secondary.LogWriter         = (*mockLogWriter)(nil)
	_ secondary.ReceiptArchive    = (*mockReceiptArchive)(nil)
	_ secondary.CredentialStore   = (*mockCredentialStore)(nil)
	_ secondary.JournalRepository = (*mockJournalRepository)(nil)
	_ secondary.ViewInvalidator   = (*mockViewInvalidator)(nil)
)

// mockBillingBackend implements secondary.BillingBackend for testing.
// A successful payment removes the bill from the customer's unpaid list,
// the way the real backend flips its status.
type mockBillingBackend struct {
	mu sync.Mutex

	customers map[string]*secondary.CustomerRecord
	unpaid    map[string][]*secondary.BillRecord
	paidBills map[string][]*secondary.BillRecord
	payments  map[string]*secondary.PaymentRecord // by transaction number

	findCustomerErr error
	listUnpaidErr   error
	listPaymentsErr error
	paymentErrs     map[string]error // by bill ID
	receiptErrs     map[string]error // by payment ID
	loginResult     *secondary.LoginResult
	loginErr        error
	profile         *secondary.UserRecord
	profileErr      error

	// hooks run before the call returns; they may block
	findCustomerHook func(ctx context.Context) error
	submitHook       func(ctx context.Context, billID string) error

	submitted         []string
	findCustomerCalls int
	listUnpaidCalls   int
	listBillsCalls    int
	listPaymentsCalls int
	dailyReportCalls  int
	fetchReceiptCalls int
}

func newMockBillingBackend() *mockBillingBackend {
	return &mockBillingBackend{
		customers:   make(map[string]*secondary.CustomerRecord),
		unpaid:      make(map[string][]*secondary.BillRecord),
		paidBills:   make(map[string][]*secondary.BillRecord),
		payments:    make(map[string]*secondary.PaymentRecord),
		paymentErrs: make(map[string]error),
		receiptErrs: make(map[string]error),
	}
}

// seedScenario loads customer 551234567890 with bills b1 (200000, no penalty)
// and b2 (150000 + 25000 penalty).
func (m *mockBillingBackend) seedScenario() {
	m.customers["551234567890"] = &secondary.CustomerRecord{
		ID:      "c-1",
		Code:    "551234567890",
		Name:    "Ahmad Rizky",
		Address: "Jl. Merdeka 10",
		Active:  true,
		Tariff:  &secondary.TariffRecord{Code: "R1", PowerVA: 1300},
	}
	m.unpaid["551234567890"] = []*secondary.BillRecord{
		newBill("b1", "2024-01", 200000, 0),
		newBill("b2", "2024-02", 150000, 25000),
	}
}

func newBill(id, period string, principal, penalty int64) *secondary.BillRecord {
	return &secondary.BillRecord{
		ID:        id,
		Period:    period,
		Principal: decimal.NewFromInt(principal),
		Penalty:   decimal.NewFromInt(penalty),
		Status:    secondary.BillStatusUnpaid,
	}
}

func notFound(op, msg string) error {
	return &secondary.BackendError{Kind: secondary.ErrKindNotFound, Op: op, StatusCode: 404, Message: msg}
}

func validationErr(op, msg string) error {
	return &secondary.BackendError{Kind: secondary.ErrKindValidation, Op: op, StatusCode: 400, Message: msg}
}

func transportErr(op string) error {
	return &secondary.BackendError{Kind: secondary.ErrKindTransport, Op: op, Err: errors.New("connection refused")}
}

func (m *mockBillingBackend) Login(ctx context.Context, email, password string) (*secondary.LoginResult, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *mockBillingBackend) Profile(ctx context.Context) (*secondary.UserRecord, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockBillingBackend) FindCustomer(ctx context.Context, code string) (*secondary.CustomerRecord, error) {
	m.mu.Lock()
	m.findCustomerCalls++
	hook := m.findCustomerHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findCustomerErr != nil {
		return nil, m.findCustomerErr
	}
	c, ok := m.customers[code]
	if !ok {
		return nil, notFound("find customer", "")
	}
	return c, nil
}

func (m *mockBillingBackend) ListBills(ctx context.Context, code string) ([]*secondary.BillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listBillsCalls++
	all := append([]*secondary.BillRecord{}, m.paidBills[code]...)
	return append(all, m.unpaid[code]...), nil
}

func (m *mockBillingBackend) ListUnpaidBills(ctx context.Context, code string) ([]*secondary.BillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listUnpaidCalls++
	if m.listUnpaidErr != nil {
		return nil, m.listUnpaidErr
	}
	return append([]*secondary.BillRecord{}, m.unpaid[code]...), nil
}

func (m *mockBillingBackend) SubmitPayment(ctx context.Context, req secondary.SubmitPaymentRequest) (*secondary.PaymentRecord, error) {
	m.mu.Lock()
	m.submitted = append(m.submitted, req.BillID)
	hook := m.submitHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, req.BillID); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.paymentErrs[req.BillID]; err != nil {
		return nil, err
	}
	if req.Method != secondary.PaymentMethodCash {
		return nil, validationErr("submit payment", "unsupported method "+req.Method)
	}

	var paid *secondary.BillRecord
	for code, bills := range m.unpaid {
		for i, b := range bills {
			if b.ID == req.BillID {
				paid = b
				m.unpaid[code] = append(bills[:i:i], bills[i+1:]...)
				m.paidBills[code] = append(m.paidBills[code], b)
				break
			}
		}
	}
	if paid == nil {
		return nil, validationErr("submit payment", "Tagihan sudah lunas")
	}

	p := &secondary.PaymentRecord{
		ID:                "pay-" + req.BillID,
		BillID:            req.BillID,
		TransactionNumber: "TRX-" + req.BillID,
		Amount:            paid.Principal.Add(paid.Penalty),
		Method:            req.Method,
		Status:            "success",
	}
	m.payments[p.TransactionNumber] = p
	return p, nil
}

func (m *mockBillingBackend) FetchReceipt(ctx context.Context, paymentID string) (*secondary.ReceiptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchReceiptCalls++
	if err := m.receiptErrs[paymentID]; err != nil {
		return nil, err
	}
	for _, p := range m.payments {
		if p.ID == paymentID {
			return &secondary.ReceiptRecord{
				TransactionNumber: p.TransactionNumber,
				Method:            p.Method,
				CustomerCode:      "551234567890",
				CustomerName:      "Ahmad Rizky",
				AmountPaid:        p.Amount,
				Status:            p.Status,
				Cashier:           "Siti Kasir",
			}, nil
		}
	}
	return nil, notFound("fetch receipt", "")
}

func (m *mockBillingBackend) FindPaymentByTransaction(ctx context.Context, transactionNumber string) (*secondary.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.payments[transactionNumber]; ok {
		return p, nil
	}
	return nil, notFound("find payment", "")
}

func (m *mockBillingBackend) ListPayments(ctx context.Context, filters secondary.PaymentFilters) (*secondary.PaymentPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listPaymentsCalls++
	if m.listPaymentsErr != nil {
		return nil, m.listPaymentsErr
	}
	var payments []*secondary.PaymentRecord
	for _, p := range m.payments {
		payments = append(payments, p)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return &secondary.PaymentPage{Payments: payments, Total: len(payments), Page: filters.Page, PerPage: filters.PerPage, LastPage: 1}, nil
}

func (m *mockBillingBackend) DailyReport(ctx context.Context, date time.Time) (*secondary.DailyReportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyReportCalls++
	revenue := decimal.Zero
	for _, p := range m.payments {
		revenue = revenue.Add(p.Amount)
	}
	return &secondary.DailyReportRecord{
		Date:             date.Format(time.DateOnly),
		TransactionCount: len(m.payments),
		Revenue:          revenue,
	}, nil
}

func (m *mockBillingBackend) submittedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.submitted...)
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	mu          sync.Mutex
	transitions []string // "from->to"
	events      []string // "action:subjectType:subjectID"
}

func (m *mockLogWriter) LogTransition(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from+"->"+to)
	return nil
}

func (m *mockLogWriter) LogEvent(ctx context.Context, action, subjectType, subjectID, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, fmt.Sprintf("%s:%s:%s", action, subjectType, subjectID))
	return nil
}

func (m *mockLogWriter) hasEvent(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e == event {
			return true
		}
	}
	return false
}

// mockReceiptArchive implements secondary.ReceiptArchive for testing.
type mockReceiptArchive struct {
	mu      sync.Mutex
	records map[string]*secondary.ArchivedReceiptRecord
	saveErr error
	getErr  error
}

func newMockReceiptArchive() *mockReceiptArchive {
	return &mockReceiptArchive{records: make(map[string]*secondary.ArchivedReceiptRecord)}
}

func (m *mockReceiptArchive) Save(ctx context.Context, rec *secondary.ArchivedReceiptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.records[rec.Receipt.TransactionNumber]; !ok {
		m.records[rec.Receipt.TransactionNumber] = rec
	}
	return nil
}

func (m *mockReceiptArchive) GetByTransaction(ctx context.Context, transactionNumber string) (*secondary.ArchivedReceiptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.records[transactionNumber]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("receipt %s: %w", transactionNumber, secondary.ErrNotArchived)
}

func (m *mockReceiptArchive) List(ctx context.Context, filters secondary.ArchiveFilters) ([]*secondary.ArchivedReceiptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.ArchivedReceiptRecord
	for _, r := range m.records {
		if filters.CustomerCode != "" && r.Receipt.CustomerCode != filters.CustomerCode {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Receipt.TransactionNumber < out[j].Receipt.TransactionNumber })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

// mockCredentialStore implements secondary.CredentialStore for testing.
type mockCredentialStore struct {
	creds   *secondary.Credentials
	saveErr error
	cleared bool
}

func (m *mockCredentialStore) Load() (*secondary.Credentials, error) {
	return m.creds, nil
}

func (m *mockCredentialStore) Save(creds *secondary.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds = creds
	return nil
}

func (m *mockCredentialStore) Clear() error {
	m.creds = nil
	m.cleared = true
	return nil
}

// mockJournalRepository implements secondary.JournalRepository for testing.
type mockJournalRepository struct {
	entries   []*secondary.JournalRecord
	listErr   error
	pruneDays int
}

func (m *mockJournalRepository) Create(ctx context.Context, entry *secondary.JournalRecord) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournalRepository) GetByID(ctx context.Context, id string) (*secondary.JournalRecord, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockJournalRepository) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.JournalRecord
	for _, e := range m.entries {
		if filters.SessionID != "" && e.SessionID != filters.SessionID {
			continue
		}
		if filters.Action != "" && e.Action != filters.Action {
			continue
		}
		result = append(result, e)
	}
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockJournalRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.pruneDays = days
	return 3, nil
}

// mockViewInvalidator implements secondary.ViewInvalidator for testing.
type mockViewInvalidator struct {
	mu    sync.Mutex
	calls []string // "view:key"
}

func (m *mockViewInvalidator) Invalidate(ctx context.Context, view secondary.View, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, string(view)+":"+key)
}
