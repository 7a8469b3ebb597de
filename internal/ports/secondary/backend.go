// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BillingBackend defines the secondary port for the remote billing REST backend.
// All tariff math, penalty accrual and payment posting happen behind it.
type BillingBackend interface {
	// Login exchanges credentials for an access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Profile returns the user owning the current token.
	Profile(ctx context.Context) (*UserRecord, error)

	// FindCustomer looks a customer up by its external code.
	FindCustomer(ctx context.Context, code string) (*CustomerRecord, error)

	// ListBills returns every bill of a customer, paid or not.
	ListBills(ctx context.Context, code string) ([]*BillRecord, error)

	// ListUnpaidBills returns the customer's unpaid bills in backend order.
	ListUnpaidBills(ctx context.Context, code string) ([]*BillRecord, error)

	// SubmitPayment pays exactly one bill.
	SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PaymentRecord, error)

	// FetchReceipt returns the printable receipt of a payment.
	FetchReceipt(ctx context.Context, paymentID string) (*ReceiptRecord, error)

	// FindPaymentByTransaction looks a payment up by its transaction number.
	FindPaymentByTransaction(ctx context.Context, transactionNumber string) (*PaymentRecord, error)

	// ListPayments returns one page of transaction history.
	ListPayments(ctx context.Context, filters PaymentFilters) (*PaymentPage, error)

	// DailyReport returns the totals and payments of one calendar day.
	DailyReport(ctx context.Context, date time.Time) (*DailyReportRecord, error)
}

// PaymentMethodCash is the only method this client submits.
const PaymentMethodCash = "cash"

// Bill status constants.
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"
)

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         UserRecord
}

// UserRecord represents a backend user (cashier or admin).
type UserRecord struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

// TariffRecord represents a tariff as attached to a customer.
type TariffRecord struct {
	ID          string
	Code        string
	Description string
	RatePerKWh  decimal.Decimal
	PowerVA     int
}

// CustomerRecord represents a customer as returned by the backend.
type CustomerRecord struct {
	ID          string
	Code        string
	Name        string
	Address     string
	Phone       string
	MeterNumber string
	TariffID    string
	Tariff      *TariffRecord
	Active      bool
}

// BillRecord represents a monthly bill as returned by the backend.
type BillRecord struct {
	ID         string
	CustomerID string
	Period     string // YYYY-MM
	MeterStart decimal.Decimal
	MeterEnd   decimal.Decimal
	UsageKWh   decimal.Decimal
	RatePerKWh decimal.Decimal
	UsageCost  decimal.Decimal
	AdminFee   decimal.Decimal
	Principal  decimal.Decimal
	Penalty    decimal.Decimal
	Status     string
	DueDate    string
}

// SubmitPaymentRequest contains parameters for paying one bill.
type SubmitPaymentRequest struct {
	BillID string
	Method string
}

// PaymentRecord represents a recorded payment.
type PaymentRecord struct {
	ID                string
	BillID            string
	TransactionNumber string
	Amount            decimal.Decimal
	Method            string
	PaidAt            string
	Status            string
	CustomerName      string
	CashierName       string
}

// ReceiptRecord represents a printable receipt as returned by the backend.
type ReceiptRecord struct {
	TransactionNumber string
	PaidAt            string
	Method            string
	BankName          string
	CustomerCode      string
	CustomerName      string
	CustomerAddress   string
	TariffCode        string
	PowerVA           int
	Period            string
	MeterStart        decimal.Decimal
	MeterEnd          decimal.Decimal
	UsageKWh          decimal.Decimal
	RatePerKWh        decimal.Decimal
	UsageCost         decimal.Decimal
	AdminFee          decimal.Decimal
	Penalty           decimal.Decimal
	BillTotal         decimal.Decimal
	AmountPaid        decimal.Decimal
	Status            string
	Cashier           string
}

// PaymentFilters contains paging options for transaction history.
type PaymentFilters struct {
	Page    int
	PerPage int
	Search  string
}

// PaymentPage is one page of transaction history.
type PaymentPage struct {
	Payments []*PaymentRecord
	Total    int
	Page     int
	PerPage  int
	LastPage int
}

// DailyReportRecord contains one day's collection totals.
type DailyReportRecord struct {
	Date             string
	TransactionCount int
	Revenue          decimal.Decimal
	Payments         []*PaymentRecord
}

// BackendErrorKind classifies failures reported by the billing backend.
type BackendErrorKind string

const (
	ErrKindNotFound     BackendErrorKind = "not_found"
	ErrKindValidation   BackendErrorKind = "validation"
	ErrKindUnauthorized BackendErrorKind = "unauthorized"
	ErrKindTransport    BackendErrorKind = "transport"
)

// BackendError is returned by BillingBackend implementations for every failed call.
type BackendError struct {
	Kind       BackendErrorKind
	Op         string // e.g. "find customer"
	StatusCode int    // 0 when the request never got a response
	Message    string // backend-supplied message, may be empty
	Err        error  // underlying transport error, if any
}

func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BackendMessage returns the backend-supplied message carried by err, if any.
func BackendMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

// IsNotFound reports whether err is a backend not-found result.
func IsNotFound(err error) bool {
	return hasKind(err, ErrKindNotFound)
}

// IsValidation reports whether err is a backend validation or business-rule failure.
func IsValidation(err error) bool {
	return hasKind(err, ErrKindValidation)
}

// IsUnauthorized reports whether err means the access token was rejected.
func IsUnauthorized(err error) bool {
	return hasKind(err, ErrKindUnauthorized)
}

// IsTransport reports whether err is a network or server failure.
func IsTransport(err error) bool {
	return hasKind(err, ErrKindTransport)
}

func hasKind(err error, kind BackendErrorKind) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == kind
}
