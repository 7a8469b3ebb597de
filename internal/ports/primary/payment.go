// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentSession defines the primary port for one cashier's payment workflow:
// customer lookup, bill selection, submission and receipt display.
// A session is owned by its caller; each terminal gets its own instance.
type PaymentSession interface {
	// ID returns the session identifier used in the journal.
	ID() string

	// SetSearchText stores the customer code being typed. No phase change.
	SetSearchText(text string)

	// Search looks up the customer named by the search text and its unpaid bills.
	Search(ctx context.Context) error

	// ToggleBill adds or removes a loaded bill from the selection.
	ToggleBill(billID string) error

	// Submit pays every selected bill, one backend call per bill.
	Submit(ctx context.Context) (*BatchResult, error)

	// Reset cancels in-flight work and returns the session to idle.
	Reset()

	// DismissReceipt clears the receipts shown after the last submission.
	DismissReceipt()

	// Snapshot returns a read-only copy of the observable state.
	Snapshot() SessionSnapshot
}

// SessionSnapshot is the observable state of a payment session.
type SessionSnapshot struct {
	SessionID   string
	Phase       string
	SearchText  string
	Customer    *Customer // nil when no customer is loaded
	Bills       []*Bill
	SelectedIDs []string
	Selected    []*Bill
	TotalDue    decimal.Decimal
	LastError   string
	LastReceipt *Receipt
	Receipts    []*Receipt
	LastBatch   *BatchResult
}

// Customer represents a customer at the port boundary.
type Customer struct {
	Code        string
	Name        string
	Address     string
	Phone       string
	MeterNumber string
	TariffCode  string
	PowerVA     int
	Active      bool
}

// Bill represents a bill at the port boundary.
type Bill struct {
	ID        string
	Period    string
	UsageKWh  decimal.Decimal
	Principal decimal.Decimal
	Penalty   decimal.Decimal
	Due       decimal.Decimal // principal + penalty
	Status    string
	DueDate   string
}

// Receipt represents a printable receipt at the port boundary.
type Receipt struct {
	PaymentID         string
	BillID            string
	TransactionNumber string
	PaidAt            string
	Method            string
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

// BatchResult reports every bill of one submission, successes and failures alike.
type BatchResult struct {
	Outcomes  []*BillOutcome // in selection order
	Succeeded int
	Failed    int
}

// BillOutcome is the result of paying one bill.
type BillOutcome struct {
	BillID            string
	Period            string
	Succeeded         bool
	PaymentID         string
	TransactionNumber string
	Receipt           *Receipt // nil if the payment failed or the receipt could not be fetched
	Error             string
}

// Session phase constants, mirrored from the core for adapters.
const (
	PhaseIdle             = "idle"
	PhaseSearching        = "searching"
	PhaseCustomerFound    = "customer_found"
	PhaseCustomerNotFound = "customer_not_found"
	PhaseBillsLoaded      = "bills_loaded"
	PhaseSelecting        = "selecting"
	PhaseSubmitting       = "submitting"
	PhaseSessionComplete  = "session_complete"
	PhaseSubmissionFailed = "submission_failed"
)
