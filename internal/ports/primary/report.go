package primary

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportService defines the primary port for read-only reporting views.
type ReportService interface {
	// GetCustomer looks a customer up by code.
	GetCustomer(ctx context.Context, code string) (*Customer, error)

	// BillHistory lists a customer's bills, optionally only unpaid ones.
	BillHistory(ctx context.Context, code string, unpaidOnly bool) ([]*Bill, error)

	// TransactionHistory lists one page of recorded payments.
	TransactionHistory(ctx context.Context, filters HistoryFilters) (*PaymentPage, error)

	// DailyReport returns one day's collection totals.
	DailyReport(ctx context.Context, date time.Time) (*DailyReport, error)
}

// HistoryFilters contains paging options for transaction history.
type HistoryFilters struct {
	Page    int
	PerPage int
	Search  string
}

// Payment represents a recorded payment at the port boundary.
type Payment struct {
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

// PaymentPage is one page of transaction history.
type PaymentPage struct {
	Payments []*Payment
	Total    int
	Page     int
	LastPage int
}

// DailyReport contains one day's collection totals.
type DailyReport struct {
	Date             string
	TransactionCount int
	Revenue          decimal.Decimal
	Payments         []*Payment
}
