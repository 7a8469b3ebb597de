package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
// Bill history, transaction history and daily reports are served from cache
// until a payment invalidates them.
type ReportServiceImpl struct {
	backend secondary.BillingBackend
	cache   *ViewCache
}

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(backend secondary.BillingBackend, cache *ViewCache) *ReportServiceImpl {
	return &ReportServiceImpl{
		backend: backend,
		cache:   cache,
	}
}

// GetCustomer looks a customer up by code.
func (s *ReportServiceImpl) GetCustomer(ctx context.Context, code string) (*primary.Customer, error) {
	record, err := s.backend.FindCustomer(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", code, err)
	}
	return customerToPrimary(record), nil
}

// BillHistory lists a customer's bills, optionally only unpaid ones.
func (s *ReportServiceImpl) BillHistory(ctx context.Context, code string, unpaidOnly bool) ([]*primary.Bill, error) {
	variant := "all"
	fetch := s.backend.ListBills
	if unpaidOnly {
		variant = "unpaid"
		fetch = s.backend.ListUnpaidBills
	}

	records, err := cached(ctx, s.cache, secondary.ViewBillHistory, code, variant,
		func(ctx context.Context) ([]*secondary.BillRecord, error) {
			return fetch(ctx, code)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list bills for %s: %w", code, err)
	}
	return billsToPrimary(records), nil
}

// TransactionHistory lists one page of recorded payments.
func (s *ReportServiceImpl) TransactionHistory(ctx context.Context, filters primary.HistoryFilters) (*primary.PaymentPage, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 10
	}
	variant := strconv.Itoa(page) + "/" + strconv.Itoa(perPage) + "/" + filters.Search

	record, err := cached(ctx, s.cache, secondary.ViewTransactionHistory, "", variant,
		func(ctx context.Context) (*secondary.PaymentPage, error) {
			return s.backend.ListPayments(ctx, secondary.PaymentFilters{
				Page:    page,
				PerPage: perPage,
				Search:  filters.Search,
			})
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &primary.PaymentPage{
		Payments: paymentsToPrimary(record.Payments),
		Total:    record.Total,
		Page:     record.Page,
		LastPage: record.LastPage,
	}, nil
}

// DailyReport returns one day's collection totals.
func (s *ReportServiceImpl) DailyReport(ctx context.Context, date time.Time) (*primary.DailyReport, error) {
	day := date.Format(time.DateOnly)

	record, err := cached(ctx, s.cache, secondary.ViewDailyReport, day, "",
		func(ctx context.Context) (*secondary.DailyReportRecord, error) {
			return s.backend.DailyReport(ctx, date)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load daily report for %s: %w", day, err)
	}

	return &primary.DailyReport{
		Date:             record.Date,
		TransactionCount: record.TransactionCount,
		Revenue:          record.Revenue,
		Payments:         paymentsToPrimary(record.Payments),
	}, nil
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
