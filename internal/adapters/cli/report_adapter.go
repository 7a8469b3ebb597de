package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/paydesk/internal/ports/primary"
)

// ReportAdapter is a thin adapter that translates CLI operations to ReportService calls.
type ReportAdapter struct {
	service primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// ShowCustomer displays a single customer.
func (a *ReportAdapter) ShowCustomer(ctx context.Context, code string) error {
	customer, err := a.service.GetCustomer(ctx, code)
	if err != nil {
		return err
	}
	renderCustomer(a.out, customer)
	fmt.Fprintln(a.out)
	return nil
}

// Bills lists a customer's bills.
func (a *ReportAdapter) Bills(ctx context.Context, code string, unpaidOnly bool) error {
	bills, err := a.service.BillHistory(ctx, code, unpaidOnly)
	if err != nil {
		return err
	}

	renderBills(a.out, bills, nil)
	if unpaidOnly && len(bills) > 0 {
		total := bills[0].Due
		for _, b := range bills[1:] {
			total = total.Add(b.Due)
		}
		fmt.Fprintf(a.out, "\nOutstanding: %s\n", formatMoney(total))
	}
	return nil
}

// Daily displays the collection report for one day.
func (a *ReportAdapter) Daily(ctx context.Context, date time.Time) error {
	report, err := a.service.DailyReport(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nDaily report: %s\n", report.Date)
	fmt.Fprintf(a.out, "Transactions: %d\n", report.TransactionCount)
	fmt.Fprintf(a.out, "Revenue:      %s\n\n", formatMoney(report.Revenue))
	if len(report.Payments) > 0 {
		renderPayments(a.out, report.Payments)
	}
	return nil
}

// History lists one page of transaction history.
func (a *ReportAdapter) History(ctx context.Context, filters primary.HistoryFilters) error {
	page, err := a.service.TransactionHistory(ctx, filters)
	if err != nil {
		return err
	}

	renderPayments(a.out, page.Payments)
	fmt.Fprintf(a.out, "\nPage %d of %d (%d payments)\n", page.Page, page.LastPage, page.Total)
	return nil
}
