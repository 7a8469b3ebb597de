package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/paydesk/internal/ports/primary"
)

// ReceiptAdapter is a thin adapter that translates CLI operations to ReceiptService calls.
type ReceiptAdapter struct {
	service primary.ReceiptService
	out     io.Writer
}

// NewReceiptAdapter creates a new ReceiptAdapter with the given service.
func NewReceiptAdapter(service primary.ReceiptService, out io.Writer) *ReceiptAdapter {
	return &ReceiptAdapter{
		service: service,
		out:     out,
	}
}

// Fetch prints the receipt of a payment, fetched from the backend.
func (a *ReceiptAdapter) Fetch(ctx context.Context, paymentID string) error {
	receipt, err := a.service.FetchReceipt(ctx, paymentID)
	if err != nil {
		return err
	}
	renderReceipt(a.out, receipt)
	return nil
}

// Find prints the receipt of a transaction number.
func (a *ReceiptAdapter) Find(ctx context.Context, transactionNumber string) error {
	receipt, err := a.service.FindByTransaction(ctx, transactionNumber)
	if err != nil {
		return err
	}
	renderReceipt(a.out, receipt)
	return nil
}

// List lists locally archived receipts.
func (a *ReceiptAdapter) List(ctx context.Context, filters primary.ArchiveFilters) error {
	receipts, err := a.service.ListArchived(ctx, filters)
	if err != nil {
		return err
	}

	if len(receipts) == 0 {
		fmt.Fprintln(a.out, "No archived receipts")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRANSACTION\tPAID AT\tCUSTOMER\tPERIOD\tAMOUNT")
	for _, r := range receipts {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n",
			r.TransactionNumber, r.PaidAt, r.CustomerCode, r.CustomerName, r.Period, formatMoney(r.AmountPaid))
	}
	w.Flush()
	return nil
}
