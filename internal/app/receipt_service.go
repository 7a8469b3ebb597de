package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/paydesk/internal/ctxutil"
	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// ReceiptServiceImpl implements the ReceiptService interface.
// Receipts fetched from the backend are archived locally for reprint.
type ReceiptServiceImpl struct {
	backend secondary.BillingBackend
	archive secondary.ReceiptArchive
}

// NewReceiptService creates a new ReceiptService with injected dependencies.
func NewReceiptService(backend secondary.BillingBackend, archive secondary.ReceiptArchive) *ReceiptServiceImpl {
	return &ReceiptServiceImpl{
		backend: backend,
		archive: archive,
	}
}

// FetchReceipt retrieves a receipt from the backend by payment ID and archives it.
func (s *ReceiptServiceImpl) FetchReceipt(ctx context.Context, paymentID string) (*primary.Receipt, error) {
	record, err := s.backend.FetchReceipt(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt for payment %s: %w", paymentID, err)
	}

	if err := s.archive.Save(ctx, &secondary.ArchivedReceiptRecord{
		PaymentID: paymentID,
		SessionID: ctxutil.SessionFromContext(ctx),
		Receipt:   *record,
	}); err != nil {
		return nil, fmt.Errorf("failed to archive receipt: %w", err)
	}

	return receiptToPrimary(paymentID, "", record), nil
}

// FindByTransaction retrieves a receipt by transaction number.
// The local archive is checked first; only when the archive has no such
// receipt is the payment looked up on the backend and its receipt fetched
// and archived. Other archive failures are returned.
func (s *ReceiptServiceImpl) FindByTransaction(ctx context.Context, transactionNumber string) (*primary.Receipt, error) {
	archived, err := s.archive.GetByTransaction(ctx, transactionNumber)
	if err == nil {
		return archivedToPrimary(archived), nil
	}
	if !errors.Is(err, secondary.ErrNotArchived) {
		return nil, fmt.Errorf("failed to read receipt archive: %w", err)
	}

	paymentRecord, err := s.backend.FindPaymentByTransaction(ctx, transactionNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", transactionNumber, err)
	}

	receipt, err := s.FetchReceipt(ctx, paymentRecord.ID)
	if err != nil {
		return nil, err
	}
	receipt.BillID = paymentRecord.BillID
	return receipt, nil
}

// ListArchived lists locally archived receipts.
func (s *ReceiptServiceImpl) ListArchived(ctx context.Context, filters primary.ArchiveFilters) ([]*primary.Receipt, error) {
	records, err := s.archive.List(ctx, secondary.ArchiveFilters{
		CustomerCode: filters.CustomerCode,
		PaidOn:       filters.PaidOn,
		Limit:        filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archived receipts: %w", err)
	}

	receipts := make([]*primary.Receipt, len(records))
	for i, r := range records {
		receipts[i] = archivedToPrimary(r)
	}
	return receipts, nil
}

func archivedToPrimary(r *secondary.ArchivedReceiptRecord) *primary.Receipt {
	return receiptToPrimary(r.PaymentID, r.BillID, &r.Receipt)
}

// Ensure ReceiptServiceImpl implements the interface
var _ primary.ReceiptService = (*ReceiptServiceImpl)(nil)
