package secondary

import (
	"context"
	"errors"
)

// ErrNotArchived is returned by GetByTransaction when the transaction has no archived receipt.
var ErrNotArchived = errors.New("receipt not found in archive")

// ReceiptArchive defines the secondary port for locally archived receipts.
// Receipts are archived once per transaction so they can be reprinted offline.
type ReceiptArchive interface {
	// Save archives a receipt. Saving the same transaction twice is a no-op.
	Save(ctx context.Context, rec *ArchivedReceiptRecord) error

	// GetByTransaction retrieves an archived receipt by transaction number.
	// Returns an error wrapping ErrNotArchived when there is none.
	GetByTransaction(ctx context.Context, transactionNumber string) (*ArchivedReceiptRecord, error)

	// List retrieves archived receipts matching the given filters, newest first.
	List(ctx context.Context, filters ArchiveFilters) ([]*ArchivedReceiptRecord, error)
}

// ArchivedReceiptRecord represents an archived receipt as stored in persistence.
type ArchivedReceiptRecord struct {
	ID         string
	PaymentID  string
	BillID     string
	SessionID  string
	Receipt    ReceiptRecord
	ArchivedAt string
}

// ArchiveFilters contains filter options for listing archived receipts.
type ArchiveFilters struct {
	CustomerCode string
	PaidOn       string // YYYY-MM-DD, matched against the receipt's paid-at date
	Limit        int
}
