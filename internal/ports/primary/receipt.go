package primary

import "context"

// ReceiptService defines the primary port for receipt lookup and reprint.
type ReceiptService interface {
	// FetchReceipt retrieves a receipt from the backend by payment ID and archives it.
	FetchReceipt(ctx context.Context, paymentID string) (*Receipt, error)

	// FindByTransaction retrieves a receipt by transaction number, archive first.
	FindByTransaction(ctx context.Context, transactionNumber string) (*Receipt, error)

	// ListArchived lists locally archived receipts.
	ListArchived(ctx context.Context, filters ArchiveFilters) ([]*Receipt, error)
}

// ArchiveFilters contains filter options for listing archived receipts.
type ArchiveFilters struct {
	CustomerCode string
	PaidOn       string // YYYY-MM-DD
	Limit        int
}
