package secondary

import "context"

// View names a read model that depends on payment state.
type View string

const (
	ViewBillHistory        View = "bill_history"
	ViewTransactionHistory View = "transaction_history"
	ViewDailyReport        View = "daily_report"
)

// ViewInvalidator drops cached read models after a payment is recorded,
// so the next read refetches from the backend.
type ViewInvalidator interface {
	// Invalidate drops the cached view for key; an empty key drops every entry of the view.
	Invalidate(ctx context.Context, view View, key string)
}
