package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/paydesk/internal/core/payment"
	"github.com/example/paydesk/internal/ctxutil"
	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// ErrSessionReset is returned by Search and Submit when Reset ran while they
// were waiting on the backend. Their results were discarded.
var ErrSessionReset = errors.New("session was reset while the request was in flight")

// PaymentSessionImpl implements the PaymentSession interface.
//
// State is guarded by mu. The lock is released while backend calls run and
// re-acquired to apply their results; epoch detects a Reset in between.
type PaymentSessionImpl struct {
	id        string
	backend   secondary.BillingBackend
	logWriter secondary.LogWriter
	archive   secondary.ReceiptArchive
	views     secondary.ViewInvalidator

	mu          sync.Mutex
	phase       payment.Phase
	searchText  string
	customer    *secondary.CustomerRecord
	bills       []*secondary.BillRecord
	selection   payment.Selection
	lastError   string
	lastReceipt *primary.Receipt
	receipts    []*primary.Receipt
	lastBatch   *primary.BatchResult
	epoch       uint64
	cancel      context.CancelFunc
}

// NewPaymentSession creates a new PaymentSession with injected dependencies.
// logWriter, archive and views may be nil.
func NewPaymentSession(
	backend secondary.BillingBackend,
	logWriter secondary.LogWriter,
	archive secondary.ReceiptArchive,
	views secondary.ViewInvalidator,
) *PaymentSessionImpl {
	return &PaymentSessionImpl{
		id:        uuid.NewString(),
		backend:   backend,
		logWriter: logWriter,
		archive:   archive,
		views:     views,
		phase:     payment.InitialPhase(),
	}
}

// ID returns the session identifier used in the journal.
func (s *PaymentSessionImpl) ID() string {
	return s.id
}

// SetSearchText stores the customer code being typed.
func (s *PaymentSessionImpl) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchText = text
}

// searchRestore holds what a failed search puts back.
type searchRestore struct {
	phase     payment.Phase
	customer  *secondary.CustomerRecord
	bills     []*secondary.BillRecord
	selection payment.Selection
}

// Search looks up the customer named by the search text, then its unpaid bills.
// Customer and bills are committed together; any failure leaves the previously
// loaded customer, bills and selection in place.
func (s *PaymentSessionImpl) Search(ctx context.Context) error {
	ctx = s.journalContext(ctx)

	s.mu.Lock()
	guard := payment.CanSearch(payment.SearchContext{SearchText: s.searchText, Phase: s.phase})
	if err := guard.Error(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := payment.CanTransition(s.phase, payment.PhaseSearching).Error(); err != nil {
		s.mu.Unlock()
		return err
	}

	prev := searchRestore{phase: s.phase, customer: s.customer, bills: s.bills, selection: s.selection}
	code := strings.TrimSpace(s.searchText)
	s.lastError = ""
	s.setPhase(ctx, payment.PhaseSearching)
	callCtx, epoch := s.beginCall(ctx)
	s.mu.Unlock()

	_ = s.log(ctx, "search", "customer", code, "")

	customer, err := s.backend.FindCustomer(callCtx, code)
	if err != nil {
		fallback := "failed to look up customer"
		if secondary.IsNotFound(err) {
			fallback = "customer not found"
		}
		return s.failSearch(ctx, epoch, prev, operatorMessage(err, fallback), secondary.IsNotFound(err), err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSessionReset
	}
	s.setPhase(ctx, payment.PhaseCustomerFound)
	s.mu.Unlock()

	billCode := customer.Code
	if billCode == "" {
		billCode = code
	}
	bills, err := s.backend.ListUnpaidBills(callCtx, billCode)
	if err != nil {
		return s.failSearch(ctx, epoch, prev, operatorMessage(err, "failed to load unpaid bills"), false, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrSessionReset
	}
	s.endCall()
	s.customer = customer
	s.bills = bills
	s.selection = payment.NewSelection()
	s.setPhase(ctx, payment.PhaseBillsLoaded)
	return nil
}

// failSearch restores the pre-search state and records the operator message.
func (s *PaymentSessionImpl) failSearch(ctx context.Context, epoch uint64, prev searchRestore, msg string, notFound bool, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrSessionReset
	}
	s.endCall()

	s.customer = prev.customer
	s.bills = prev.bills
	s.selection = prev.selection
	s.lastError = msg

	next := prev.phase
	if notFound && prev.customer == nil {
		next = payment.PhaseCustomerNotFound
	}
	s.setPhase(ctx, next)

	return fmt.Errorf("%s: %w", msg, cause)
}

// ToggleBill adds or removes a loaded, unpaid bill from the selection.
func (s *PaymentSessionImpl) ToggleBill(billID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := s.findBill(billID)
	guard := payment.CanToggle(payment.ToggleContext{
		BillID:     billID,
		Phase:      s.phase,
		BillLoaded: bill != nil,
		BillPaid:   bill != nil && bill.Status == secondary.BillStatusPaid,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	s.selection = s.selection.Toggle(billID)

	next := payment.PhaseBillsLoaded
	if s.selection.Len() > 0 {
		next = payment.PhaseSelecting
	}
	if next != s.phase {
		s.setPhase(s.journalContext(context.Background()), next)
	}
	return nil
}

// submitItem is one bill captured at submission time.
type submitItem struct {
	billID string
	period string
}

// Submit pays every selected bill with its own backend call. Calls are issued
// in selection order and run concurrently; a failure does not cancel the others.
func (s *PaymentSessionImpl) Submit(ctx context.Context) (*primary.BatchResult, error) {
	ctx = s.journalContext(ctx)

	s.mu.Lock()
	guard := payment.CanSubmit(payment.SubmitContext{
		Phase:          s.phase,
		CustomerLoaded: s.customer != nil,
		SelectionSize:  s.selection.Len(),
	})
	if err := guard.Error(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := payment.CanTransition(s.phase, payment.PhaseSubmitting).Error(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	selection := s.selection
	items := make([]submitItem, 0, selection.Len())
	for _, id := range selection.IDs() {
		item := submitItem{billID: id}
		if b := s.findBill(id); b != nil {
			item.period = b.Period
		}
		items = append(items, item)
	}
	customerCode := s.customer.Code
	s.lastError = ""
	s.setPhase(ctx, payment.PhaseSubmitting)
	callCtx, epoch := s.beginCall(ctx)
	s.mu.Unlock()

	outcomes := make([]*primary.BillOutcome, len(items))
	var g errgroup.Group
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			outcomes[i] = s.payBill(callCtx, item)
			return nil
		})
	}
	_ = g.Wait()

	result := &primary.BatchResult{Outcomes: outcomes}
	settled := make([]payment.SubmissionOutcome, len(outcomes))
	for i, o := range outcomes {
		settled[i] = payment.SubmissionOutcome{BillID: o.BillID, Succeeded: o.Succeeded}
		if o.Succeeded {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	plan := payment.PlanSettlement(payment.SettlementInput{Selection: selection, Outcomes: settled})

	if plan.InvalidateViews {
		s.invalidateViews(ctx, customerCode)
	}

	// The bill list is refetched outside the lock; a Reset meanwhile wins.
	var (
		refetched  []*secondary.BillRecord
		refetchErr error
	)
	if plan.RefetchBills {
		refetched, refetchErr = s.backend.ListUnpaidBills(callCtx, customerCode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return result, ErrSessionReset
	}
	s.endCall()

	s.lastBatch = result
	s.receipts = nil
	s.lastReceipt = nil
	for _, o := range outcomes {
		if o.Receipt == nil {
			continue
		}
		s.receipts = append(s.receipts, o.Receipt)
	}
	// First successful bill in selection order; falls back to the next
	// success when its receipt could not be fetched.
	if len(s.receipts) > 0 {
		s.lastReceipt = s.receipts[0]
	}

	switch {
	case plan.ResetSession:
		s.clearCustomer()
	case plan.RefetchBills:
		if refetchErr == nil {
			s.bills = refetched
			stillUnpaid := make(map[string]bool, len(refetched))
			for _, b := range refetched {
				if b.Status != secondary.BillStatusPaid {
					stillUnpaid[b.ID] = true
				}
			}
			s.selection = payment.PruneAfterRefetch(selection, plan.FailedIDs, stillUnpaid)
		} else {
			// Keep the old list minus the bills this batch paid, so they
			// can be neither shown as payable nor selected again
			s.bills = withoutBills(s.bills, plan.SucceededIDs)
			s.selection = selection.Retain(func(id string) bool { return !contains(plan.SucceededIDs, id) })
		}
	}

	s.lastError = batchErrorMessage(outcomes)
	if refetchErr != nil {
		s.lastError += "; " + operatorMessage(refetchErr, "failed to refresh unpaid bills")
	}
	s.setPhase(ctx, plan.NextPhase)

	return result, nil
}

// payBill submits one bill and fetches its receipt on success.
func (s *PaymentSessionImpl) payBill(ctx context.Context, item submitItem) *primary.BillOutcome {
	outcome := &primary.BillOutcome{BillID: item.billID, Period: item.period}
	_ = s.log(ctx, "submit", "bill", item.billID, item.period)

	paid, err := s.backend.SubmitPayment(ctx, secondary.SubmitPaymentRequest{
		BillID: item.billID,
		Method: secondary.PaymentMethodCash,
	})
	if err != nil {
		outcome.Error = operatorMessage(err, "payment processing failed")
		_ = s.log(ctx, "failed", "bill", item.billID, outcome.Error)
		return outcome
	}

	outcome.Succeeded = true
	outcome.PaymentID = paid.ID
	outcome.TransactionNumber = paid.TransactionNumber
	_ = s.log(ctx, "paid", "bill", item.billID, paid.TransactionNumber)

	rec, err := s.backend.FetchReceipt(ctx, paid.ID)
	if err != nil {
		// The payment stands; only the printout is missing
		outcome.Error = "receipt unavailable: " + operatorMessage(err, "failed to fetch receipt")
		return outcome
	}
	if rec.TransactionNumber == "" {
		rec.TransactionNumber = paid.TransactionNumber
	}
	outcome.Receipt = receiptToPrimary(paid.ID, item.billID, rec)
	outcome.TransactionNumber = rec.TransactionNumber

	if s.archive != nil {
		_ = s.archive.Save(context.WithoutCancel(ctx), &secondary.ArchivedReceiptRecord{
			PaymentID: paid.ID,
			BillID:    item.billID,
			SessionID: s.id,
			Receipt:   *rec,
		})
	}
	_ = s.log(ctx, "receipt", "payment", paid.ID, rec.TransactionNumber)

	return outcome
}

// Reset cancels in-flight work and returns the session to idle.
// Receipts stay until DismissReceipt.
func (s *PaymentSessionImpl) Reset() {
	ctx := s.journalContext(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.endCall()
	s.clearCustomer()
	s.lastError = ""
	if s.phase != payment.PhaseIdle {
		s.setPhase(ctx, payment.PhaseIdle)
	}
	_ = s.log(ctx, "reset", "session", s.id, "")
}

// DismissReceipt clears the receipts shown after the last submission.
func (s *PaymentSessionImpl) DismissReceipt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReceipt = nil
	s.receipts = nil
	s.lastBatch = nil
}

// Snapshot returns a read-only copy of the observable state.
// Total due is derived from the selection every time.
func (s *PaymentSessionImpl) Snapshot() primary.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	amounts := make(map[string]payment.Amount, len(s.bills))
	for _, b := range s.bills {
		amounts[b.ID] = payment.Amount{Principal: b.Principal, Penalty: b.Penalty}
	}

	snap := primary.SessionSnapshot{
		SessionID:   s.id,
		Phase:       string(s.phase),
		SearchText:  s.searchText,
		Customer:    customerToPrimary(s.customer),
		Bills:       billsToPrimary(s.bills),
		SelectedIDs: s.selection.IDs(),
		TotalDue:    payment.TotalDue(s.selection, amounts),
		LastError:   s.lastError,
		LastReceipt: s.lastReceipt,
		Receipts:    append([]*primary.Receipt(nil), s.receipts...),
		LastBatch:   s.lastBatch,
	}
	for _, id := range snap.SelectedIDs {
		if b := s.findBill(id); b != nil {
			snap.Selected = append(snap.Selected, billToPrimary(b))
		}
	}
	return snap
}

// Helper methods

// beginCall derives a cancellable context for a backend call. Caller holds mu.
func (s *PaymentSessionImpl) beginCall(ctx context.Context) (context.Context, uint64) {
	callCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return callCtx, s.epoch
}

// endCall releases the in-flight context. Caller holds mu.
func (s *PaymentSessionImpl) endCall() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// setPhase moves to next and journals the change. Caller holds mu.
func (s *PaymentSessionImpl) setPhase(ctx context.Context, next payment.Phase) {
	from := s.phase
	if from == next {
		return
	}
	s.phase = next
	if s.logWriter != nil {
		_ = s.logWriter.LogTransition(context.WithoutCancel(ctx), string(from), string(next))
	}
}

// clearCustomer drops customer, bills, selection and search text. Caller holds mu.
func (s *PaymentSessionImpl) clearCustomer() {
	s.customer = nil
	s.bills = nil
	s.selection = payment.NewSelection()
	s.searchText = ""
}

// findBill returns the loaded bill with id, or nil. Caller holds mu.
func (s *PaymentSessionImpl) findBill(id string) *secondary.BillRecord {
	for _, b := range s.bills {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *PaymentSessionImpl) journalContext(ctx context.Context) context.Context {
	return ctxutil.WithSessionID(ctx, s.id)
}

func (s *PaymentSessionImpl) log(ctx context.Context, action, subjectType, subjectID, detail string) error {
	if s.logWriter == nil {
		return nil
	}
	return s.logWriter.LogEvent(context.WithoutCancel(ctx), action, subjectType, subjectID, detail)
}

func (s *PaymentSessionImpl) invalidateViews(ctx context.Context, customerCode string) {
	if s.views == nil {
		return
	}
	s.views.Invalidate(ctx, secondary.ViewBillHistory, customerCode)
	s.views.Invalidate(ctx, secondary.ViewTransactionHistory, "")
	s.views.Invalidate(ctx, secondary.ViewDailyReport, "")
}

// batchErrorMessage names every failed bill, or returns "" when all succeeded.
func batchErrorMessage(outcomes []*primary.BillOutcome) string {
	var parts []string
	for _, o := range outcomes {
		if o.Succeeded {
			continue
		}
		label := o.BillID
		if o.Period != "" {
			label = fmt.Sprintf("%s (%s)", o.BillID, o.Period)
		}
		parts = append(parts, fmt.Sprintf("payment failed for bill %s: %s", label, o.Error))
	}
	return strings.Join(parts, "; ")
}

// withoutBills returns bills minus those whose ID is in ids. The input is not modified.
func withoutBills(bills []*secondary.BillRecord, ids []string) []*secondary.BillRecord {
	kept := make([]*secondary.BillRecord, 0, len(bills))
	for _, b := range bills {
		if !contains(ids, b.ID) {
			kept = append(kept, b)
		}
	}
	return kept
}

func contains(ids []string, id string) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}

// Ensure PaymentSessionImpl implements the interface
var _ primary.PaymentSession = (*PaymentSessionImpl)(nil)
