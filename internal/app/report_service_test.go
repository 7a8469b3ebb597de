package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

func newTestReportService() (*ReportServiceImpl, *mockBillingBackend, *ViewCache) {
	backend := newMockBillingBackend()
	backend.seedScenario()
	cache := NewViewCache(0)
	return NewReportService(backend, cache), backend, cache
}

func TestReportService_GetCustomer(t *testing.T) {
	service, _, _ := newTestReportService()

	customer, err := service.GetCustomer(context.Background(), "551234567890")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if customer.Name != "Ahmad Rizky" || customer.TariffCode != "R1" || customer.PowerVA != 1300 {
		t.Errorf("unexpected customer: %+v", customer)
	}

	_, err = service.GetCustomer(context.Background(), "000")
	if !secondary.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestReportService_BillHistoryIsCached(t *testing.T) {
	service, backend, _ := newTestReportService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		bills, err := service.BillHistory(ctx, "551234567890", true)
		if err != nil {
			t.Fatalf("BillHistory failed: %v", err)
		}
		if len(bills) != 2 {
			t.Fatalf("got %d bills, want 2", len(bills))
		}
		if !bills[1].Due.Equal(decimal.NewFromInt(175000)) {
			t.Errorf("b2 due = %s, want 175000", bills[1].Due)
		}
	}
	if backend.listUnpaidCalls != 1 {
		t.Errorf("backend called %d times, want 1", backend.listUnpaidCalls)
	}

	// The full history is a separate entry
	if _, err := service.BillHistory(ctx, "551234567890", false); err != nil {
		t.Fatalf("BillHistory failed: %v", err)
	}
	if backend.listBillsCalls != 1 {
		t.Errorf("ListBills called %d times, want 1", backend.listBillsCalls)
	}
}

func TestReportService_PaymentInvalidatesBillHistory(t *testing.T) {
	service, backend, cache := newTestReportService()
	ctx := context.Background()

	if _, err := service.BillHistory(ctx, "551234567890", true); err != nil {
		t.Fatalf("BillHistory failed: %v", err)
	}

	session := NewPaymentSession(backend, nil, nil, cache)
	session.SetSearchText("551234567890")
	if err := session.Search(ctx); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	session.ToggleBill("b1")
	if _, err := session.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	bills, err := service.BillHistory(ctx, "551234567890", true)
	if err != nil {
		t.Fatalf("BillHistory failed: %v", err)
	}
	if len(bills) != 1 || bills[0].ID != "b2" {
		t.Errorf("stale bill history after payment: %v", billIDs(bills))
	}
}

func TestReportService_TransactionHistoryDefaults(t *testing.T) {
	service, backend, cache := newTestReportService()
	ctx := context.Background()

	page, err := service.TransactionHistory(ctx, primary.HistoryFilters{})
	if err != nil {
		t.Fatalf("TransactionHistory failed: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("Page = %d, want 1", page.Page)
	}

	if _, err := service.TransactionHistory(ctx, primary.HistoryFilters{Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("TransactionHistory failed: %v", err)
	}
	if backend.listPaymentsCalls != 1 {
		t.Errorf("defaults should share the cache entry, got %d calls", backend.listPaymentsCalls)
	}

	cache.Invalidate(ctx, secondary.ViewTransactionHistory, "")
	if _, err := service.TransactionHistory(ctx, primary.HistoryFilters{}); err != nil {
		t.Fatalf("TransactionHistory failed: %v", err)
	}
	if backend.listPaymentsCalls != 2 {
		t.Errorf("ListPayments called %d times after invalidation, want 2", backend.listPaymentsCalls)
	}
}

func TestReportService_ErrorsAreNotCached(t *testing.T) {
	service, backend, _ := newTestReportService()
	backend.listPaymentsErr = transportErr("list payments")

	if _, err := service.TransactionHistory(context.Background(), primary.HistoryFilters{}); err == nil {
		t.Fatal("expected error")
	}

	backend.listPaymentsErr = nil
	if _, err := service.TransactionHistory(context.Background(), primary.HistoryFilters{}); err != nil {
		t.Fatalf("TransactionHistory failed after recovery: %v", err)
	}
	if backend.listPaymentsCalls != 2 {
		t.Errorf("ListPayments called %d times, want 2", backend.listPaymentsCalls)
	}
}

func TestReportService_DailyReportKeyedByDate(t *testing.T) {
	service, backend, _ := newTestReportService()
	ctx := context.Background()
	day := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)

	report, err := service.DailyReport(ctx, day)
	if err != nil {
		t.Fatalf("DailyReport failed: %v", err)
	}
	if report.Date != "2024-03-05" {
		t.Errorf("Date = %q, want 2024-03-05", report.Date)
	}

	service.DailyReport(ctx, day.Add(time.Hour))
	service.DailyReport(ctx, day.AddDate(0, 0, 1))
	if backend.dailyReportCalls != 2 {
		t.Errorf("DailyReport called %d times, want 2", backend.dailyReportCalls)
	}
}

func TestViewCache_TTL(t *testing.T) {
	cache := NewViewCache(time.Minute)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := cached(context.Background(), cache, secondary.ViewDailyReport, "k", "", fetch)
	now = now.Add(30 * time.Second)
	v2, _ := cached(context.Background(), cache, secondary.ViewDailyReport, "k", "", fetch)
	if v != 1 || v2 != 1 {
		t.Errorf("got %d then %d, want cached 1", v, v2)
	}

	now = now.Add(time.Minute)
	v3, _ := cached(context.Background(), cache, secondary.ViewDailyReport, "k", "", fetch)
	if v3 != 2 {
		t.Errorf("expired entry returned %d, want refetched 2", v3)
	}
}

func TestViewCache_InvalidateByKey(t *testing.T) {
	cache := NewViewCache(0)
	ctx := context.Background()
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}

	cached(ctx, cache, secondary.ViewBillHistory, "A", "all", fetch)
	cached(ctx, cache, secondary.ViewBillHistory, "A", "unpaid", fetch)
	cached(ctx, cache, secondary.ViewBillHistory, "B", "all", fetch)

	cache.Invalidate(ctx, secondary.ViewBillHistory, "A")

	cached(ctx, cache, secondary.ViewBillHistory, "A", "all", fetch)
	cached(ctx, cache, secondary.ViewBillHistory, "A", "unpaid", fetch)
	cached(ctx, cache, secondary.ViewBillHistory, "B", "all", fetch)

	if got := calls.Load(); got != 5 {
		t.Errorf("fetch called %d times, want 5 (B stays cached)", got)
	}
}

func TestViewCache_ConcurrentMissesShareFetch(t *testing.T) {
	cache := NewViewCache(0)
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = cached(context.Background(), cache, secondary.ViewDailyReport, "today", "", fetch)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch called %d times, want 1", got)
	}
	for i, r := range results {
		if r != 42 {
			t.Errorf("caller %d got %d, want 42", i, r)
		}
	}
}

func TestViewCache_FetchAcrossInvalidationIsNotStored(t *testing.T) {
	cache := NewViewCache(0)
	ctx := context.Background()
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			cache.Invalidate(ctx, secondary.ViewTransactionHistory, "")
		}
		return calls, nil
	}

	first, _ := cached(ctx, cache, secondary.ViewTransactionHistory, "", "1/10/", fetch)
	second, _ := cached(ctx, cache, secondary.ViewTransactionHistory, "", "1/10/", fetch)

	if first != 1 || second != 2 {
		t.Errorf("got %d then %d, want 1 then a fresh 2", first, second)
	}
}

func TestViewCache_ReaderAfterInvalidateDoesNotJoinOlderFetch(t *testing.T) {
	cache := NewViewCache(0)
	ctx := context.Background()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		n := int(calls.Add(1))
		if n == 1 {
			close(started)
			<-release
		}
		return n, nil
	}

	firstDone := make(chan int)
	go func() {
		v, _ := cached(ctx, cache, secondary.ViewTransactionHistory, "", "1/10/", fetch)
		firstDone <- v
	}()
	<-started

	cache.Invalidate(ctx, secondary.ViewTransactionHistory, "")

	secondDone := make(chan int)
	go func() {
		v, _ := cached(ctx, cache, secondary.ViewTransactionHistory, "", "1/10/", fetch)
		secondDone <- v
	}()

	select {
	case second := <-secondDone:
		if second != 2 {
			t.Errorf("reader after invalidation got %d, want a fresh fetch (2)", second)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reader after invalidation joined the fetch started before it")
	}

	close(release)
	if first := <-firstDone; first != 1 {
		t.Errorf("first reader got %d, want 1", first)
	}
	if got, _ := cached(ctx, cache, secondary.ViewTransactionHistory, "", "1/10/", fetch); got != 2 {
		t.Errorf("cached value = %d, want the post-invalidation fetch (2)", got)
	}
}
