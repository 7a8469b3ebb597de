// Package wire provides dependency injection for the paydesk application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/paydesk/internal/adapters/cli"
	"github.com/example/paydesk/internal/adapters/filesystem"
	"github.com/example/paydesk/internal/adapters/httpapi"
	"github.com/example/paydesk/internal/adapters/sqlite"
	"github.com/example/paydesk/internal/app"
	"github.com/example/paydesk/internal/config"
	"github.com/example/paydesk/internal/db"
	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// viewCacheTTL bounds how stale a report can be when no payment invalidated it.
const viewCacheTTL = 30 * time.Second

var (
	cfg            *config.Config
	backend        secondary.BillingBackend
	logWriter      secondary.LogWriter
	receiptArchive secondary.ReceiptArchive
	viewCache      *app.ViewCache
	authService    *app.AuthServiceImpl
	reportService  primary.ReportService
	receiptService primary.ReceiptService
	journalService primary.JournalService
	once           sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// AuthService returns the singleton AuthService instance.
func AuthService() primary.AuthService {
	once.Do(initServices)
	return authService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// ReceiptService returns the singleton ReceiptService instance.
func ReceiptService() primary.ReceiptService {
	once.Do(initServices)
	return receiptService
}

// JournalService returns the singleton JournalService instance.
func JournalService() primary.JournalService {
	once.Do(initServices)
	return journalService
}

// CurrentActor returns the logged-in cashier's user ID, or empty string.
func CurrentActor() string {
	once.Do(initServices)
	return authService.CurrentActor()
}

// NewPaymentSession returns a fresh payment session.
// Sessions are not shared: each terminal run gets its own.
func NewPaymentSession() primary.PaymentSession {
	once.Do(initServices)
	return app.NewPaymentSession(backend, logWriter, receiptArchive, viewCache)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load("", "")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	credentials, err := filesystem.NewCredentialFile(cfg.CredentialsPath)
	if err != nil {
		log.Fatalf("failed to locate credentials: %v", err)
	}

	// Secondary adapters
	backend = httpapi.NewClient(httpapi.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, credentials)
	journalRepo := sqlite.NewJournalRepository(database)
	logWriter = sqlite.NewLogWriterAdapter(journalRepo)
	receiptArchive = sqlite.NewReceiptArchive(database)
	viewCache = app.NewViewCache(viewCacheTTL)

	// Services (primary ports implementation)
	authService = app.NewAuthService(backend, credentials)
	reportService = app.NewReportService(backend, viewCache)
	receiptService = app.NewReceiptService(backend, receiptArchive)
	journalService = app.NewJournalService(journalRepo)
}

// PaymentAdapter returns a PaymentAdapter over a new session writing to stdout.
func PaymentAdapter() *cliadapter.PaymentAdapter {
	return PaymentAdapterWithOutput(os.Stdout)
}

// PaymentAdapterWithOutput returns a PaymentAdapter over a new session writing to out.
// The session and its reports share one view cache.
func PaymentAdapterWithOutput(out io.Writer) *cliadapter.PaymentAdapter {
	return cliadapter.NewPaymentAdapter(NewPaymentSession(), ReportService(), out)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	once.Do(initServices)
	return cliadapter.NewReportAdapter(reportService, out)
}

// ReceiptAdapterWithOutput returns a new ReceiptAdapter writing to the given output.
func ReceiptAdapterWithOutput(out io.Writer) *cliadapter.ReceiptAdapter {
	once.Do(initServices)
	return cliadapter.NewReceiptAdapter(receiptService, out)
}
