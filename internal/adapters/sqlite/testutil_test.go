// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/paydesk/internal/db"
	"github.com/example/paydesk/internal/ports/secondary"
	"github.com/shopspring/decimal"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection would otherwise get its own empty :memory: database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedJournal inserts a journal entry with an explicit timestamp.
func seedJournal(t *testing.T, db *sql.DB, id, sessionID, action, subjectID, timestamp string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO journal (id, session_id, timestamp, action, subject_type, subject_id) VALUES (?, ?, ?, ?, 'bill', ?)",
		id, sessionID, timestamp, action, subjectID,
	)
	if err != nil {
		t.Fatalf("failed to seed journal entry: %v", err)
	}
}

// sampleReceipt returns a fully populated receipt for the given transaction.
func sampleReceipt(transactionNumber, customerCode, paidAt string) secondary.ReceiptRecord {
	return secondary.ReceiptRecord{
		TransactionNumber: transactionNumber,
		PaidAt:            paidAt,
		Method:            secondary.PaymentMethodCash,
		CustomerCode:      customerCode,
		CustomerName:      "Ahmad Rizky",
		CustomerAddress:   "Jl. Merdeka 10",
		TariffCode:        "R1",
		PowerVA:           1300,
		Period:            "2024-01",
		MeterStart:        decimal.NewFromInt(1200),
		MeterEnd:          decimal.NewFromInt(1350),
		UsageKWh:          decimal.NewFromInt(150),
		RatePerKWh:        decimal.RequireFromString("1444.70"),
		UsageCost:         decimal.RequireFromString("216705"),
		AdminFee:          decimal.NewFromInt(2500),
		Penalty:           decimal.NewFromInt(25000),
		BillTotal:         decimal.NewFromInt(150000),
		AmountPaid:        decimal.NewFromInt(175000),
		Status:            "success",
		Cashier:           "Siti Kasir",
	}
}
