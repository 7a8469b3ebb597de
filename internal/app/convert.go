package app

import (
	"context"
	"errors"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// operatorMessage turns a backend failure into the text shown to the cashier:
// the backend's own message when it sent one, otherwise fallback.
func operatorMessage(err error, fallback string) string {
	if msg := secondary.BackendMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "backend did not respond in time"
	}
	if secondary.IsUnauthorized(err) {
		return "not logged in or session expired - run paydesk login"
	}
	return fallback
}

func customerToPrimary(c *secondary.CustomerRecord) *primary.Customer {
	if c == nil {
		return nil
	}
	out := &primary.Customer{
		Code:        c.Code,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		MeterNumber: c.MeterNumber,
		Active:      c.Active,
	}
	if c.Tariff != nil {
		out.TariffCode = c.Tariff.Code
		out.PowerVA = c.Tariff.PowerVA
	}
	return out
}

func billToPrimary(b *secondary.BillRecord) *primary.Bill {
	return &primary.Bill{
		ID:        b.ID,
		Period:    b.Period,
		UsageKWh:  b.UsageKWh,
		Principal: b.Principal,
		Penalty:   b.Penalty,
		Due:       b.Principal.Add(b.Penalty),
		Status:    b.Status,
		DueDate:   b.DueDate,
	}
}

func billsToPrimary(bills []*secondary.BillRecord) []*primary.Bill {
	out := make([]*primary.Bill, len(bills))
	for i, b := range bills {
		out[i] = billToPrimary(b)
	}
	return out
}

func receiptToPrimary(paymentID, billID string, r *secondary.ReceiptRecord) *primary.Receipt {
	return &primary.Receipt{
		PaymentID:         paymentID,
		BillID:            billID,
		TransactionNumber: r.TransactionNumber,
		PaidAt:            r.PaidAt,
		Method:            r.Method,
		CustomerCode:      r.CustomerCode,
		CustomerName:      r.CustomerName,
		CustomerAddress:   r.CustomerAddress,
		TariffCode:        r.TariffCode,
		PowerVA:           r.PowerVA,
		Period:            r.Period,
		MeterStart:        r.MeterStart,
		MeterEnd:          r.MeterEnd,
		UsageKWh:          r.UsageKWh,
		RatePerKWh:        r.RatePerKWh,
		UsageCost:         r.UsageCost,
		AdminFee:          r.AdminFee,
		Penalty:           r.Penalty,
		BillTotal:         r.BillTotal,
		AmountPaid:        r.AmountPaid,
		Status:            r.Status,
		Cashier:           r.Cashier,
	}
}

func paymentToPrimary(p *secondary.PaymentRecord) *primary.Payment {
	return &primary.Payment{
		ID:                p.ID,
		BillID:            p.BillID,
		TransactionNumber: p.TransactionNumber,
		Amount:            p.Amount,
		Method:            p.Method,
		PaidAt:            p.PaidAt,
		Status:            p.Status,
		CustomerName:      p.CustomerName,
		CashierName:       p.CashierName,
	}
}

func paymentsToPrimary(payments []*secondary.PaymentRecord) []*primary.Payment {
	out := make([]*primary.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToPrimary(p)
	}
	return out
}
