package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/example/paydesk/internal/ports/primary"
)

func okMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func failMark() string {
	return color.New(color.FgRed).Sprint("✗")
}

// formatMoney renders an amount in whole rupiah.
func formatMoney(d decimal.Decimal) string {
	return "Rp " + d.StringFixed(0)
}

func renderCustomer(out io.Writer, c *primary.Customer) {
	fmt.Fprintf(out, "\nCustomer: %s  %s\n", c.Code, c.Name)
	if c.Address != "" {
		fmt.Fprintf(out, "Address:  %s\n", c.Address)
	}
	if c.TariffCode != "" {
		fmt.Fprintf(out, "Tariff:   %s / %d VA\n", c.TariffCode, c.PowerVA)
	}
	if c.MeterNumber != "" {
		fmt.Fprintf(out, "Meter:    %s\n", c.MeterNumber)
	}
	if !c.Active {
		fmt.Fprintf(out, "Status:   %s\n", color.New(color.FgYellow).Sprint("inactive"))
	}
}

// renderBills prints a bill table. Bills in selected are marked.
func renderBills(out io.Writer, bills []*primary.Bill, selected map[string]bool) {
	if len(bills) == 0 {
		fmt.Fprintln(out, "No bills found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if selected != nil {
		fmt.Fprintln(w, "SEL\tBILL\tPERIOD\tUSAGE kWh\tPRINCIPAL\tPENALTY\tDUE\tSTATUS")
	} else {
		fmt.Fprintln(w, "BILL\tPERIOD\tUSAGE kWh\tPRINCIPAL\tPENALTY\tDUE\tSTATUS")
	}
	for _, b := range bills {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s",
			b.ID, b.Period, b.UsageKWh.String(), formatMoney(b.Principal),
			formatMoney(b.Penalty), formatMoney(b.Due), b.Status)
		if selected != nil {
			mark := "[ ]"
			if selected[b.ID] {
				mark = "[x]"
			}
			row = mark + "\t" + row
		}
		fmt.Fprintln(w, row)
	}
	w.Flush()
}

func renderReceipt(out io.Writer, r *primary.Receipt) {
	rule := strings.Repeat("─", 44)
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "  ELECTRICITY BILL PAYMENT RECEIPT")
	fmt.Fprintln(out, rule)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Transaction\t%s\n", r.TransactionNumber)
	fmt.Fprintf(w, "Paid at\t%s\n", r.PaidAt)
	fmt.Fprintf(w, "Method\t%s\n", r.Method)
	fmt.Fprintf(w, "Customer\t%s %s\n", r.CustomerCode, r.CustomerName)
	if r.CustomerAddress != "" {
		fmt.Fprintf(w, "Address\t%s\n", r.CustomerAddress)
	}
	if r.TariffCode != "" {
		fmt.Fprintf(w, "Tariff\t%s / %d VA\n", r.TariffCode, r.PowerVA)
	}
	fmt.Fprintf(w, "Period\t%s\n", r.Period)
	fmt.Fprintf(w, "Meter\t%s - %s\n", r.MeterStart.String(), r.MeterEnd.String())
	fmt.Fprintf(w, "Usage\t%s kWh x %s\n", r.UsageKWh.String(), formatMoney(r.RatePerKWh))
	fmt.Fprintf(w, "Usage cost\t%s\n", formatMoney(r.UsageCost))
	fmt.Fprintf(w, "Admin fee\t%s\n", formatMoney(r.AdminFee))
	fmt.Fprintf(w, "Penalty\t%s\n", formatMoney(r.Penalty))
	fmt.Fprintf(w, "Bill total\t%s\n", formatMoney(r.BillTotal))
	fmt.Fprintf(w, "Amount paid\t%s\n", formatMoney(r.AmountPaid))
	fmt.Fprintf(w, "Status\t%s\n", r.Status)
	fmt.Fprintf(w, "Cashier\t%s\n", r.Cashier)
	w.Flush()

	fmt.Fprintln(out, rule)
}

func renderPayments(out io.Writer, payments []*primary.Payment) {
	if len(payments) == 0 {
		fmt.Fprintln(out, "No payments found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRANSACTION\tPAID AT\tCUSTOMER\tAMOUNT\tCASHIER\tSTATUS")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.TransactionNumber, p.PaidAt, p.CustomerName, formatMoney(p.Amount), p.CashierName, p.Status)
	}
	w.Flush()
}
