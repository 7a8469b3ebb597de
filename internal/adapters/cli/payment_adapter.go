// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/example/paydesk/internal/ports/primary"
)

// PaymentAdapter drives one PaymentSession from the terminal.
// Reports share the view cache the session invalidates after each payment.
type PaymentAdapter struct {
	session primary.PaymentSession
	reports *ReportAdapter // nil when no report service is wired
	out     io.Writer
}

// NewPaymentAdapter creates a new PaymentAdapter for the given session.
// reports may be nil.
func NewPaymentAdapter(session primary.PaymentSession, reports primary.ReportService, out io.Writer) *PaymentAdapter {
	a := &PaymentAdapter{
		session: session,
		out:     out,
	}
	if reports != nil {
		a.reports = NewReportAdapter(reports, out)
	}
	return a
}

// Search looks up a customer and shows its unpaid bills.
func (a *PaymentAdapter) Search(ctx context.Context, code string) error {
	a.session.SetSearchText(code)
	if err := a.session.Search(ctx); err != nil {
		if msg := a.session.Snapshot().LastError; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return a.Show()
}

// Toggle flips the selection of each bill ID in turn, stopping at the first refusal.
func (a *PaymentAdapter) Toggle(billIDs ...string) error {
	if len(billIDs) == 0 {
		return fmt.Errorf("specify at least one bill ID")
	}
	for _, id := range billIDs {
		if err := a.session.ToggleBill(id); err != nil {
			return err
		}
	}
	a.printSelection()
	return nil
}

// SelectAll selects every loaded unpaid bill not yet selected.
func (a *PaymentAdapter) SelectAll() error {
	snap := a.session.Snapshot()
	if len(snap.Bills) == 0 {
		return fmt.Errorf("no unpaid bills to select")
	}
	selected := toSet(snap.SelectedIDs)
	for _, b := range snap.Bills {
		if selected[b.ID] || b.Status == "paid" {
			continue
		}
		if err := a.session.ToggleBill(b.ID); err != nil {
			return err
		}
	}
	a.printSelection()
	return nil
}

// Submit pays the selected bills and prints each outcome and the receipt.
// Returns an error when any bill failed.
func (a *PaymentAdapter) Submit(ctx context.Context) error {
	result, err := a.session.Submit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	for _, o := range result.Outcomes {
		switch {
		case o.Succeeded && o.Error == "":
			fmt.Fprintf(a.out, "%s Paid bill %s (%s): %s\n", okMark(), o.BillID, o.Period, o.TransactionNumber)
		case o.Succeeded:
			fmt.Fprintf(a.out, "%s Paid bill %s (%s): %s - %s\n", okMark(), o.BillID, o.Period, o.TransactionNumber, o.Error)
		default:
			fmt.Fprintf(a.out, "%s Bill %s (%s): %s\n", failMark(), o.BillID, o.Period, o.Error)
		}
	}

	snap := a.session.Snapshot()
	if snap.LastReceipt != nil {
		renderReceipt(a.out, snap.LastReceipt)
	}

	if result.Failed > 0 {
		if len(snap.Bills) > 0 {
			fmt.Fprintln(a.out, "\nStill unpaid:")
			renderBills(a.out, snap.Bills, toSet(snap.SelectedIDs))
			fmt.Fprintf(a.out, "Total due: %s\n", formatMoney(snap.TotalDue))
		}
		return fmt.Errorf("%d of %d payments failed", result.Failed, len(result.Outcomes))
	}

	fmt.Fprintf(a.out, "%s %d bill(s) paid\n", okMark(), result.Succeeded)
	return nil
}

// Reset abandons the current customer and returns to idle.
func (a *PaymentAdapter) Reset() {
	a.session.Reset()
	fmt.Fprintf(a.out, "%s Session reset\n", okMark())
}

// Dismiss clears the receipts of the last submission.
func (a *PaymentAdapter) Dismiss() {
	a.session.DismissReceipt()
	fmt.Fprintf(a.out, "%s Receipt dismissed\n", okMark())
}

// Show prints the current session state.
func (a *PaymentAdapter) Show() error {
	snap := a.session.Snapshot()

	if snap.Customer == nil {
		fmt.Fprintf(a.out, "\nNo customer loaded (phase: %s)\n", snap.Phase)
	} else {
		renderCustomer(a.out, snap.Customer)
		fmt.Fprintln(a.out)
		if len(snap.Bills) == 0 {
			fmt.Fprintf(a.out, "%s No unpaid bills\n", okMark())
		} else {
			renderBills(a.out, snap.Bills, toSet(snap.SelectedIDs))
			fmt.Fprintf(a.out, "\nSelected: %d  Total due: %s\n", len(snap.SelectedIDs), formatMoney(snap.TotalDue))
		}
	}
	if snap.LastError != "" {
		fmt.Fprintf(a.out, "%s %s\n", failMark(), snap.LastError)
	}
	if snap.LastReceipt != nil {
		fmt.Fprintf(a.out, "Last receipt: %s (dismiss to clear)\n", snap.LastReceipt.TransactionNumber)
	}
	return nil
}

// History shows one page of transaction history. args are [PAGE] [SEARCH...].
func (a *PaymentAdapter) History(ctx context.Context, args []string) error {
	if a.reports == nil {
		return fmt.Errorf("transaction history is not available")
	}
	filters := primary.HistoryFilters{Page: 1}
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			return fmt.Errorf("usage: history [PAGE] [SEARCH]")
		}
		filters.Page = page
		filters.Search = strings.Join(args[1:], " ")
	}
	return a.reports.History(ctx, filters)
}

// Bills shows every bill of the loaded customer, paid ones included.
func (a *PaymentAdapter) Bills(ctx context.Context) error {
	if a.reports == nil {
		return fmt.Errorf("bill history is not available")
	}
	customer := a.session.Snapshot().Customer
	if customer == nil {
		return fmt.Errorf("no customer loaded - search for a customer first")
	}
	return a.reports.Bills(ctx, customer.Code, false)
}

// PayOnce runs a whole session non-interactively: search, select, submit.
func (a *PaymentAdapter) PayOnce(ctx context.Context, code string, billIDs []string, all bool) error {
	if !all && len(billIDs) == 0 {
		return fmt.Errorf("specify --all or at least one --bill")
	}
	if err := a.Search(ctx, code); err != nil {
		return err
	}
	if all {
		if err := a.SelectAll(); err != nil {
			return err
		}
	} else if err := a.Toggle(billIDs...); err != nil {
		return err
	}
	return a.Submit(ctx)
}

// Run reads session commands line by line from in until quit or EOF.
// Command errors are printed and the loop continues.
func (a *PaymentAdapter) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(a.out, "Payment session started. Type 'help' for commands.")
	scanner := bufio.NewScanner(in)
	a.prompt()
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			a.prompt()
			continue
		}

		quit, err := a.dispatch(ctx, strings.ToLower(fields[0]), fields[1:])
		if err != nil {
			fmt.Fprintf(a.out, "%s %s\n", failMark(), err)
		}
		if quit {
			return nil
		}
		a.prompt()
	}
	return scanner.Err()
}

func (a *PaymentAdapter) dispatch(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "search", "s":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: search CODE")
		}
		return false, a.Search(ctx, args[0])
	case "toggle", "t":
		return false, a.Toggle(args...)
	case "all":
		return false, a.SelectAll()
	case "submit", "pay":
		return false, a.Submit(ctx)
	case "reset":
		a.Reset()
		return false, nil
	case "dismiss":
		a.Dismiss()
		return false, nil
	case "show":
		return false, a.Show()
	case "history", "h":
		return false, a.History(ctx, args)
	case "bills", "b":
		return false, a.Bills(ctx)
	case "help", "?":
		a.help()
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q - type 'help'", cmd)
	}
}

func (a *PaymentAdapter) prompt() {
	fmt.Fprintf(a.out, "%s> ", color.New(color.FgCyan).Sprint(a.session.Snapshot().Phase))
}

func (a *PaymentAdapter) help() {
	fmt.Fprintln(a.out, `Commands:
  search CODE      look up a customer and load unpaid bills
  toggle ID...     select or unselect bills
  all              select every unpaid bill
  submit           pay the selected bills
  reset            abandon the current customer
  dismiss          clear the last receipt
  show             show the session
  history [N] [Q]  show page N of transaction history, optionally filtered
  bills            show every bill of the loaded customer
  quit             leave`)
}

func (a *PaymentAdapter) printSelection() {
	snap := a.session.Snapshot()
	fmt.Fprintf(a.out, "Selected: [%s]  Total due: %s\n", strings.Join(snap.SelectedIDs, ", "), formatMoney(snap.TotalDue))
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
