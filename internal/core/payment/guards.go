package payment

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SearchContext provides context for search guards.
type SearchContext struct {
	SearchText string
	Phase      Phase
}

// ToggleContext provides context for selection toggle guards.
// Populated by the caller from the currently loaded bill list.
type ToggleContext struct {
	BillID     string
	Phase      Phase
	BillLoaded bool // bill is part of the loaded list for the loaded customer
	BillPaid   bool
}

// SubmitContext provides context for payment submission guards.
type SubmitContext struct {
	Phase          Phase
	CustomerLoaded bool
	SelectionSize  int
}

// CanSearch evaluates whether a customer search may start.
// Rules:
// - Search text must not be blank
// - No other backend call may own the session
func CanSearch(ctx SearchContext) GuardResult {
	if strings.TrimSpace(ctx.SearchText) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "enter a customer code to search",
		}
	}
	if ctx.Phase.IsBusy() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot search while session is %s", ctx.Phase),
		}
	}
	return GuardResult{Allowed: true}
}

// CanToggle evaluates whether a bill's selection may be toggled.
// Rules:
// - Bills must be loaded and no submission may be running
// - The bill must belong to the loaded list
// - Paid bills cannot be selected
func CanToggle(ctx ToggleContext) GuardResult {
	if ctx.Phase == PhaseSubmitting {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot change selection while payments are being submitted",
		}
	}
	if !ctx.Phase.HasBills() {
		return GuardResult{
			Allowed: false,
			Reason:  "no bills loaded - search for a customer first",
		}
	}
	if !ctx.BillLoaded {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("bill %s is not in the loaded bill list", ctx.BillID),
		}
	}
	if ctx.BillPaid {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("bill %s is already paid", ctx.BillID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanSubmit evaluates whether the selected bills may be submitted for payment.
// Rules:
// - A customer must be loaded
// - At least one bill must be selected
// - Only one submission batch at a time
func CanSubmit(ctx SubmitContext) GuardResult {
	if ctx.Phase == PhaseSubmitting {
		return GuardResult{
			Allowed: false,
			Reason:  "payments are already being submitted",
		}
	}
	if !ctx.CustomerLoaded {
		return GuardResult{
			Allowed: false,
			Reason:  "no customer loaded - search for a customer first",
		}
	}
	if ctx.SelectionSize == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  "select at least one bill to pay",
		}
	}
	return GuardResult{Allowed: true}
}
