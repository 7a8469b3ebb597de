package payment

// This file contains the pure planner that decides what a session does once
// every submission in a batch has settled.

// SubmissionOutcome is the settled result of one bill's payment call.
type SubmissionOutcome struct {
	BillID    string
	Succeeded bool
}

// SettlementInput contains everything the settlement planner needs.
// All values are pre-fetched by the caller - no I/O in the planner.
type SettlementInput struct {
	Selection Selection
	Outcomes  []SubmissionOutcome // in issuance order
}

// SettlementPlan describes how the session moves on after a batch.
type SettlementPlan struct {
	NextPhase Phase

	// ResetSession clears customer, bills, selection and search text.
	ResetSession bool

	// RefetchBills asks the caller to reload the unpaid bill list before
	// pruning the selection with PruneAfterRefetch.
	RefetchBills bool

	// InvalidateViews is set when at least one payment was recorded.
	InvalidateViews bool

	// ReceiptBillID names the bill whose receipt is shown first (empty if none).
	ReceiptBillID string

	SucceededIDs []string
	FailedIDs    []string
}

// PlanSettlement applies the post-submission policy:
//   - all succeeded: session completes and resets
//   - some failed: bills are refetched and the selection keeps the failures
//   - all failed: selection is left as it was
func PlanSettlement(in SettlementInput) SettlementPlan {
	var plan SettlementPlan
	for _, o := range in.Outcomes {
		if o.Succeeded {
			plan.SucceededIDs = append(plan.SucceededIDs, o.BillID)
			if plan.ReceiptBillID == "" {
				plan.ReceiptBillID = o.BillID
			}
		} else {
			plan.FailedIDs = append(plan.FailedIDs, o.BillID)
		}
	}

	switch {
	case len(plan.FailedIDs) == 0:
		plan.NextPhase = PhaseSessionComplete
		plan.ResetSession = true
		plan.InvalidateViews = len(plan.SucceededIDs) > 0
	case len(plan.SucceededIDs) == 0:
		plan.NextPhase = PhaseSubmissionFailed
	default:
		plan.NextPhase = PhaseSubmissionFailed
		plan.RefetchBills = true
		plan.InvalidateViews = true
	}
	return plan
}

// PruneAfterRefetch keeps the selected bills that failed and are still unpaid
// according to the refetched bill list.
func PruneAfterRefetch(sel Selection, failedIDs []string, stillUnpaid map[string]bool) Selection {
	failed := make(map[string]bool, len(failedIDs))
	for _, id := range failedIDs {
		failed[id] = true
	}
	return sel.Retain(func(id string) bool {
		return failed[id] && stillUnpaid[id]
	})
}
