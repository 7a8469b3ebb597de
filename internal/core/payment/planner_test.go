package payment

import (
	"reflect"
	"testing"
)

func TestPlanSettlement(t *testing.T) {
	sel := NewSelection("b1", "b2")

	tests := []struct {
		name           string
		outcomes       []SubmissionOutcome
		wantPhase      Phase
		wantReset      bool
		wantRefetch    bool
		wantInvalidate bool
		wantReceipt    string
		wantFailed     []string
	}{
		{
			name:           "all succeeded completes the session",
			outcomes:       []SubmissionOutcome{{"b1", true}, {"b2", true}},
			wantPhase:      PhaseSessionComplete,
			wantReset:      true,
			wantInvalidate: true,
			wantReceipt:    "b1",
		},
		{
			name:           "partial failure refetches and keeps failures",
			outcomes:       []SubmissionOutcome{{"b1", true}, {"b2", false}},
			wantPhase:      PhaseSubmissionFailed,
			wantRefetch:    true,
			wantInvalidate: true,
			wantReceipt:    "b1",
			wantFailed:     []string{"b2"},
		},
		{
			name:           "receipt comes from first success in issuance order",
			outcomes:       []SubmissionOutcome{{"b1", false}, {"b2", true}},
			wantPhase:      PhaseSubmissionFailed,
			wantRefetch:    true,
			wantInvalidate: true,
			wantReceipt:    "b2",
			wantFailed:     []string{"b1"},
		},
		{
			name:       "all failed leaves selection alone",
			outcomes:   []SubmissionOutcome{{"b1", false}, {"b2", false}},
			wantPhase:  PhaseSubmissionFailed,
			wantFailed: []string{"b1", "b2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanSettlement(SettlementInput{Selection: sel, Outcomes: tt.outcomes})
			if plan.NextPhase != tt.wantPhase {
				t.Errorf("NextPhase = %q, want %q", plan.NextPhase, tt.wantPhase)
			}
			if plan.ResetSession != tt.wantReset {
				t.Errorf("ResetSession = %v, want %v", plan.ResetSession, tt.wantReset)
			}
			if plan.RefetchBills != tt.wantRefetch {
				t.Errorf("RefetchBills = %v, want %v", plan.RefetchBills, tt.wantRefetch)
			}
			if plan.InvalidateViews != tt.wantInvalidate {
				t.Errorf("InvalidateViews = %v, want %v", plan.InvalidateViews, tt.wantInvalidate)
			}
			if plan.ReceiptBillID != tt.wantReceipt {
				t.Errorf("ReceiptBillID = %q, want %q", plan.ReceiptBillID, tt.wantReceipt)
			}
			if !reflect.DeepEqual(plan.FailedIDs, tt.wantFailed) {
				t.Errorf("FailedIDs = %v, want %v", plan.FailedIDs, tt.wantFailed)
			}
		})
	}
}

func TestPruneAfterRefetch(t *testing.T) {
	sel := NewSelection("b1", "b2", "b3")

	got := PruneAfterRefetch(sel, []string{"b2", "b3"}, map[string]bool{"b2": true})

	if ids := got.IDs(); len(ids) != 1 || ids[0] != "b2" {
		t.Errorf("IDs() = %v, want [b2]", ids)
	}
}
