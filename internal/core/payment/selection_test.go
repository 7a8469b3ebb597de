package payment

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection()
	sel = sel.Toggle("b1")
	sel = sel.Toggle("b2")

	if got := sel.IDs(); len(got) != 2 || got[0] != "b1" || got[1] != "b2" {
		t.Fatalf("IDs() = %v, want [b1 b2]", got)
	}

	sel = sel.Toggle("b1")
	if sel.Contains("b1") {
		t.Error("b1 should be removed by second toggle")
	}
	if !sel.Contains("b2") {
		t.Error("b2 should still be selected")
	}
}

func TestSelection_ToggleTwiceRestoresPriorValue(t *testing.T) {
	starts := []Selection{
		NewSelection(),
		NewSelection("b1"),
		NewSelection("b1", "b2", "b3"),
	}
	ids := []string{"b1", "b2", "b3", "b4"}

	for _, start := range starts {
		for _, id := range ids {
			got := start.Toggle(id).Toggle(id)
			if !got.Equal(start) {
				t.Errorf("toggling %s twice on %v gave %v", id, start.IDs(), got.IDs())
			}
		}
	}
}

func TestSelection_ToggleDoesNotMutateReceiver(t *testing.T) {
	base := NewSelection("b1")
	_ = base.Toggle("b2")
	_ = base.Toggle("b1")

	if got := base.IDs(); len(got) != 1 || got[0] != "b1" {
		t.Errorf("receiver changed: %v", got)
	}
}

func TestNewSelection_DropsDuplicates(t *testing.T) {
	sel := NewSelection("b1", "b1", "b2")
	if sel.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sel.Len())
	}
}

func TestTotalDue(t *testing.T) {
	amounts := map[string]Amount{
		"b1": {Principal: decimal.NewFromInt(200000), Penalty: decimal.Zero},
		"b2": {Principal: decimal.NewFromInt(150000), Penalty: decimal.NewFromInt(25000)},
		"b3": {Principal: decimal.RequireFromString("99999.50"), Penalty: decimal.RequireFromString("0.50")},
	}

	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{"empty selection", NewSelection(), "0"},
		{"single bill without penalty", NewSelection("b1"), "200000"},
		{"single bill with penalty", NewSelection("b2"), "175000"},
		{"both bills", NewSelection("b1", "b2"), "375000"},
		{"fractional amounts", NewSelection("b3"), "100000"},
		{"unknown id ignored", NewSelection("b1", "zz"), "200000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalDue(tt.sel, amounts)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("TotalDue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTotalDue_TracksEveryToggle(t *testing.T) {
	amounts := map[string]Amount{
		"b1": {Principal: decimal.NewFromInt(200000)},
		"b2": {Principal: decimal.NewFromInt(150000), Penalty: decimal.NewFromInt(25000)},
		"b3": {Principal: decimal.NewFromInt(50000), Penalty: decimal.NewFromInt(1000)},
	}
	toggles := []string{"b1", "b2", "b1", "b3", "b2", "b2", "b3", "b1"}

	sel := NewSelection()
	for i, id := range toggles {
		sel = sel.Toggle(id)

		want := decimal.Zero
		for _, member := range sel.IDs() {
			want = want.Add(amounts[member].Principal).Add(amounts[member].Penalty)
		}
		if got := TotalDue(sel, amounts); !got.Equal(want) {
			t.Fatalf("after toggle %d (%s): TotalDue() = %s, want %s", i, id, got, want)
		}
	}
}
