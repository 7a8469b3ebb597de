package payment

import "github.com/shopspring/decimal"

// Selection is the set of bill ids chosen for payment, in the order they were picked.
// Values are immutable: every mutation returns a new Selection.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle adds the id when absent and removes it when present.
func (s Selection) Toggle(id string) Selection {
	if s.Contains(id) {
		return s.Retain(func(other string) bool { return other != id })
	}
	out := make([]string, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return Selection{ids: append(out, id)}
}

// Retain returns the members for which keep returns true, order preserved.
func (s Selection) Retain(keep func(id string) bool) Selection {
	var out []string
	for _, id := range s.ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return Selection{ids: out}
}

// Contains reports membership by bill id.
func (s Selection) Contains(id string) bool {
	for _, member := range s.ids {
		if member == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the members in selection order.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected bills.
func (s Selection) Len() int {
	return len(s.ids)
}

// Equal reports whether both selections hold the same ids, ignoring order.
func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Amount is the payable part of a bill.
type Amount struct {
	Principal decimal.Decimal
	Penalty   decimal.Decimal
}

// Due returns principal plus penalty.
func (a Amount) Due() decimal.Decimal {
	return a.Principal.Add(a.Penalty)
}

// TotalDue sums principal plus penalty over the selected bills.
// Ids missing from amounts contribute nothing.
func TotalDue(sel Selection, amounts map[string]Amount) decimal.Decimal {
	total := decimal.Zero
	for _, id := range sel.ids {
		if a, ok := amounts[id]; ok {
			total = total.Add(a.Due())
		}
	}
	return total
}
