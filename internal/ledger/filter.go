package ledger

import "github.com/Maverick2506/Fintrack-backend/internal/core"

// ExpenseFilter narrows expense queries. Zero fields do not filter.
type ExpenseFilter struct {
	From         *core.Date // inclusive
	To           *core.Date // inclusive
	DueDate      *core.Date
	Name         string // exact match
	Category     core.Category
	Paid         *bool
	CardFunded   *bool
	CreditCardID *int64
	PaychequeID  *int64
	// Recurring keeps monthly and yearly expenses, anchors and
	// materialized instances alike.
	Recurring bool
	Limit       int
}

// Matches reports whether e satisfies every set field of f. Limit is ignored.
func (f ExpenseFilter) Matches(e core.Expense) bool {
	if f.From != nil && e.DueDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.DueDate.After(*f.To) {
		return false
	}
	if f.DueDate != nil && !e.DueDate.Equal(*f.DueDate) {
		return false
	}
	if f.Name != "" && e.Name != f.Name {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Paid != nil && e.IsPaid != *f.Paid {
		return false
	}
	if f.CardFunded != nil && e.CardFunded() != *f.CardFunded {
		return false
	}
	if f.CreditCardID != nil && (e.CreditCardID == nil || *e.CreditCardID != *f.CreditCardID) {
		return false
	}
	if f.PaychequeID != nil && (e.PaychequeID == nil || *e.PaychequeID != *f.PaychequeID) {
		return false
	}
	if f.Recurring && !e.Recurrence.Recurring() {
		return false
	}
	return true
}

// InMonth limits f to due dates within the given month.
func (f ExpenseFilter) InMonth(year, month int) ExpenseFilter {
	first, last := core.MonthRange(year, month)
	f.From, f.To = &first, &last
	return f
}

// PaychequeFilter narrows paycheque queries by payment date.
type PaychequeFilter struct {
	From *core.Date // inclusive
	To   *core.Date // inclusive
}

func (f PaychequeFilter) Matches(p core.Paycheque) bool {
	if f.From != nil && p.PaymentDate.Before(*f.From) {
		return false
	}
	if f.To != nil && p.PaymentDate.After(*f.To) {
		return false
	}
	return true
}

// InMonth limits f to payment dates within the given month.
func (f PaychequeFilter) InMonth(year, month int) PaychequeFilter {
	first, last := core.MonthRange(year, month)
	f.From, f.To = &first, &last
	return f
}

// Bool returns a pointer to b, for filter fields.
func Bool(b bool) *bool { return &b }
