// Package memory is an in-process ledger store used for development and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

type state struct {
	nextID     int64
	expenses   map[int64]core.Expense
	cards      map[int64]core.CreditCard
	debts      map[int64]core.Debt
	goals      map[int64]core.SavingsGoal
	paycheques map[int64]core.Paycheque
}

// Store keeps every record in maps guarded by one mutex. Transactions are
// serialized and roll back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state
	now  func() time.Time
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		st: state{
			expenses:   map[int64]core.Expense{},
			cards:      map[int64]core.CreditCard{},
			debts:      map[int64]core.Debt{},
			goals:      map[int64]core.SavingsGoal{},
			paycheques: map[int64]core.Paycheque{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ledger.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (st state) clone() state {
	return state{
		nextID:     st.nextID,
		expenses:   maps.Clone(st.expenses),
		cards:      maps.Clone(st.cards),
		debts:      maps.Clone(st.debts),
		goals:      maps.Clone(st.goals),
		paycheques: maps.Clone(st.paycheques),
	}
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Expenses

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.st.expenses[id]
	if !ok {
		return core.Expense{}, core.NewNotFoundError(core.EntityExpense, id)
	}
	return e, nil
}

func (s *Store) FindExpenses(_ context.Context, f ledger.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findExpenses(f), nil
}

func (s *Store) findExpenses(f ledger.ExpenseFilter) []core.Expense {
	out := make([]core.Expense, 0)
	for _, e := range s.st.expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (s *Store) SumExpenses(_ context.Context, f ledger.ExpenseFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.Limit = 0
	total := decimal.Zero
	for _, e := range s.findExpenses(f) {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *Store) SumExpensesByCategory(_ context.Context, f ledger.ExpenseFilter) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.Limit = 0
	totals := map[core.Category]decimal.Decimal{}
	for _, e := range s.findExpenses(f) {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	out := make([]core.CategoryAmount, 0, len(totals))
	for c, v := range totals {
		out = append(out, core.CategoryAmount{Name: string(c), Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Value.Equal(out[j].Value) {
			return out[i].Value.GreaterThan(out[j].Value)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e = cloneExpense(e)
	e.ID = s.id()
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	s.st.expenses[e.ID] = e
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.st.expenses[e.ID]
	if !ok {
		return core.Expense{}, core.NewNotFoundError(core.EntityExpense, e.ID)
	}
	e = cloneExpense(e)
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = s.now()
	s.st.expenses[e.ID] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.expenses[id]; !ok {
		return core.NewNotFoundError(core.EntityExpense, id)
	}
	delete(s.st.expenses, id)
	return nil
}

// Credit cards

func (s *Store) ListCreditCards(context.Context) ([]core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.cards, func(c core.CreditCard) int64 { return c.ID }), nil
}

func (s *Store) GetCreditCard(_ context.Context, id int64) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.cards[id]
	if !ok {
		return core.CreditCard{}, core.NewNotFoundError(core.EntityCreditCard, id)
	}
	return c, nil
}

func (s *Store) CreateCreditCard(_ context.Context, c core.CreditCard) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.DueDate = cloneDate(c.DueDate)
	c.ID = s.id()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.st.cards[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCreditCard(_ context.Context, c core.CreditCard) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.st.cards[c.ID]
	if !ok {
		return core.CreditCard{}, core.NewNotFoundError(core.EntityCreditCard, c.ID)
	}
	c.DueDate = cloneDate(c.DueDate)
	c.CurrentBalance = old.CurrentBalance
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.now()
	s.st.cards[c.ID] = c
	return c, nil
}

func (s *Store) AdjustCreditCardBalance(_ context.Context, id int64, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.cards[id]
	if !ok {
		return core.NewNotFoundError(core.EntityCreditCard, id)
	}
	c.CurrentBalance = core.RoundMoney(c.CurrentBalance.Add(delta))
	c.UpdatedAt = s.now()
	s.st.cards[id] = c
	return nil
}

func (s *Store) DeleteCreditCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.cards[id]; !ok {
		return core.NewNotFoundError(core.EntityCreditCard, id)
	}
	delete(s.st.cards, id)
	for eid, e := range s.st.expenses {
		if e.CreditCardID != nil && *e.CreditCardID == id {
			e.CreditCardID = nil
			s.st.expenses[eid] = e
		}
	}
	return nil
}

// Debts

func (s *Store) ListDebts(context.Context) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.debts, func(d core.Debt) int64 { return d.ID }), nil
}

func (s *Store) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.st.debts[id]
	if !ok {
		return core.Debt{}, core.NewNotFoundError(core.EntityDebt, id)
	}
	return d, nil
}

func (s *Store) CreateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	d.CreatedAt = s.now()
	d.UpdatedAt = d.CreatedAt
	s.st.debts[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.st.debts[d.ID]
	if !ok {
		return core.Debt{}, core.NewNotFoundError(core.EntityDebt, d.ID)
	}
	d.CreatedAt = old.CreatedAt
	d.UpdatedAt = s.now()
	s.st.debts[d.ID] = d
	return d, nil
}

func (s *Store) DeleteDebt(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.debts[id]; !ok {
		return core.NewNotFoundError(core.EntityDebt, id)
	}
	delete(s.st.debts, id)
	return nil
}

// Savings goals

func (s *Store) ListSavingsGoals(context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.goals, func(g core.SavingsGoal) int64 { return g.ID }), nil
}

func (s *Store) GetSavingsGoal(_ context.Context, id int64) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.st.goals[id]
	if !ok {
		return core.SavingsGoal{}, core.NewNotFoundError(core.EntitySavingsGoal, id)
	}
	return g, nil
}

func (s *Store) CreateSavingsGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	g.CreatedAt = s.now()
	g.UpdatedAt = g.CreatedAt
	s.st.goals[g.ID] = g
	return g, nil
}

func (s *Store) UpdateSavingsGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.st.goals[g.ID]
	if !ok {
		return core.SavingsGoal{}, core.NewNotFoundError(core.EntitySavingsGoal, g.ID)
	}
	g.CreatedAt = old.CreatedAt
	g.UpdatedAt = s.now()
	s.st.goals[g.ID] = g
	return g, nil
}

func (s *Store) DeleteSavingsGoal(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.goals[id]; !ok {
		return core.NewNotFoundError(core.EntitySavingsGoal, id)
	}
	delete(s.st.goals, id)
	return nil
}

// Paycheques

func (s *Store) ListPaycheques(_ context.Context, f ledger.PaychequeFilter) ([]core.Paycheque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPaycheques(f), nil
}

func (s *Store) listPaycheques(f ledger.PaychequeFilter) []core.Paycheque {
	out := make([]core.Paycheque, 0)
	for _, p := range s.st.paycheques {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.Before(out[j].PaymentDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) GetPaycheque(_ context.Context, id int64) (core.Paycheque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.paycheques[id]
	if !ok {
		return core.Paycheque{}, core.NewNotFoundError(core.EntityPaycheque, id)
	}
	return p, nil
}

func (s *Store) SumPaycheques(_ context.Context, f ledger.PaychequeFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, p := range s.listPaycheques(f) {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (s *Store) CreatePaycheque(_ context.Context, p core.Paycheque) (core.Paycheque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.st.paycheques[p.ID] = p
	return p, nil
}

func (s *Store) DeletePaycheque(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.paycheques[id]; !ok {
		return core.NewNotFoundError(core.EntityPaycheque, id)
	}
	delete(s.st.paycheques, id)
	for eid, e := range s.st.expenses {
		if e.PaychequeID != nil && *e.PaychequeID == id {
			e.PaychequeID = nil
			s.st.expenses[eid] = e
		}
	}
	return nil
}

func sortedByID[T any](m map[int64]T, id func(T) int64) []T {
	out := slices.Collect(maps.Values(m))
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	if out == nil {
		out = []T{}
	}
	return out
}

func cloneExpense(e core.Expense) core.Expense {
	e.CreditCardID = cloneID(e.CreditCardID)
	e.PaychequeID = cloneID(e.PaychequeID)
	e.AnchorID = cloneID(e.AnchorID)
	return e
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDate(p *core.Date) *core.Date {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
