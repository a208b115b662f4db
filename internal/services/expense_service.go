package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// ExpenseService orchestrates expense writes, card reconciliation and event publishing.
type ExpenseService struct {
	store      ledger.Store
	reconciler Reconciler
	publisher  EventPublisher
}

func NewExpenseService(store ledger.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

// ExpensePatch holds the fields of a partial update. Nil fields are left unchanged.
type ExpensePatch struct {
	Name                    *string          `json:"name"`
	Amount                  *decimal.Decimal `json:"amount"`
	DueDate                 *core.Date       `json:"due_date"`
	IsPaid                  *bool            `json:"is_paid"`
	Category                *core.Category   `json:"category"`
	Recurrence              *core.Recurrence `json:"recurrence"`
	IsCreditCardTransaction *bool            `json:"is_credit_card_transaction"`
	CreditCardID            core.OptionalID  `json:"credit_card_id"`
	PaychequeID             core.OptionalID  `json:"paycheque_id"`
}

// Apply returns e with the patch applied.
func (p ExpensePatch) Apply(e core.Expense) core.Expense {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.DueDate != nil {
		e.DueDate = *p.DueDate
	}
	if p.IsPaid != nil {
		e.IsPaid = *p.IsPaid
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Recurrence != nil {
		e.Recurrence = *p.Recurrence
	}
	if p.IsCreditCardTransaction != nil {
		e.IsCreditCardTransaction = *p.IsCreditCardTransaction
	}
	e.CreditCardID = p.CreditCardID.Apply(e.CreditCardID)
	e.PaychequeID = p.PaychequeID.Apply(e.PaychequeID)
	return e
}

// CreateExpense validates the expense, stores it and charges its card.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var created core.Expense
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		var err error
		created, err = s.createInTx(ctx, tx, e)
		return err
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense created",
		"id", created.ID,
		"name", created.Name,
		"amount", created.Amount.String(),
		"credit_card_id", created.CreditCardID)

	publishEvents(ctx, s.publisher, amqp.NewExpenseEvent(amqp.EventExpenseCreated, created))
	return created, nil
}

// createInTx is the single creation path shared by every producer of expenses.
func (s *ExpenseService) createInTx(ctx context.Context, tx ledger.Repository, e core.Expense) (core.Expense, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := checkLinks(ctx, tx, e); err != nil {
		return core.Expense{}, err
	}
	created, err := tx.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	if err := s.reconciler.Transition(ctx, tx, nil, &created); err != nil {
		return core.Expense{}, err
	}
	return created, nil
}

// UpdateExpense applies patch and moves the card charge when the link or amount changes.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, patch ExpensePatch) (core.Expense, error) {
	var updated core.Expense
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		before, err := tx.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		after := patch.Apply(before)
		after.Normalize()
		if err := after.Validate(); err != nil {
			return err
		}
		if err := checkLinks(ctx, tx, after); err != nil {
			return err
		}
		updated, err = tx.UpdateExpense(ctx, after)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		return s.reconciler.Transition(ctx, tx, &before, &updated)
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense updated", "id", updated.ID, "amount", updated.Amount.String())
	publishEvents(ctx, s.publisher, amqp.NewExpenseEvent(amqp.EventExpenseUpdated, updated))
	return updated, nil
}

// DeleteExpense removes the expense and refunds its card.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	var deleted core.Expense
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		var err error
		deleted, err = tx.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteExpense(ctx, id); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		return s.reconciler.Transition(ctx, tx, &deleted, nil)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	publishEvents(ctx, s.publisher, amqp.NewExpenseEvent(amqp.EventExpenseDeleted, deleted))
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// ListMonthly returns the expenses due in the given month, earliest first.
func (s *ExpenseService) ListMonthly(ctx context.Context, year, month int) ([]core.Expense, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	return s.store.FindExpenses(ctx, ledger.ExpenseFilter{}.InMonth(year, month))
}

// ListByCategory returns the month's expenses in one category.
func (s *ExpenseService) ListByCategory(ctx context.Context, year, month int, category core.Category) ([]core.Expense, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	c, ok := core.ParseCategory(string(category))
	if !ok {
		return nil, core.NewValidationError("category", fmt.Sprintf("invalid category %q", category))
	}
	return s.store.FindExpenses(ctx, ledger.ExpenseFilter{Category: c}.InMonth(year, month))
}

// checkLinks rejects references to cards or paycheques that do not exist.
func checkLinks(ctx context.Context, tx ledger.Repository, e core.Expense) error {
	if e.CreditCardID != nil {
		if _, err := tx.GetCreditCard(ctx, *e.CreditCardID); err != nil {
			return err
		}
	}
	if e.PaychequeID != nil {
		if _, err := tx.GetPaycheque(ctx, *e.PaychequeID); err != nil {
			return err
		}
	}
	return nil
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return core.NewValidationError("month", fmt.Sprintf("invalid month %d: must be between 1 and 12", month))
	}
	if year < 1970 || year > 9999 {
		return core.NewValidationError("year", fmt.Sprintf("invalid year %d", year))
	}
	return nil
}
