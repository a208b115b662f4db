// Package ledger defines the record store ports shared by every backend.
package ledger

import (
	"context"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/shopspring/decimal"
)

// Ports for storage adapters. Every lookup of a missing id returns an error
// matching core.ErrNotFound.
type (
	Expenses interface {
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		// FindExpenses returns matches ordered by due date then id.
		FindExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error)
		SumExpenses(ctx context.Context, f ExpenseFilter) (decimal.Decimal, error)
		// SumExpensesByCategory groups matches by category, largest total first.
		SumExpensesByCategory(ctx context.Context, f ExpenseFilter) ([]core.CategoryAmount, error)
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, id int64) error
	}

	CreditCards interface {
		ListCreditCards(ctx context.Context) ([]core.CreditCard, error)
		GetCreditCard(ctx context.Context, id int64) (core.CreditCard, error)
		CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
		// UpdateCreditCard writes every field except the running balance.
		UpdateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
		// AdjustCreditCardBalance adds delta to the running balance.
		AdjustCreditCardBalance(ctx context.Context, id int64, delta decimal.Decimal) error
		// DeleteCreditCard removes the card and unlinks its expenses.
		DeleteCreditCard(ctx context.Context, id int64) error
	}

	Debts interface {
		ListDebts(ctx context.Context) ([]core.Debt, error)
		GetDebt(ctx context.Context, id int64) (core.Debt, error)
		CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
		UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
		DeleteDebt(ctx context.Context, id int64) error
	}

	SavingsGoals interface {
		ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error)
		GetSavingsGoal(ctx context.Context, id int64) (core.SavingsGoal, error)
		CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		UpdateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		DeleteSavingsGoal(ctx context.Context, id int64) error
	}

	Paycheques interface {
		// ListPaycheques returns matches ordered by payment date then id.
		ListPaycheques(ctx context.Context, f PaychequeFilter) ([]core.Paycheque, error)
		GetPaycheque(ctx context.Context, id int64) (core.Paycheque, error)
		SumPaycheques(ctx context.Context, f PaychequeFilter) (decimal.Decimal, error)
		CreatePaycheque(ctx context.Context, p core.Paycheque) (core.Paycheque, error)
		// DeletePaycheque removes the paycheque and unlinks its expenses.
		DeletePaycheque(ctx context.Context, id int64) error
	}

	// Repository is the full set of record operations.
	Repository interface {
		Expenses
		CreditCards
		Debts
		SavingsGoals
		Paycheques
	}

	// Store is a Repository that can group operations atomically.
	Store interface {
		Repository
		// WithinTx runs fn against a transactional view. Returning an error
		// discards every write fn made.
		WithinTx(ctx context.Context, fn func(tx Repository) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
