package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// AccountService manages debts, savings goals, credit cards and paycheques.
type AccountService struct {
	store ledger.Store
}

func NewAccountService(store ledger.Store) *AccountService {
	return &AccountService{store: store}
}

// Patches for account updates. Nil fields are left unchanged.
type (
	DebtPatch struct {
		Name           *string          `json:"name"`
		TotalAmount    *decimal.Decimal `json:"total_amount"`
		TotalRemaining *decimal.Decimal `json:"total_remaining"`
		MonthlyPayment *decimal.Decimal `json:"monthly_payment"`
	}

	SavingsGoalPatch struct {
		Name          *string          `json:"name"`
		GoalAmount    *decimal.Decimal `json:"goal_amount"`
		CurrentAmount *decimal.Decimal `json:"current_amount"`
	}

	CreditCardPatch struct {
		Name        *string          `json:"name"`
		CreditLimit *decimal.Decimal `json:"credit_limit"`
		DueDate     *core.Date       `json:"due_date"`
	}
)

// Debts

func (s *AccountService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.store.ListDebts(ctx)
}

// CreateDebt stores a new debt with nothing paid yet.
func (s *AccountService) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	d.TotalRemaining = d.TotalAmount
	d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	created, err := s.store.CreateDebt(ctx, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	slog.InfoContext(ctx, "Debt created", "id", created.ID, "total", created.TotalAmount.String())
	return created, nil
}

// UpdateDebt applies a manual correction. Payments go through PaymentService.
func (s *AccountService) UpdateDebt(ctx context.Context, id int64, patch DebtPatch) (core.Debt, error) {
	var updated core.Debt
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		d, err := tx.GetDebt(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			d.Name = *patch.Name
		}
		if patch.TotalAmount != nil {
			d.TotalAmount = *patch.TotalAmount
		}
		if patch.TotalRemaining != nil {
			d.TotalRemaining = *patch.TotalRemaining
		}
		if patch.MonthlyPayment != nil {
			d.MonthlyPayment = *patch.MonthlyPayment
		}
		d.Normalize()
		if err := d.Validate(); err != nil {
			return err
		}
		updated, err = tx.UpdateDebt(ctx, d)
		return err
	})
	if err != nil {
		return core.Debt{}, err
	}
	return updated, nil
}

func (s *AccountService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Debt deleted", "id", id)
	return nil
}

// Savings goals

func (s *AccountService) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.store.ListSavingsGoals(ctx)
}

func (s *AccountService) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	g.Normalize()
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	created, err := s.store.CreateSavingsGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal created", "id", created.ID, "goal", created.GoalAmount.String())
	return created, nil
}

func (s *AccountService) UpdateSavingsGoal(ctx context.Context, id int64, patch SavingsGoalPatch) (core.SavingsGoal, error) {
	var updated core.SavingsGoal
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		g, err := tx.GetSavingsGoal(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.GoalAmount != nil {
			g.GoalAmount = *patch.GoalAmount
		}
		if patch.CurrentAmount != nil {
			g.CurrentAmount = *patch.CurrentAmount
		}
		g.Normalize()
		if err := g.Validate(); err != nil {
			return err
		}
		updated, err = tx.UpdateSavingsGoal(ctx, g)
		return err
	})
	if err != nil {
		return core.SavingsGoal{}, err
	}
	return updated, nil
}

// Contribute adds amount to the goal's saved total.
func (s *AccountService) Contribute(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error) {
	amount = core.RoundMoney(amount)
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.NewValidationError("amount", "contribution must be greater than zero")
	}
	var updated core.SavingsGoal
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		g, err := tx.GetSavingsGoal(ctx, id)
		if err != nil {
			return err
		}
		g.CurrentAmount = g.CurrentAmount.Add(amount)
		updated, err = tx.UpdateSavingsGoal(ctx, g)
		return err
	})
	if err != nil {
		return core.SavingsGoal{}, err
	}
	slog.InfoContext(ctx, "Savings contribution added",
		"id", id,
		"amount", amount.String(),
		"current", updated.CurrentAmount.String())
	return updated, nil
}

func (s *AccountService) DeleteSavingsGoal(ctx context.Context, id int64) error {
	return s.store.DeleteSavingsGoal(ctx, id)
}

// Credit cards

func (s *AccountService) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	return s.store.ListCreditCards(ctx)
}

func (s *AccountService) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	created, err := s.store.CreateCreditCard(ctx, c)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	slog.InfoContext(ctx, "Credit card created", "id", created.ID, "limit", created.CreditLimit.String())
	return created, nil
}

// UpdateCreditCard edits the card's descriptive fields. The balance only
// moves through the reconciler and payments.
func (s *AccountService) UpdateCreditCard(ctx context.Context, id int64, patch CreditCardPatch) (core.CreditCard, error) {
	var updated core.CreditCard
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		c, err := tx.GetCreditCard(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.CreditLimit != nil {
			c.CreditLimit = *patch.CreditLimit
		}
		if patch.DueDate != nil {
			if patch.DueDate.IsZero() {
				c.DueDate = nil
			} else {
				due := *patch.DueDate
				c.DueDate = &due
			}
		}
		c.Normalize()
		if err := c.Validate(); err != nil {
			return err
		}
		updated, err = tx.UpdateCreditCard(ctx, c)
		return err
	})
	if err != nil {
		return core.CreditCard{}, err
	}
	return updated, nil
}

// DeleteCreditCard removes the card. Its expenses are kept and unlinked.
func (s *AccountService) DeleteCreditCard(ctx context.Context, id int64) error {
	if err := s.store.DeleteCreditCard(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Credit card deleted", "id", id)
	return nil
}

// Paycheques

// ListPaycheques returns every paycheque, or those of one month when month is non-zero.
func (s *AccountService) ListPaycheques(ctx context.Context, year, month int) ([]core.Paycheque, error) {
	var f ledger.PaychequeFilter
	if month != 0 {
		if err := validatePeriod(year, month); err != nil {
			return nil, err
		}
		f = f.InMonth(year, month)
	}
	return s.store.ListPaycheques(ctx, f)
}

func (s *AccountService) CreatePaycheque(ctx context.Context, p core.Paycheque) (core.Paycheque, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return core.Paycheque{}, err
	}
	created, err := s.store.CreatePaycheque(ctx, p)
	if err != nil {
		return core.Paycheque{}, fmt.Errorf("create paycheque: %w", err)
	}
	slog.InfoContext(ctx, "Paycheque created",
		"id", created.ID,
		"amount", created.Amount.String(),
		"payment_date", created.PaymentDate.String())
	return created, nil
}

// DeletePaycheque removes the paycheque. Its expenses are kept and unlinked.
func (s *AccountService) DeletePaycheque(ctx context.Context, id int64) error {
	if err := s.store.DeletePaycheque(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Paycheque deleted", "id", id)
	return nil
}
