package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	PaymentDebt       PaymentKind = "debt"
	PaymentCreditCard PaymentKind = "credit_card"
)

// PaymentApplied is raised inside the payment transaction once the account
// balance has been reduced.
type PaymentApplied struct {
	Kind        PaymentKind
	AccountID   int64
	AccountName string
	Requested   decimal.Decimal
	Applied     decimal.Decimal
	On          core.Date
}

// SettlementRecorder turns an applied payment into the paid expense that
// records it in the ledger.
type SettlementRecorder struct {
	expenses *ExpenseService
}

func NewSettlementRecorder(expenses *ExpenseService) *SettlementRecorder {
	return &SettlementRecorder{expenses: expenses}
}

// Record creates the settlement expense within tx.
func (r *SettlementRecorder) Record(ctx context.Context, tx ledger.Repository, evt PaymentApplied) (core.Expense, error) {
	e := core.Expense{
		Name:     "Payment for " + evt.AccountName,
		Amount:   evt.Applied,
		DueDate:  evt.On,
		IsPaid:   true,
		Category: core.CategoryDebt,
	}
	created, err := r.expenses.createInTx(ctx, tx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("record %s payment: %w", evt.Kind, err)
	}
	return created, nil
}

// PaymentResult reports what a payment changed.
type PaymentResult struct {
	Applied    decimal.Decimal `json:"applied"`
	Remaining  decimal.Decimal `json:"remaining"`
	Settlement core.Expense    `json:"settlement"`
}

// PaymentService applies payments to debts and credit cards.
type PaymentService struct {
	store     ledger.Store
	clock     clock.Clock
	recorder  *SettlementRecorder
	publisher EventPublisher
}

func NewPaymentService(store ledger.Store, clk clock.Clock, recorder *SettlementRecorder, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		store:     store,
		clock:     clk,
		recorder:  recorder,
		publisher: publisher,
	}
}

// PayDebt reduces the remaining amount of a debt and records the payment.
func (s *PaymentService) PayDebt(ctx context.Context, id int64, amount decimal.Decimal) (PaymentResult, error) {
	var (
		result PaymentResult
		evt    PaymentApplied
	)
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		debt, err := tx.GetDebt(ctx, id)
		if err != nil {
			return err
		}
		applied, err := clampPayment(amount, debt.TotalRemaining)
		if err != nil {
			return err
		}
		debt.TotalRemaining = debt.TotalRemaining.Sub(applied)
		if _, err := tx.UpdateDebt(ctx, debt); err != nil {
			return fmt.Errorf("update debt: %w", err)
		}

		evt = PaymentApplied{
			Kind:        PaymentDebt,
			AccountID:   debt.ID,
			AccountName: debt.Name,
			Requested:   amount,
			Applied:     applied,
			On:          clock.Today(s.clock),
		}
		settlement, err := s.recorder.Record(ctx, tx, evt)
		if err != nil {
			return err
		}
		result = PaymentResult{Applied: applied, Remaining: debt.TotalRemaining, Settlement: settlement}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	s.paymentCommitted(ctx, evt, result)
	return result, nil
}

// PayCreditCard reduces the balance of a card and records the payment.
func (s *PaymentService) PayCreditCard(ctx context.Context, id int64, amount decimal.Decimal) (PaymentResult, error) {
	var (
		result PaymentResult
		evt    PaymentApplied
	)
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		card, err := tx.GetCreditCard(ctx, id)
		if err != nil {
			return err
		}
		applied, err := clampPayment(amount, card.CurrentBalance)
		if err != nil {
			return err
		}
		if err := tx.AdjustCreditCardBalance(ctx, card.ID, applied.Neg()); err != nil {
			return fmt.Errorf("adjust credit card balance: %w", err)
		}

		evt = PaymentApplied{
			Kind:        PaymentCreditCard,
			AccountID:   card.ID,
			AccountName: card.Name,
			Requested:   amount,
			Applied:     applied,
			On:          clock.Today(s.clock),
		}
		settlement, err := s.recorder.Record(ctx, tx, evt)
		if err != nil {
			return err
		}
		result = PaymentResult{Applied: applied, Remaining: card.CurrentBalance.Sub(applied), Settlement: settlement}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	s.paymentCommitted(ctx, evt, result)
	return result, nil
}

func (s *PaymentService) paymentCommitted(ctx context.Context, evt PaymentApplied, result PaymentResult) {
	attrs := []any{
		"kind", evt.Kind,
		"account_id", evt.AccountID,
		"requested", evt.Requested.String(),
		"applied", evt.Applied.String(),
		"remaining", result.Remaining.String(),
	}
	if !evt.Requested.Equal(evt.Applied) {
		slog.WarnContext(ctx, "Payment exceeded balance and was clamped", attrs...)
	} else {
		slog.InfoContext(ctx, "Payment applied", attrs...)
	}

	publishEvents(ctx, s.publisher,
		amqp.NewLedgerEvent(amqp.EventPaymentApplied, evt.AccountID, evt.Applied),
		amqp.NewExpenseEvent(amqp.EventExpenseCreated, result.Settlement),
	)
}

// clampPayment returns the part of amount that can be applied to an account
// owing remaining.
func clampPayment(amount, remaining decimal.Decimal) (decimal.Decimal, error) {
	amount = core.RoundMoney(amount)
	if !amount.IsPositive() {
		return decimal.Zero, core.NewValidationError("amount", "payment amount must be greater than zero")
	}
	owing := remaining
	if owing.IsNegative() {
		owing = decimal.Zero
	}
	applied := core.MinMoney(amount, owing)
	if !applied.IsPositive() {
		return decimal.Zero, core.NewValidationError("amount", "nothing owing on this account")
	}
	return applied, nil
}
