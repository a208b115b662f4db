package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// Reconciler keeps a credit card's balance equal to the expenses linked to it
// minus the payments made against it. Payments are subtracted by
// PaymentService; Reconciler moves the expense side.
type Reconciler struct{}

// ExpenseLinked charges amount to the card.
func (r Reconciler) ExpenseLinked(ctx context.Context, cards ledger.CreditCards, cardID int64, amount decimal.Decimal) error {
	return r.adjust(ctx, cards, cardID, amount)
}

// ExpenseUnlinked refunds amount to the card.
func (r Reconciler) ExpenseUnlinked(ctx context.Context, cards ledger.CreditCards, cardID int64, amount decimal.Decimal) error {
	return r.adjust(ctx, cards, cardID, amount.Neg())
}

// Transition applies the balance effect of an expense moving from before to
// after. before is nil on create; after is nil on delete.
func (r Reconciler) Transition(ctx context.Context, cards ledger.CreditCards, before, after *core.Expense) error {
	var (
		oldCard, newCard     *int64
		oldAmount, newAmount decimal.Decimal
	)
	if before != nil {
		oldCard, oldAmount = before.CreditCardID, before.Amount
	}
	if after != nil {
		newCard, newAmount = after.CreditCardID, after.Amount
	}

	if sameCard(oldCard, newCard) && oldAmount.Equal(newAmount) {
		return nil
	}
	if oldCard != nil {
		if err := r.ExpenseUnlinked(ctx, cards, *oldCard, oldAmount); err != nil {
			return err
		}
	}
	if newCard != nil {
		if err := r.ExpenseLinked(ctx, cards, *newCard, newAmount); err != nil {
			return err
		}
	}
	return nil
}

func (Reconciler) adjust(ctx context.Context, cards ledger.CreditCards, cardID int64, delta decimal.Decimal) error {
	err := cards.AdjustCreditCardBalance(ctx, cardID, delta)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Inconsistent credit card link, balance not adjusted",
			"credit_card_id", cardID,
			"delta", delta.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("adjust credit card %d balance: %w", cardID, err)
	}
	return nil
}

func sameCard(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
