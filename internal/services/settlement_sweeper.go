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

// SettlementSweeper marks card funded bills as paid once they fall due.
type SettlementSweeper struct {
	store     ledger.Store
	publisher EventPublisher
}

func NewSettlementSweeper(store ledger.Store, publisher EventPublisher) *SettlementSweeper {
	return &SettlementSweeper{store: store, publisher: publisher}
}

// SettleDueCardBills marks every unpaid card funded expense due on or before
// asOf as paid and returns how many changed. Card balances are untouched.
func (s *SettlementSweeper) SettleDueCardBills(ctx context.Context, asOf core.Date) (int, error) {
	var (
		settled int
		total   = decimal.Zero
	)
	err := s.store.WithinTx(ctx, func(tx ledger.Repository) error {
		due, err := tx.FindExpenses(ctx, ledger.ExpenseFilter{
			To:         &asOf,
			Paid:       ledger.Bool(false),
			CardFunded: ledger.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("find due card bills: %w", err)
		}
		for _, e := range due {
			e.IsPaid = true
			if _, err := tx.UpdateExpense(ctx, e); err != nil {
				return fmt.Errorf("mark expense %d paid: %w", e.ID, err)
			}
			settled++
			total = total.Add(e.Amount)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Card bill settlement complete",
		"as_of", asOf.String(),
		"settled", settled,
		"total", total.String())

	if settled > 0 {
		publishEvents(ctx, s.publisher, amqp.NewLedgerEvent(amqp.EventBillsSettled, int64(settled), total))
	}
	return settled, nil
}
