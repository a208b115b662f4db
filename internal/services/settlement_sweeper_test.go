package services

import (
	"context"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleDueCardBills(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	expenses := NewExpenseService(store, nil)
	sweeper := NewSettlementSweeper(store, pub)
	card := newCard(t, store, "Visa", "1000")

	seed := []core.Expense{
		{Name: "Linked due", Amount: money("30"), DueDate: core.NewDate(2024, 6, 5), CreditCardID: id(card.ID)},
		{Name: "Flagged due", Amount: money("20"), DueDate: core.NewDate(2024, 6, 10), IsCreditCardTransaction: true},
		{Name: "Linked future", Amount: money("40"), DueDate: core.NewDate(2024, 6, 11), CreditCardID: id(card.ID)},
		{Name: "Cash due", Amount: money("15"), DueDate: core.NewDate(2024, 6, 1)},
	}
	for _, e := range seed {
		_, err := expenses.CreateExpense(ctx, e)
		require.NoError(t, err)
	}
	before := balanceOf(t, store, card.ID)

	settled, err := sweeper.SettleDueCardBills(ctx, core.NewDate(2024, 6, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, settled)

	paid, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Paid: ledger.Bool(true)})
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.Equal(t, "Linked due", paid[0].Name)
	assert.Equal(t, "Flagged due", paid[1].Name)

	assert.True(t, balanceOf(t, store, card.ID).Equal(before), "settling never moves the balance")
	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventBillsSettled, pub.events[0].Type)
	assert.True(t, pub.events[0].Amount.Equal(money("50")))

	t.Run("rerun reaches a fixed point", func(t *testing.T) {
		settled, err := sweeper.SettleDueCardBills(ctx, core.NewDate(2024, 6, 10))
		require.NoError(t, err)
		assert.Equal(t, 0, settled)
		assert.Len(t, pub.events, 1)
	})
}
