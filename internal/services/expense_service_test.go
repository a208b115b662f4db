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

func TestExpenseService_CreateValidates(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	tests := []struct {
		name    string
		expense core.Expense
	}{
		{"missing name", core.Expense{Amount: money("10"), DueDate: core.NewDate(2024, 6, 1)}},
		{"zero amount", core.Expense{Name: "Rent", DueDate: core.NewDate(2024, 6, 1)}},
		{"missing due date", core.Expense{Name: "Rent", Amount: money("10")}},
		{"bad category", core.Expense{Name: "Rent", Amount: money("10"), DueDate: core.NewDate(2024, 6, 1), Category: "Pets"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), tt.expense)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestExpenseService_CardLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewExpenseService(store, pub)
	card := newCard(t, store, "Visa", "1000")

	created, err := svc.CreateExpense(ctx, core.Expense{
		Name:         "Groceries",
		Amount:       money("50"),
		DueDate:      core.NewDate(2024, 6, 3),
		CreditCardID: id(card.ID),
	})
	require.NoError(t, err)
	assert.True(t, created.IsCreditCardTransaction)
	assert.Equal(t, core.CategoryOther, created.Category)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("50")))

	amount := money("65")
	_, err = svc.UpdateExpense(ctx, created.ID, ExpensePatch{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("65")))

	_, err = svc.UpdateExpense(ctx, created.ID, ExpensePatch{CreditCardID: core.ClearID()})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store, card.ID).IsZero())

	_, err = svc.UpdateExpense(ctx, created.ID, ExpensePatch{CreditCardID: core.SetID(card.ID)})
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("65")))

	require.NoError(t, svc.DeleteExpense(ctx, created.ID))
	assert.True(t, balanceOf(t, store, card.ID).IsZero())

	assert.Equal(t, []amqp.EventType{
		amqp.EventExpenseCreated,
		amqp.EventExpenseUpdated,
		amqp.EventExpenseUpdated,
		amqp.EventExpenseUpdated,
		amqp.EventExpenseDeleted,
	}, pub.types())
}

func TestExpenseService_DeleteRestoresBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)
	card := newCard(t, store, "Visa", "1000")

	e, err := svc.CreateExpense(ctx, core.Expense{Name: "Gas", Amount: money("50"), DueDate: core.NewDate(2024, 6, 3), CreditCardID: id(card.ID)})
	require.NoError(t, err)
	require.True(t, balanceOf(t, store, card.ID).Equal(money("50")))

	require.NoError(t, svc.DeleteExpense(ctx, e.ID))
	assert.True(t, balanceOf(t, store, card.ID).IsZero())

	_, err = svc.GetExpense(ctx, e.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExpenseService_UnknownLinks(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)

	_, err := svc.CreateExpense(ctx, core.Expense{Name: "Gas", Amount: money("5"), DueDate: core.NewDate(2024, 6, 3), CreditCardID: id(77)})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.CreateExpense(ctx, core.Expense{Name: "Gas", Amount: money("5"), DueDate: core.NewDate(2024, 6, 3), PaychequeID: id(77)})
	assert.ErrorIs(t, err, core.ErrNotFound)

	all, err := store.FindExpenses(ctx, ledger.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is stored when a link does not resolve")
}

func TestExpenseService_FailedUpdateRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)
	card := newCard(t, store, "Visa", "1000")

	e, err := svc.CreateExpense(ctx, core.Expense{Name: "Gas", Amount: money("50"), DueDate: core.NewDate(2024, 6, 3), CreditCardID: id(card.ID)})
	require.NoError(t, err)

	bad := core.Category("Pets")
	_, err = svc.UpdateExpense(ctx, e.ID, ExpensePatch{Category: &bad})
	assert.ErrorIs(t, err, core.ErrValidation)

	got, err := svc.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryOther, got.Category)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("50")))
}

func TestExpenseService_PublishFailureDoesNotFail(t *testing.T) {
	store := memory.New()
	svc := NewExpenseService(store, &recordingPublisher{err: errBrokerDown})

	_, err := svc.CreateExpense(context.Background(), core.Expense{Name: "Rent", Amount: money("1200"), DueDate: core.NewDate(2024, 6, 1)})
	assert.NoError(t, err)
}

func TestExpenseService_Listing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)

	for _, e := range []core.Expense{
		{Name: "Rent", Amount: money("1200"), DueDate: core.NewDate(2024, 6, 1), Category: core.CategoryEssentials},
		{Name: "Netflix", Amount: money("15.99"), DueDate: core.NewDate(2024, 6, 12), Category: core.CategorySubscription},
		{Name: "Pizza", Amount: money("20"), DueDate: core.NewDate(2024, 6, 8), Category: core.CategoryFoodAndDrink},
		{Name: "July rent", Amount: money("1200"), DueDate: core.NewDate(2024, 7, 1), Category: core.CategoryEssentials},
	} {
		_, err := svc.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	june, err := svc.ListMonthly(ctx, 2024, 6)
	require.NoError(t, err)
	require.Len(t, june, 3)
	assert.Equal(t, "Rent", june[0].Name)
	assert.Equal(t, "Pizza", june[1].Name)
	assert.Equal(t, "Netflix", june[2].Name)

	food, err := svc.ListByCategory(ctx, 2024, 6, "food & drink")
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, "Pizza", food[0].Name)

	_, err = svc.ListByCategory(ctx, 2024, 6, "Pets")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.ListMonthly(ctx, 2024, 13)
	assert.ErrorIs(t, err, core.ErrValidation)
}
