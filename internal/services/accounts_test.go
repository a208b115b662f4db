package services

import (
	"context"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Debts(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())

	_, err := svc.CreateDebt(ctx, core.Debt{Name: "Loan", TotalAmount: money("0")})
	assert.ErrorIs(t, err, core.ErrValidation)

	d, err := svc.CreateDebt(ctx, core.Debt{Name: " Loan ", TotalAmount: money("1000"), TotalRemaining: money("5")})
	require.NoError(t, err)
	assert.Equal(t, "Loan", d.Name)
	assert.True(t, d.TotalRemaining.Equal(money("1000")), "remaining starts at the total")

	remaining := money("800")
	d, err = svc.UpdateDebt(ctx, d.ID, DebtPatch{TotalRemaining: &remaining})
	require.NoError(t, err)
	assert.True(t, d.TotalRemaining.Equal(remaining))

	negative := money("-1")
	_, err = svc.UpdateDebt(ctx, d.ID, DebtPatch{MonthlyPayment: &negative})
	assert.ErrorIs(t, err, core.ErrValidation)

	require.NoError(t, svc.DeleteDebt(ctx, d.ID))
	assert.ErrorIs(t, svc.DeleteDebt(ctx, d.ID), core.ErrNotFound)
}

func TestAccountService_SavingsGoals(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())

	g, err := svc.CreateSavingsGoal(ctx, core.SavingsGoal{Name: "Trip", GoalAmount: money("2000")})
	require.NoError(t, err)

	g, err = svc.Contribute(ctx, g.ID, money("150.25"))
	require.NoError(t, err)
	g, err = svc.Contribute(ctx, g.ID, money("49.75"))
	require.NoError(t, err)
	assert.True(t, g.CurrentAmount.Equal(money("200")))
	assert.True(t, g.Progress().Equal(money("10")))

	_, err = svc.Contribute(ctx, g.ID, money("0"))
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = svc.Contribute(ctx, 999, money("1"))
	assert.ErrorIs(t, err, core.ErrNotFound)

	name := "Japan trip"
	g, err = svc.UpdateSavingsGoal(ctx, g.ID, SavingsGoalPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Japan trip", g.Name)
	assert.True(t, g.CurrentAmount.Equal(money("200")))
}

func TestAccountService_CreditCardUpdateKeepsBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewAccountService(store)
	expenses := NewExpenseService(store, nil)

	card, err := svc.CreateCreditCard(ctx, core.CreditCard{Name: "Visa", CreditLimit: money("1000")})
	require.NoError(t, err)
	_, err = expenses.CreateExpense(ctx, core.Expense{Name: "Shoes", Amount: money("120"), DueDate: core.NewDate(2024, 6, 4), CreditCardID: id(card.ID)})
	require.NoError(t, err)

	limit := money("1500")
	due := core.NewDate(2024, 6, 25)
	card, err = svc.UpdateCreditCard(ctx, card.ID, CreditCardPatch{CreditLimit: &limit, DueDate: &due})
	require.NoError(t, err)
	assert.True(t, card.CreditLimit.Equal(limit))
	require.NotNil(t, card.DueDate)
	assert.Equal(t, due, *card.DueDate)
	assert.True(t, card.CurrentBalance.Equal(money("120")))

	card, err = svc.UpdateCreditCard(ctx, card.ID, CreditCardPatch{DueDate: &core.Date{}})
	require.NoError(t, err)
	assert.Nil(t, card.DueDate)
}

func TestAccountService_DeleteCardKeepsExpenses(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewAccountService(store)
	expenses := NewExpenseService(store, nil)

	card, err := svc.CreateCreditCard(ctx, core.CreditCard{Name: "Visa", CreditLimit: money("1000")})
	require.NoError(t, err)
	e, err := expenses.CreateExpense(ctx, core.Expense{Name: "Shoes", Amount: money("120"), DueDate: core.NewDate(2024, 6, 4), CreditCardID: id(card.ID)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCreditCard(ctx, card.ID))

	got, err := expenses.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CreditCardID)
}

func TestAccountService_Paycheques(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewAccountService(store)
	expenses := NewExpenseService(store, nil)

	june, err := svc.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000"), PaymentDate: core.NewDate(2024, 6, 15)})
	require.NoError(t, err)
	_, err = svc.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000"), PaymentDate: core.NewDate(2024, 7, 15)})
	require.NoError(t, err)

	_, err = svc.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000")})
	assert.ErrorIs(t, err, core.ErrValidation)

	all, err := svc.ListPaycheques(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inJune, err := svc.ListPaycheques(ctx, 2024, 6)
	require.NoError(t, err)
	require.Len(t, inJune, 1)
	assert.Equal(t, june.ID, inJune[0].ID)

	e, err := expenses.CreateExpense(ctx, core.Expense{Name: "Rent", Amount: money("1200"), DueDate: core.NewDate(2024, 6, 16), PaychequeID: id(june.ID)})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePaycheque(ctx, june.ID))
	got, err := expenses.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PaychequeID)
}
