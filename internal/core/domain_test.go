package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() Expense {
	return Expense{
		Name:    "Rent",
		Amount:  decimal.RequireFromString("1200"),
		DueDate: NewDate(2024, 6, 1),
	}
}

func TestExpenseNormalize(t *testing.T) {
	cardID := int64(3)
	e := Expense{
		Name:         "  Groceries ",
		Amount:       decimal.RequireFromString("12.345"),
		Category:     "food & drink",
		CreditCardID: &cardID,
	}
	e.Normalize()

	assert.Equal(t, "Groceries", e.Name)
	assert.Equal(t, "12.35", e.Amount.StringFixed(2))
	assert.Equal(t, CategoryFoodAndDrink, e.Category)
	assert.Equal(t, RecurrenceNone, e.Recurrence)
	assert.True(t, e.IsCreditCardTransaction)
}

func TestExpenseNormalizeDefaultsCategory(t *testing.T) {
	e := validExpense()
	e.Normalize()
	assert.Equal(t, CategoryOther, e.Category)
}

func TestExpenseValidate(t *testing.T) {
	good := validExpense()
	good.Normalize()
	require.NoError(t, good.Validate())

	cases := []struct {
		name  string
		mut   func(*Expense)
		field string
	}{
		{"empty name", func(e *Expense) { e.Name = " " }, "name"},
		{"long name", func(e *Expense) { e.Name = strings.Repeat("x", 201) }, "name"},
		{"zero amount", func(e *Expense) { e.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(e *Expense) { e.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"missing date", func(e *Expense) { e.DueDate = Date{} }, "due_date"},
		{"bad category", func(e *Expense) { e.Category = "Taxes" }, "category"},
		{"bad recurrence", func(e *Expense) { e.Recurrence = "weekly" }, "recurrence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mut(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestExpenseIsAnchor(t *testing.T) {
	e := validExpense()
	assert.False(t, e.IsAnchor())

	e.Recurrence = RecurrenceMonthly
	assert.True(t, e.IsAnchor())

	anchor := int64(1)
	e.AnchorID = &anchor
	assert.False(t, e.IsAnchor())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" subscription ")
	assert.True(t, ok)
	assert.Equal(t, CategorySubscription, c)

	_, ok = ParseCategory("Groceries")
	assert.False(t, ok)
}

func TestDebtValidate(t *testing.T) {
	d := Debt{Name: "Car", TotalAmount: decimal.NewFromInt(5000), TotalRemaining: decimal.NewFromInt(5000)}
	require.NoError(t, d.Validate())

	d.TotalAmount = decimal.Zero
	assert.ErrorIs(t, d.Validate(), ErrValidation)
}

func TestSavingsGoalProgress(t *testing.T) {
	g := SavingsGoal{Name: "Trip", GoalAmount: decimal.NewFromInt(400), CurrentAmount: decimal.NewFromInt(100)}
	require.NoError(t, g.Validate())
	assert.Equal(t, "25", g.Progress().String())
}

func TestCreditCardAvailableCredit(t *testing.T) {
	c := CreditCard{Name: "Visa", CreditLimit: decimal.NewFromInt(1000), CurrentBalance: decimal.NewFromInt(250)}
	require.NoError(t, c.Validate())
	assert.Equal(t, "750", c.AvailableCredit().String())

	c.CreditLimit = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.Validate(), ErrValidation)
}

func TestPaychequeValidate(t *testing.T) {
	p := Paycheque{Name: "Salary", Amount: decimal.NewFromInt(3000), PaymentDate: NewDate(2024, 6, 1)}
	require.NoError(t, p.Validate())

	p.PaymentDate = Date{}
	assert.ErrorIs(t, p.Validate(), ErrValidation)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError(EntityDebt, 7)
	assert.EqualError(t, err, "Debt not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
}
