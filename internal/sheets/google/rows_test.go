package google

import (
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseRow(t *testing.T) {
	card := int64(3)
	e := core.Expense{
		ID:           42,
		Name:         "Groceries",
		Amount:       decimal.RequireFromString("54.5"),
		DueDate:      core.NewDate(2024, 6, 15),
		Category:     core.CategoryFoodAndDrink,
		CreditCardID: &card,
	}
	assert.Equal(t, []any{"2024-06-15", "Groceries", "Food & Drink", "54.50", "no", "yes", "42"}, expenseRow(e))
}

func TestFindRow(t *testing.T) {
	ids := []string{"ID", "7", "", "42"}
	assert.Equal(t, 4, findRow(ids, 42))
	assert.Equal(t, 2, findRow(ids, 7))
	assert.Zero(t, findRow(ids, 8))
	assert.Zero(t, findRow([]string{"1"}, 1), "header row never matches")
}

func TestRowRange(t *testing.T) {
	assert.Equal(t, "Expenses!A5:G5", rowRange("Expenses", 5))
}
