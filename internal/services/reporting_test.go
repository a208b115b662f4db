package services

import (
	"context"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportingFixture struct {
	store    *memory.Store
	expenses *ExpenseService
	accounts *AccountService
	reporter *Reporter
}

func newReportingFixture(today clock.Clock) reportingFixture {
	store := memory.New()
	return reportingFixture{
		store:    store,
		expenses: NewExpenseService(store, nil),
		accounts: NewAccountService(store),
		reporter: NewReporter(store, today),
	}
}

func (f reportingFixture) expense(t *testing.T, e core.Expense) core.Expense {
	t.Helper()
	created, err := f.expenses.CreateExpense(context.Background(), e)
	require.NoError(t, err)
	return created
}

func TestDashboard_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	f := newReportingFixture(clock.FixedDate(2024, 6, 10))
	card, err := f.accounts.CreateCreditCard(ctx, core.CreditCard{Name: "Visa", CreditLimit: money("1000")})
	require.NoError(t, err)

	_, err = f.accounts.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000"), PaymentDate: core.NewDate(2024, 6, 1)})
	require.NoError(t, err)
	_, err = f.accounts.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000"), PaymentDate: core.NewDate(2024, 5, 1)})
	require.NoError(t, err)
	f.expense(t, core.Expense{Name: "Utilities", Amount: money("200"), DueDate: core.NewDate(2024, 6, 5), Category: core.CategoryEssentials})
	f.expense(t, core.Expense{Name: "Laptop", Amount: money("500"), DueDate: core.NewDate(2024, 6, 7), Category: core.CategoryShopping, CreditCardID: id(card.ID)})

	d, err := f.reporter.Dashboard(ctx, 2024, 6)
	require.NoError(t, err)
	assert.True(t, d.MonthlySummary.TotalIncome.Equal(money("3000")))
	assert.True(t, d.MonthlySummary.TotalSpending.Equal(money("200")), "card funded spending is excluded")
	assert.True(t, d.MonthlySummary.NetFlow.Equal(money("2800")))

	require.Len(t, d.SpendingByCategory, 2)
	assert.Equal(t, "Shopping", d.SpendingByCategory[0].Name)
	assert.True(t, d.SpendingByCategory[0].Value.Equal(money("500")))
	assert.Equal(t, "Essentials", d.SpendingByCategory[1].Name)

	require.Len(t, d.CreditCardSummary.Cards, 1)
	assert.True(t, d.CreditCardSummary.TotalBalance.Equal(money("500")))
	require.Len(t, d.CreditCardSummary.Cards[0].Expenses, 1)
	assert.Equal(t, "Laptop", d.CreditCardSummary.Cards[0].Expenses[0].Name)
}

func TestDashboard_UpcomingBills(t *testing.T) {
	ctx := context.Background()
	f := newReportingFixture(clock.FixedDate(2024, 6, 10))

	f.expense(t, core.Expense{Name: "Past", Amount: money("10"), DueDate: core.NewDate(2024, 6, 9)})
	f.expense(t, core.Expense{Name: "Paid", Amount: money("10"), DueDate: core.NewDate(2024, 6, 12), IsPaid: true})
	for day := 10; day <= 16; day++ {
		f.expense(t, core.Expense{Name: "Bill", Amount: money("10"), DueDate: core.NewDate(2024, 6, day)})
	}
	f.expense(t, core.Expense{Name: "Next month", Amount: money("10"), DueDate: core.NewDate(2024, 7, 2)})

	d, err := f.reporter.Dashboard(ctx, 2024, 6)
	require.NoError(t, err)

	require.Len(t, d.UpcomingBills, UpcomingBillsLimit)
	assert.Equal(t, core.NewDate(2024, 6, 10), d.UpcomingBills[0].DueDate, "today counts as upcoming")
	for i := 1; i < len(d.UpcomingBills); i++ {
		assert.False(t, d.UpcomingBills[i].DueDate.Before(d.UpcomingBills[i-1].DueDate))
	}

	assert.Len(t, d.AllUpcomingBills, 7, "only unpaid bills between today and month end")
	for _, b := range d.AllUpcomingBills {
		assert.Equal(t, "Bill", b.Name)
	}
}

func TestDashboard_EmptyStore(t *testing.T) {
	f := newReportingFixture(clock.FixedDate(2024, 6, 10))

	d, err := f.reporter.Dashboard(context.Background(), 2024, 6)
	require.NoError(t, err)
	assert.True(t, d.MonthlySummary.NetFlow.IsZero())
	assert.NotNil(t, d.UpcomingBills)
	assert.NotNil(t, d.SpendingByCategory)
	assert.NotNil(t, d.DebtSummary.Debts)

	_, err = f.reporter.Dashboard(context.Background(), 2024, 0)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDashboard_DebtAndSavings(t *testing.T) {
	ctx := context.Background()
	f := newReportingFixture(clock.FixedDate(2024, 6, 10))

	_, err := f.accounts.CreateDebt(ctx, core.Debt{Name: "Car", TotalAmount: money("5000"), MonthlyPayment: money("250")})
	require.NoError(t, err)
	_, err = f.accounts.CreateDebt(ctx, core.Debt{Name: "Phone", TotalAmount: money("600"), MonthlyPayment: money("50")})
	require.NoError(t, err)
	_, err = f.accounts.CreateSavingsGoal(ctx, core.SavingsGoal{Name: "Trip", GoalAmount: money("2000"), CurrentAmount: money("500")})
	require.NoError(t, err)

	debts, err := f.reporter.DebtSummary(ctx)
	require.NoError(t, err)
	assert.True(t, debts.TotalDebt.Equal(money("5600")))
	assert.True(t, debts.TotalMonthlyPayment.Equal(money("300")))
	assert.Len(t, debts.Debts, 2)

	savings, err := f.reporter.SavingsSummary(ctx)
	require.NoError(t, err)
	assert.True(t, savings.TotalSaved.Equal(money("500")))
	assert.True(t, savings.TotalGoal.Equal(money("2000")))
}

func TestTrends(t *testing.T) {
	ctx := context.Background()
	f := newReportingFixture(clock.FixedDate(2024, 2, 20))

	_, err := f.accounts.CreatePaycheque(ctx, core.Paycheque{Name: "Salary", Amount: money("3000"), PaymentDate: core.NewDate(2023, 9, 15)})
	require.NoError(t, err)
	f.expense(t, core.Expense{Name: "Rent", Amount: money("1200"), DueDate: core.NewDate(2024, 2, 1)})
	f.expense(t, core.Expense{Name: "Card", Amount: money("80"), DueDate: core.NewDate(2024, 2, 3), IsCreditCardTransaction: true})
	f.expense(t, core.Expense{Name: "Too old", Amount: money("99"), DueDate: core.NewDate(2023, 8, 31)})

	points, err := f.reporter.Trends(ctx)
	require.NoError(t, err)
	require.Len(t, points, TrendMonths)

	names := make([]string, 0, len(points))
	for _, p := range points {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Sep", "Oct", "Nov", "Dec", "Jan", "Feb"}, names)
	assert.Equal(t, 2023, points[0].Year)
	assert.Equal(t, 2024, points[5].Year)
	assert.True(t, points[0].Income.Equal(money("3000")))
	assert.True(t, points[0].Spending.IsZero())
	assert.True(t, points[5].Spending.Equal(money("1200")))
}
