package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// UpcomingBillsLimit caps the short list of bills on the dashboard.
	UpcomingBillsLimit = 5
	// TrendMonths is the length of the income/spending trend.
	TrendMonths = 6
)

// Reporter computes read-only summaries. Nothing is cached.
type Reporter struct {
	store ledger.Repository
	clock clock.Clock
}

func NewReporter(store ledger.Repository, clk clock.Clock) *Reporter {
	return &Reporter{store: store, clock: clk}
}

// Dashboard builds the snapshot of one month. Upcoming bills are relative to today.
func (r *Reporter) Dashboard(ctx context.Context, year, month int) (core.Dashboard, error) {
	if err := validatePeriod(year, month); err != nil {
		return core.Dashboard{}, err
	}
	today := clock.Today(r.clock)
	_, monthEnd := core.MonthRange(year, month)

	d := core.Dashboard{Year: year, Month: month}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := r.monthlySummary(gctx, year, month)
		d.MonthlySummary = summary
		return err
	})
	g.Go(func() error {
		bills, err := r.store.FindExpenses(gctx, ledger.ExpenseFilter{
			From:  &today,
			Paid:  ledger.Bool(false),
			Limit: UpcomingBillsLimit,
		})
		d.UpcomingBills = bills
		return err
	})
	g.Go(func() error {
		bills, err := r.store.FindExpenses(gctx, ledger.ExpenseFilter{
			From: &today,
			To:   &monthEnd,
			Paid: ledger.Bool(false),
		})
		d.AllUpcomingBills = bills
		return err
	})
	g.Go(func() error {
		spending, err := r.SpendingSummary(gctx, year, month)
		d.SpendingByCategory = spending
		return err
	})
	g.Go(func() error {
		debts, err := r.DebtSummary(gctx)
		d.DebtSummary = debts
		return err
	})
	g.Go(func() error {
		savings, err := r.SavingsSummary(gctx)
		d.SavingsSummary = savings
		return err
	})
	g.Go(func() error {
		cards, err := r.CreditCardSummary(gctx)
		d.CreditCardSummary = cards
		return err
	})

	if err := g.Wait(); err != nil {
		return core.Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}
	// Empty lists encode as [] rather than null.
	if d.UpcomingBills == nil {
		d.UpcomingBills = []core.Expense{}
	}
	if d.AllUpcomingBills == nil {
		d.AllUpcomingBills = []core.Expense{}
	}
	return d, nil
}

// MonthlySummary returns the cash flow of one month.
func (r *Reporter) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	if err := validatePeriod(year, month); err != nil {
		return core.MonthlySummary{}, err
	}
	return r.monthlySummary(ctx, year, month)
}

func (r *Reporter) monthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	income, err := r.store.SumPaycheques(ctx, ledger.PaychequeFilter{}.InMonth(year, month))
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("sum income: %w", err)
	}
	// Card funded purchases become cash spending when the card is paid.
	spending, err := r.store.SumExpenses(ctx, ledger.ExpenseFilter{CardFunded: ledger.Bool(false)}.InMonth(year, month))
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("sum spending: %w", err)
	}
	return core.MonthlySummary{
		TotalIncome:   income,
		TotalSpending: spending,
		NetFlow:       income.Sub(spending),
	}, nil
}

// SpendingSummary groups every expense due in the month by category.
func (r *Reporter) SpendingSummary(ctx context.Context, year, month int) ([]core.CategoryAmount, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	amounts, err := r.store.SumExpensesByCategory(ctx, ledger.ExpenseFilter{}.InMonth(year, month))
	if err != nil {
		return nil, fmt.Errorf("sum spending by category: %w", err)
	}
	if amounts == nil {
		amounts = []core.CategoryAmount{}
	}
	return amounts, nil
}

func (r *Reporter) DebtSummary(ctx context.Context) (core.DebtSummary, error) {
	debts, err := r.store.ListDebts(ctx)
	if err != nil {
		return core.DebtSummary{}, fmt.Errorf("list debts: %w", err)
	}
	s := core.DebtSummary{
		TotalDebt:           decimal.Zero,
		TotalOriginal:       decimal.Zero,
		TotalMonthlyPayment: decimal.Zero,
		Debts:               debts,
	}
	for _, d := range debts {
		s.TotalDebt = s.TotalDebt.Add(d.TotalRemaining)
		s.TotalOriginal = s.TotalOriginal.Add(d.TotalAmount)
		s.TotalMonthlyPayment = s.TotalMonthlyPayment.Add(d.MonthlyPayment)
	}
	if s.Debts == nil {
		s.Debts = []core.Debt{}
	}
	return s, nil
}

func (r *Reporter) SavingsSummary(ctx context.Context) (core.SavingsSummary, error) {
	goals, err := r.store.ListSavingsGoals(ctx)
	if err != nil {
		return core.SavingsSummary{}, fmt.Errorf("list savings goals: %w", err)
	}
	s := core.SavingsSummary{TotalSaved: decimal.Zero, TotalGoal: decimal.Zero, Goals: goals}
	for _, g := range goals {
		s.TotalSaved = s.TotalSaved.Add(g.CurrentAmount)
		s.TotalGoal = s.TotalGoal.Add(g.GoalAmount)
	}
	if s.Goals == nil {
		s.Goals = []core.SavingsGoal{}
	}
	return s, nil
}

// CreditCardSummary lists every card with all the expenses linked to it.
func (r *Reporter) CreditCardSummary(ctx context.Context) (core.CreditCardSummary, error) {
	cards, err := r.store.ListCreditCards(ctx)
	if err != nil {
		return core.CreditCardSummary{}, fmt.Errorf("list credit cards: %w", err)
	}
	s := core.CreditCardSummary{
		TotalBalance: decimal.Zero,
		TotalLimit:   decimal.Zero,
		Cards:        make([]core.CardWithExpenses, 0, len(cards)),
	}
	for _, c := range cards {
		id := c.ID
		expenses, err := r.store.FindExpenses(ctx, ledger.ExpenseFilter{CreditCardID: &id})
		if err != nil {
			return core.CreditCardSummary{}, fmt.Errorf("list expenses of card %d: %w", c.ID, err)
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
		s.Cards = append(s.Cards, core.CardWithExpenses{CreditCard: c, Expenses: expenses})
		s.TotalBalance = s.TotalBalance.Add(c.CurrentBalance)
		s.TotalLimit = s.TotalLimit.Add(c.CreditLimit)
	}
	return s, nil
}

// Trends returns income and cash spending for the trailing months ending
// with the current one, oldest first.
func (r *Reporter) Trends(ctx context.Context) ([]core.TrendPoint, error) {
	today := clock.Today(r.clock)
	current := core.NewDate(today.Year(), today.Month(), 1)

	points := make([]core.TrendPoint, TrendMonths)
	g, gctx := errgroup.WithContext(ctx)
	for i := range points {
		m := current.AddMonths(i - (TrendMonths - 1))
		g.Go(func() error {
			summary, err := r.monthlySummary(gctx, m.Year(), m.Month())
			if err != nil {
				return err
			}
			points[i] = core.TrendPoint{
				Name:     time.Month(m.Month()).String()[:3],
				Year:     m.Year(),
				Month:    m.Month(),
				Income:   summary.TotalIncome,
				Spending: summary.TotalSpending,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build trends: %w", err)
	}
	return points, nil
}
