package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// MonthlySummary is the cash flow of one month.
type MonthlySummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	NetFlow       decimal.Decimal `json:"net_flow"`
}

type DebtSummary struct {
	TotalDebt           decimal.Decimal `json:"total_debt"`
	TotalOriginal       decimal.Decimal `json:"total_original"`
	TotalMonthlyPayment decimal.Decimal `json:"total_monthly_payment"`
	Debts               []Debt          `json:"debts"`
}

type SavingsSummary struct {
	TotalSaved decimal.Decimal `json:"total_saved"`
	TotalGoal  decimal.Decimal `json:"total_goal"`
	Goals      []SavingsGoal   `json:"goals"`
}

// CardWithExpenses is a credit card together with the expenses charged to it.
type CardWithExpenses struct {
	CreditCard
	Expenses []Expense `json:"expenses"`
}

type CreditCardSummary struct {
	TotalBalance decimal.Decimal    `json:"total_balance"`
	TotalLimit   decimal.Decimal    `json:"total_limit"`
	Cards        []CardWithExpenses `json:"cards"`
}

// TrendPoint is one month of the income/spending trend.
type TrendPoint struct {
	Name     string          `json:"name"` // short month name
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Spending decimal.Decimal `json:"spending"`
}

// Dashboard is the full snapshot for a specific year+month.
type Dashboard struct {
	Year               int               `json:"year"`
	Month              int               `json:"month"` // 1-12
	MonthlySummary     MonthlySummary    `json:"monthly_summary"`
	UpcomingBills      []Expense         `json:"upcoming_bills"`
	AllUpcomingBills   []Expense         `json:"all_upcoming_bills"`
	SpendingByCategory []CategoryAmount  `json:"spending_by_category"`
	DebtSummary        DebtSummary       `json:"debt_summary"`
	SavingsSummary     SavingsSummary    `json:"savings_summary"`
	CreditCardSummary  CreditCardSummary `json:"credit_card_summary"`
}
