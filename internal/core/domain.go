package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryEssentials     Category = "Essentials"
	CategorySubscription   Category = "Subscription"
	CategoryDebt           Category = "Debt"
	CategoryFoodAndDrink   Category = "Food & Drink"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryOther          Category = "Other"
)

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// MaxNameLength bounds every user supplied record name.
const MaxNameLength = 200

type (
	Category   string
	Recurrence string

	Expense struct {
		ID                      int64           `json:"id"`
		Name                    string          `json:"name"`
		Amount                  decimal.Decimal `json:"amount"`
		DueDate                 Date            `json:"due_date"`
		IsPaid                  bool            `json:"is_paid"`
		Category                Category        `json:"category"`
		Recurrence              Recurrence      `json:"recurrence"`
		IsCreditCardTransaction bool            `json:"is_credit_card_transaction"`
		CreditCardID            *int64          `json:"credit_card_id"`
		PaychequeID             *int64          `json:"paycheque_id"`
		AnchorID                *int64          `json:"anchor_id,omitempty"` // set on materialized instances
		CreatedAt               time.Time       `json:"created_at"`
		UpdatedAt               time.Time       `json:"updated_at"`
	}

	CreditCard struct {
		ID             int64           `json:"id"`
		Name           string          `json:"name"`
		CreditLimit    decimal.Decimal `json:"credit_limit"`
		CurrentBalance decimal.Decimal `json:"current_balance"`
		DueDate        *Date           `json:"due_date"`
		CreatedAt      time.Time       `json:"created_at"`
		UpdatedAt      time.Time       `json:"updated_at"`
	}

	Debt struct {
		ID             int64           `json:"id"`
		Name           string          `json:"name"`
		TotalAmount    decimal.Decimal `json:"total_amount"`
		TotalRemaining decimal.Decimal `json:"total_remaining"`
		MonthlyPayment decimal.Decimal `json:"monthly_payment"`
		CreatedAt      time.Time       `json:"created_at"`
		UpdatedAt      time.Time       `json:"updated_at"`
	}

	SavingsGoal struct {
		ID            int64           `json:"id"`
		Name          string          `json:"name"`
		GoalAmount    decimal.Decimal `json:"goal_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		CreatedAt     time.Time       `json:"created_at"`
		UpdatedAt     time.Time       `json:"updated_at"`
	}

	Paycheque struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		PaymentDate Date            `json:"payment_date"`
		Amount      decimal.Decimal `json:"amount"`
		Notes       string          `json:"notes"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}
)

// Categories lists every valid expense category in display order.
var Categories = []Category{
	CategoryEssentials,
	CategorySubscription,
	CategoryDebt,
	CategoryFoodAndDrink,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Recurring reports whether r produces future instances.
func (r Recurrence) Recurring() bool {
	return r == RecurrenceMonthly || r == RecurrenceYearly
}

// Normalize fills defaults and rounds amounts. A linked credit card always
// marks the expense as card funded.
func (e *Expense) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Amount = RoundMoney(e.Amount)
	if e.Category == "" {
		e.Category = CategoryOther
	} else if c, ok := ParseCategory(string(e.Category)); ok {
		e.Category = c
	}
	if e.Recurrence == "" {
		e.Recurrence = RecurrenceNone
	}
	if e.CreditCardID != nil {
		e.IsCreditCardTransaction = true
	}
}

func (e Expense) Validate() error {
	if err := validateName(e.Name); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return NewValidationError("amount", "amount must be greater than zero")
	}
	if e.DueDate.IsZero() {
		return NewValidationError("due_date", "due date is required")
	}
	if !e.Category.Valid() {
		return NewValidationError("category", fmt.Sprintf("invalid category %q", e.Category))
	}
	if !e.Recurrence.Valid() {
		return NewValidationError("recurrence", fmt.Sprintf("invalid recurrence %q", e.Recurrence))
	}
	return nil
}

// CardFunded reports whether the expense was paid with a credit card.
func (e Expense) CardFunded() bool {
	return e.IsCreditCardTransaction || e.CreditCardID != nil
}

// IsAnchor reports whether e is a recurring template rather than a
// materialized instance.
func (e Expense) IsAnchor() bool {
	return e.Recurrence.Recurring() && e.AnchorID == nil
}

// SeriesID identifies the recurring series e belongs to: the anchor's id for
// materialized instances and e's own id otherwise.
func (e Expense) SeriesID() int64 {
	if e.AnchorID != nil {
		return *e.AnchorID
	}
	return e.ID
}

func (c *CreditCard) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.CreditLimit = RoundMoney(c.CreditLimit)
	c.CurrentBalance = RoundMoney(c.CurrentBalance)
}

func (c CreditCard) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if c.CreditLimit.IsNegative() {
		return NewValidationError("credit_limit", "credit limit cannot be negative")
	}
	return nil
}

// AvailableCredit is the limit minus the outstanding balance.
func (c CreditCard) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentBalance)
}

func (d *Debt) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.TotalAmount = RoundMoney(d.TotalAmount)
	d.TotalRemaining = RoundMoney(d.TotalRemaining)
	d.MonthlyPayment = RoundMoney(d.MonthlyPayment)
}

func (d Debt) Validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if !d.TotalAmount.IsPositive() {
		return NewValidationError("total_amount", "total amount must be greater than zero")
	}
	if d.TotalRemaining.IsNegative() {
		return NewValidationError("total_remaining", "remaining amount cannot be negative")
	}
	if d.MonthlyPayment.IsNegative() {
		return NewValidationError("monthly_payment", "monthly payment cannot be negative")
	}
	return nil
}

// Paid reports whether nothing is left owing.
func (d Debt) Paid() bool {
	return !d.TotalRemaining.IsPositive()
}

func (g *SavingsGoal) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.GoalAmount = RoundMoney(g.GoalAmount)
	g.CurrentAmount = RoundMoney(g.CurrentAmount)
}

func (g SavingsGoal) Validate() error {
	if err := validateName(g.Name); err != nil {
		return err
	}
	if !g.GoalAmount.IsPositive() {
		return NewValidationError("goal_amount", "goal amount must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		return NewValidationError("current_amount", "current amount cannot be negative")
	}
	return nil
}

// Progress returns the saved share of the goal as a percentage.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.GoalAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.GoalAmount).Mul(decimal.NewFromInt(100)).Round(1)
}

func (p *Paycheque) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Notes = strings.TrimSpace(p.Notes)
	p.Amount = RoundMoney(p.Amount)
}

func (p Paycheque) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return NewValidationError("amount", "amount must be greater than zero")
	}
	if p.PaymentDate.IsZero() {
		return NewValidationError("payment_date", "payment date is required")
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("name too long (max %d characters)", MaxNameLength))
	}
	return nil
}
