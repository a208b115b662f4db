package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

// Credit cards

const creditCardColumns = "id, name, credit_limit_cents, current_balance_cents, due_date, created_at, updated_at"

func scanCreditCard(row rowScanner) (core.CreditCard, error) {
	var (
		c                    core.CreditCard
		limitCents, balCents int64
		due                  dateColumn
		created, updated     timeColumn
	)
	if err := row.Scan(&c.ID, &c.Name, &limitCents, &balCents, &due, &created, &updated); err != nil {
		return core.CreditCard{}, err
	}
	c.CreditLimit = core.FromCents(limitCents)
	c.CurrentBalance = core.FromCents(balCents)
	c.DueDate = due.ptr()
	c.CreatedAt, c.UpdatedAt = created.Time, updated.Time
	return c, nil
}

func (q *Queries) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := q.query(ctx, "SELECT "+creditCardColumns+" FROM credit_cards ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	return collect(rows, scanCreditCard)
}

func (q *Queries) GetCreditCard(ctx context.Context, id int64) (core.CreditCard, error) {
	c, err := scanCreditCard(q.queryRow(ctx, "SELECT "+creditCardColumns+" FROM credit_cards WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, core.NewNotFoundError(core.EntityCreditCard, id)
	}
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("get credit card: %w", err)
	}
	return c, nil
}

func (q *Queries) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	ts := q.timestamp()
	id, err := q.insert(ctx, `INSERT INTO credit_cards (name, credit_limit_cents, current_balance_cents, due_date,
		created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, core.Cents(c.CreditLimit), core.Cents(c.CurrentBalance), nullableDateParam(c.DueDate), ts, ts)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	return q.GetCreditCard(ctx, id)
}

func (q *Queries) UpdateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	res, err := q.exec(ctx, "UPDATE credit_cards SET name = ?, credit_limit_cents = ?, due_date = ?, updated_at = ? WHERE id = ?",
		c.Name, core.Cents(c.CreditLimit), nullableDateParam(c.DueDate), q.timestamp(), c.ID)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("update credit card: %w", err)
	}
	if err := expectRow(res, core.EntityCreditCard, c.ID); err != nil {
		return core.CreditCard{}, err
	}
	return q.GetCreditCard(ctx, c.ID)
}

func (q *Queries) AdjustCreditCardBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	res, err := q.exec(ctx, "UPDATE credit_cards SET current_balance_cents = current_balance_cents + ?, updated_at = ? WHERE id = ?",
		core.Cents(delta), q.timestamp(), id)
	if err != nil {
		return fmt.Errorf("adjust credit card balance: %w", err)
	}
	return expectRow(res, core.EntityCreditCard, id)
}

// DeleteCreditCard should run inside a transaction; Repository does that.
func (q *Queries) DeleteCreditCard(ctx context.Context, id int64) error {
	if _, err := q.exec(ctx, "UPDATE expenses SET credit_card_id = NULL WHERE credit_card_id = ?", id); err != nil {
		return fmt.Errorf("unlink card expenses: %w", err)
	}
	res, err := q.exec(ctx, "DELETE FROM credit_cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	return expectRow(res, core.EntityCreditCard, id)
}

// Debts

const debtColumns = "id, name, total_amount_cents, total_remaining_cents, monthly_payment_cents, created_at, updated_at"

func scanDebt(row rowScanner) (core.Debt, error) {
	var (
		d                         core.Debt
		total, remaining, monthly int64
		created, updated          timeColumn
	)
	if err := row.Scan(&d.ID, &d.Name, &total, &remaining, &monthly, &created, &updated); err != nil {
		return core.Debt{}, err
	}
	d.TotalAmount = core.FromCents(total)
	d.TotalRemaining = core.FromCents(remaining)
	d.MonthlyPayment = core.FromCents(monthly)
	d.CreatedAt, d.UpdatedAt = created.Time, updated.Time
	return d, nil
}

func (q *Queries) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := q.query(ctx, "SELECT "+debtColumns+" FROM debts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return collect(rows, scanDebt)
}

func (q *Queries) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	d, err := scanDebt(q.queryRow(ctx, "SELECT "+debtColumns+" FROM debts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.NewNotFoundError(core.EntityDebt, id)
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

func (q *Queries) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	ts := q.timestamp()
	id, err := q.insert(ctx, `INSERT INTO debts (name, total_amount_cents, total_remaining_cents, monthly_payment_cents,
		created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, core.Cents(d.TotalAmount), core.Cents(d.TotalRemaining), core.Cents(d.MonthlyPayment), ts, ts)
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	return q.GetDebt(ctx, id)
}

func (q *Queries) UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	res, err := q.exec(ctx, `UPDATE debts SET name = ?, total_amount_cents = ?, total_remaining_cents = ?,
		monthly_payment_cents = ?, updated_at = ? WHERE id = ?`,
		d.Name, core.Cents(d.TotalAmount), core.Cents(d.TotalRemaining), core.Cents(d.MonthlyPayment), q.timestamp(), d.ID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	if err := expectRow(res, core.EntityDebt, d.ID); err != nil {
		return core.Debt{}, err
	}
	return q.GetDebt(ctx, d.ID)
}

func (q *Queries) DeleteDebt(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, "DELETE FROM debts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return expectRow(res, core.EntityDebt, id)
}

// Savings goals

const savingsGoalColumns = "id, name, goal_amount_cents, current_amount_cents, created_at, updated_at"

func scanSavingsGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g                core.SavingsGoal
		goal, current    int64
		created, updated timeColumn
	)
	if err := row.Scan(&g.ID, &g.Name, &goal, &current, &created, &updated); err != nil {
		return core.SavingsGoal{}, err
	}
	g.GoalAmount = core.FromCents(goal)
	g.CurrentAmount = core.FromCents(current)
	g.CreatedAt, g.UpdatedAt = created.Time, updated.Time
	return g, nil
}

func (q *Queries) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := q.query(ctx, "SELECT "+savingsGoalColumns+" FROM savings_goals ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	return collect(rows, scanSavingsGoal)
}

func (q *Queries) GetSavingsGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	g, err := scanSavingsGoal(q.queryRow(ctx, "SELECT "+savingsGoalColumns+" FROM savings_goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, core.NewNotFoundError(core.EntitySavingsGoal, id)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	return g, nil
}

func (q *Queries) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	ts := q.timestamp()
	id, err := q.insert(ctx, `INSERT INTO savings_goals (name, goal_amount_cents, current_amount_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		g.Name, core.Cents(g.GoalAmount), core.Cents(g.CurrentAmount), ts, ts)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	return q.GetSavingsGoal(ctx, id)
}

func (q *Queries) UpdateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	res, err := q.exec(ctx, "UPDATE savings_goals SET name = ?, goal_amount_cents = ?, current_amount_cents = ?, updated_at = ? WHERE id = ?",
		g.Name, core.Cents(g.GoalAmount), core.Cents(g.CurrentAmount), q.timestamp(), g.ID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update savings goal: %w", err)
	}
	if err := expectRow(res, core.EntitySavingsGoal, g.ID); err != nil {
		return core.SavingsGoal{}, err
	}
	return q.GetSavingsGoal(ctx, g.ID)
}

func (q *Queries) DeleteSavingsGoal(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, "DELETE FROM savings_goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return expectRow(res, core.EntitySavingsGoal, id)
}

// Paycheques

const paychequeColumns = "id, name, payment_date, amount_cents, notes, created_at, updated_at"

func scanPaycheque(row rowScanner) (core.Paycheque, error) {
	var (
		p                core.Paycheque
		paid             dateColumn
		cents            int64
		created, updated timeColumn
	)
	if err := row.Scan(&p.ID, &p.Name, &paid, &cents, &p.Notes, &created, &updated); err != nil {
		return core.Paycheque{}, err
	}
	p.PaymentDate = paid.Date
	p.Amount = core.FromCents(cents)
	p.CreatedAt, p.UpdatedAt = created.Time, updated.Time
	return p, nil
}

func wherePaycheques(f ledger.PaychequeFilter) (string, []any) {
	switch {
	case f.From != nil && f.To != nil:
		return " WHERE payment_date >= ? AND payment_date <= ?", []any{dateParam(*f.From), dateParam(*f.To)}
	case f.From != nil:
		return " WHERE payment_date >= ?", []any{dateParam(*f.From)}
	case f.To != nil:
		return " WHERE payment_date <= ?", []any{dateParam(*f.To)}
	}
	return "", nil
}

func (q *Queries) ListPaycheques(ctx context.Context, f ledger.PaychequeFilter) ([]core.Paycheque, error) {
	where, args := wherePaycheques(f)
	rows, err := q.query(ctx, "SELECT "+paychequeColumns+" FROM paycheques"+where+" ORDER BY payment_date ASC, id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("list paycheques: %w", err)
	}
	return collect(rows, scanPaycheque)
}

func (q *Queries) GetPaycheque(ctx context.Context, id int64) (core.Paycheque, error) {
	p, err := scanPaycheque(q.queryRow(ctx, "SELECT "+paychequeColumns+" FROM paycheques WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Paycheque{}, core.NewNotFoundError(core.EntityPaycheque, id)
	}
	if err != nil {
		return core.Paycheque{}, fmt.Errorf("get paycheque: %w", err)
	}
	return p, nil
}

func (q *Queries) SumPaycheques(ctx context.Context, f ledger.PaychequeFilter) (decimal.Decimal, error) {
	where, args := wherePaycheques(f)
	var cents int64
	err := q.queryRow(ctx, "SELECT CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT) FROM paycheques"+where, args...).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum paycheques: %w", err)
	}
	return core.FromCents(cents), nil
}

func (q *Queries) CreatePaycheque(ctx context.Context, p core.Paycheque) (core.Paycheque, error) {
	ts := q.timestamp()
	id, err := q.insert(ctx, `INSERT INTO paycheques (name, payment_date, amount_cents, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, dateParam(p.PaymentDate), core.Cents(p.Amount), p.Notes, ts, ts)
	if err != nil {
		return core.Paycheque{}, fmt.Errorf("create paycheque: %w", err)
	}
	return q.GetPaycheque(ctx, id)
}

// DeletePaycheque should run inside a transaction; Repository does that.
func (q *Queries) DeletePaycheque(ctx context.Context, id int64) error {
	if _, err := q.exec(ctx, "UPDATE expenses SET paycheque_id = NULL WHERE paycheque_id = ?", id); err != nil {
		return fmt.Errorf("unlink paycheque expenses: %w", err)
	}
	res, err := q.exec(ctx, "DELETE FROM paycheques WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete paycheque: %w", err)
	}
	return expectRow(res, core.EntityPaycheque, id)
}

func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
