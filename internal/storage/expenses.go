package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, name, amount_cents, due_date, is_paid, category, recurrence,
	is_credit_card_transaction, credit_card_id, paycheque_id, anchor_id, created_at, updated_at`

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e                           core.Expense
		amountCents                 int64
		due                         dateColumn
		category, recurrence        string
		cardID, paychequeID, anchor sql.NullInt64
		created, updated            timeColumn
	)
	err := row.Scan(&e.ID, &e.Name, &amountCents, &due, &e.IsPaid, &category, &recurrence,
		&e.IsCreditCardTransaction, &cardID, &paychequeID, &anchor, &created, &updated)
	if err != nil {
		return core.Expense{}, err
	}
	e.Amount = core.FromCents(amountCents)
	e.DueDate = due.Date
	e.Category = core.Category(category)
	e.Recurrence = core.Recurrence(recurrence)
	e.CreditCardID = nullableID(cardID)
	e.PaychequeID = nullableID(paychequeID)
	e.AnchorID = nullableID(anchor)
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}

// whereExpenses renders f as a WHERE clause with ? placeholders.
func whereExpenses(f ledger.ExpenseFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, vals ...any) {
		conds = append(conds, cond)
		args = append(args, vals...)
	}
	if f.From != nil {
		add("due_date >= ?", dateParam(*f.From))
	}
	if f.To != nil {
		add("due_date <= ?", dateParam(*f.To))
	}
	if f.DueDate != nil {
		add("due_date = ?", dateParam(*f.DueDate))
	}
	if f.Name != "" {
		add("name = ?", f.Name)
	}
	if f.Category != "" {
		add("category = ?", string(f.Category))
	}
	if f.Paid != nil {
		add("is_paid = ?", *f.Paid)
	}
	if f.CardFunded != nil {
		if *f.CardFunded {
			add("(is_credit_card_transaction = ? OR credit_card_id IS NOT NULL)", true)
		} else {
			add("(is_credit_card_transaction = ? AND credit_card_id IS NULL)", false)
		}
	}
	if f.CreditCardID != nil {
		add("credit_card_id = ?", *f.CreditCardID)
	}
	if f.PaychequeID != nil {
		add("paycheque_id = ?", *f.PaychequeID)
	}
	if f.Recurring {
		add("recurrence IN (?, ?)",
			string(core.RecurrenceMonthly), string(core.RecurrenceYearly))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (q *Queries) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := q.queryRow(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.NewNotFoundError(core.EntityExpense, id)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (q *Queries) FindExpenses(ctx context.Context, f ledger.ExpenseFilter) ([]core.Expense, error) {
	where, args := whereExpenses(f)
	query := "SELECT " + expenseColumns + " FROM expenses" + where + " ORDER BY due_date ASC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer rows.Close()

	out := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (q *Queries) SumExpenses(ctx context.Context, f ledger.ExpenseFilter) (decimal.Decimal, error) {
	where, args := whereExpenses(f)
	var cents int64
	err := q.queryRow(ctx, "SELECT CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT) FROM expenses"+where, args...).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return core.FromCents(cents), nil
}

func (q *Queries) SumExpensesByCategory(ctx context.Context, f ledger.ExpenseFilter) ([]core.CategoryAmount, error) {
	where, args := whereExpenses(f)
	query := "SELECT category, CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT) AS total FROM expenses" +
		where + " GROUP BY category ORDER BY total DESC, category ASC"
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	out := make([]core.CategoryAmount, 0)
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, core.CategoryAmount{Name: name, Value: core.FromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return out, nil
}

func (q *Queries) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	ts := q.timestamp()
	id, err := q.insert(ctx, `INSERT INTO expenses (name, amount_cents, due_date, is_paid, category, recurrence,
		is_credit_card_transaction, credit_card_id, paycheque_id, anchor_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, core.Cents(e.Amount), dateParam(e.DueDate), e.IsPaid, string(e.Category), string(e.Recurrence),
		e.IsCreditCardTransaction, nullableIDParam(e.CreditCardID), nullableIDParam(e.PaychequeID),
		nullableIDParam(e.AnchorID), ts, ts)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return q.GetExpense(ctx, id)
}

func (q *Queries) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := q.exec(ctx, `UPDATE expenses SET name = ?, amount_cents = ?, due_date = ?, is_paid = ?,
		category = ?, recurrence = ?, is_credit_card_transaction = ?, credit_card_id = ?, paycheque_id = ?,
		anchor_id = ?, updated_at = ? WHERE id = ?`,
		e.Name, core.Cents(e.Amount), dateParam(e.DueDate), e.IsPaid, string(e.Category), string(e.Recurrence),
		e.IsCreditCardTransaction, nullableIDParam(e.CreditCardID), nullableIDParam(e.PaychequeID),
		nullableIDParam(e.AnchorID), q.timestamp(), e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := expectRow(res, core.EntityExpense, e.ID); err != nil {
		return core.Expense{}, err
	}
	return q.GetExpense(ctx, e.ID)
}

func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return expectRow(res, core.EntityExpense, id)
}
