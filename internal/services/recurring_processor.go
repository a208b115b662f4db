package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
)

// RecurringProcessor materializes the instances of recurring expenses.
type RecurringProcessor struct {
	store     ledger.Store
	expenses  *ExpenseService
	publisher EventPublisher
}

func NewRecurringProcessor(store ledger.Store, expenses *ExpenseService, publisher EventPublisher) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		expenses:  expenses,
		publisher: publisher,
	}
}

// MaterializeDueRecurrences creates the instance of every recurring series
// that falls in the month of asOf and does not exist yet. It returns the
// number of expenses created. Failures of single series are logged and
// joined into the returned error without stopping the run.
func (p *RecurringProcessor) MaterializeDueRecurrences(ctx context.Context, asOf core.Date) (int, error) {
	recurring, err := p.store.FindExpenses(ctx, ledger.ExpenseFilter{Recurring: true})
	if err != nil {
		return 0, fmt.Errorf("find recurring expenses: %w", err)
	}
	templates := seriesTemplates(recurring)

	slog.InfoContext(ctx, "Processing recurring expenses",
		"total_recurring", len(recurring),
		"total_series", len(templates),
		"as_of", asOf.String())

	var (
		created int
		errs    []error
	)
	for _, tmpl := range templates {
		instance, ok, err := p.materialize(ctx, tmpl, asOf)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"series_id", tmpl.SeriesID(),
				"name", tmpl.Name,
				"error", err)
			errs = append(errs, fmt.Errorf("series %d: %w", tmpl.SeriesID(), err))
			continue
		}
		if !ok {
			continue
		}

		created++
		slog.InfoContext(ctx, "Created expense from recurring series",
			"series_id", tmpl.SeriesID(),
			"expense_id", instance.ID,
			"name", instance.Name,
			"due_date", instance.DueDate.String(),
			"recurrence", tmpl.Recurrence)
		publishEvents(ctx, p.publisher, amqp.NewExpenseEvent(amqp.EventExpenseCreated, instance))
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"created", created,
		"failed", len(errs),
		"total_checked", len(templates))

	return created, errors.Join(errs...)
}

// seriesTemplates picks one expense per series to clone from, keeping the
// order of rows. A series is its anchor when the anchor still exists and its
// earliest remaining instance otherwise, so deleting an anchor does not stop
// the recurrence. rows must be sorted by due date.
func seriesTemplates(rows []core.Expense) []core.Expense {
	index := make(map[int64]int, len(rows))
	var out []core.Expense
	for _, e := range rows {
		key := e.SeriesID()
		i, seen := index[key]
		switch {
		case !seen:
			index[key] = len(out)
			out = append(out, e)
		case e.IsAnchor():
			out[i] = e
		}
	}
	return out
}

// materialize creates the instance of one series, reporting false when none
// is due or it already exists.
func (p *RecurringProcessor) materialize(ctx context.Context, tmpl core.Expense, asOf core.Date) (core.Expense, bool, error) {
	strategy, err := GetOccurrenceStrategy(tmpl.Recurrence)
	if err != nil {
		return core.Expense{}, false, err
	}
	due, ok := strategy.Occurrence(tmpl.DueDate, asOf)
	if !ok {
		return core.Expense{}, false, nil
	}

	var (
		instance core.Expense
		made     bool
	)
	err = p.store.WithinTx(ctx, func(tx ledger.Repository) error {
		existing, err := tx.FindExpenses(ctx, ledger.ExpenseFilter{Name: tmpl.Name, DueDate: &due, Limit: 1})
		if err != nil {
			return fmt.Errorf("check existing instance: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}

		seriesID := tmpl.SeriesID()
		clone := tmpl
		clone.ID = 0
		clone.DueDate = due
		clone.IsPaid = false
		clone.AnchorID = &seriesID
		clone.CreditCardID = copyID(tmpl.CreditCardID)
		clone.PaychequeID = copyID(tmpl.PaychequeID)

		instance, err = p.expenses.createInTx(ctx, tx, clone)
		if err != nil {
			return err
		}
		made = true
		return nil
	})
	if err != nil {
		return core.Expense{}, false, err
	}
	return instance, made, nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
