// Package worker consumes ledger events and mirrors expenses to a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/sheets"
)

// ExportWorker keeps the export sheet in step with the ledger.
type ExportWorker struct {
	exporter sheets.Exporter
}

func NewExportWorker(exporter sheets.Exporter) *ExportWorker {
	return &ExportWorker{exporter: exporter}
}

// HandleLedgerEvent applies one event. Returning an error requeues it, so
// every branch must be safe to repeat.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, evt *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"id", evt.ID,
		"type", evt.Type,
		"entity_id", evt.EntityID)

	switch evt.Type {
	case amqp.EventExpenseCreated:
		return w.export(ctx, evt)

	case amqp.EventExpenseUpdated:
		// Replace the row so it reflects the new values.
		if err := w.exporter.DeleteExpense(ctx, evt.EntityID); err != nil {
			return fmt.Errorf("remove stale row for expense %d: %w", evt.EntityID, err)
		}
		return w.export(ctx, evt)

	case amqp.EventExpenseDeleted:
		if err := w.exporter.DeleteExpense(ctx, evt.EntityID); err != nil {
			return fmt.Errorf("delete expense %d from sheet: %w", evt.EntityID, err)
		}
		slog.InfoContext(ctx, "Expense removed from sheet", "id", evt.EntityID)
		return nil

	default:
		slog.DebugContext(ctx, "Ignoring ledger event", "type", evt.Type)
		return nil
	}
}

func (w *ExportWorker) export(ctx context.Context, evt *amqp.LedgerEvent) error {
	if evt.Expense == nil {
		// Redelivery cannot fix a message without a snapshot.
		slog.WarnContext(ctx, "Expense event without snapshot, dropping",
			"id", evt.ID,
			"entity_id", evt.EntityID)
		return nil
	}

	ref, err := w.exporter.Append(ctx, *evt.Expense)
	if err != nil {
		return fmt.Errorf("append expense %d to sheet: %w", evt.EntityID, err)
	}
	slog.InfoContext(ctx, "Expense exported",
		"id", evt.Expense.ID,
		"name", evt.Expense.Name,
		"row", ref)
	return nil
}
