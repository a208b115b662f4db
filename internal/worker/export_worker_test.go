package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/sheets/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rent(id int64, amount string) core.Expense {
	return core.Expense{
		ID:       id,
		Name:     "Rent",
		Amount:   decimal.RequireFromString(amount),
		DueDate:  core.NewDate(2024, 6, 1),
		Category: core.CategoryEssentials,
	}
}

func TestHandleLedgerEvent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	sheet := memory.New()
	w := NewExportWorker(sheet)

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewExpenseEvent(amqp.EventExpenseCreated, rent(1, "1200"))))
	// Redelivery does not duplicate the row.
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewExpenseEvent(amqp.EventExpenseCreated, rent(1, "1200"))))
	require.Len(t, sheet.Rows(), 1)

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewExpenseEvent(amqp.EventExpenseUpdated, rent(1, "1250"))))
	rows := sheet.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("1250")))

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewExpenseEvent(amqp.EventExpenseDeleted, rent(1, "1250"))))
	assert.Empty(t, sheet.Rows())
}

func TestHandleLedgerEvent_IgnoresOtherEvents(t *testing.T) {
	sheet := memory.New()
	w := NewExportWorker(sheet)

	err := w.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(amqp.EventBillsSettled, 3, decimal.RequireFromString("90")))
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows())
}

func TestHandleLedgerEvent_DropsMissingSnapshot(t *testing.T) {
	sheet := memory.New()
	w := NewExportWorker(sheet)

	evt := amqp.NewLedgerEvent(amqp.EventExpenseCreated, 5, decimal.RequireFromString("10"))
	require.NoError(t, w.HandleLedgerEvent(context.Background(), evt))
	assert.Empty(t, sheet.Rows())
}

type failingExporter struct{ err error }

func (f failingExporter) Append(context.Context, core.Expense) (string, error) { return "", f.err }
func (f failingExporter) DeleteExpense(context.Context, int64) error          { return f.err }

func TestHandleLedgerEvent_ExporterErrorRequeues(t *testing.T) {
	quota := errors.New("quota exceeded")
	w := NewExportWorker(failingExporter{err: quota})

	err := w.HandleLedgerEvent(context.Background(), amqp.NewExpenseEvent(amqp.EventExpenseCreated, rent(1, "1200")))
	assert.ErrorIs(t, err, quota)
}
