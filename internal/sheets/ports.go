// Package sheets defines the spreadsheet export ports.
package sheets

import (
	"context"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseWriter appends one row per expense. Appending an expense that is
	// already exported returns the existing row reference.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseDeleter removes the row of an exported expense. Deleting an
	// expense that was never exported is not an error.
	ExpenseDeleter interface {
		DeleteExpense(ctx context.Context, id int64) error
	}

	Exporter interface {
		ExpenseWriter
		ExpenseDeleter
	}
)

// Header is the first row of the export sheet.
var Header = []any{"Due date", "Name", "Category", "Amount", "Paid", "Card funded", "ID"}
