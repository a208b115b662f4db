package google

import (
	"fmt"
	"strconv"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// expenseRow lays out e in the column order of sheets.Header.
func expenseRow(e core.Expense) []any {
	return []any{
		e.DueDate.String(),
		e.Name,
		string(e.Category),
		e.Amount.StringFixed(2),
		yesNo(e.IsPaid),
		yesNo(e.CardFunded()),
		strconv.FormatInt(e.ID, 10),
	}
}

// findRow returns the 1-based sheet row whose id cell equals id, or 0. The
// header row never matches.
func findRow(ids []string, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i := 1; i < len(ids); i++ {
		if ids[i] == want {
			return i + 1
		}
	}
	return 0
}

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:G%d", sheet, row, row)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
