package advice

import (
	"fmt"
	"strings"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// AdvicePrompt renders the snapshot as the advice request sent to the model.
func AdvicePrompt(userName string, s Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "As a financial advisor for a user named %s, provide a short, actionable financial tip "+
		"based on the following data for the current month so far. This is a snapshot and not the final monthly numbers.\n\n", userName)

	b.WriteString("1. Monthly cash flow:\n")
	fmt.Fprintf(&b, "   * Total income: $%s\n", s.MonthlySummary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "   * Total cash spending (not including new credit card debt): $%s\n", s.MonthlySummary.TotalSpending.StringFixed(2))
	fmt.Fprintf(&b, "   * Net cash flow: $%s\n\n", s.MonthlySummary.NetFlow.StringFixed(2))

	b.WriteString("2. All upcoming bills for this month:\n")
	if len(s.AllUpcomingBills) == 0 {
		b.WriteString("   * None\n")
	}
	for _, bill := range s.AllUpcomingBills {
		fmt.Fprintf(&b, "   * %s ($%s) on %s\n", bill.Name, bill.Amount.StringFixed(2), bill.DueDate)
	}

	b.WriteString("\n3. Credit card balances:\n")
	if len(s.CreditCardSummary) == 0 {
		b.WriteString("   * No credit cards.\n")
	}
	for _, card := range s.CreditCardSummary {
		fmt.Fprintf(&b, "   * %s: $%s balance on a $%s limit.\n",
			card.Name, card.CurrentBalance.StringFixed(2), card.CreditLimit.StringFixed(2))
	}

	b.WriteString("\n4. Overall installment debts:\n")
	if len(s.DebtSummary) == 0 {
		b.WriteString("   * No installment debts.\n")
	}
	for _, debt := range s.DebtSummary {
		fmt.Fprintf(&b, "   * %s: $%s remaining.\n", debt.Name, debt.TotalRemaining.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nBased on this complete picture, what is one specific, actionable piece of advice you can give %s? "+
		"Focus on the most immediate and impactful action they can take.", userName)
	return b.String()
}

// CategorizePrompt asks for exactly one of the known categories.
func CategorizePrompt(name string) string {
	names := make([]string, len(core.Categories))
	for i, c := range core.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf("Categorize the following expense into one of these categories: %s. "+
		"Answer with the category name only. Expense: %q", strings.Join(names, ", "), name)
}
