package http

import (
	"net/http"
	"strings"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/services"
)

func (s *Server) handleMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.deps.Clock)
	if err != nil {
		s.writeError(w, r, "list_monthly_expenses", err)
		return
	}
	expenses, err := s.deps.Expenses.ListMonthly(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, "list_monthly_expenses", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(expenses))
}

// handleCategoryExpenses needs all three parameters; unlike the other month
// views it does not default to the current month.
func (s *Server) handleCategoryExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("year")) == "" || strings.TrimSpace(q.Get("month")) == "" ||
		strings.TrimSpace(q.Get("category")) == "" {
		s.writeError(w, r, "list_category_expenses", badRequest("Year, month, and category are required."))
		return
	}
	params, err := ParseMonthParams(q, s.deps.Clock)
	if err != nil {
		s.writeError(w, r, "list_category_expenses", err)
		return
	}
	category, ok := core.ParseCategory(q.Get("category"))
	if !ok {
		s.writeError(w, r, "list_category_expenses", badRequest("Unknown category %q.", q.Get("category")))
		return
	}
	expenses, err := s.deps.Expenses.ListByCategory(r.Context(), params.Year, params.Month, category)
	if err != nil {
		s.writeError(w, r, "list_category_expenses", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(expenses))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := DecodeJSON(w, r, &e); err != nil {
		s.writeError(w, r, "create_expense", err)
		return
	}
	// Ids and anchors are assigned by the ledger.
	e.ID = 0
	e.AnchorID = nil

	created, err := s.deps.Expenses.CreateExpense(r.Context(), e)
	if err != nil {
		s.writeError(w, r, "create_expense", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Send(w, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "update_expense", err)
		return
	}
	var patch services.ExpensePatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, "update_expense", err)
		return
	}
	updated, err := s.deps.Expenses.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, "update_expense", err)
		return
	}
	NewJSONResponse().Send(w, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_expense", err)
		return
	}
	if err := s.deps.Expenses.DeleteExpense(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_expense", err)
		return
	}
	NewJSONResponse().NoContent(w)
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
