package http

import (
	"net/http"

	"github.com/Maverick2506/Fintrack-backend/internal/advice"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

func (s *Server) handleFinancialAdvice(w http.ResponseWriter, r *http.Request) {
	if s.deps.Advisor == nil || !s.deps.Advisor.Enabled() {
		s.writeError(w, r, "financial_advice", advice.ErrNotConfigured)
		return
	}
	var snap advice.Snapshot
	if err := DecodeJSON(w, r, &snap); err != nil {
		s.writeError(w, r, "financial_advice", err)
		return
	}
	text, err := s.deps.Advisor.Advice(r.Context(), snap)
	if err != nil {
		s.writeError(w, r, "financial_advice", err)
		return
	}
	NewJSONResponse().Send(w, map[string]string{"advice": text})
}

type categorizeRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCategorizeExpense(w http.ResponseWriter, r *http.Request) {
	if s.deps.Advisor == nil || !s.deps.Advisor.Enabled() {
		s.writeError(w, r, "categorize_expense", advice.ErrNotConfigured)
		return
	}
	var req categorizeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, "categorize_expense", err)
		return
	}
	category, err := s.deps.Advisor.Categorize(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, "categorize_expense", err)
		return
	}
	NewJSONResponse().Send(w, map[string]core.Category{"category": category})
}
