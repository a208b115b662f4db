package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.deps.Clock)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	dash, err := s.deps.Reporter.Dashboard(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	NewJSONResponse().Send(w, dash)
}

func (s *Server) handleSpendingSummary(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.deps.Clock)
	if err != nil {
		s.writeError(w, r, "spending_summary", err)
		return
	}
	summary, err := s.deps.Reporter.SpendingSummary(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, "spending_summary", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(summary))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	trend, err := s.deps.Reporter.Trends(r.Context())
	if err != nil {
		s.writeError(w, r, "trends", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(trend))
}
