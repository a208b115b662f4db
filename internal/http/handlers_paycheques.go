package http

import (
	"net/http"
	"strings"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// handleListPaycheques lists every paycheque, or one month's when month is given.
func (s *Server) handleListPaycheques(w http.ResponseWriter, r *http.Request) {
	var year, month int
	if strings.TrimSpace(r.URL.Query().Get("month")) != "" {
		params, err := ParseMonthParams(r.URL.Query(), s.deps.Clock)
		if err != nil {
			s.writeError(w, r, "list_paycheques", err)
			return
		}
		year, month = params.Year, params.Month
	}
	paycheques, err := s.deps.Accounts.ListPaycheques(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, "list_paycheques", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(paycheques))
}

func (s *Server) handleCreatePaycheque(w http.ResponseWriter, r *http.Request) {
	var p core.Paycheque
	if err := DecodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, "create_paycheque", err)
		return
	}
	p.ID = 0
	created, err := s.deps.Accounts.CreatePaycheque(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "create_paycheque", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Send(w, created)
}

func (s *Server) handleDeletePaycheque(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_paycheque", err)
		return
	}
	if err := s.deps.Accounts.DeletePaycheque(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_paycheque", err)
		return
	}
	NewJSONResponse().NoContent(w)
}
