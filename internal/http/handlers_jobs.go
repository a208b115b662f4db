package http

import (
	"net/http"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
)

// handleTriggerRecurring runs the materializer for today, outside the schedule.
func (s *Server) handleTriggerRecurring(w http.ResponseWriter, r *http.Request) {
	asOf := clock.Today(s.deps.Clock)
	created, err := s.deps.Recurring.MaterializeDueRecurrences(r.Context(), asOf)
	if err != nil {
		s.writeError(w, r, "trigger_recurring", err)
		return
	}
	s.logger.InfoContext(r.Context(), "Manual recurring run completed",
		log.FieldJob, "recurring",
		"as_of", asOf.String(),
		"created", created)
	NewJSONResponse().Send(w, map[string]int{"created": created})
}

// handleTriggerSettlement runs the bill sweeper for today, outside the schedule.
func (s *Server) handleTriggerSettlement(w http.ResponseWriter, r *http.Request) {
	asOf := clock.Today(s.deps.Clock)
	settled, err := s.deps.Sweeper.SettleDueCardBills(r.Context(), asOf)
	if err != nil {
		s.writeError(w, r, "trigger_settlement", err)
		return
	}
	s.logger.InfoContext(r.Context(), "Manual settlement run completed",
		log.FieldJob, "settlement",
		"as_of", asOf.String(),
		"settled", settled)
	NewJSONResponse().Send(w, map[string]int{"settled": settled})
}
