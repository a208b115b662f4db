package http

import (
	"net/http"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/services"
)

// Debts

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.deps.Accounts.ListDebts(r.Context())
	if err != nil {
		s.writeError(w, r, "list_debts", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(debts))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var d core.Debt
	if err := DecodeJSON(w, r, &d); err != nil {
		s.writeError(w, r, "create_debt", err)
		return
	}
	d.ID = 0
	created, err := s.deps.Accounts.CreateDebt(r.Context(), d)
	if err != nil {
		s.writeError(w, r, "create_debt", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Send(w, created)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "update_debt", err)
		return
	}
	var patch services.DebtPatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, "update_debt", err)
		return
	}
	updated, err := s.deps.Accounts.UpdateDebt(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, "update_debt", err)
		return
	}
	NewJSONResponse().Send(w, updated)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_debt", err)
		return
	}
	if err := s.deps.Accounts.DeleteDebt(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_debt", err)
		return
	}
	NewJSONResponse().NoContent(w)
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "pay_debt", err)
		return
	}
	var req AmountRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, "pay_debt", err)
		return
	}
	result, err := s.deps.Payments.PayDebt(r.Context(), id, req.Amount)
	if err != nil {
		s.writeError(w, r, "pay_debt", err)
		return
	}
	NewJSONResponse().Send(w, result)
}

// Savings goals

func (s *Server) handleListSavingsGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.deps.Accounts.ListSavingsGoals(r.Context())
	if err != nil {
		s.writeError(w, r, "list_savings_goals", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(goals))
}

func (s *Server) handleCreateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := DecodeJSON(w, r, &g); err != nil {
		s.writeError(w, r, "create_savings_goal", err)
		return
	}
	g.ID = 0
	created, err := s.deps.Accounts.CreateSavingsGoal(r.Context(), g)
	if err != nil {
		s.writeError(w, r, "create_savings_goal", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Send(w, created)
}

func (s *Server) handleUpdateSavingsGoal(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "update_savings_goal", err)
		return
	}
	var patch services.SavingsGoalPatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, "update_savings_goal", err)
		return
	}
	updated, err := s.deps.Accounts.UpdateSavingsGoal(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, "update_savings_goal", err)
		return
	}
	NewJSONResponse().Send(w, updated)
}

func (s *Server) handleDeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_savings_goal", err)
		return
	}
	if err := s.deps.Accounts.DeleteSavingsGoal(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_savings_goal", err)
		return
	}
	NewJSONResponse().NoContent(w)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "contribute", err)
		return
	}
	var req AmountRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, "contribute", err)
		return
	}
	updated, err := s.deps.Accounts.Contribute(r.Context(), id, req.Amount)
	if err != nil {
		s.writeError(w, r, "contribute", err)
		return
	}
	NewJSONResponse().Send(w, updated)
}

// Credit cards

func (s *Server) handleListCreditCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.deps.Accounts.ListCreditCards(r.Context())
	if err != nil {
		s.writeError(w, r, "list_credit_cards", err)
		return
	}
	NewJSONResponse().Send(w, nonNil(cards))
}

func (s *Server) handleCreateCreditCard(w http.ResponseWriter, r *http.Request) {
	var c core.CreditCard
	if err := DecodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, "create_credit_card", err)
		return
	}
	c.ID = 0
	created, err := s.deps.Accounts.CreateCreditCard(r.Context(), c)
	if err != nil {
		s.writeError(w, r, "create_credit_card", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Send(w, created)
}

func (s *Server) handleUpdateCreditCard(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "update_credit_card", err)
		return
	}
	var patch services.CreditCardPatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, "update_credit_card", err)
		return
	}
	updated, err := s.deps.Accounts.UpdateCreditCard(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, "update_credit_card", err)
		return
	}
	NewJSONResponse().Send(w, updated)
}

func (s *Server) handleDeleteCreditCard(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_credit_card", err)
		return
	}
	if err := s.deps.Accounts.DeleteCreditCard(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_credit_card", err)
		return
	}
	NewJSONResponse().NoContent(w)
}

func (s *Server) handlePayCreditCard(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "pay_credit_card", err)
		return
	}
	var req AmountRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, "pay_credit_card", err)
		return
	}
	result, err := s.deps.Payments.PayCreditCard(r.Context(), id, req.Amount)
	if err != nil {
		s.writeError(w, r, "pay_credit_card", err)
		return
	}
	NewJSONResponse().Send(w, result)
}
