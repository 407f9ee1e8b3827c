package http

import (
	"net/http"

	applog "sheetwallet/internal/log"
	"sheetwallet/internal/services"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Budget.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err, applog.OpRead, "failed to read budget")
		return
	}
	NewJSONResponse().Data(b).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update budget")
		return
	}
	if !body.Has("amount") {
		BadRequestError("amount is required").Write(w)
		return
	}
	raw, err := body.String("amount")
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update budget")
		return
	}
	amount, err := services.ParseAmount(deref(raw))
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update budget")
		return
	}

	b, err := s.deps.Budget.Update(r.Context(), amount)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update budget")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityBudget, applog.OpUpdate, b.ID, "amount", b.Amount)
	NewJSONResponse().Message("budget updated").Data(b).Write(w)
}
