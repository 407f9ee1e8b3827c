package http

import (
	"net/http"

	"sheetwallet/internal/core"
	applog "sheetwallet/internal/log"
	"sheetwallet/internal/services"
)

func readTransactionFields(body RequestBody) (services.TransactionFields, error) {
	var in services.TransactionFields
	err := body.Strings(map[string]**string{
		"id":          &in.ID,
		"date":        &in.Date,
		"type":        &in.Type,
		"category_id": &in.CategoryID,
		"category":    &in.Category,
		"amount":      &in.Amount,
		"note":        &in.Note,
	})
	return in, err
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	views, err := s.deps.Transactions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err, applog.OpList, "failed to read transactions")
		return
	}
	if views == nil {
		views = []core.TransactionView{}
	}
	NewJSONResponse().Data(views).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create transaction")
		return
	}
	in, err := readTransactionFields(body)
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create transaction")
		return
	}

	view, err := s.deps.Transactions.Create(r.Context(), principal(r), in)
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create transaction")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityTransaction, applog.OpCreate, view.ID,
		"category_id", view.CategoryID, applog.FieldUsername, view.AccountName)
	NewJSONResponse().Status(http.StatusCreated).Message("transaction created").Data(view).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update transaction")
		return
	}
	in, err := readTransactionFields(body)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update transaction")
		return
	}

	view, err := s.deps.Transactions.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update transaction")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityTransaction, applog.OpUpdate, id, "category_id", view.CategoryID)
	NewJSONResponse().Message("transaction updated").Data(view).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tx, err := s.deps.Transactions.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, applog.OpDelete, "failed to delete transaction")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityTransaction, applog.OpDelete, id)
	NewJSONResponse().Message("transaction deleted").Data(tx).Write(w)
}
