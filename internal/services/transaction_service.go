package services

import (
	"context"
	"strings"

	"sheetwallet/internal/core"
	"sheetwallet/internal/rows"
	"sheetwallet/internal/validator"
)

// TransactionService joins transactions with their categories and keeps the
// category reference of every written row resolvable.
type TransactionService struct {
	table      *rows.Table
	categories *CategoryService
	multiUser  bool
}

func NewTransactionService(table *rows.Table, categories *CategoryService, multiUser bool) *TransactionService {
	return &TransactionService{table: table, categories: categories, multiUser: multiUser}
}

// TransactionFields are the client-supplied fields of a transaction. Nil
// means the field was absent from the request. Category is a category name.
type TransactionFields struct {
	ID         *string
	Date       *string
	Type       *string
	CategoryID *string
	Category   *string
	Amount     *string
	Note       *string
}

type newTransaction struct {
	ID     string `json:"id" validate:"required"`
	Date   string `json:"date" validate:"required"`
	Type   string `json:"type" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

func (s *TransactionService) List(ctx context.Context) ([]core.TransactionView, error) {
	records, err := s.table.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.TransactionView, 0, len(records))
	for _, rec := range records {
		tx := core.TransactionFromRecord(rec)
		ref := core.NormalizeID(tx.CategoryID)
		if ref == "" {
			ref = core.NormalizeID(tx.LegacyCategory())
		}
		out = append(out, tx.WithCategory(Resolve(cats, ref, tx.LegacyCategory())))
	}
	return out, nil
}

// Create appends a transaction. In multi-user mode the row is owned by
// principal regardless of the request.
func (s *TransactionService) Create(ctx context.Context, principal string, in TransactionFields) (core.TransactionView, error) {
	tx := core.Transaction{
		ID:         deref(in.ID),
		Date:       deref(in.Date),
		Type:       deref(in.Type),
		CategoryID: deref(in.CategoryID),
		Amount:     deref(in.Amount),
		Note:       deref(in.Note),
	}
	if err := validator.Struct(newTransaction{ID: tx.ID, Date: tx.Date, Type: tx.Type, Amount: tx.Amount}); err != nil {
		return core.TransactionView{}, err
	}

	cats, err := s.categories.Load(ctx)
	if err != nil {
		return core.TransactionView{}, err
	}
	cat := Resolve(cats, tx.CategoryID, strings.TrimSpace(deref(in.Category)), core.DefaultCategory.ID)
	if s.multiUser {
		tx.AccountName = principal
	}
	view := tx.WithCategory(cat)

	if err := s.table.EnsureHeader(ctx); err != nil {
		return core.TransactionView{}, err
	}
	if err := s.table.Append(ctx, view.Values()); err != nil {
		return core.TransactionView{}, err
	}
	return view, nil
}

// Update merges the request over the stored row and rewrites it. The path id
// and the stored owner always win.
func (s *TransactionService) Update(ctx context.Context, id string, in TransactionFields) (core.TransactionView, error) {
	match, ok, err := s.table.FindByID(ctx, core.ColumnID, id, nil)
	if err != nil {
		return core.TransactionView{}, err
	}
	if !ok {
		return core.TransactionView{}, core.NotFound("transaction not found")
	}
	stored := core.TransactionFromRecord(match.Record)

	merged := stored
	merged.ID = id
	override(&merged.Date, in.Date)
	override(&merged.Type, in.Type)
	override(&merged.Amount, in.Amount)
	override(&merged.Note, in.Note)

	cats, err := s.categories.Load(ctx)
	if err != nil {
		return core.TransactionView{}, err
	}
	cat := Resolve(cats, deref(in.CategoryID), strings.TrimSpace(deref(in.Category)), stored.CategoryID, core.DefaultCategory.ID)
	view := merged.WithCategory(cat)

	if err := s.table.Update(ctx, match.Index, view.Values()); err != nil {
		return core.TransactionView{}, err
	}
	return view, nil
}

// Delete removes the transaction and returns the row as it was stored.
func (s *TransactionService) Delete(ctx context.Context, id string) (core.Transaction, error) {
	match, ok, err := s.table.FindByID(ctx, core.ColumnID, id, nil)
	if err != nil {
		return core.Transaction{}, err
	}
	if !ok {
		return core.Transaction{}, core.NotFound("transaction not found")
	}
	if err := s.table.Delete(ctx, match.Index); err != nil {
		return core.Transaction{}, err
	}
	return core.TransactionFromRecord(match.Record), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func override(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
