package services

import (
	"testing"
	"time"

	"sheetwallet/internal/core"
	"sheetwallet/internal/rows"
	"sheetwallet/internal/sheets/memory"
)

type fixture struct {
	store        *memory.Store
	categories   *CategoryService
	budget       *BudgetService
	transactions *TransactionService
}

func newFixture(t *testing.T, multiUser bool) *fixture {
	t.Helper()
	store := memory.New()
	mustTable := func(rng string, cols []string) *rows.Table {
		tbl, err := rows.NewTable(store, rng, cols)
		if err != nil {
			t.Fatalf("NewTable(%s): %v", rng, err)
		}
		return tbl
	}
	cats := NewCategoryService(mustTable("'categories'!A:C", core.CategoryColumns))
	cats.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return &fixture{
		store:      store,
		categories: cats,
		budget:     NewBudgetService(mustTable("'budgets'!A:B", core.BudgetColumns)),
		transactions: NewTransactionService(
			mustTable("'transactions'!A:G", core.TransactionColumnsFor(multiUser)), cats, multiUser),
	}
}

func ptr(s string) *string { return &s }
