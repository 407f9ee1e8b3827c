package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"sheetwallet/internal/core"
	applog "sheetwallet/internal/log"
	"sheetwallet/internal/rows"
)

// BudgetService reads and writes the single budget row.
type BudgetService struct {
	table *rows.Table
}

func NewBudgetService(table *rows.Table) *BudgetService {
	return &BudgetService{table: table}
}

// Get returns the first budget row, creating the sheet or the row when
// either is missing.
func (s *BudgetService) Get(ctx context.Context) (core.Budget, error) {
	raw, err := s.table.ReadRows(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("read budget: %w", err)
	}
	if len(raw) == 0 {
		if err := s.table.Initialize(ctx, core.DefaultBudget.Values()); err != nil {
			return core.Budget{}, err
		}
		sheetLogger(ctx).InfoContext(ctx, "Initialized budget sheet",
			applog.FieldOperation, applog.OpInit, applog.FieldRange, s.table.Range())
		return core.DefaultBudget, nil
	}
	records := rows.Normalize(raw)
	if len(records) == 0 {
		if err := s.table.Append(ctx, core.DefaultBudget.Values()); err != nil {
			return core.Budget{}, err
		}
		return core.DefaultBudget, nil
	}
	return core.BudgetFromRecord(records[0]), nil
}

// Update stores amount, clamped at zero, over the current budget row.
func (s *BudgetService) Update(ctx context.Context, amount decimal.Decimal) (core.Budget, error) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	budget, err := s.Get(ctx)
	if err != nil {
		return core.Budget{}, err
	}
	match, ok, err := s.table.FindByID(ctx, core.ColumnID, budget.ID, nil)
	if err != nil {
		return core.Budget{}, err
	}
	if !ok {
		return core.Budget{}, fmt.Errorf("budget row %q not found", budget.ID)
	}
	budget.Amount = amount.String()
	if err := s.table.Update(ctx, match.Index, budget.Values()); err != nil {
		return core.Budget{}, err
	}
	return budget, nil
}

// ParseAmount reads a budget amount. Blank counts as zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, core.Invalid("amount must be a number")
	}
	return d, nil
}
