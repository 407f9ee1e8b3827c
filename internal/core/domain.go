package core

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// Column names shared by the sheet layouts.
const (
	ColumnID          = "id"
	ColumnAccountName = "accountName"
	// ColumnLegacyCategory holds a category name on sheets written before
	// category_id existed.
	ColumnLegacyCategory = "category"
)

var (
	// TransactionColumns is the header of the transactions sheet in
	// single-admin deployments. Multi-user deployments add accountName.
	TransactionColumns = []string{"id", "date", "type", "category_id", "amount", "note"}
	CategoryColumns    = []string{"id", "name", "color_hex"}
	BudgetColumns      = []string{"id", "amount"}
	UserColumns        = []string{"id", "username", "password"}

	// RequiredTransactionFields must be present and non-empty on creation.
	RequiredTransactionFields = []string{"id", "date", "type", "amount"}
)

// DefaultCategory is the reserved "Uncategorized" entry.
var DefaultCategory = Category{ID: "1", Name: "未分類", ColorHex: "#9E9E9E"}

// DefaultBudget is written when the budget sheet is empty.
var DefaultBudget = Budget{ID: "1", Amount: "0"}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type (
	// Record is one data row keyed by the header cell of its column.
	Record map[string]string

	Transaction struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Type        string `json:"type"`
		CategoryID  string `json:"category_id"`
		Amount      string `json:"amount"`
		Note        string `json:"note"`
		AccountName string `json:"accountName,omitempty"`
		// Extra holds cells of columns outside the known layout, keyed by
		// header. They are listed back to clients but never written.
		Extra map[string]string `json:"-"`

		legacyCategory string
	}

	// TransactionView is a transaction joined with its resolved category.
	TransactionView struct {
		Transaction
		CategoryName     string `json:"category_name"`
		CategoryColorHex string `json:"category_color_hex"`
	}

	Category struct {
		ID       string `json:"id"`
		Name     string `json:"name" validate:"notblank"`
		ColorHex string `json:"color_hex" validate:"hexcolor6"`
	}

	Budget struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}

	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Password string `json:"-"`
	}
)

// TransactionColumnsFor returns the transaction header for the auth mode.
func TransactionColumnsFor(multiUser bool) []string {
	cols := append([]string(nil), TransactionColumns...)
	if multiUser {
		cols = append(cols, ColumnAccountName)
	}
	return cols
}

// Get returns the trimmed cell for key, or "" when the column is absent.
func (r Record) Get(key string) string {
	return strings.TrimSpace(r[key])
}

func TransactionFromRecord(r Record) Transaction {
	var extra map[string]string
	for key, val := range r {
		if key == "" || slices.Contains(TransactionColumns, key) || key == ColumnAccountName {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[key] = val
	}
	return Transaction{
		Extra:          extra,
		ID:             r["id"],
		Date:           r["date"],
		Type:           r["type"],
		CategoryID:     r["category_id"],
		Amount:         r["amount"],
		Note:           r["note"],
		AccountName:    r[ColumnAccountName],
		legacyCategory: r[ColumnLegacyCategory],
	}
}

// LegacyCategory is the free-text category column of older sheets, if any.
func (t Transaction) LegacyCategory() string {
	return t.legacyCategory
}

func (t Transaction) Values() map[string]string {
	return map[string]string{
		"id":              t.ID,
		"date":            t.Date,
		"type":            t.Type,
		"category_id":     t.CategoryID,
		"amount":          t.Amount,
		"note":            t.Note,
		ColumnAccountName: t.AccountName,
	}
}

// WithCategory joins the transaction with c, stamping c's id on it.
func (t Transaction) WithCategory(c Category) TransactionView {
	t.CategoryID = c.ID
	return TransactionView{Transaction: t, CategoryName: c.Name, CategoryColorHex: c.ColorHex}
}

// MarshalJSON lays the known fields over the extra columns, so a sheet
// column never shadows id, amount or the resolved category.
func (v TransactionView) MarshalJSON() ([]byte, error) {
	type plain TransactionView
	known, err := json.Marshal(plain(v))
	if err != nil || len(v.Extra) == 0 {
		return known, err
	}
	out := make(map[string]any, len(v.Extra)+10)
	for key, val := range v.Extra {
		out[key] = val
	}
	var fields map[string]any
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for key, val := range fields {
		out[key] = val
	}
	return json.Marshal(out)
}

func CategoryFromRecord(r Record) Category {
	return Category{
		ID:       NormalizeID(r["id"]),
		Name:     r["name"],
		ColorHex: r["color_hex"],
	}
}

func (c Category) Values() map[string]string {
	return map[string]string{"id": c.ID, "name": c.Name, "color_hex": c.ColorHex}
}

// IsDefault reports whether c is the reserved default category.
func (c Category) IsDefault() bool {
	return NormalizeID(c.ID) == DefaultCategory.ID
}

func BudgetFromRecord(r Record) Budget {
	return Budget{ID: r["id"], Amount: r["amount"]}
}

func (b Budget) Values() map[string]string {
	return map[string]string{"id": b.ID, "amount": b.Amount}
}

func UserFromRecord(r Record) User {
	return User{ID: r["id"], Username: r["username"], Password: r["password"]}
}

// NormalizeID trims an id for comparison.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// NormalizeName folds a category name for case-insensitive comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidColorHex reports whether s is a #RRGGBB color.
func ValidColorHex(s string) bool {
	return hexColorPattern.MatchString(s)
}
