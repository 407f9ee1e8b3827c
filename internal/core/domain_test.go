package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestTransactionColumnsFor(t *testing.T) {
	single := TransactionColumnsFor(false)
	multi := TransactionColumnsFor(true)
	if len(single) != 6 {
		t.Fatalf("single-admin columns = %v", single)
	}
	if len(multi) != 7 || multi[6] != ColumnAccountName {
		t.Fatalf("multi-user columns = %v", multi)
	}
	// The shared slice must not be mutated by the append.
	if len(TransactionColumns) != 6 {
		t.Fatalf("TransactionColumns mutated: %v", TransactionColumns)
	}
}

func TestTransactionRecordRoundTrip(t *testing.T) {
	rec := Record{
		"id": "7", "date": "2024-01-01", "type": "expense", "category_id": "2",
		"amount": "100", "note": "lunch", "accountName": "alice", "category": "Food",
	}
	tx := TransactionFromRecord(rec)
	if tx.ID != "7" || tx.AccountName != "alice" || tx.LegacyCategory() != "Food" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	vals := tx.Values()
	for _, col := range TransactionColumnsFor(true) {
		if vals[col] != rec[col] {
			t.Errorf("column %s = %q, want %q", col, vals[col], rec[col])
		}
	}
}

func TestWithCategory(t *testing.T) {
	view := Transaction{ID: "1", CategoryID: "99"}.WithCategory(DefaultCategory)
	if view.CategoryID != "1" || view.CategoryName != "未分類" || view.CategoryColorHex != "#9E9E9E" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestCategoryFromRecordTrimsID(t *testing.T) {
	c := CategoryFromRecord(Record{"id": " 1 ", "name": "x", "color_hex": "#000000"})
	if c.ID != "1" || !c.IsDefault() {
		t.Fatalf("unexpected category: %+v", c)
	}
}

func TestValidColorHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#9E9E9E", true},
		{"#abcdef", true},
		{"#ABCDEF", true},
		{"9E9E9E", false},
		{"#9E9E9", false},
		{"#9E9E9E0", false},
		{"#GGGGGG", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidColorHex(tt.in); got != tt.want {
			t.Errorf("ValidColorHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("name taken"))
	if !errors.Is(err, ErrConflict) {
		t.Fatal("expected ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("did not expect ErrNotFound")
	}
	msg, ok := Message(err)
	if !ok || msg != "name taken" {
		t.Fatalf("Message() = %q, %v", msg, ok)
	}
	if _, ok := Message(errors.New("plain")); ok {
		t.Fatal("plain errors carry no client message")
	}
}

func TestTransactionExtraColumns(t *testing.T) {
	rec := Record{
		"id": "3", "date": "2024-02-01", "type": "income", "category_id": "", "amount": "5",
		"note": "", "receipt": "r.jpg", "category_name": "shadow", "": "blank header",
	}
	tx := TransactionFromRecord(rec)
	if len(tx.Extra) != 2 || tx.Extra["receipt"] != "r.jpg" {
		t.Fatalf("Extra = %v", tx.Extra)
	}
	if _, ok := tx.Values()["receipt"]; ok {
		t.Fatal("extra columns must not be written back")
	}

	raw, err := json.Marshal(tx.WithCategory(DefaultCategory))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["receipt"] != "r.jpg" || got["id"] != "3" || got["category_name"] != "未分類" {
		t.Fatalf("view = %v", got)
	}

	plain, err := json.Marshal(Transaction{ID: "4"}.WithCategory(DefaultCategory))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(plain, &got); err != nil || len(got) == 0 {
		t.Fatalf("view without extras = %s, %v", plain, err)
	}
}
