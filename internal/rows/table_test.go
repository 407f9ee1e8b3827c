package rows

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sheetwallet/internal/core"
	ports "sheetwallet/internal/sheets"
	"sheetwallet/internal/sheets/memory"
)

var cols = []string{"id", "name", "owner"}

func newTable(t *testing.T, seed [][]string) (*Table, *memory.Store) {
	t.Helper()
	store := memory.New()
	if seed != nil {
		store.Seed("items", seed)
	}
	tbl, err := NewTable(store, "'items'!A:C", cols)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl, store
}

type failingStore struct {
	ports.RowStore
	err error
}

func (f failingStore) Read(context.Context, string) ([][]string, error) { return nil, f.err }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []core.Record
	}{
		{"empty", nil, []core.Record{}},
		{"header only", [][]string{{"id", "name"}}, []core.Record{}},
		{
			"missing trailing cells",
			[][]string{{"id", "name", "owner"}, {"1", "a"}, {"2"}},
			[]core.Record{{"id": "1", "name": "a", "owner": ""}, {"id": "2", "name": "", "owner": ""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.rows); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Normalize = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestToRow(t *testing.T) {
	got := ToRow(cols, map[string]string{"owner": "bob", "id": "3", "ignored": "x"})
	if !reflect.DeepEqual(got, []string{"3", "", "bob"}) {
		t.Fatalf("ToRow = %v", got)
	}
}

func TestFetchAllMissingRangeIsEmpty(t *testing.T) {
	tbl, _ := newTable(t, nil)
	recs, err := tbl.FetchAll(context.Background())
	if err != nil || len(recs) != 0 {
		t.Fatalf("FetchAll = %v, %v", recs, err)
	}
}

func TestFetchAllPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	tbl, err := NewTable(failingStore{err: boom}, "'items'!A:C", cols)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.FetchAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestFindByID(t *testing.T) {
	seed := [][]string{
		{"id", "name", "owner"},
		{"1", "first", "alice"},
		{" 2 ", "second", "Bob"},
		{"2", "dup", "carol"},
	}
	ctx := context.Background()
	tbl, _ := newTable(t, seed)

	m, ok, err := tbl.FindByID(ctx, "id", "2", nil)
	if err != nil || !ok || m.Index != 3 || m.Record["name"] != "second" {
		t.Fatalf("FindByID(2) = %+v, %v, %v", m, ok, err)
	}

	m, ok, _ = tbl.FindByID(ctx, "id", "2", map[string]string{"owner": "BOB"})
	if !ok || m.Index != 3 {
		t.Fatalf("case-insensitive extra filter should match, got %+v %v", m, ok)
	}

	// The first id match decides; the later duplicate owned by carol is not considered.
	if _, ok, _ := tbl.FindByID(ctx, "id", "2", map[string]string{"owner": "carol"}); ok {
		t.Fatal("expected the scan to stop at the first id match")
	}

	if _, ok, _ := tbl.FindByID(ctx, "id", "9", nil); ok {
		t.Fatal("unexpected match for unknown id")
	}
	if _, ok, _ := tbl.FindByID(ctx, "uuid", "1", nil); ok {
		t.Fatal("unexpected match for a column missing from the header")
	}
	if _, ok, _ := tbl.FindByID(ctx, "id", "1 ", nil); !ok {
		t.Fatal("target id should be trimmed")
	}
}

func TestAppendUpdateDelete(t *testing.T) {
	ctx := context.Background()
	tbl, store := newTable(t, nil)

	if err := tbl.Initialize(ctx, map[string]string{"id": "1", "name": "default"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Append(ctx, map[string]string{"id": "2", "name": "b", "owner": "x"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Update(ctx, 2, map[string]string{"id": "1", "owner": "y"}); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"id", "name", "owner"}, {"1", "", "y"}, {"2", "b", "x"}}
	if got := store.Rows("items"); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %#v, want %#v", got, want)
	}

	if err := tbl.Delete(ctx, 2); err != nil {
		t.Fatal(err)
	}
	recs, _ := tbl.FetchAll(ctx)
	if len(recs) != 1 || recs[0]["id"] != "2" {
		t.Fatalf("after delete = %v", recs)
	}
}

func TestDeleteUnknownSheet(t *testing.T) {
	tbl, _ := newTable(t, nil)
	if err := tbl.Delete(context.Background(), 2); !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestNewTableRejectsBadRange(t *testing.T) {
	if _, err := NewTable(memory.New(), "'broken", cols); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnsureHeader(t *testing.T) {
	ctx := context.Background()
	tbl, store := newTable(t, nil)
	if err := tbl.EnsureHeader(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Append(ctx, map[string]string{"id": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.EnsureHeader(ctx); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"id", "name", "owner"}, {"1", "", ""}}
	if got := store.Rows("items"); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %#v, want %#v", got, want)
	}
}
