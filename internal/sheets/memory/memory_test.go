package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	ports "sheetwallet/internal/sheets"
)

func TestReadUnknownSheet(t *testing.T) {
	s := New()
	_, err := s.Read(context.Background(), "'missing'!A:C")
	if !errors.Is(err, ports.ErrRangeNotFound) {
		t.Fatalf("err = %v, want ErrRangeNotFound", err)
	}
}

func TestWriteAppendDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Write(ctx, "'categories'!A1", [][]string{{"id", "name", "color_hex"}, {"1", "a", "#000000"}}, ports.Raw); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, "'categories'!A:C", []string{"2", "b", "#FFFFFF"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, ports.RowRange("categories", 2, 3), [][]string{{"1", "z", ""}}, ports.UserEntered); err != nil {
		t.Fatal(err)
	}

	got, err := s.Read(ctx, "'categories'!A:C")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"id", "name", "color_hex"}, {"1", "z"}, {"2", "b", "#FFFFFF"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("read = %#v, want %#v", got, want)
	}

	if err := s.DeleteRow(ctx, "categories", 2); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Read(ctx, "'categories'!A:C")
	if len(got) != 2 || got[1][0] != "2" {
		t.Fatalf("after delete = %#v", got)
	}
}

func TestDeleteRowUnknownSheet(t *testing.T) {
	err := New().DeleteRow(context.Background(), "nope", 2)
	if !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestSeedIsCopied(t *testing.T) {
	rows := [][]string{{"id"}, {"1"}}
	s := New()
	s.Seed("x", rows)
	rows[1][0] = "changed"
	if got := s.Rows("x"); got[1][0] != "1" {
		t.Fatalf("seed aliased caller slice: %v", got)
	}
}
