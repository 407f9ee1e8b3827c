package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ports "sheetwallet/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// newTestClient points a Client at an httptest server standing in for the
// Sheets API.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sid")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRead(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sid/values/") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"range":  "categories!A1:C2",
			"values": [][]any{{"id", "name", "color_hex"}, {1, "Food"}},
		})
	})
	rows, err := c.Read(context.Background(), "'categories'!A:C")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "1" || len(rows[1]) != 2 {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestReadMissingRange(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": "Unable to parse range"}})
		})
		_, err := c.Read(context.Background(), "'nope'!A:C")
		if !errors.Is(err, ports.ErrRangeNotFound) {
			t.Errorf("status %d: err = %v, want ErrRangeNotFound", status, err)
		}
	}
}

func TestReadOtherErrorsPropagate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{"code": 403, "message": "denied"}})
	})
	_, err := c.Read(context.Background(), "'x'!A:B")
	if err == nil || errors.Is(err, ports.ErrRangeNotFound) {
		t.Fatalf("err = %v, want a non-range error", err)
	}
}

func TestWriteAndAppendOptions(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, r.Method+" "+r.URL.Query().Get("valueInputOption")+" "+r.URL.Query().Get("insertDataOption"))
		if !strings.Contains(string(body), `"amount"`) {
			t.Errorf("body = %s", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx := context.Background()
	if err := c.Write(ctx, "'budgets'!A1", [][]string{{"id", "amount"}}, ports.Raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := c.Append(ctx, "'budgets'!A:B", []string{"1", "amount"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	want := []string{"PUT RAW ", "POST USER_ENTERED INSERT_ROWS"}
	if len(seen) != 2 || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("requests = %q, want %q", seen, want)
	}
}

func TestDeleteRow(t *testing.T) {
	var batch gsheet.BatchUpdateSpreadsheetRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/sid":
			writeJSON(w, http.StatusOK, map[string]any{"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "transactions"}},
				map[string]any{"properties": map[string]any{"title": "categories", "sheetId": 42}},
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets/sid:batchUpdate":
			if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
				t.Errorf("decode: %v", err)
			}
			writeJSON(w, http.StatusOK, map[string]any{})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()
	if err := c.DeleteRow(ctx, "transactions", 2); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	dr := batch.Requests[0].DeleteDimension.Range
	if dr.SheetId != 0 || dr.Dimension != "ROWS" || dr.StartIndex != 1 || dr.EndIndex != 2 {
		t.Fatalf("range = %+v", dr)
	}

	if err := c.DeleteRow(ctx, "missing", 2); !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestServiceAccountJSON(t *testing.T) {
	sa := ServiceAccount{
		Type: "service_account", ProjectID: "p", PrivateKeyID: "k",
		PrivateKey: `-----BEGIN-----\nabc\n-----END-----\n`, ClientEmail: "e@x", ClientID: "c",
	}
	if !sa.Complete() {
		t.Fatal("expected complete service account")
	}
	raw, err := sa.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m["private_key"] != "-----BEGIN-----\nabc\n-----END-----\n" || m["token_uri"] != tokenURI {
		t.Fatalf("credentials = %v", m)
	}
	sa.ClientID = ""
	if sa.Complete() {
		t.Fatal("missing field must make the inline form incomplete")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(context.Background(), "", Credentials{}); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	_, err := New(context.Background(), "sid", Credentials{})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("err = %v", err)
	}
	_, err = New(context.Background(), "sid", Credentials{File: t.TempDir() + "/absent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("err = %v", err)
	}
}
