package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sheetwallet/internal/auth"
	"sheetwallet/internal/core"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestJSONResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Message("category created").
		Data(map[string]string{"id": "2"}).
		Header("X-Test", "1").
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Test") != "1" {
		t.Fatal("custom header missing")
	}
	body := decodeBody(t, rec)
	if body["message"] != "category created" {
		t.Fatalf("message = %v", body["message"])
	}
	if data, ok := body["data"].(map[string]any); !ok || data["id"] != "2" {
		t.Fatalf("data = %v", body["data"])
	}
	if _, ok := body["error"]; ok {
		t.Fatal("success responses carry no error field")
	}
}

func TestJSONResponseBuilderEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Data([]string{}).Write(rec)
	if got := rec.Body.String(); got != "{\"data\":[]}\n" {
		t.Fatalf("body = %q", got)
	}
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantMsg   string
		wantCause bool
	}{
		{"validation", core.Invalid("name must not be empty"), http.StatusBadRequest, "name must not be empty", false},
		{"not found", fmt.Errorf("lookup: %w", core.NotFound("category not found")), http.StatusNotFound, "category not found", false},
		{"conflict", core.Conflict("category name already exists"), http.StatusConflict, "category name already exists", false},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error(), false},
		{"unexpected", errors.New("sheets: quota exceeded"), http.StatusInternalServerError, "fallback", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFor(tt.err, "fallback").Write(rec)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			body := decodeBody(t, rec)
			if body["message"] != tt.wantMsg {
				t.Fatalf("message = %v, want %q", body["message"], tt.wantMsg)
			}
			if _, ok := body["error"]; ok != tt.wantCause {
				t.Fatalf("error field present = %v, want %v", ok, tt.wantCause)
			}
		})
	}
}
