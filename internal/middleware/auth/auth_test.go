package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sheetwallet/internal/auth"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	valid, _, err := tokens.Issue("alice")
	if err != nil {
		t.Fatal(err)
	}
	other, _, err := auth.NewTokenService("other", time.Hour).Issue("alice")
	if err != nil {
		t.Fatal(err)
	}

	mw := NewMiddleware(tokens)
	var seen auth.Principal
	h := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"no header", "", http.StatusUnauthorized, MessageMissingToken},
		{"not bearer", "Basic abc", http.StatusUnauthorized, MessageMissingToken},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, MessageMissingToken},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized, MessageInvalidToken},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, MessageInvalidToken},
		{"valid", "Bearer " + valid, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = auth.Principal{}
			req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantMsg == "" {
				if seen.Username != "alice" {
					t.Fatalf("principal = %+v", seen)
				}
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["message"] != tt.wantMsg {
				t.Fatalf("message = %q, want %q", body["message"], tt.wantMsg)
			}
		})
	}
}

func TestRequireAuthIf(t *testing.T) {
	mw := NewMiddleware(auth.NewTokenService("secret", time.Hour))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	mw.RequireAuthIf(false, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("open route status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mw.RequireAuthIf(true, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("guarded route status = %d", rec.Code)
	}
}
