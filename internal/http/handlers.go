package http

import (
	"context"
	"net/http"
	"time"

	applog "sheetwallet/internal/log"
)

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var apiEndpoints = []endpoint{
	{http.MethodPost, "/auth/login", "log in and obtain a bearer token"},
	{http.MethodGet, "/api/transactions", "list all transactions"},
	{http.MethodPost, "/api/transactions", "create a transaction"},
	{http.MethodPut, "/api/transactions/:id", "update a transaction"},
	{http.MethodDelete, "/api/transactions/:id", "delete a transaction"},
	{http.MethodGet, "/api/categories", "list categories and their colors"},
	{http.MethodPost, "/api/categories", "create a category"},
	{http.MethodPut, "/api/categories/:id", "update a category"},
	{http.MethodDelete, "/api/categories/:id", "delete a category"},
	{http.MethodGet, "/api/budget", "get the budget"},
	{http.MethodPut, "/api/budget", "update the budget"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nil, map[string]any{
		"message":   "Google Sheets wallet API",
		"sheetId":   s.opts.SheetID,
		"endpoints": apiEndpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nil, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports whether the store answers a read of the category range.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"rejected":       s.limiter.Rejected(),
		},
		"requests_total": s.trace.TotalRequests(),
	}
	if err := s.deps.Categories.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	writeJSON(w, code, nil, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}
