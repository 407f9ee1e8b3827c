package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"sheetwallet/internal/auth"
	applog "sheetwallet/internal/log"
)

// 401 messages sent to clients.
const (
	MessageMissingToken = "missing token"
	MessageInvalidToken = "invalid or expired token"
)

// Verifier turns a bearer token into a principal.
type Verifier interface {
	Verify(token string) (auth.Principal, error)
}

type contextKey struct{}

type Middleware struct {
	verifier Verifier
}

func NewMiddleware(v Verifier) *Middleware {
	return &Middleware{verifier: v}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			unauthorized(w, MessageMissingToken)
			return
		}
		p, err := m.verifier.Verify(token)
		if err != nil {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).
				DebugContext(r.Context(), "Bearer token rejected", applog.FieldPath, r.URL.Path, applog.FieldError, err)
			unauthorized(w, MessageInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAuthIf applies RequireAuth only when enabled is true.
func (m *Middleware) RequireAuthIf(enabled bool, next http.Handler) http.Handler {
	if !enabled {
		return next
	}
	return m.RequireAuth(next)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal stored by RequireAuth.
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(auth.Principal)
	return p, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
