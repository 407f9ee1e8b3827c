package http

import (
	"net/http"

	authmw "sheetwallet/internal/middleware/auth"
)

// principal returns the username attached by the auth middleware, or "".
func principal(r *http.Request) string {
	p, _ := authmw.PrincipalFrom(r.Context())
	return p.Username
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
