package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"sheetwallet/internal/auth"
	applog "sheetwallet/internal/log"
	authmw "sheetwallet/internal/middleware/auth"
	"sheetwallet/internal/middleware/ratelimit"
	"sheetwallet/internal/middleware/security"
	"sheetwallet/internal/middleware/trace"
	"sheetwallet/internal/services"
)

// Deps are the collaborators built once at startup.
type Deps struct {
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Budget       *services.BudgetService
	Users        auth.Provider
	Tokens       *auth.TokenService
	Logger       *applog.Logger
}

type Options struct {
	// MultiUser guards transaction listing and stamps owners on new rows.
	MultiUser bool
	SheetID   string
	// TokenExpiresIn is echoed verbatim in login responses.
	TokenExpiresIn string
	AllowedOrigins []string
	LoginRateLimit int
	TrustedProxies []string
}

type Server struct {
	http.Server
	deps      Deps
	opts      Options
	logger    *applog.Logger
	events    *applog.StructuredLogger
	guard     *authmw.Middleware
	limiter   *ratelimit.Limiter
	trace     *trace.Middleware
	clientIP  *security.ClientIPResolver
	startedAt time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware into a ready-to-run http.Server.
func NewServer(addr string, deps Deps, opts Options) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	resolver, err := security.NewClientIPResolver(opts.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("configure client ip resolver: %w", err)
	}
	logger := deps.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		deps:      deps,
		opts:      opts,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
		guard:     authmw.NewMiddleware(deps.Tokens),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.LoginRateLimit}),
		trace:     trace.NewMiddleware(deps.Logger, resolver.ClientIP),
		clientIP:  resolver,
		startedAt: time.Now(),
	}
	s.Handler = s.middleware(s.routes())
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	loginLimit := s.limiter.Middleware(s.clientIP.ClientIP, s.onLoginLimited)
	mux.Handle("POST /auth/login", loginLimit(http.HandlerFunc(s.handleLogin)))

	// /api/products is the path older clients still call.
	for _, base := range []string{"/api/transactions", "/api/products"} {
		mux.Handle("GET "+base, s.guard.RequireAuthIf(s.opts.MultiUser, http.HandlerFunc(s.handleListTransactions)))
		mux.Handle("POST "+base, s.guard.RequireAuth(http.HandlerFunc(s.handleCreateTransaction)))
	}
	mux.Handle("PUT /api/transactions/{id}", s.guard.RequireAuth(http.HandlerFunc(s.handleUpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}", s.guard.RequireAuth(http.HandlerFunc(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.Handle("POST /api/categories", s.guard.RequireAuth(http.HandlerFunc(s.handleCreateCategory)))
	mux.Handle("PUT /api/categories/{id}", s.guard.RequireAuth(http.HandlerFunc(s.handleUpdateCategory)))
	mux.Handle("DELETE /api/categories/{id}", s.guard.RequireAuth(http.HandlerFunc(s.handleDeleteCategory)))

	mux.HandleFunc("GET /api/budget", s.handleGetBudget)
	mux.Handle("PUT /api/budget", s.guard.RequireAuth(http.HandlerFunc(s.handleUpdateBudget)))

	return mux
}

// middleware wraps h, outermost first: CORS, tracing, request logger,
// security headers.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestID)(h)
	h = applog.Middleware(s.logger)(h)
	h = s.trace.Middleware(h)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID},
	})
	return c.Handler(h)
}

func (s *Server) onLoginLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).
		WarnContext(r.Context(), "Login rate limit exceeded", applog.FieldClientIP, s.clientIP.ClientIP(r))
	TooManyRequestsError("too many login attempts, try again later").Write(w)
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
