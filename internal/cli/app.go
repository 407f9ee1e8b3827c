package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sheetwallet/internal/auth"
	"sheetwallet/internal/backend"
	"sheetwallet/internal/config"
	"sheetwallet/internal/core"
	apphttp "sheetwallet/internal/http"
	applog "sheetwallet/internal/log"
	"sheetwallet/internal/rows"
	"sheetwallet/internal/services"
)

// App is a wired server plus the cleanup of its store.
type App struct {
	Server  *apphttp.Server
	Cleanup backend.CleanupFunc
	logger  *applog.Logger
}

// Build creates the store selected by cfg and wires services, auth and the
// HTTP server on top of it.
func Build(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.With(applog.FieldComponent, applog.ComponentBackend).Logger).Create(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	cleanup := res.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}

	srv, err := buildServer(cfg, res, logger)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	return &App{Server: srv, Cleanup: cleanup, logger: logger}, nil
}

func buildServer(cfg *config.Config, res *backend.Result, logger *applog.Logger) (*apphttp.Server, error) {
	tables := map[string]struct {
		rng  string
		cols []string
	}{
		"transactions": {cfg.TransactionRange, cfg.TransactionColumns()},
		"categories":   {cfg.CategoryRange, core.CategoryColumns},
		"budget":       {cfg.BudgetRange, core.BudgetColumns},
		"users":        {cfg.UserRange, core.UserColumns},
	}
	built := make(map[string]*rows.Table, len(tables))
	for name, def := range tables {
		tbl, err := rows.NewTable(res.Store, def.rng, def.cols)
		if err != nil {
			return nil, fmt.Errorf("%s table: %w", name, err)
		}
		built[name] = tbl
	}

	categories := services.NewCategoryService(built["categories"])

	var users auth.Provider
	if cfg.MultiUser() {
		users = auth.NewSheetUsers(built["users"])
	} else {
		users = auth.SingleAdmin{Username: cfg.AdminUsername, Password: cfg.AdminPassword}
	}

	return apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: services.NewTransactionService(built["transactions"], categories, cfg.MultiUser()),
		Categories:   categories,
		Budget:       services.NewBudgetService(built["budget"]),
		Users:        users,
		Tokens:       auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
		Logger:       logger,
	}, apphttp.Options{
		MultiUser:      cfg.MultiUser(),
		SheetID:        cfg.GoogleSheetID,
		TokenExpiresIn: cfg.JWTExpiresIn,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
	})
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the server down within timeout and releases the store.
func (a *App) Run(ctx context.Context, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Starting server", "addr", a.Server.Addr, applog.FieldOperation, applog.OpStartup)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if cerr := a.Cleanup(); cerr != nil {
		a.logger.Error("Failed to release store", applog.FieldError, cerr)
	}
	if err == nil {
		a.logger.Info("Server stopped gracefully")
	}
	return err
}
