package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/coopstack/loanledger/internal/config"
	"github.com/coopstack/loanledger/internal/handler"
	"github.com/coopstack/loanledger/internal/logging"
	"github.com/coopstack/loanledger/internal/middleware"
	"github.com/coopstack/loanledger/internal/repository"
	"github.com/coopstack/loanledger/internal/service"
)

func main() {
	// Local convenience only; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("loanledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := repository.NewDB(pool)
	loanRepo := repository.NewLoanRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	ledgerRepo := repository.NewLedgerRepository(pool)

	loanSvc := service.NewLoanService(loanRepo, accountRepo, db)
	postingSvc := service.NewPostingService(loanRepo, accountRepo, ledgerRepo, db)
	viewSvc := service.NewLedgerViewService(loanRepo, ledgerRepo)

	healthHandler := handler.NewHealthHandler(pool)
	loanHandler := handler.NewLoanHandler(loanSvc)
	ledgerHandler := handler.NewLedgerHandler(viewSvc, postingSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/loans", loanHandler.Create)
	mux.HandleFunc("GET /api/v1/loans", loanHandler.List)
	mux.HandleFunc("GET /api/v1/loans/{id}", loanHandler.Get)
	mux.HandleFunc("GET /api/v1/loans/{id}/accounts", loanHandler.Accounts)
	mux.HandleFunc("PATCH /api/v1/loans/{id}/accounts/{accountID}", loanHandler.RenameAccount)

	mux.HandleFunc("POST /api/v1/loans/{id}/entries", ledgerHandler.RecordEntry)
	mux.HandleFunc("GET /api/v1/loans/{id}/ledger", ledgerHandler.Grid)
	mux.HandleFunc("GET /api/v1/loans/{id}/ledger/export", ledgerHandler.Export)
	mux.HandleFunc("GET /api/v1/accounts/{id}/entries", ledgerHandler.AccountEntries)

	var root http.Handler = mux
	root = middleware.Logging(root)
	root = middleware.Tracing(root)
	root = middleware.Recovery(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
