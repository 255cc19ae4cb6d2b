// Command server runs the backoffice HTTP API.
//
// @title                       Backoffice API
// @version                     1.0
// @description                 Clients, revenue and expense tracking, and a financial dashboard for small businesses.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerdesk/backoffice/internal/api"
	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/service"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/config"
	"github.com/ledgerdesk/backoffice/internal/infrastructure/storage"
	"github.com/ledgerdesk/backoffice/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "backoffice: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "backoffice",
	})

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("storage close")
		}
	}()

	authService := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL,
		service.WithThrottle(store.LoginThrottle(cfg.Login)),
		service.WithLogger(log),
	)
	clientService := service.NewClientService(store.Clients, log)
	transactionService := service.NewTransactionService(store.Transactions, log,
		service.WithAmountScale(domain.AmountScale(cfg.Currency)),
	)
	dashboardService := service.NewDashboardService(store.Clients, store.Transactions, log)

	if cfg.SeedDemo {
		seeder := service.NewSeeder(authService, store.Users, clientService, transactionService, log)
		if err := seeder.Seed(ctx, service.DemoAccounts); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Clients:      clientService,
		Transactions: transactionService,
		Dashboard:    dashboardService,
		HealthChecks: store.Checks,
		JWTSecret:    cfg.JWTSecret,
		Currency:     cfg.Currency,
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
