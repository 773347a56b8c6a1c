package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kalaur/internal/config"
	"kalaur/internal/http/handlers"
	applog "kalaur/internal/log"
	"kalaur/internal/payments"
	"kalaur/internal/repos"
	"kalaur/internal/services"
	"kalaur/internal/session"
	"kalaur/internal/shipping"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	applog.Setup(out, cfg.LogLevel, cfg.LogFormat)
	logger := applog.Logger()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var store repos.OverrideStore = repos.NewSQLOverrideStore(db)
	if cfg.OverrideStore == config.StoreRedis {
		rdb, err := repos.OpenRedis(cmd.Context(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		store = repos.NewRedisOverrideStore(rdb)
	}

	secret := cfg.SigningSecret()
	switch {
	case secret == "":
		logger.Warn().Msg("admin session secret is not set; admin login is disabled")
	case secret == config.DevSessionSecret:
		logger.Warn().Msg("using the development session secret; set KALAUR_ADMIN_SESSION_SECRET")
	}
	auth, err := services.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash,
		session.NewManager(secret, cfg.IsProd()))
	if err != nil {
		return err
	}

	var gateway services.PaymentGateway
	if s := payments.NewStripe(cfg.StripeSecretKey); s != nil {
		gateway = s
	} else {
		logger.Warn().Msg("stripe secret key is not set; checkout is not configured")
	}
	var carrier services.Carrier
	if np := shipping.New(cfg.NovaPoshtaAPIKey, cfg.NovaPoshtaURL, cfg.UpstreamTimeout); np != nil {
		carrier = np
	} else {
		logger.Warn().Msg("nova poshta api key is not set; shipping lookups are not configured")
	}

	catalog := services.NewCatalogService(repos.NewPartsRepo(repos.DefaultParts()), store)
	deps := handlers.NewDeps(
		auth,
		catalog,
		services.NewCheckoutService(catalog, gateway, cfg.Currency, cfg.PublicOrigin),
		services.NewShippingService(carrier),
		services.NewBookkeepingService(repos.NewSalesRepo(db), repos.NewServiceOrderRepo(db), repos.NewCarRepo(db)),
	)
	app := handlers.NewApp(deps, handlers.Options{BodyLimit: cfg.BodyLimit, AccessLog: out})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
