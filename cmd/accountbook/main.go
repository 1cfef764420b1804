package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"accountbook/internal/cache"
	"accountbook/internal/category"
	"accountbook/internal/cli"
	"accountbook/internal/config"
	"accountbook/internal/core"
	apphttp "accountbook/internal/http"
	applog "accountbook/internal/log"
	"accountbook/internal/middleware/ratelimit"
	"accountbook/internal/middleware/security"
	"accountbook/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	logger.Info("Starting accountbook")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateAPI)
	res := cli.InitBackend(context.Background(), logger, cfg)

	// A nil *amqp.Client must not become a non-nil interface.
	var publisher services.EventPublisher
	if res.Publisher != nil {
		publisher = res.Publisher
	}

	caches := cache.NewManager()
	names := cache.NewLRUCache[core.OwnerID, map[string]string](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)
	caches.Register("category_names", names)
	caches.StartCleanup(cfg.CategoryCacheTTL)

	dir := category.NewDirectory(res.Store, names)

	ips, err := security.NewIPResolver()
	if err != nil {
		logger.Error("Failed to configure trusted proxies", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Accounts:     services.NewAccountService(res.Store, cfg.JWTSecret, cfg.JWTTTL),
		Transactions: services.NewTransactionService(res.Store, publisher),
		Stats:        services.NewStatsService(res.Store, res.Store, dir),
		Exports:      services.NewExportService(res.Store, dir),
		Categories:   dir,
		Logger:       logger.WithComponent(applog.ComponentHTTP),
		Limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		IPs:          ips,
		Ready:        res.Ready,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		if err := res.Close(); err != nil {
			logger.Error("Backend close error", applog.FieldError, err)
		}
	})

	logger.Info("Listening", "port", cfg.Port, "backend", cfg.DataBackend, "events", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
