package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/userhub/userhub/internal/app"
	"github.com/userhub/userhub/internal/auth"
	jobmetrics "github.com/userhub/userhub/internal/jobs"
	"github.com/userhub/userhub/internal/observability"
	"github.com/userhub/userhub/internal/pages"
	"github.com/userhub/userhub/internal/platform/cache"
	"github.com/userhub/userhub/internal/users"
	"github.com/userhub/userhub/internal/view"
	"github.com/userhub/userhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	repo, closeStore, err := app.OpenUserStore(ctx, cfg)
	if err != nil {
		logger.Error("open user store", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	redisClient, pingErr := cache.New(ctx, cfg.RedisAddr)
	if pingErr != nil {
		logger.Warn("redis unavailable, profile cache and token revocation disabled", slog.Any("error", pingErr))
	}
	sharedCache := cacheClient(redisClient, pingErr)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts, jobmetrics.NewMetrics(metrics.Registerer()), logger)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(users.NewCachedRepository(repo, sharedCache, cfg.ProfileCacheTTL), jobClient)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	revocations := auth.NewRevocationStore(sharedCache, cfg.JWTTTL)
	authService := auth.NewService(usersService, issuer, revocations)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	templates, err := view.NewEngine(view.DefaultTheme())
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	assets, err := pages.Assets(cfg.DistDir)
	if err != nil {
		logger.Error("static assets", slog.Any("error", err))
		os.Exit(1)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    auth.NewHandler(logger, authService, cfg.IsProduction()),
		AuthMiddleware: authMiddleware,
		UsersHandler:   users.NewHandler(logger, usersService, authMiddleware),
		PagesHandler:   pages.NewHandler(logger, templates, usersService, cfg.AppTitle),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Assets:         assets,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// cacheClient disables Redis backed features when the initial ping failed.
func cacheClient(client *redis.Client, pingErr error) *redis.Client {
	if pingErr != nil {
		return nil
	}
	return client
}
