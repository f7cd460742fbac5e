package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmos-server/internal/auth"
	"cosmos-server/internal/cosmos"
	cosmosHandlers "cosmos-server/internal/cosmos/handlers"
	"cosmos-server/internal/middleware"
	"cosmos-server/internal/server"
	serverHandlers "cosmos-server/internal/server/handlers"
	"cosmos-server/internal/shared/config"
	"cosmos-server/internal/shared/database"
	"cosmos-server/internal/shared/logger"
	"cosmos-server/internal/shared/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.GlobalConfig

	logger.Init()
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := cosmos.LoadTable(cfg.Cosmos.StarPropertiesPath)
	if err != nil {
		return err
	}
	names, err := cosmos.LoadNames(cfg.Cosmos.StarNamesPath)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := redis.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var cache cosmos.Cache
	if redisClient != nil {
		cache = cosmos.NewRedisCache(redisClient.Client, cfg.Cosmos.CacheTTL, slog.Default())
	} else {
		cache = cosmos.NewMemoryCache(cfg.Cosmos.CacheTTL)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return err
	}

	defaultStars := cosmos.Range{Min: cfg.Cosmos.DefaultStarMin, Max: cfg.Cosmos.DefaultStarMax}
	generator := cosmos.NewGenerator(table, names, cosmos.Options{
		MaxBatches: cfg.Cosmos.MaxBatches,
		Workers:    cfg.Cosmos.Workers,
	}, slog.Default())

	service := cosmos.NewService(
		cosmos.NewRepository(db, slog.Default()),
		cache,
		generator,
		cosmos.Limits{
			DefaultStarCount:    defaultStars,
			MaxStarCount:        cfg.Cosmos.MaxStarCount,
			MaxPreviewStarCount: cfg.Cosmos.MaxPreviewStarCount,
		},
		slog.Default(),
	)

	routes := server.NewRoutes(
		serverHandlers.NewHealthHandler(db, redisClient, table.Len()),
		cosmosHandlers.NewCosmosHandler(service, defaultStars),
		middleware.NewAuth(tokens),
		middleware.NewRateLimiter(ctx, cfg.RateLimit),
		slog.Default(),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.NewCORS(cfg.Frontend).Middleware(routes.Setup()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", srv.Addr, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
