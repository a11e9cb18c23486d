package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"planetgen/internal/auth"
	"planetgen/internal/middleware"
	"planetgen/internal/planet"
	"planetgen/internal/server"
	"planetgen/internal/shared/config"
	"planetgen/internal/shared/database"
	"planetgen/internal/shared/logger"
	"planetgen/internal/shared/redis"
	"planetgen/internal/system"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(config.GlobalConfig); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	cacheClient, err := redis.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := cacheClient.Close(); err != nil {
			log.Error("Failed to close redis", "error", err)
		}
	}()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return err
	}

	appLogger := slog.Default()
	planetRepo := planet.NewRepository(db, appLogger)
	systemRepo := system.NewRepository(db, planetRepo, appLogger)

	planetService := planet.NewService(planetRepo, redis.NewCache(cacheClient, "heightmap", cfg.Redis.CacheTTL, appLogger), cfg.Terrain, appLogger)
	systemService := system.NewService(systemRepo, planetService, redis.NewCache(cacheClient, "system", cfg.Redis.CacheTTL, appLogger), cfg.Accretion, appLogger)

	origins := []string{cfg.Frontend.URL}
	routes := server.NewRoutes(db, cacheClient, systemService, planetService, middleware.NewAuthMiddleware(tokens), origins, appLogger)
	handler := server.Handler(
		routes.Setup(),
		middleware.NewCORS(cfg.Frontend),
		middleware.NewRateLimiter(ctx, cfg.RateLimit),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
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

	log.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
