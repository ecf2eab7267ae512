package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/tableup/restaurant-auth/internal/api"
	mongodb "github.com/tableup/restaurant-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/tableup/restaurant-auth/internal/infrastructure/db/redis"
	"github.com/tableup/restaurant-auth/internal/infrastructure/worker"
	"github.com/tableup/restaurant-auth/internal/pkg/config"
	"github.com/tableup/restaurant-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Restaurant Auth API
// @version         1.0
// @description     Token-based authentication, role authorization and kitchen order management for a multi-role restaurant platform.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	ids, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise id generator")
	}

	userRepo := mongodb.NewUserRepository(db, ids)
	orderRepo := mongodb.NewOrderRepository(db, ids)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure order indexes")
	}

	// --- Guest retention reaper ---
	reaper := worker.NewGuestReaper(redisdb.NewGuestRegistry(rdb), userRepo, cfg.Auth.GuestReapInterval, logger.Component("guest_reaper"))
	reaper.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(cfg, db, rdb, ids)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
