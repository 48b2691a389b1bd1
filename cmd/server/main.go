package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitmarket/session-gateway/internal/api"
	"github.com/fitmarket/session-gateway/internal/infrastructure/config"
	mongodb "github.com/fitmarket/session-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/fitmarket/session-gateway/internal/infrastructure/db/redis"
	"github.com/fitmarket/session-gateway/internal/infrastructure/queue"
	"github.com/fitmarket/session-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	if cfg.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is empty, persisted sessions are forgeable")
	}

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, mongodb.NewAuditSink(db), log)
	audit.Start(ctx)

	e := api.NewRouter(db, rdb, audit, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("session gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
