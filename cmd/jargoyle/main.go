package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jargoyle/jargoyle/internal/config"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/logger"
	"github.com/jargoyle/jargoyle/internal/server"
	"github.com/jargoyle/jargoyle/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	var store session.Store = session.NewPGStore(db)
	if cfg.SessionStore == "redis" {
		rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		store = session.NewRedisStore(rdb)
	}
	zlog.Info("session store selected", zap.String("store", cfg.SessionStore))

	srv := server.New(cfg, db, store, zlog)
	go srv.SweepSessions(ctx, time.Hour)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
