package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bouncecure/config"
	"bouncecure/internal/cache"
	"bouncecure/internal/database"
	"bouncecure/internal/logger"
	"bouncecure/internal/router"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Info("no .env file found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET not set; tokens are signed with the built-in development secret")
	}

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = cache.NewRedisClient(context.Background(), cfg.Redis.URL)
		if err != nil {
			log.Fatal("redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		log.Info("redis connected; token revocation and list cache are shared")
	} else {
		log.Warn("REDIS_URL not set; token revocation is per process")
	}

	app := router.Setup(router.Deps{Config: cfg, DB: db, Redis: rdb, Log: log})
	defer app.Close()

	if cfg.Admin.Email != "" {
		created, err := app.Auth.EnsureOperator(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			log.Fatal("bootstrap operator", zap.Error(err))
		}
		if created {
			log.Info("bootstrap operator created", zap.String("email", cfg.Admin.Email))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
