package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"loadplan/internal/access"
	"loadplan/internal/config"
	"loadplan/internal/http/server"
	log "loadplan/internal/infra/logging"
	"loadplan/internal/infra/postgres"
	"loadplan/internal/infra/stats"
	"loadplan/internal/render"
)

func main() {
	cfg := config.Load()
	log.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	// Rendering is impossible without fonts; refuse to start.
	assets, err := render.LoadAssets(cfg.Assets)
	if err != nil {
		log.Error("Failed to load fonts", "error", err)
		os.Exit(1)
	}
	composer := render.NewComposer(assets, render.WithLocation(loc))

	idleConnsClosed := make(chan struct{})

	var counter *stats.Counter
	if cfg.Cache.StatsEnabled && cfg.Cache.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.StatsDB,
		})
		defer rdb.Close()
		counter = stats.NewCounter(rdb, loc)
	}

	var tokens *access.TokenStore
	if cfg.Auth.Postgres.Host != "" {
		db := postgres.NewDB()
		defer db.Close()
		repo := postgres.NewTokenRepository(db, cfg.Auth.Postgres)
		tokens = access.NewTokenStore()
		if err := tokens.Load(context.Background(), repo); err != nil {
			log.Error("Failed to load API tokens", "error", err)
		}
		go tokens.Refresh(repo, cfg.Auth.ReloadInterval, idleConnsClosed)
	}

	app := server.New(server.Deps{
		Config:   cfg,
		Renderer: composer,
		Tokens:   tokens,
		Stats:    counter,
	})

	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// startServer starts the Fiber app and blocks until SIGINT or SIGTERM.
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			log.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	log.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	log.Info("Server stopped cleanly")
}
