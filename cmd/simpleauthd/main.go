package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/thejw23/simpleauth/internal/auth"
	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/httpserver"
	"github.com/thejw23/simpleauth/internal/logging"
	"github.com/thejw23/simpleauth/internal/repositories/repomanager"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Printf("db open error: %v", err)
		return
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager(cfg)
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Printf("migrations error: %v", err)
		return
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	verifier, err := auth.NewVerifier(cfg)
	if err != nil {
		log.Printf("verifier init error: %v", err)
		return
	}

	logger.Info(ctx, "starting server", "addr", cfg.EndpointAddr)

	srv := httpserver.New(cfg, db, rm, redisClient, verifier, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err.Error())
	}
}

func initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
