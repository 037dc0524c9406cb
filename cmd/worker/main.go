// Package main runs the background job worker (invitation emails).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corourke/Gigmanagerfigmamake-sub000/config"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/invitations"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/worker"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/database"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/queue"
	"github.com/corourke/Gigmanagerfigmamake-sub000/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	invRepo := invitations.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	mailer := worker.NewMailer(cfg.Email)
	processor := worker.NewInvitationProcessor(invRepo, jobQueue, mailer, cfg.Server.AppBaseURL, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
