package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellhub/cmd/consumers/jobs"
	"wellhub/internal/config"
	"wellhub/internal/consumers"
	"wellhub/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	cfg.NATS.ClientID = "wellhub-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("failed to start consumers", "error", err)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	completionJob := jobs.NewEventCompletionJob(consumerService.Repositories().Events)
	completionJob.Start(jobCtx)

	logger.Get().Info("consumers service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("shutting down consumers service")

	completionJob.Stop()
	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		logger.Get().Error("error during shutdown", "error", err)
	}

	logger.Get().Info("consumers service stopped")
}
