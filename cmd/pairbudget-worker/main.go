package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairbudget/internal/amqp"
	"pairbudget/internal/cli"
	"pairbudget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting pairbudget-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Error("Failed to apply database migrations", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditWorker := worker.NewAuditWorker(amqpClient, repo)
	if err := auditWorker.Start(ctx); err != nil {
		logger.Error("Failed to start audit worker", "error", err)
		os.Exit(1)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := auditWorker.Stop(shutdownCtx); err != nil {
		logger.Error("Audit worker stop error", "error", err)
	}
	cancel()
}
