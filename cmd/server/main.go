package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/medadvance/loan-ledger/internal/api"
	"github.com/medadvance/loan-ledger/internal/api/service"
	"github.com/medadvance/loan-ledger/internal/config"
	mongodata "github.com/medadvance/loan-ledger/internal/data/mongo"
	postgresdata "github.com/medadvance/loan-ledger/internal/data/postgres"
	"github.com/medadvance/loan-ledger/internal/domain/loan"
	"github.com/medadvance/loan-ledger/internal/logger"
	"github.com/medadvance/loan-ledger/internal/platform/messaging/producers"
	"github.com/medadvance/loan-ledger/internal/platform/persistence"
	"github.com/medadvance/loan-ledger/internal/reminder"
	"github.com/medadvance/loan-ledger/internal/wallet"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	// Ledger storage, backend chosen by configuration.
	var ledgerRepo loan.Repository
	var closeStorage func(ctx context.Context)
	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		ledgerRepo = postgresdata.NewLedgerRepository(log, postgresDB)
		closeStorage = func(ctx context.Context) { postgresDB.Close() }
	case config.StorageBackendMongo:
		mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		ledgerRepo = mongodata.NewLedgerRepository(log, mongoDB.Database())
		closeStorage = func(ctx context.Context) {
			if err := mongoDB.Close(ctx); err != nil {
				log.Error("Error closing MongoDB connection", "error", err)
			}
		}
	}

	// Loan event publishing is optional; without brokers the ledger runs
	// standalone.
	var eventProducer producers.MessagePublisher = producers.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := producers.NewLoanEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize loan event producer", "error", err)
			os.Exit(1)
		}
		eventProducer = producer
	}

	walletClient := wallet.NewSimulatedClient(log, &cfg.Wallet)

	loanService := service.NewLoanService(log, ledgerRepo, walletClient, eventProducer)

	scheduler, err := reminder.NewScheduler(&cfg.Reminder, loanService, reminder.NewLogNotifier(log), log)
	if err != nil {
		log.Error("Failed to initialize reminder scheduler", "error", err)
		os.Exit(1)
	}
	go scheduler.Start(appCtx)

	server := api.NewServer(log, cfg, loanService)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	scheduler.Shutdown()

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing loan event producer", "error", err)
	}

	closeStorage(shutdownCtx)

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
