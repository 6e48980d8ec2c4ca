package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gnosis-pm/pm-indexer/internal/adapter"
	"github.com/gnosis-pm/pm-indexer/internal/config"
	"github.com/gnosis-pm/pm-indexer/internal/descriptions"
	"github.com/gnosis-pm/pm-indexer/internal/ingest"
	"github.com/gnosis-pm/pm-indexer/internal/logger"
	"github.com/gnosis-pm/pm-indexer/internal/registry"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngestorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ingestor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting chain event ingestor")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()
	httpClient := adapter.NewHTTPClient(cfg.Descriptions.FetchTimeout)

	// Create the description resolver over the configured IPFS gateways
	contentStore := descriptions.NewIPFSContentStore(httpClient, &descriptions.IPFSConfig{
		Gateways: cfg.Descriptions.IPFSGateways,
	})
	resolver := descriptions.NewResolver(dataStore, contentStore)

	// Load the market maker allow-list
	makers, err := registry.LoadMarketMakers(cfg.MarketMakersPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load market maker registry",
			zap.Error(err),
			zap.String("path", cfg.MarketMakersPath))
	}
	logger.InfoCtx(ctx, "Loaded market maker registry", zap.String("path", cfg.MarketMakersPath))

	// Create dispatcher over the tracked factory contracts
	dispatcher := ingest.NewDispatcher(dataStore, resolver, makers, ingest.Contracts{
		CentralizedOracleFactory: cfg.Contracts.CentralizedOracleFactory,
		UltimateOracleFactory:    cfg.Contracts.UltimateOracleFactory,
		EventFactory:             cfg.Contracts.EventFactory,
		MarketFactory:            cfg.Contracts.MarketFactory,
	})

	// Create consumer
	consumer, err := ingest.NewConsumer(
		ingest.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
		},
		natsJS,
		dispatcher,
		jsonAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create consumer", zap.Error(err))
	}
	defer consumer.Close()
	logger.InfoCtx(ctx, "Consumer created",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for consumer errors
	errCh := make(chan error, 1)

	// Start the consumer
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err, zap.String("component", "consumer"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	logger.Info("Ingestor stopped")
}
