package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/gnosis-pm/pm-indexer/internal/adapter"
	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/logger"
)

// Config holds the configuration for the event consumer
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Consumer defines the interface for the event consumer
type Consumer interface {
	// Run starts consuming contract events
	Run(ctx context.Context) error
	// Close closes the consumer and cleans up resources
	Close()
}

type consumer struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	dispatcher *Dispatcher
	json       adapter.JSON
	config     Config
}

// NewConsumer creates a new event consumer
func NewConsumer(
	cfg Config,
	natsJS adapter.NatsJetStream,
	dispatcher *Dispatcher,
	jsonAdapter adapter.JSON,
) (Consumer, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	c := &consumer{
		nc:         nc,
		js:         js,
		dispatcher: dispatcher,
		json:       jsonAdapter,
		config:     cfg,
	}

	return c, nil
}

// Run starts consuming contract events
func (c *consumer) Run(ctx context.Context) error {
	logger.Info("Starting event consumer",
		zap.String("stream", c.config.StreamName),
		zap.String("consumer", c.config.ConsumerName))

	// Subscribe to all contract event subjects
	subject := "events.>"

	// Create or get consumer
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWaitTimeout,
		MaxDeliver:    c.config.MaxDeliver,
		FilterSubject: subject,
	}

	jsConsumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := jsConsumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	// Create subscription
	msgChan := make(chan adapter.Message, 100)
	sub, err := jsConsumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages")

	// Process messages sequentially: ledger mutations depend on stream order
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down event consumer")
			return ctx.Err()
		case msg := <-msgChan:
			c.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single NATS message and acknowledges it according
// to how the dispatch classified the event:
//   - applied, or a conflict (already applied): Ack
//   - invalid or balance-violating: Term, redelivery cannot fix it
//   - unresolvable reference or infrastructure failure: Nak for redelivery
func (c *consumer) handleMessage(ctx context.Context, msg adapter.Message) {
	// Get metadata for logging
	metadata, _ := msg.Metadata()

	// Parse event
	var event domain.ContractEvent
	if err := c.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	var deliveries uint64
	if metadata != nil {
		deliveries = metadata.NumDelivered
	}
	logger.Info("Received event",
		zap.String("address", event.Address),
		zap.String("name", event.Name),
		zap.Uint64("deliveryCount", deliveries),
	)

	err := c.dispatcher.Dispatch(ctx, &event)
	switch {
	case err == nil:
		if err := msg.Ack(); err != nil {
			logger.Error(err, zap.String("message", "Failed to ACK message"))
		}

	case errors.Is(err, domain.ErrConflict):
		// Redelivery of an already applied creation: a no-op, not a failure
		logger.Warn("Event already applied",
			zap.String("address", event.Address),
			zap.String("name", event.Name),
			zap.Error(err))
		if err := msg.Ack(); err != nil {
			logger.Error(err, zap.String("message", "Failed to ACK message"))
		}

	case domain.IsValidation(err), errors.Is(err, domain.ErrInsufficientBalance):
		logger.Warn("Event rejected",
			zap.String("address", event.Address),
			zap.String("name", event.Name),
			zap.Error(err))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}

	default:
		// Unresolvable references and infrastructure errors are retryable
		logger.Error(err, zap.String("message", "Failed to process event, will retry"),
			zap.String("address", event.Address),
			zap.String("name", event.Name))
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
	}
}

// Close closes the consumer and cleans up resources
func (c *consumer) Close() {
	if c.nc == nil {
		return
	}

	c.nc.Close()
}
