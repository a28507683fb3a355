package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/medadvance/loan-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// LoanEventProducer publishes ledger lifecycle events to the loan events
// topic. Events are advisory: the ledger never waits on downstream
// consumers, so writes are synchronous but callers treat failures as
// log-and-continue.
type LoanEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewLoanEventProducer dials the brokers, ensures the topic exists and
// returns a producer bound to it.
func NewLoanEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LoanEventProducer, error) {
	if cfg.LoanEventsTopic == "" {
		return nil, fmt.Errorf("kafka loan events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for loan event producer: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.LoanEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure loan events topic %s exists: %w", cfg.LoanEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.LoanEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &LoanEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LoanEventsTopic,
	}, nil
}

// Publish sends one event keyed by loan id so events for the same loan stay
// ordered within a partition.
func (p *LoanEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal loan event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish loan event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish loan event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published loan event", "topic", p.topic, "key", key)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *LoanEventProducer) Close() error {
	p.logger.Info("Closing loan event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
