package oppgave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"oppgave-sync/core/config"
	"oppgave-sync/feature/oppgave/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RecordHandler processes one decoded stream record.
type RecordHandler interface {
	HandleOppgave(ctx context.Context, record models.OppgaveKafkaRecord) error
}

// Consumer reads oppgave change events from the stream and feeds them to
// the engine. Delivery is at-least-once; a message is only committed
// after successful processing, and the idempotent copy store absorbs
// redeliveries.
type Consumer struct {
	reader  *kafka.Reader
	handler RecordHandler

	logger       *zap.Logger
	secureLogger *zap.Logger
}

// NewConsumer creates a group consumer on the configured topic.
func NewConsumer(cfg config.KafkaConfig, handler RecordHandler, logger, secureLogger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.BrokerList(),
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		MaxWait: 3 * time.Second,
	})
	return &Consumer{
		reader:       reader,
		handler:      handler,
		logger:       logger,
		secureLogger: secureLogger,
	}
}

// Run consumes until the context is cancelled. It returns nil on a clean
// shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Stream consumer started", zap.String("topic", c.reader.Config().Topic))

	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		if !c.handleMessage(ctx, message) {
			// Uncommitted, the message comes back after a restart.
			continue
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			c.logger.Error("Failed to commit message",
				zap.Int64("offset", message.Offset),
				zap.Error(err),
			)
		}
	}
}

// handleMessage decodes and processes one message, reporting whether it
// may be committed. Payloads can contain case-sensitive text, so decode
// failures go to the secure log in full.
func (c *Consumer) handleMessage(ctx context.Context, message kafka.Message) bool {
	var record models.OppgaveKafkaRecord
	if err := json.Unmarshal(message.Value, &record); err != nil {
		c.secureLogger.Error("Could not decode stream message",
			zap.Int64("offset", message.Offset),
			zap.ByteString("value", message.Value),
			zap.Error(err),
		)
		c.logger.Warn("Could not decode stream message, see secure log",
			zap.Int64("offset", message.Offset),
		)
		return false
	}

	if err := c.handler.HandleOppgave(ctx, record); err != nil {
		c.logger.Warn("Record processing failed, message left uncommitted",
			zap.Int64("oppgave_id", record.ID),
			zap.Int64("offset", message.Offset),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Close stops the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
