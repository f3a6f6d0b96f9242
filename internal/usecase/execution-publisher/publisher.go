package executionpublisher

import (
	"context"
	"time"

	executionpublisherv1 "github.com/BryanOwens012/order-book/internal/domain/execution-publisher/v1"
	"github.com/BryanOwens012/order-book/pkg/config"
	"github.com/BryanOwens012/order-book/pkg/errors"
	"github.com/BryanOwens012/order-book/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of kafka.Writer the publisher relies on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher represents a Kafka Publisher for publishing execution events.
type Publisher struct {
	kafkaWriter messageWriter
	logger      *logger.Logger
}

var _ executionpublisherv1.ExecutionPublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka publisher for publishing execution events.
// Messages are keyed by ticker and hashed onto partitions so the executions of
// one ticker stay ordered.
func NewPublisher(config config.KafkaConfig, logger *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}

	return newPublisher(kafkaWriter, logger)
}

func newPublisher(writer messageWriter, logger *logger.Logger) *Publisher {
	return &Publisher{
		kafkaWriter: writer,
		logger:      logger,
	}
}

// PublishExecution publishes an execution event to the Kafka topic.
func (p *Publisher) PublishExecution(ctx context.Context, event *executionpublisherv1.ExecutionEvent) error {
	if event == nil {
		return errors.NewTracer("execution event cannot be nil")
	}

	value := executionpublisherv1.ToBytes(event)
	if value == nil {
		return errors.NewTracer("failed to encode execution event")
	}

	msg := kafka.Message{
		Key:   event.Key(),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "code", Value: errors.KafkaPublishError},
			logger.Field{Key: "orderId", Value: event.OrderID},
			logger.Field{Key: "executionEvent", Value: event},
		)
		return errors.NewTracer("failed to publish execution event").Wrap(err)
	}
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
