package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publishing happens on the request path, so a stalled broker must not hold
// a submission for longer than this.
const defaultPublishTimeout = 3 * time.Second

// KafkaPublisher writes JSON envelopes to a single topic.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			WriteTimeout: 2 * time.Second,
		},
		topic:   topic,
		timeout: defaultPublishTimeout,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event Envelope) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	metrics.RecordEventPublished(event.Type, err)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, _ string, event Envelope) error {
	slog.DebugContext(ctx, "event publishing disabled, dropping event", "type", event.Type, "id", event.ID)
	return nil
}

func (NoopPublisher) Close() error { return nil }

// New returns a Kafka publisher when brokers are configured, otherwise a no-op.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
