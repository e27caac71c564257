package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
)

const HeaderEventType = "event-type"

var ErrPublisherClosed = errors.New("publisher is closed")

// KafkaPublisher writes reservation events to a topic, keyed by unit so that
// every change to one unit lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
	closed atomic.Bool
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	p := &KafkaPublisher{logger: logger}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   p.onCompletion,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(logger.Sugar().Errorf),
	}
	return p, nil
}

// Publish enqueues the event. Delivery failures are reported through the
// logger since the writer is asynchronous.
func (p *KafkaPublisher) Publish(ctx context.Context, e booking.Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	msg, err := NewMessage(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	p.closed.Store(true)
	return p.writer.Close()
}

func (p *KafkaPublisher) onCompletion(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	p.logger.Warn("failed to deliver reservation events",
		zap.Int("count", len(messages)),
		zap.Error(err),
	)
}

// NewMessage encodes an event as a kafka message.
func NewMessage(e booking.Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.Unit),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(e.Type)},
		},
	}, nil
}
