// Package kafka publishes ExpenseRecorded events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"gastos/internal/events"
	"gastos/internal/log"
)

var _ events.Publisher = (*Publisher)(nil)

// MessageWriter is the kafka.Writer subset the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
	topic  string
	logger *log.Logger
}

// NewPublisher writes to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}, topic)
}

func NewPublisherWithWriter(w MessageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: log.WithComponent(log.ComponentKafka)}
}

// PublishExpenseRecorded implements events.Publisher. The event id is the
// message key.
func (p *Publisher) PublishExpenseRecorded(ctx context.Context, evt events.ExpenseRecorded) error {
	data, err := evt.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ID.String()),
		Value: data,
		Time:  evt.RecordedAt,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "Published expense recorded event", log.FieldEventID, evt.ID, "topic", p.topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
