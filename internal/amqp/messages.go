package amqp

import (
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gastos/internal/events"
)

const contentTypeJSON = "application/json"

// newPublishing wraps evt in a persistent JSON message.
func newPublishing(evt events.ExpenseRecorded) (amqp091.Publishing, error) {
	body, err := evt.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp091.Persistent,
		MessageId:    evt.ID.String(),
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

// Acknowledger is the subset of amqp091.Delivery used to settle a message.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeReject
	outcomeRequeue
)

// handle decodes body and runs handler. Undecodable bodies are rejected
// without requeue; handler failures are requeued.
func handle(body []byte, handler func(events.ExpenseRecorded) error) (outcome, events.ExpenseRecorded, error) {
	evt, err := events.ExpenseRecordedFromJSON(body)
	if err != nil {
		return outcomeReject, events.ExpenseRecorded{}, err
	}
	if err := handler(evt); err != nil {
		return outcomeRequeue, evt, err
	}
	return outcomeAck, evt, nil
}

func settle(a Acknowledger, o outcome) error {
	switch o {
	case outcomeAck:
		return a.Ack(false)
	case outcomeRequeue:
		return a.Nack(false, true)
	default:
		return a.Nack(false, false)
	}
}
