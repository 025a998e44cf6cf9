package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is a domain fact waiting to be wrapped and sent.
type Event struct {
	Name          string
	RoutingKey    string
	PartitionKey  string
	CorrelationID string
	Payload       any
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	mu       sync.Mutex
	ch       channel
	seq      Sequencer
	producer string
	now      func() time.Time
}

func NewRabbitPublisher(conn *amqp.Connection, seq Sequencer) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return newRabbitPublisher(ch, seq), nil
}

func newRabbitPublisher(ch channel, seq Sequencer) *RabbitPublisher {
	return &RabbitPublisher{
		ch:       ch,
		seq:      seq,
		producer: Producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev Event) error {
	// Held from sequence reservation to publish so a partition's messages
	// leave in sequence order. amqp channels are not safe for concurrent
	// publishes either.
	p.mu.Lock()
	defer p.mu.Unlock()

	seq, err := p.seq.NextSequence(ctx, ev.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env, err := BuildEnvelope(ev, seq, p.producer, p.now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", ev.Name, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		ev.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
}

func BuildEnvelope(ev Event, seq int64, producer string, occurredAt time.Time) (Envelope, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Name, err)
	}
	env := Envelope{
		EventName:     ev.Name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: ev.CorrelationID,
		Producer:      producer,
		PartitionKey:  ev.PartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        schemaFor(ev.Name),
		Payload:       payload,
	}
	return env, env.Validate()
}
