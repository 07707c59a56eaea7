package amqp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"storefront/pkg/domain/service"
)

const (
	DefaultExchange = "storefront.events"
	publishTimeout  = 5 * time.Second
)

var _ service.EventDispatcher = &Dispatcher{}

// Dispatcher publishes domain events to a topic exchange keyed by event type.
type Dispatcher struct {
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewDispatcher(url, exchange string) (*Dispatcher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}

	return &Dispatcher{exchange: exchange, conn: conn, channel: channel}, nil
}

func (d *Dispatcher) Dispatch(event service.Event) error {
	msg, err := NewMessage(event, time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.channel.PublishWithContext(ctx, d.exchange, event.Type(), false, false, msg); err != nil {
		return errors.Wrapf(err, "publish %s", event.Type())
	}
	return nil
}

func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_ = d.channel.Close()
	return d.conn.Close()
}

// NewMessage encodes an event as a persistent JSON message.
func NewMessage(event service.Event, at time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, errors.Wrapf(err, "encode %s", event.Type())
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    at,
		Type:         event.Type(),
		Body:         body,
	}, nil
}
