package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
	"github.com/uberspeed/dispatch/pkg/rabbit"
)

const (
	TripExchange = "trip_topic"

	QueueDispatchBroadcasts = "dispatch_broadcasts"

	// every trip.* routing key ends up in the dispatch queue
	bindingKey = "trip.#"
)

// Emitter is the dispatch core's room-emit seam.
type Emitter interface {
	Emit(ctx context.Context, roomID string, event types.DispatchEvent, data any)
}

// TripConsumer bridges the REST layer's persisted state changes into rooms.
// The REST service publishes a BroadcastMessage after writing a trip or
// payment record; this consumer re-broadcasts it to the named room.
type TripConsumer struct {
	client  *rabbit.RabbitMQ
	emitter Emitter

	l logger.Logger
}

func NewTripConsumer(client *rabbit.RabbitMQ, emitter Emitter, l logger.Logger) *TripConsumer {
	return &TripConsumer{
		client:  client,
		emitter: emitter,
		l:       l,
	}
}

// Consume runs until the context is cancelled, re-establishing the queue and
// subscription whenever the broker connection drops.
func (c *TripConsumer) Consume(ctx context.Context) error {
	const op = "TripConsumer.Consume"

	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "trip consumer stopped by context")
			return nil
		}

		if err := c.client.EnsureConnection(ctx); err != nil {
			c.l.Error(ctx, "ensure connection failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		if err := c.client.Channel.ExchangeDeclare(TripExchange, "topic", true, false, false, false, nil); err != nil {
			c.l.Error(ctx, "declare exchange failed", err, "op", op)
			time.Sleep(3 * time.Second)
			continue
		}

		q, err := c.declareAndBindQueue(ctx, QueueDispatchBroadcasts, bindingKey, TripExchange)
		if err != nil {
			c.l.Error(ctx, "declare queue failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := c.client.Channel.Consume(q.Name, "", false, false, false, false, nil)
		if err != nil {
			c.l.Error(ctx, "consume failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		c.l.Info(ctx, "start consuming trip broadcasts", "queue", q.Name)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				c.l.Info(ctx, "trip consumer shutting down", "op", op)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					c.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				c.handleMessage(ctx, msg)
			}
		}
	}
}

func (c *TripConsumer) declareAndBindQueue(ctx context.Context, queueName, key, exchangeName string) (amqp.Queue, error) {
	const op = "TripConsumer.declareAndBindQueue"

	q, err := c.client.Channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: declare queue failed: %w", op, err))
	}

	if err := c.client.Channel.QueueBind(q.Name, key, exchangeName, false, nil); err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: bind queue failed: %w", op, err))
	}

	return q, nil
}

func (c *TripConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	const op = "TripConsumer.handleMessage"

	var req models.BroadcastMessage
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		c.l.Error(ctx, "decode failed", err, "op", op)
		_ = msg.Nack(false, false)
		return
	}

	if req.Room == "" || req.Event == "" {
		c.l.Warn(ctx, "dropping broadcast message without room or event", "op", op)
		_ = msg.Reject(false)
		return
	}

	ctx = wrap.WithRequestID(ctx, req.CorrelationID)
	c.emitter.Emit(ctx, req.Room, types.DispatchEvent(req.Event), req.Data)

	if err := msg.Ack(false); err != nil {
		c.l.Warn(ctx, "ack failed", "err", err.Error(), "op", op)
	}
}
