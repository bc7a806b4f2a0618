package rabbit

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
)

type recordingEmitter struct {
	room  string
	event types.DispatchEvent
	data  any
	calls int
}

func (e *recordingEmitter) Emit(_ context.Context, roomID string, event types.DispatchEvent, data any) {
	e.room = roomID
	e.event = event
	e.data = data
	e.calls++
}

type stubAcknowledger struct {
	acked    bool
	nacked   bool
	rejected bool
}

func (a *stubAcknowledger) Ack(uint64, bool) error  { a.acked = true; return nil }
func (a *stubAcknowledger) Nack(uint64, bool, bool) error {
	a.nacked = true
	return nil
}
func (a *stubAcknowledger) Reject(uint64, bool) error { a.rejected = true; return nil }

func newTestConsumer(emitter Emitter) *TripConsumer {
	return NewTripConsumer(nil, emitter, logger.InitLogger("test", logger.LevelError))
}

func TestHandleMessageEmitsIntoRoom(t *testing.T) {
	emitter := &recordingEmitter{}
	c := newTestConsumer(emitter)
	ack := &stubAcknowledger{}

	c.handleMessage(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"room": "trip_42", "event": "trip:status", "data": {"tripId": "42", "status": "COMPLETED"}}`),
	})

	if emitter.calls != 1 {
		t.Fatalf("expected exactly one emit, got %d", emitter.calls)
	}
	if emitter.room != "trip_42" {
		t.Errorf("expected room trip_42, got %s", emitter.room)
	}
	if emitter.event != types.EventTripStatus {
		t.Errorf("expected trip:status, got %s", emitter.event)
	}
	if !ack.acked {
		t.Error("handled messages must be acked")
	}
}

func TestHandleMessageNacksGarbage(t *testing.T) {
	emitter := &recordingEmitter{}
	c := newTestConsumer(emitter)
	ack := &stubAcknowledger{}

	c.handleMessage(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`not json`),
	})

	if emitter.calls != 0 {
		t.Error("garbage must not be emitted")
	}
	if !ack.nacked {
		t.Error("undecodable messages must be nacked")
	}
}

func TestHandleMessageRejectsIncomplete(t *testing.T) {
	emitter := &recordingEmitter{}
	c := newTestConsumer(emitter)
	ack := &stubAcknowledger{}

	c.handleMessage(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"event": "trip:status"}`),
	})

	if emitter.calls != 0 {
		t.Error("messages without a room must not be emitted")
	}
	if !ack.rejected {
		t.Error("incomplete messages must be rejected")
	}
}
