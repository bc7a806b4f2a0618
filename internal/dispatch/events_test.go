package dispatch

import (
	"errors"
	"testing"

	"github.com/uberspeed/dispatch/internal/domain/types"
)

func TestDecodeInboundUnknownEvent(t *testing.T) {
	_, err := decodeInbound(inbound("trip:teleport", `{}`))
	if !errors.Is(err, types.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestDecodeInboundMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		event   types.DispatchEvent
		payload string
	}{
		{"driver status not json", types.EventDriverStatus, `not json`},
		{"location missing lat", types.EventDriverLocation, `{"lng": 76.9}`},
		{"location missing lng", types.EventDriverLocation, `{"lat": 43.2}`},
		{"location lat wrong type", types.EventDriverLocation, `{"lat": "43.2", "lng": 76.9}`},
		{"trip join missing tripId", types.EventTripJoin, `{}`},
		{"trip accepted missing passenger", types.EventTripAccepted, `{"tripId": "42"}`},
		{"status update missing status", types.EventTripStatusUpdate, `{"tripId": "42"}`},
		{"cancel missing tripId", types.EventTripCancelled, `{"reason": "no show"}`},
		{"chat missing content", types.EventChatMessage, `{"tripId": "42"}`},
		{"typing missing tripId", types.EventChatTyping, `{"isTyping": true}`},
		{"payment confirm missing paymentId", types.EventPaymentConfirmed, `{"tripId": "42"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeInbound(inbound(tc.event, tc.payload))
			if !errors.Is(err, types.ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestDecodeInboundChatMessageDefaultsToText(t *testing.T) {
	ev, err := decodeInbound(inbound(types.EventChatMessage, `{"tripId": "42", "content": "on my way"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, ok := ev.(chatMessageEvent)
	if !ok {
		t.Fatalf("expected chatMessageEvent, got %T", ev)
	}
	if msg.MessageType != "TEXT" {
		t.Errorf("expected messageType TEXT, got %s", msg.MessageType)
	}
}

func TestDecodeInboundChatMessageKeepsExplicitType(t *testing.T) {
	ev, err := decodeInbound(inbound(types.EventChatMessage, `{"tripId": "42", "content": "geo", "messageType": "LOCATION"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg := ev.(chatMessageEvent); msg.MessageType != "LOCATION" {
		t.Errorf("expected messageType LOCATION, got %s", msg.MessageType)
	}
}

func TestDecodeInboundDriverLocationAcceptsZero(t *testing.T) {
	// 0,0 is a valid position, only absent fields are malformed
	ev, err := decodeInbound(inbound(types.EventDriverLocation, `{"lat": 0, "lng": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loc := ev.(driverLocationEvent)
	if loc.Lat != 0 || loc.Lng != 0 {
		t.Errorf("expected 0, 0, got %v, %v", loc.Lat, loc.Lng)
	}
}

func TestDecodeInboundTripRequestKeepsPayload(t *testing.T) {
	ev, err := decodeInbound(inbound(types.EventTripRequest, `{"tripId": "42", "pickup": {"lat": 43.2}, "fare": 1500}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := ev.(tripRequestEvent)
	if req.Data["tripId"] != "42" {
		t.Errorf("expected tripId to pass through, got %v", req.Data["tripId"])
	}
	if req.Data["fare"] != float64(1500) {
		t.Errorf("expected fare to pass through, got %v", req.Data["fare"])
	}
}
