package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
)

// inboundEvent is the closed set of events a client may emit. Decoding the
// wire envelope into one of these variants up front keeps the router's
// dispatch exhaustive: a new event type does not compile until every switch
// handles it.
type inboundEvent interface {
	inbound()
}

type (
	driverStatusEvent struct {
		Online bool
	}

	driverLocationEvent struct {
		Lat    float64
		Lng    float64
		TripID string
	}

	tripJoinEvent struct {
		TripID string
	}

	tripLeaveEvent struct {
		TripID string
	}

	tripRequestEvent struct {
		// the request payload is forwarded to drivers as-is, plus a timestamp
		Data map[string]any
	}

	tripAcceptedEvent struct {
		TripID      string
		PassengerID string
		DriverInfo  json.RawMessage
	}

	tripStatusUpdateEvent struct {
		TripID string
		Status string
	}

	tripCancelledEvent struct {
		TripID      string
		CancelledBy string
		Reason      string
	}

	chatMessageEvent struct {
		TripID      string
		Content     string
		MessageType string
	}

	chatTypingEvent struct {
		TripID   string
		IsTyping bool
	}

	paymentCreatedEvent struct {
		TripID      string
		PaymentInfo map[string]any
	}

	paymentConfirmedEvent struct {
		TripID    string
		PaymentID string
	}
)

func (driverStatusEvent) inbound()     {}
func (driverLocationEvent) inbound()   {}
func (tripJoinEvent) inbound()         {}
func (tripLeaveEvent) inbound()        {}
func (tripRequestEvent) inbound()      {}
func (tripAcceptedEvent) inbound()     {}
func (tripStatusUpdateEvent) inbound() {}
func (tripCancelledEvent) inbound()    {}
func (chatMessageEvent) inbound()      {}
func (chatTypingEvent) inbound()       {}
func (paymentCreatedEvent) inbound()   {}
func (paymentConfirmedEvent) inbound() {}

// decodeInbound validates and converts a wire envelope into a typed event.
// Missing required fields and type mismatches are malformed payloads; the
// caller drops the single event and keeps the connection open.
func decodeInbound(env Envelope) (inboundEvent, error) {
	malformed := func(err error) error {
		return fmt.Errorf("%w: %s: %v", types.ErrMalformedPayload, env.Event, err)
	}

	switch env.Event {
	case types.EventDriverStatus:
		var p models.DriverStatusPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		return driverStatusEvent{Online: p.Online}, nil

	case types.EventDriverLocation:
		var p models.DriverLocationPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.Lat == nil || p.Lng == nil {
			return nil, malformed(fmt.Errorf("lat and lng are required"))
		}
		return driverLocationEvent{Lat: *p.Lat, Lng: *p.Lng, TripID: p.TripID}, nil

	case types.EventTripJoin, types.EventTripLeave:
		var p models.TripRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" {
			return nil, malformed(fmt.Errorf("tripId is required"))
		}
		if env.Event == types.EventTripJoin {
			return tripJoinEvent{TripID: p.TripID}, nil
		}
		return tripLeaveEvent{TripID: p.TripID}, nil

	case types.EventTripRequest:
		var p map[string]any
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		return tripRequestEvent{Data: p}, nil

	case types.EventTripAccepted:
		var p models.TripAcceptedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" || p.PassengerID == "" {
			return nil, malformed(fmt.Errorf("tripId and passengerId are required"))
		}
		return tripAcceptedEvent{TripID: p.TripID, PassengerID: p.PassengerID, DriverInfo: p.DriverInfo}, nil

	case types.EventTripStatusUpdate:
		var p models.TripStatusUpdatePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" || p.Status == "" {
			return nil, malformed(fmt.Errorf("tripId and status are required"))
		}
		return tripStatusUpdateEvent{TripID: p.TripID, Status: p.Status}, nil

	case types.EventTripCancelled:
		var p models.TripCancelledPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" {
			return nil, malformed(fmt.Errorf("tripId is required"))
		}
		return tripCancelledEvent{TripID: p.TripID, CancelledBy: p.CancelledBy, Reason: p.Reason}, nil

	case types.EventChatMessage:
		var p models.ChatMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" || p.Content == "" {
			return nil, malformed(fmt.Errorf("tripId and content are required"))
		}
		if p.MessageType == "" {
			p.MessageType = types.MessageText.String()
		}
		return chatMessageEvent{TripID: p.TripID, Content: p.Content, MessageType: p.MessageType}, nil

	case types.EventChatTyping:
		var p models.ChatTypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" {
			return nil, malformed(fmt.Errorf("tripId is required"))
		}
		return chatTypingEvent{TripID: p.TripID, IsTyping: p.IsTyping}, nil

	case types.EventPaymentCreated:
		var p models.PaymentCreatedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" {
			return nil, malformed(fmt.Errorf("tripId is required"))
		}
		return paymentCreatedEvent{TripID: p.TripID, PaymentInfo: p.PaymentInfo}, nil

	case types.EventPaymentConfirmed:
		var p models.PaymentConfirmedPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, malformed(err)
		}
		if p.TripID == "" || p.PaymentID == "" {
			return nil, malformed(fmt.Errorf("tripId and paymentId are required"))
		}
		return paymentConfirmedEvent{TripID: p.TripID, PaymentID: p.PaymentID}, nil

	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownEvent, env.Event)
	}
}
