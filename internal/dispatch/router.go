package dispatch

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
	"github.com/uberspeed/dispatch/pkg/metrics"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

// serviceName labels every metric emitted by the dispatch core.
const serviceName = "dispatch"

// Router is the protocol state machine for inbound event streams. One Router
// serves all connections; per-connection ordering comes from each connection's
// read loop calling HandleEvent sequentially.
type Router struct {
	registry *Registry
	rooms    *RoomTable
	presence *PresenceTracker

	log logger.Logger
}

func NewRouter(registry *Registry, rooms *RoomTable, presence *PresenceTracker, log logger.Logger) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		presence: presence,
		log:      log,
	}
}

// Connect registers an authenticated connection and joins it to its role room
// and personal room. Must be called exactly once, before the read loop starts.
func (r *Router) Connect(ctx context.Context, c *Client) {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action: types.ActionWSConnected,
		UserID: c.user.ID,
		ConnID: c.id.String(),
	})

	r.registry.Register(c)
	r.rooms.Join(ctx, types.RoleRoom(c.user.Role), c)
	r.rooms.Join(ctx, types.UserRoom(c.user.ID), c)

	metrics.WebSocketConnectionsGauge.WithLabelValues(serviceName).Inc()

	r.log.Info(ctx, "user connected", "name", c.user.Name, "role", c.user.Role.String())
}

// Disconnect tears down all state for a closed connection: registry entry
// (only if still current), every room membership, and driver presence. Other
// connections never observe a partially cleaned-up peer.
func (r *Router) Disconnect(ctx context.Context, c *Client) {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action: types.ActionWSDisconnected,
		UserID: c.user.ID,
		ConnID: c.id.String(),
	})

	wasAvailable := c.inRoom(types.RoomDriversAvailable)

	r.registry.Unregister(c.user.ID, c.id)
	r.rooms.Purge(ctx, c)

	if c.user.Role == types.RoleDriver {
		r.presence.Remove(c.user.ID)
	}
	if wasAvailable {
		metrics.DriversOnlineGauge.WithLabelValues(serviceName).Dec()
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(serviceName).Dec()

	r.log.Info(ctx, "user disconnected", "name", c.user.Name)
}

// HandleEvent routes one inbound event. Malformed payloads drop the event and
// keep the connection open; unknown event types are ignored with a warning.
// No event performs role checks beyond the identity established at connection
// time, matching the wire protocol the mobile clients already speak.
func (r *Router) HandleEvent(ctx context.Context, c *Client, env Envelope) {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		UserID: c.user.ID,
		ConnID: c.id.String(),
	})

	ev, err := decodeInbound(env)
	if err != nil {
		outcome := "dropped"
		if errors.Is(err, types.ErrUnknownEvent) {
			outcome = "unknown"
		}
		metrics.RecordInboundEvent(serviceName, env.Event.String(), outcome)
		r.log.Warn(ctx, "dropping inbound event", "event", env.Event.String(), "reason", err.Error())
		return
	}

	switch ev := ev.(type) {
	case driverStatusEvent:
		r.handleDriverStatus(ctx, c, ev)
	case driverLocationEvent:
		r.handleDriverLocation(ctx, c, ev)
	case tripJoinEvent:
		r.rooms.Join(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), c)
	case tripLeaveEvent:
		r.rooms.Leave(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), c)
	case tripRequestEvent:
		r.handleTripRequest(ctx, c, ev)
	case tripAcceptedEvent:
		r.handleTripAccepted(ctx, c, ev)
	case tripStatusUpdateEvent:
		r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventTripStatus, models.TripStatusBroadcast{
			TripID:    ev.TripID,
			Status:    ev.Status,
			Timestamp: now(),
		})
	case tripCancelledEvent:
		r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventTripCancelled, models.TripCancelledBroadcast{
			TripID:      ev.TripID,
			CancelledBy: ev.CancelledBy,
			Reason:      ev.Reason,
			Timestamp:   now(),
		})
	case chatMessageEvent:
		// echoed to the sender too: the sender is a member of the trip room
		r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventChatMessage, models.ChatMessageBroadcast{
			TripID:      ev.TripID,
			SenderID:    c.user.ID,
			SenderName:  c.user.Name,
			SenderRole:  c.user.Role.String(),
			Content:     ev.Content,
			MessageType: ev.MessageType,
			Timestamp:   now(),
		})
	case chatTypingEvent:
		r.rooms.BroadcastExcept(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), c, types.EventChatTyping, models.ChatTypingBroadcast{
			UserID:   c.user.ID,
			UserName: c.user.Name,
			IsTyping: ev.IsTyping,
		})
	case paymentCreatedEvent:
		r.handlePaymentCreated(ctx, c, ev)
	case paymentConfirmedEvent:
		r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventPaymentConfirmed, models.PaymentConfirmedBroadcast{
			TripID:      ev.TripID,
			PaymentID:   ev.PaymentID,
			ConfirmedBy: c.user.ID,
			Timestamp:   now(),
		})
	}

	metrics.RecordInboundEvent(serviceName, env.Event.String(), "ok")
}

func (r *Router) handleDriverStatus(ctx context.Context, c *Client, ev driverStatusEvent) {
	if ev.Online {
		if !c.inRoom(types.RoomDriversAvailable) {
			metrics.DriversOnlineGauge.WithLabelValues(serviceName).Inc()
		}
		r.rooms.Join(ctx, types.RoomDriversAvailable, c)
		r.log.Info(ctx, "driver is now online", "name", c.user.Name)
		return
	}

	if c.inRoom(types.RoomDriversAvailable) {
		metrics.DriversOnlineGauge.WithLabelValues(serviceName).Dec()
	}
	r.rooms.Leave(ctx, types.RoomDriversAvailable, c)
	r.presence.Remove(c.user.ID)
	r.log.Info(ctx, "driver is now offline", "name", c.user.Name)
}

func (r *Router) handleDriverLocation(ctx context.Context, c *Client, ev driverLocationEvent) {
	at := time.Now()

	// A location update is accepted even without a prior online announcement,
	// but it never implies drivers_available membership on its own.
	if !r.presence.UpdateLocation(c.user.ID, ev.Lat, ev.Lng, at) {
		r.log.Warn(ctx, "dropping location update with invalid coordinates", "lat", ev.Lat, "lng", ev.Lng)
		return
	}

	if ev.TripID == "" {
		return
	}

	r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventTripDriverLocation, models.DriverLocationBroadcast{
		DriverID:  c.user.ID,
		Lat:       ev.Lat,
		Lng:       ev.Lng,
		Timestamp: at.UnixMilli(),
	})
}

func (r *Router) handleTripRequest(ctx context.Context, c *Client, ev tripRequestEvent) {
	// forward the request payload untouched, fan out to every available driver
	data := make(map[string]any, len(ev.Data)+1)
	maps.Copy(data, ev.Data)
	data["timestamp"] = now()

	r.rooms.Broadcast(ctx, types.RoomDriversAvailable, types.EventTripNew, data)
}

func (r *Router) handleTripAccepted(ctx context.Context, c *Client, ev tripAcceptedEvent) {
	ctx = wrap.WithTripID(ctx, ev.TripID)

	// targeted delivery through the passenger's personal room
	r.rooms.Broadcast(ctx, types.UserRoom(ev.PassengerID), types.EventTripAccepted, models.TripAcceptedBroadcast{
		TripID:    ev.TripID,
		Driver:    ev.DriverInfo,
		Timestamp: now(),
	})
}

func (r *Router) handlePaymentCreated(ctx context.Context, c *Client, ev paymentCreatedEvent) {
	data := make(map[string]any, len(ev.PaymentInfo)+2)
	maps.Copy(data, ev.PaymentInfo)
	data["tripId"] = ev.TripID
	data["timestamp"] = now()

	r.rooms.Broadcast(wrap.WithTripID(ctx, ev.TripID), types.TripRoom(ev.TripID), types.EventPaymentCreated, data)
}

// Emit broadcasts an event into a room on behalf of an external caller. This
// is the seam the REST layer and the broker consumer use after persisting a
// state change.
func (r *Router) Emit(ctx context.Context, roomID string, event types.DispatchEvent, data any) {
	r.rooms.Broadcast(ctx, roomID, event, data)
}

// ActiveDrivers exposes driver presence for the ops endpoints.
func (r *Router) ActiveDrivers() []DriverLocation {
	return r.presence.ActiveDrivers()
}

// IsUserOnline reports whether the user currently has a registered connection.
func (r *Router) IsUserOnline(userID string) bool {
	return r.registry.IsOnline(userID)
}

func now() int64 {
	return time.Now().UnixMilli()
}
