package dispatch

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
	"github.com/uberspeed/dispatch/pkg/metrics"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

type room struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*Client
}

// RoomTable maps room ids to member sets. Join and leave are idempotent.
// Broadcast delivers to the membership snapshot taken at call time; a member
// joining mid-broadcast sees nothing, a member that already left gets nothing.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[string]*room

	log logger.Logger
}

func NewRoomTable(log logger.Logger) *RoomTable {
	return &RoomTable{
		rooms: make(map[string]*room),
		log:   log,
	}
}

// Join adds the connection to the room, creating the room on first member.
// Joining a room twice is a no-op.
func (t *RoomTable) Join(ctx context.Context, roomID string, c *Client) {
	if !c.trackJoin(roomID) {
		return
	}

	t.mu.Lock()
	rm, ok := t.rooms[roomID]
	if !ok {
		rm = &room{members: make(map[uuid.UUID]*Client)}
		t.rooms[roomID] = rm
		metrics.RoomsGauge.WithLabelValues(serviceName).Set(float64(len(t.rooms)))
	}
	rm.mu.Lock()
	rm.members[c.id] = c
	rm.mu.Unlock()
	t.mu.Unlock()

	t.log.Debug(wrap.WithConnID(ctx, c.id.String()), "joined room", "room", roomID, "user_id", c.user.ID)
}

// Leave removes the connection from the room. Leaving a room the connection
// never joined is a no-op. Empty rooms are dropped from the table.
func (t *RoomTable) Leave(ctx context.Context, roomID string, c *Client) {
	if !c.trackLeave(roomID) {
		return
	}

	t.mu.Lock()
	rm, ok := t.rooms[roomID]
	if ok {
		rm.mu.Lock()
		delete(rm.members, c.id)
		empty := len(rm.members) == 0
		rm.mu.Unlock()

		if empty {
			delete(t.rooms, roomID)
			metrics.RoomsGauge.WithLabelValues(serviceName).Set(float64(len(t.rooms)))
		}
	}
	t.mu.Unlock()

	t.log.Debug(wrap.WithConnID(ctx, c.id.String()), "left room", "room", roomID, "user_id", c.user.ID)
}

// Purge removes the connection from every room it belonged to in one pass.
func (t *RoomTable) Purge(ctx context.Context, c *Client) {
	for _, roomID := range c.joinedRooms() {
		t.Leave(ctx, roomID, c)
	}
}

// Broadcast fans the event out to every current member of the room, including
// the sender when it is a member. Broadcasting to a nonexistent or empty room
// is a no-op.
func (t *RoomTable) Broadcast(ctx context.Context, roomID string, event types.DispatchEvent, data any) {
	t.broadcast(ctx, roomID, nil, event, data)
}

// BroadcastExcept is Broadcast minus one connection, used for typing
// indicators where the sender must not hear its own event.
func (t *RoomTable) BroadcastExcept(ctx context.Context, roomID string, except *Client, event types.DispatchEvent, data any) {
	t.broadcast(ctx, roomID, except, event, data)
}

func (t *RoomTable) broadcast(ctx context.Context, roomID string, except *Client, event types.DispatchEvent, data any) {
	frame, err := json.Marshal(outboundEnvelope{Event: event, Data: data})
	if err != nil {
		t.log.Error(wrap.WithAction(ctx, "broadcast"), "failed to marshal event", err, "event", event.String(), "room", roomID)
		return
	}

	members := t.snapshot(roomID)
	delivered := 0

	for _, member := range members {
		if except != nil && member.id == except.id {
			continue
		}

		if err := member.enqueue(frame); err != nil {
			// one member's dead or saturated transport never fails the rest
			metrics.DeliveryFailuresTotal.WithLabelValues(serviceName).Inc()
			t.log.Warn(wrap.WithConnID(ctx, member.id.String()),
				"skipping member during broadcast",
				"room", roomID,
				"event", event.String(),
				"reason", err.Error(),
			)
			continue
		}
		delivered++
	}

	metrics.BroadcastFanout.WithLabelValues(serviceName, event.String()).Observe(float64(delivered))
}

// snapshot returns the membership set at the moment of the call.
func (t *RoomTable) snapshot(roomID string) []*Client {
	t.mu.RLock()
	rm, ok := t.rooms[roomID]
	t.mu.RUnlock()

	if !ok {
		return nil
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()

	out := make([]*Client, 0, len(rm.members))
	for _, c := range rm.members {
		out = append(out, c)
	}
	return out
}

// MemberCount returns the current number of members in the room.
func (t *RoomTable) MemberCount(roomID string) int {
	t.mu.RLock()
	rm, ok := t.rooms[roomID]
	t.mu.RUnlock()

	if !ok {
		return 0
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.members)
}
