package dispatch

import (
	"context"
	"testing"

	"github.com/uberspeed/dispatch/internal/domain/types"
)

func TestRoomJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	c := newTestClient(testPassenger("passenger-1", "Dana"))

	rooms.Join(ctx, "trip_42", c)
	rooms.Join(ctx, "trip_42", c)

	if got := rooms.MemberCount("trip_42"); got != 1 {
		t.Errorf("expected 1 member after double join, got %d", got)
	}
}

func TestRoomLeaveDropsEmptyRoom(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	c := newTestClient(testPassenger("passenger-1", "Dana"))

	rooms.Join(ctx, "trip_42", c)
	rooms.Leave(ctx, "trip_42", c)

	if got := rooms.MemberCount("trip_42"); got != 0 {
		t.Errorf("expected empty room, got %d members", got)
	}

	// Leaving again, or leaving a room never joined, is a no-op.
	rooms.Leave(ctx, "trip_42", c)
	rooms.Leave(ctx, "trip_777", c)
}

func TestRoomBroadcastReachesMembersOnly(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	member1 := newTestClient(testPassenger("passenger-1", "Dana"))
	member2 := newTestClient(testDriver("driver-1", "Aidos"))
	outsider := newTestClient(testDriver("driver-2", "Bekzat"))

	rooms.Join(ctx, "trip_42", member1)
	rooms.Join(ctx, "trip_42", member2)

	rooms.Broadcast(ctx, "trip_42", types.EventTripStatus, map[string]any{"status": "EN_ROUTE"})

	for _, m := range []*Client{member1, member2} {
		event, data := recvFrame(t, m)
		if event != "trip:status" {
			t.Errorf("expected trip:status, got %s", event)
		}
		if data["status"] != "EN_ROUTE" {
			t.Errorf("expected status EN_ROUTE, got %v", data["status"])
		}
	}

	assertNoFrame(t, outsider)
}

func TestRoomBroadcastExceptSkipsSender(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	sender := newTestClient(testPassenger("passenger-1", "Dana"))
	peer := newTestClient(testDriver("driver-1", "Aidos"))

	rooms.Join(ctx, "trip_42", sender)
	rooms.Join(ctx, "trip_42", peer)

	rooms.BroadcastExcept(ctx, "trip_42", sender, types.EventChatTyping, map[string]any{"isTyping": true})

	assertNoFrame(t, sender)

	event, _ := recvFrame(t, peer)
	if event != "chat:typing" {
		t.Errorf("expected chat:typing, got %s", event)
	}
}

func TestRoomBroadcastToNonexistentRoom(t *testing.T) {
	rooms := NewRoomTable(testLogger())

	// Must not panic, must not create the room.
	rooms.Broadcast(context.Background(), "trip_404", types.EventTripStatus, nil)

	if got := rooms.MemberCount("trip_404"); got != 0 {
		t.Errorf("broadcast must not create rooms, got %d members", got)
	}
}

func TestRoomBroadcastSkipsClosedMember(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	alive := newTestClient(testPassenger("passenger-1", "Dana"))
	dead := newTestClient(testDriver("driver-1", "Aidos"))

	rooms.Join(ctx, "trip_42", alive)
	rooms.Join(ctx, "trip_42", dead)

	dead.Close()

	rooms.Broadcast(ctx, "trip_42", types.EventTripStatus, map[string]any{"status": "COMPLETED"})

	event, _ := recvFrame(t, alive)
	if event != "trip:status" {
		t.Errorf("expected trip:status, got %s", event)
	}
}

func TestRoomBroadcastSkipsSaturatedMember(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())

	slow := newTestClient(testPassenger("passenger-1", "Dana"))
	slow.send = make(chan []byte, 1)
	peer := newTestClient(testDriver("driver-1", "Aidos"))

	rooms.Join(ctx, "trip_42", slow)
	rooms.Join(ctx, "trip_42", peer)

	rooms.Broadcast(ctx, "trip_42", types.EventTripStatus, map[string]any{"seq": 1})
	rooms.Broadcast(ctx, "trip_42", types.EventTripStatus, map[string]any{"seq": 2})

	// The slow member got only the first event; its saturation never blocked
	// delivery to the peer.
	_, data := recvFrame(t, slow)
	if data["seq"] != float64(1) {
		t.Errorf("expected seq 1, got %v", data["seq"])
	}
	assertNoFrame(t, slow)

	_, data = recvFrame(t, peer)
	if data["seq"] != float64(1) {
		t.Errorf("expected seq 1, got %v", data["seq"])
	}
	_, data = recvFrame(t, peer)
	if data["seq"] != float64(2) {
		t.Errorf("expected seq 2, got %v", data["seq"])
	}
}

func TestRoomPurgeRemovesAllMemberships(t *testing.T) {
	ctx := context.Background()
	rooms := NewRoomTable(testLogger())
	c := newTestClient(testDriver("driver-1", "Aidos"))
	peer := newTestClient(testPassenger("passenger-1", "Dana"))

	rooms.Join(ctx, types.RoomDriversAvailable, c)
	rooms.Join(ctx, "trip_42", c)
	rooms.Join(ctx, "trip_42", peer)

	rooms.Purge(ctx, c)

	if got := rooms.MemberCount(types.RoomDriversAvailable); got != 0 {
		t.Errorf("expected drivers_available to be empty, got %d", got)
	}
	if got := rooms.MemberCount("trip_42"); got != 1 {
		t.Errorf("expected only the peer left in trip_42, got %d", got)
	}
	if len(c.joinedRooms()) != 0 {
		t.Errorf("expected no tracked rooms after purge, got %v", c.joinedRooms())
	}
}
