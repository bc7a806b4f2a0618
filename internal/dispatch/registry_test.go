package dispatch

import (
	"testing"
)

func TestRegistryRegisterLookup(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(testDriver("driver-1", "Aidos"))

	reg.Register(c)

	got, ok := reg.Lookup("driver-1")
	if !ok {
		t.Fatal("expected driver-1 to be registered")
	}
	if got.id != c.id {
		t.Errorf("expected conn %s, got %s", c.id, got.id)
	}
	if !reg.IsOnline("driver-1") {
		t.Error("expected driver-1 to be online")
	}
	if reg.IsOnline("driver-2") {
		t.Error("driver-2 was never registered")
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 registered user, got %d", reg.Count())
	}
}

func TestRegistryNewerConnectionWins(t *testing.T) {
	reg := NewRegistry()
	old := newTestClient(testDriver("driver-1", "Aidos"))
	fresh := newTestClient(testDriver("driver-1", "Aidos"))

	reg.Register(old)
	reg.Register(fresh)

	got, ok := reg.Lookup("driver-1")
	if !ok {
		t.Fatal("expected driver-1 to be registered")
	}
	if got.id != fresh.id {
		t.Error("expected the newer connection to be current")
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 registered user, got %d", reg.Count())
	}
}

func TestRegistryStaleUnregisterDoesNotClobber(t *testing.T) {
	reg := NewRegistry()
	old := newTestClient(testDriver("driver-1", "Aidos"))
	fresh := newTestClient(testDriver("driver-1", "Aidos"))

	reg.Register(old)
	reg.Register(fresh)

	// The old socket's disconnect arrives after the reconnect.
	if reg.Unregister("driver-1", old.id) {
		t.Error("stale unregister must report no removal")
	}
	if !reg.IsOnline("driver-1") {
		t.Fatal("fresh registration must survive a stale unregister")
	}

	if !reg.Unregister("driver-1", fresh.id) {
		t.Error("current unregister must report removal")
	}
	if reg.IsOnline("driver-1") {
		t.Error("driver-1 must be offline after its current connection unregisters")
	}
}

func TestRegistryUnregisterUnknownUser(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient(testPassenger("passenger-1", "Dana"))

	if reg.Unregister("passenger-1", c.id) {
		t.Error("unregistering a user that never registered must be a no-op")
	}
}
