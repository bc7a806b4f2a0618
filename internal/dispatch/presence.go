package dispatch

import (
	"math"
	"sync"
	"time"
)

// DriverLocation is a driver's last reported position, timestamped with
// receipt time in epoch milliseconds.
type DriverLocation struct {
	DriverID  string  `json:"driverId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

// PresenceTracker owns driver location records. It deliberately does not own
// drivers_available membership: going online/offline is an explicit signal
// handled by the router, and a location update alone never implies
// availability. The two may transiently diverge.
type PresenceTracker struct {
	mu        sync.RWMutex
	locations map[string]DriverLocation
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		locations: make(map[string]DriverLocation),
	}
}

// UpdateLocation upserts the driver's location record. Invalid coordinates are
// rejected and the update is dropped; the caller must not broadcast it.
func (p *PresenceTracker) UpdateLocation(driverID string, lat, lng float64, at time.Time) bool {
	if !validCoordinates(lat, lng) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.locations[driverID] = DriverLocation{
		DriverID:  driverID,
		Lat:       lat,
		Lng:       lng,
		Timestamp: at.UnixMilli(),
	}
	return true
}

// Remove deletes the driver's location record. Idempotent.
func (p *PresenceTracker) Remove(driverID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.locations, driverID)
}

func (p *PresenceTracker) Get(driverID string) (DriverLocation, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	loc, ok := p.locations[driverID]
	return loc, ok
}

// ActiveDrivers returns every driver with a location record.
func (p *PresenceTracker) ActiveDrivers() []DriverLocation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]DriverLocation, 0, len(p.locations))
	for _, loc := range p.locations {
		out = append(out, loc)
	}
	return out
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
