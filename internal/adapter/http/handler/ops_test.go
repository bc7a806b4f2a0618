package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uberspeed/dispatch/internal/dispatch"
	"github.com/uberspeed/dispatch/pkg/logger"
)

type opsDispatcher struct {
	drivers []dispatch.DriverLocation
	online  map[string]bool
}

func (s *opsDispatcher) Connect(context.Context, *dispatch.Client)    {}
func (s *opsDispatcher) Disconnect(context.Context, *dispatch.Client) {}
func (s *opsDispatcher) HandleEvent(context.Context, *dispatch.Client, dispatch.Envelope) {
}
func (s *opsDispatcher) ActiveDrivers() []dispatch.DriverLocation { return s.drivers }
func (s *opsDispatcher) IsUserOnline(userID string) bool          { return s.online[userID] }

func TestOpsActiveDrivers(t *testing.T) {
	h := NewOps(&opsDispatcher{
		drivers: []dispatch.DriverLocation{
			{DriverID: "driver-1", Lat: 43.2, Lng: 76.9, Timestamp: 1700000000000},
		},
	}, logger.InitLogger("test", logger.LevelError))

	rec := httptest.NewRecorder()
	h.ActiveDrivers(rec, httptest.NewRequest(http.MethodGet, "/internal/drivers/active", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Drivers []dispatch.DriverLocation `json:"drivers"`
		Count   int                       `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Count != 1 || len(body.Drivers) != 1 {
		t.Fatalf("expected one driver, got %+v", body)
	}
	if body.Drivers[0].DriverID != "driver-1" {
		t.Errorf("unexpected driver: %+v", body.Drivers[0])
	}
}

func TestOpsUserOnline(t *testing.T) {
	h := NewOps(&opsDispatcher{
		online: map[string]bool{"user-1": true},
	}, logger.InitLogger("test", logger.LevelError))

	req := httptest.NewRequest(http.MethodGet, "/internal/users/user-1/online", nil)
	req.SetPathValue("user_id", "user-1")

	rec := httptest.NewRecorder()
	h.UserOnline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		UserID string `json:"user_id"`
		Online bool   `json:"online"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.UserID != "user-1" || !body.Online {
		t.Errorf("unexpected body: %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/internal/users/ghost/online", nil)
	req.SetPathValue("user_id", "ghost")

	rec = httptest.NewRecorder()
	h.UserOnline(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Online {
		t.Error("ghost must not be reported online")
	}
}
