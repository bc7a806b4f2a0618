package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.InitLogger("test", logger.LevelError)
}

func newTestClient(user *models.User) *Client {
	return &Client{
		id:     uuid.New(),
		user:   user,
		send:   make(chan []byte, 32),
		rooms:  make(map[string]struct{}),
		closed: make(chan struct{}),
		log:    testLogger(),
	}
}

func testDriver(id, name string) *models.User {
	return &models.User{ID: id, Name: name, Role: types.RoleDriver}
}

func testPassenger(id, name string) *models.User {
	return &models.User{ID: id, Name: name, Role: types.RolePassenger}
}

func inbound(event types.DispatchEvent, payload string) Envelope {
	return Envelope{Event: event, Data: json.RawMessage(payload)}
}

// recvFrame pops the next queued outbound frame and decodes its envelope.
func recvFrame(t *testing.T, c *Client) (string, map[string]any) {
	t.Helper()

	select {
	case frame := <-c.send:
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("malformed outbound frame %s: %v", frame, err)
		}

		var data map[string]any
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("malformed outbound payload %s: %v", env.Data, err)
			}
		}
		return env.Event, data
	default:
		t.Fatal("expected a queued frame, send queue is empty")
		return "", nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()

	select {
	case frame := <-c.send:
		t.Fatalf("unexpected outbound frame: %s", frame)
	default:
	}
}
