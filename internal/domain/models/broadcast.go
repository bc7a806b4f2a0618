package models

import "encoding/json"

// BroadcastMessage is what the REST layer publishes to the broker after it
// persisted a state change that connected clients should hear about.
type BroadcastMessage struct {
	Room          string          `json:"room"`
	Event         string          `json:"event"`
	Data          json.RawMessage `json:"data"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}
