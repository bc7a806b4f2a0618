package models

import "encoding/json"

// Inbound payloads (client -> server). Field names follow the mobile client's
// wire format, which is camelCase.

type DriverStatusPayload struct {
	Online bool `json:"online"`
}

type DriverLocationPayload struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	TripID string   `json:"tripId,omitempty"`
}

type TripRoomPayload struct {
	TripID string `json:"tripId"`
}

type TripAcceptedPayload struct {
	TripID      string          `json:"tripId"`
	PassengerID string          `json:"passengerId"`
	DriverInfo  json.RawMessage `json:"driverInfo"`
}

type TripStatusUpdatePayload struct {
	TripID string `json:"tripId"`
	Status string `json:"status"`
}

type TripCancelledPayload struct {
	TripID      string `json:"tripId"`
	CancelledBy string `json:"cancelledBy"`
	Reason      string `json:"reason,omitempty"`
}

type ChatMessagePayload struct {
	TripID      string `json:"tripId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType,omitempty"`
}

type ChatTypingPayload struct {
	TripID   string `json:"tripId"`
	IsTyping bool   `json:"isTyping"`
}

type PaymentCreatedPayload struct {
	TripID      string         `json:"tripId"`
	PaymentInfo map[string]any `json:"paymentInfo"`
}

type PaymentConfirmedPayload struct {
	TripID    string `json:"tripId"`
	PaymentID string `json:"paymentId"`
}

// Outbound payloads (server -> client).

type DriverLocationBroadcast struct {
	DriverID  string  `json:"driverId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

type TripAcceptedBroadcast struct {
	TripID    string          `json:"tripId"`
	Driver    json.RawMessage `json:"driver"`
	Timestamp int64           `json:"timestamp"`
}

type TripStatusBroadcast struct {
	TripID    string `json:"tripId"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type TripCancelledBroadcast struct {
	TripID      string `json:"tripId"`
	CancelledBy string `json:"cancelledBy"`
	Reason      string `json:"reason,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

type ChatMessageBroadcast struct {
	TripID      string `json:"tripId"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName"`
	SenderRole  string `json:"senderRole"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
	Timestamp   int64  `json:"timestamp"`
}

// ChatTypingBroadcast intentionally carries no timestamp; typing indicators
// are transient and the client ignores stale ones anyway.
type ChatTypingBroadcast struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

type PaymentConfirmedBroadcast struct {
	TripID      string `json:"tripId"`
	PaymentID   string `json:"paymentId"`
	ConfirmedBy string `json:"confirmedBy"`
	Timestamp   int64  `json:"timestamp"`
}
