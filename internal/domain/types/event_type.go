package types

// DispatchEvent names an event on the websocket wire. Inbound and outbound
// events share the namespace; the direction is part of the protocol contract.
type DispatchEvent string

func (e DispatchEvent) String() string {
	return string(e)
}

// Inbound (client -> server)
const (
	EventDriverStatus     DispatchEvent = "driver:status"
	EventDriverLocation   DispatchEvent = "driver:location"
	EventTripJoin         DispatchEvent = "trip:join"
	EventTripLeave        DispatchEvent = "trip:leave"
	EventTripRequest      DispatchEvent = "trip:request"
	EventTripAccepted     DispatchEvent = "trip:accepted"
	EventTripStatusUpdate DispatchEvent = "trip:status_update"
	EventTripCancelled    DispatchEvent = "trip:cancelled"
	EventChatMessage      DispatchEvent = "chat:message"
	EventChatTyping       DispatchEvent = "chat:typing"
	EventPaymentCreated   DispatchEvent = "payment:created"
	EventPaymentConfirmed DispatchEvent = "payment:confirmed"
)

// Outbound (server -> client)
const (
	EventTripNew            DispatchEvent = "trip:new"
	EventTripStatus         DispatchEvent = "trip:status"
	EventTripDriverLocation DispatchEvent = "trip:driver_location"
)
