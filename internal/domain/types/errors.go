package types

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrConnectionClosed = errors.New("connection closed")
	ErrSendQueueFull    = errors.New("send queue full")

	ErrMalformedPayload = errors.New("malformed event payload")
	ErrUnknownEvent     = errors.New("unknown event type")

	ErrNotFound = errors.New("requested item not found")
)
