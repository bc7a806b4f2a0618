package handler

import (
	"context"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/dispatch"
)

// TokenGate resolves a bearer credential to a user before the upgrade.
type TokenGate interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// Dispatcher is the part of the event router the HTTP layer talks to.
type Dispatcher interface {
	Connect(ctx context.Context, c *dispatch.Client)
	Disconnect(ctx context.Context, c *dispatch.Client)
	HandleEvent(ctx context.Context, c *dispatch.Client, env dispatch.Envelope)
	ActiveDrivers() []dispatch.DriverLocation
	IsUserOnline(userID string) bool
}
