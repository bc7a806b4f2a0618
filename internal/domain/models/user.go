package models

import (
	"time"

	"github.com/uberspeed/dispatch/internal/domain/types"
)

// User is the identity resolved from a bearer credential at connection time.
// It stays immutable for the lifetime of the connection even if the backing
// record changes later.
type User struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      types.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
}
