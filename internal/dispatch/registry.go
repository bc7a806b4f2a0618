package dispatch

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps a user id to its current connection. When a user opens a
// second connection the newer one wins for presence and targeted lookups; the
// older socket stays routable through whatever rooms it joined until it
// disconnects on its own.
type Registry struct {
	mu      sync.RWMutex
	current map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		current: make(map[string]*Client),
	}
}

// Register records the connection as the user's current one, superseding any
// prior mapping. The superseded connection is not closed.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current[c.user.ID] = c
}

// Unregister removes the mapping only when connID still is the user's current
// connection. A stale disconnect arriving after a newer connection replaced it
// must not clobber the fresh registration.
func (r *Registry) Unregister(userID string, connID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.current[userID]
	if !ok || cur.id != connID {
		return false
	}
	delete(r.current, userID)
	return true
}

// Lookup returns the user's current connection, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.current[userID]
	return c, ok
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.current[userID]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.current)
}
