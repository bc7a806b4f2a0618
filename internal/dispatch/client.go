package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

const (
	// timeout for a single write to the peer
	writeWait = 10 * time.Second

	// maximum time to wait for a pong before considering the peer gone
	pongWait = 60 * time.Second

	// ping interval, must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	defaultSendBuffer = 256
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event types.DispatchEvent `json:"event"`
	Data  json.RawMessage     `json:"data,omitempty"`
}

type outboundEnvelope struct {
	Event types.DispatchEvent `json:"event"`
	Data  any                 `json:"data,omitempty"`
}

// Client is one live authenticated websocket connection. The identity resolved
// at handshake time stays attached for the connection's whole life.
type Client struct {
	id   uuid.UUID
	user *models.User

	conn *websocket.Conn
	send chan []byte

	// rooms this connection is currently joined to, maintained by RoomTable
	roomsMu sync.Mutex
	rooms   map[string]struct{}

	closed    chan struct{}
	closeOnce sync.Once

	log logger.Logger
}

func NewClient(user *models.User, conn *websocket.Conn, sendBuffer int, log logger.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	return &Client{
		id:     uuid.New(),
		user:   user,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		rooms:  make(map[string]struct{}),
		closed: make(chan struct{}),
		log:    log,
	}
}

func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) User() *models.User {
	return c.user
}

// Send marshals the event into the wire envelope and queues it for delivery.
// It never blocks: a full queue or a closed connection returns an error and the
// event is not delivered to this member.
func (c *Client) Send(event types.DispatchEvent, data any) error {
	b, err := json.Marshal(outboundEnvelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	return c.enqueue(b)
}

func (c *Client) enqueue(frame []byte) error {
	select {
	case <-c.closed:
		return types.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.closed:
		return types.ErrConnectionClosed
	default:
		return types.ErrSendQueueFull
	}
}

// Close releases the connection. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// WritePump drains the send queue to the peer and keeps the connection alive
// with pings. It exits when the connection closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// ReadLoop reads inbound frames and hands them to handle, one at a time, in
// arrival order. A malformed frame drops that single event; the connection
// stays open. ReadLoop returns when the transport closes.
func (c *Client) ReadLoop(ctx context.Context, maxMessageBytes int64, handle func(ctx context.Context, env Envelope)) {
	defer c.Close()

	if maxMessageBytes > 0 {
		c.conn.SetReadLimit(maxMessageBytes)
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug(ctx, "websocket read failed", "err", err.Error())
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
			c.log.Warn(wrap.WithAction(ctx, "decode_event"), "dropping malformed frame")
			continue
		}

		handle(ctx, env)
	}
}

// trackJoin records room membership on the connection. Returns false when the
// connection was already a member.
func (c *Client) trackJoin(roomID string) bool {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()

	if _, ok := c.rooms[roomID]; ok {
		return false
	}
	c.rooms[roomID] = struct{}{}
	return true
}

// trackLeave removes room membership on the connection. Returns false when the
// connection was not a member.
func (c *Client) trackLeave(roomID string) bool {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()

	if _, ok := c.rooms[roomID]; !ok {
		return false
	}
	delete(c.rooms, roomID)
	return true
}

func (c *Client) joinedRooms() []string {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()

	out := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		out = append(out, roomID)
	}
	return out
}

func (c *Client) inRoom(roomID string) bool {
	c.roomsMu.Lock()
	defer c.roomsMu.Unlock()

	_, ok := c.rooms[roomID]
	return ok
}
