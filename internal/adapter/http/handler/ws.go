package handler

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/uberspeed/dispatch/config"
	"github.com/uberspeed/dispatch/internal/dispatch"
	"github.com/uberspeed/dispatch/pkg/limiter"
	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

// Socket upgrades authenticated clients to websocket connections and runs
// their read loop until the peer goes away.
type Socket struct {
	gate       TokenGate
	dispatcher Dispatcher
	limiter    *limiter.IPRateLimiter

	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewSocket(gate TokenGate, dispatcher Dispatcher, lim *limiter.IPRateLimiter, cfg config.WebSocketConfig, log logger.Logger) *Socket {
	return &Socket{
		gate:       gate,
		dispatcher: dispatcher,
		limiter:    lim,
		cfg:        cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Mobile clients connect from app webviews with arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// HandleWebSocket - authenticates the bearer token and upgrades the request.
// Every rejection happens before the upgrade, so a refused client never
// appears in the registry or any room.
func (s *Socket) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_handshake")

	if !s.limiter.Allow(clientIP(r)) {
		errorResponse(w, http.StatusTooManyRequests, "too many connection attempts")
		return
	}

	user, err := s.gate.Verify(ctx, extractToken(r))
	if err != nil {
		s.log.Warn(ctx, "rejected websocket handshake", "reason", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	client := dispatch.NewClient(user, conn, s.cfg.SendBuffer, s.log)

	s.dispatcher.Connect(ctx, client)
	defer func() {
		s.dispatcher.Disconnect(ctx, client)
		client.Close()
	}()

	go client.WritePump()

	client.ReadLoop(ctx, s.cfg.MaxMessageBytes, func(ctx context.Context, env dispatch.Envelope) {
		s.dispatcher.HandleEvent(ctx, client, env)
	})
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the token query parameter for clients that cannot set headers on a
// websocket handshake.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return r.URL.Query().Get("token")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
