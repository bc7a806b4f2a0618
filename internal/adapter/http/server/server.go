package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/uberspeed/dispatch/config"
	"github.com/uberspeed/dispatch/internal/adapter/http/handler"
	"github.com/uberspeed/dispatch/internal/adapter/http/middleware"
	"github.com/uberspeed/dispatch/pkg/limiter"
	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
	"golang.org/x/time/rate"
)

const serviceName = "dispatch"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	socket *handler.Socket
	ops    *handler.Ops
}

func New(
	cfg config.Config,
	gate handler.TokenGate,
	dispatcher handler.Dispatcher,
	log logger.Logger,
) (*API, error) {
	if gate == nil {
		return nil, errors.New("token gate is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	handshakeLimiter := limiter.NewIPRateLimiter(
		rate.Limit(cfg.WebSocket.HandshakeRate),
		cfg.WebSocket.HandshakeBurst,
	)

	routes := &handlers{
		health: handler.NewHealth(serviceName, log),
		socket: handler.NewSocket(gate, dispatcher, handshakeLimiter, cfg.WebSocket, log),
		ops:    handler.NewOps(dispatcher, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(log),
		addr:   fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		cfg:    cfg,
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(serviceName)(a.m.Logging(a.mux))))
}
