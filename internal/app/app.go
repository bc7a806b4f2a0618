package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/uberspeed/dispatch/config"
	"github.com/uberspeed/dispatch/internal/adapter/http/server"
	repo "github.com/uberspeed/dispatch/internal/adapter/postgres"
	rabbitconsumer "github.com/uberspeed/dispatch/internal/adapter/rabbit"
	"github.com/uberspeed/dispatch/internal/dispatch"
	"github.com/uberspeed/dispatch/internal/service/auth"
	"github.com/uberspeed/dispatch/pkg/logger"
	"github.com/uberspeed/dispatch/pkg/postgres"
	"github.com/uberspeed/dispatch/pkg/rabbit"
)

type App struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	consumer   *rabbitconsumer.TripConsumer
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires the dispatch service together: database, auth gate,
// connection state, event router, optional broker consumer, HTTP server.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	userRepo := repo.NewUserRepo(postgresDB.Pool)
	gate := auth.NewGate(cfg.Auth.JWTSecret, userRepo, log)

	registry := dispatch.NewRegistry()
	rooms := dispatch.NewRoomTable(log)
	presence := dispatch.NewPresenceTracker()
	router := dispatch.NewRouter(registry, rooms, presence, log)

	httpServer, err := server.New(cfg, gate, router, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	app := &App{
		postgresDB: postgresDB,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}

	// The broker is optional: without it the service still dispatches
	// everything that arrives over websocket.
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to setup rabbitmq", err)
			return nil, err
		}

		app.rabbitMQ = rabbitMQ
		app.consumer = rabbitconsumer.NewTripConsumer(rabbitMQ, router, log)
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Consume(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "dispatch service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "dispatch service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close rabbitmq connection", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
