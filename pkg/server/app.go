package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "SynapseFund/internal/middleware"
	"SynapseFund/internal/service/events"
	"SynapseFund/internal/usecase"
	pkgcache "SynapseFund/pkg/cache"
	"SynapseFund/pkg/config"
	xhttp "SynapseFund/pkg/http"
	applogger "SynapseFund/pkg/logger"
	"SynapseFund/pkg/queue"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the route groups of the HTTP surface.
type Handlers struct {
	groups []xhttp.Handler
}

// NewHandlers creates the bundle.
func NewHandlers(groups ...xhttp.Handler) *Handlers {
	return &Handlers{groups: groups}
}

// RegisterRoutes registers every group on the Echo instance.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	for _, g := range h.groups {
		g.RegisterRoutes(e)
	}
}

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handlers   *Handlers
	pipe       *mid.EventPipeline
	hub        *events.Hub
	jobs       *queue.Pool
	cache      pkgcache.Service
	cycle      *usecase.RecommendationRefreshCycle
	machine    *usecase.ExplorationStateMachine
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handlers *Handlers,
	pipe *mid.EventPipeline,
	hub *events.Hub,
	jobs *queue.Pool,
	cache pkgcache.Service,
	cycle *usecase.RecommendationRefreshCycle,
	machine *usecase.ExplorationStateMachine,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handlers: handlers,
		pipe:     pipe,
		hub:      hub,
		jobs:     jobs,
		cache:    cache,
		cycle:    cycle,
		machine:  machine,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.pipe.Start()

	// Populate the recommendation slot so the first GET has data.
	a.cycle.Refresh()

	a.httpServer = xhttp.NewServer(a.handlers,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsEndpoint(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithLogger(a.log),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.pipe.Stop()

	if err := a.hub.Close(); err != nil {
		a.log.Warn("hub close error", applogger.Error(err))
	}

	if err := a.jobs.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("job pool shutdown error", applogger.Error(err))
	}

	if err := a.machine.Close(); err != nil {
		a.log.Warn("exploration close error", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
