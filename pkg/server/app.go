package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"SemiDash/internal/usecase"
	"SemiDash/pkg/config"
	xhttp "SemiDash/pkg/http"
	applogger "SemiDash/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	warmer     *usecase.Warmer
	closers    []io.Closer
}

// New creates a new App instance with all dependencies. warmer may be nil.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	warmer *usecase.Warmer,
	closers ...io.Closer,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		warmer:     warmer,
		closers:    closers,
	}
}

// AddCloser registers a resource released on shutdown, in reverse order.
func (a *App) AddCloser(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and warmer and blocks until ctx is done
// or the server fails.
func (a *App) RunContext(ctx context.Context) error {
	errCh := a.httpServer.Start()

	if a.warmer != nil && a.cfg.Warmer.Enabled {
		if err := a.warmer.Start(a.cfg.Warmer.Cron); err != nil {
			a.log.Error("warmer start error", applogger.Error(err))
		} else {
			go a.warmer.RunNow()
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok && err != nil {
			a.log.Error("http server error", applogger.Error(err))
			runErr = err
		}
	}

	a.shutdown()
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	if a.warmer != nil && a.cfg.Warmer.Enabled {
		a.warmer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
