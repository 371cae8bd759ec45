package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/propdocs/internal/adapter/utils"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/handlers"
	"github.com/akolanti/propdocs/internal/middleware"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
	// Closers run after the workers have stopped.
	Closers []io.Closer
}

// RegisterRoutes mounts the public API on r.
func RegisterRoutes(r chi.Router) {
	r.Get("/health", handlers.GetHandler)
	r.Post("/documents/ask", middleware.AskHandler)
	r.Get("/jobs/{id}", middleware.GetStatusHandler)
}

func CreateServer(listenAddr string) {
	r := utils.GetRouter()
	RegisterRoutes(r.Router)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

// ShutDownHandler waits for a signal, then drains. Exceeding
// ShutdownContextTimeout exits the process.
func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	if err := Shutdown(ctx, shutdownParams); err != nil {
		_logger.Error("Force Shut down", "error", err)
		os.Exit(1)
	}
	_logger.Info("Gracefully shut down")
}

// Shutdown stops accepting requests, lets running jobs finish, then
// releases external clients. StopExecution is closed only on success.
func Shutdown(ctx context.Context, p ShutdownParams) error {
	done := make(chan struct{})

	go func() {
		defer close(done)
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//close workers
		close(p.WorkerStop)
		p.Group.Wait()

		if p.CloseServices != nil {
			p.CloseServices()
		}
		for _, c := range p.Closers {
			if err := c.Close(); err != nil {
				_logger.Warn("closing client failed", "error", err)
			}
		}
	}()

	select {
	case <-done:
		close(p.StopExecution)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
