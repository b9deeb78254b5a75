// Package server runs the HTTP entry point and the queue consumer side by
// side and shuts both down together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds how long in-flight HTTP requests may drain.
const DefaultShutdownTimeout = 30 * time.Second

// Config for the runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// OnListen, if set, receives the bound address once the listener is open.
	OnListen func(addr net.Addr)
}

// Consumer is a long-running background component.
type Consumer interface {
	Run(ctx context.Context) error
}

// Runner manages the HTTP server and optional consumer lifecycle.
type Runner struct {
	config   Config
	handler  http.Handler
	consumer Consumer
	logger   *slog.Logger
}

// NewRunner creates a new runner. consumer may be nil.
func NewRunner(cfg Config, handler http.Handler, consumer Consumer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Runner{
		config:   cfg,
		handler:  handler,
		consumer: consumer,
		logger:   logger.With("component", "runner"),
	}
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	if r.config.OnListen != nil {
		r.config.OnListen(ln.Addr())
	}

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		r.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("http shutdown incomplete", "error", err)
		}
		return nil
	})

	if r.consumer != nil {
		g.Go(func() error {
			if err := r.consumer.Run(ctx); err != nil {
				return fmt.Errorf("queue consumer: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
