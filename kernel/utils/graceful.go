package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

type shutdownHook struct {
	name string
	fn   func() error
}

// GracefulShutdown tears components down in reverse registration order
type GracefulShutdown struct {
	mu      sync.Mutex
	hooks   []shutdownHook
	timeout time.Duration
	logger  *Logger
	done    bool
}

// NewGracefulShutdown creates a new graceful shutdown manager
func NewGracefulShutdown(timeout time.Duration, logger *Logger) *GracefulShutdown {
	if logger == nil {
		logger = DefaultLogger("shutdown")
	}

	return &GracefulShutdown{
		timeout: timeout,
		logger:  logger,
	}
}

// Register registers a named shutdown function
func (g *GracefulShutdown) Register(name string, fn func() error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.hooks = append(g.hooks, shutdownHook{name: name, fn: fn})
}

// Hooks returns the registered component names in registration order
func (g *GracefulShutdown) Hooks() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, len(g.hooks))
	for i, h := range g.hooks {
		names[i] = h.name
	}
	return names
}

// Shutdown runs every registered hook once, last registered first. Hook
// errors are logged and joined; the call returns early when the timeout expires.
func (g *GracefulShutdown) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	if g.done {
		g.mu.Unlock()
		return nil
	}
	g.done = true
	hooks := append([]shutdownHook(nil), g.hooks...)
	g.mu.Unlock()

	g.logger.Info("Starting graceful shutdown", Int("components", len(hooks)))

	shutdownCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			hook := hooks[i]
			if err := hook.fn(); err != nil {
				g.logger.Error("Shutdown hook failed", String("component", hook.name), Err(err))
				errs = append(errs, WrapError(err, hook.name))
			}
		}
		result <- errors.Join(errs...)
	}()

	select {
	case err := <-result:
		g.logger.Info("Graceful shutdown complete")
		return err
	case <-shutdownCtx.Done():
		g.logger.Warn("Graceful shutdown timed out")
		return TimeoutError("shutdown")
	}
}
