// Package lifecycle coordinates subsystem startup and graceful shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdownTimeout is returned when shutdown hooks outlive the shutdown deadline.
var ErrShutdownTimeout = errors.New("shutdown timeout")

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, tracks readiness, and fans a
// single cancellation out to every shutdown hook.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	starting sync.WaitGroup
	stopping sync.WaitGroup
	ready    atomic.Bool
}

// New creates a Coordinator whose context is cancelled by Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Done is shorthand for Context().Done().
func (c *Coordinator) Done() <-chan struct{} {
	return c.ctx.Done()
}

// OnStartup runs fn in its own goroutine. WaitForStartup blocks until every
// startup hook has returned.
func (c *Coordinator) OnStartup(fn func()) {
	c.starting.Go(fn)
}

// OnShutdown runs fn in its own goroutine. Hooks block on Done before releasing
// their resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.stopping.Go(fn)
}

// Ready reports whether startup has completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks return, then marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the coordinator context and waits up to timeout for the
// shutdown hooks to finish.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.stopping.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}
