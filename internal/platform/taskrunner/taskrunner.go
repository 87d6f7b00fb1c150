// Package taskrunner is the in-process async execution backend. Submission
// is fire-and-forget: the task runs on its own goroutine and reports its
// outcome through whatever state it persists (e.g. a backfill job row).
// The core pipeline stays synchronous and is merely invoked from here.
package taskrunner

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a deferred unit of work. The context is cancelled when the runner
// shuts down.
type Task func(ctx context.Context)

// Runner executes submitted tasks on dedicated goroutines and tracks them
// for graceful shutdown.
type Runner struct {
	logger *slog.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a Runner.
func New(logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit schedules the task for immediate asynchronous execution. Returns
// false when the runner is already shut down.
func (r *Runner) Submit(name string, task Task) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("Task panicked", slog.String("task", name), slog.Any("panic", p))
			}
		}()

		start := time.Now()
		r.logger.Info("Task started", slog.String("task", name))
		task(r.ctx)
		r.logger.Info("Task finished", slog.String("task", name), slog.Duration("duration", time.Since(start)))
	}()
	return true
}

// Shutdown cancels the runner context and waits for running tasks to
// finish, up to the given timeout.
func (r *Runner) Shutdown(timeout time.Duration) {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		r.logger.Warn("Shutdown timed out with tasks still running", slog.Duration("timeout", timeout))
	}
}
