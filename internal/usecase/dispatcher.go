package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher runs best-effort work after a request has been answered. Tasks
// get a context detached from the request's cancellation but bounded by a
// timeout. Wait drains in-flight tasks on shutdown.
type Dispatcher struct {
	wg      sync.WaitGroup
	timeout time.Duration
	log     *zap.Logger
}

func NewDispatcher(timeout time.Duration, log *zap.Logger) *Dispatcher {
	return &Dispatcher{timeout: timeout, log: log.Named("dispatcher")}
}

func (d *Dispatcher) Go(parent context.Context, name string, task func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("task panicked", zap.String("task", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
		defer cancel()
		task(ctx)
	}()
}

// Wait blocks until every task finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
